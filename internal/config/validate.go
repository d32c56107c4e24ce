// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	engine := c.Similarity.EngineConfig(c.Cache)

	return errors.Join(
		c.validateServer(),
		c.validateDatabase(),
		c.validateLogging(),
		engine.Validate(),
		c.validateSimilarityExtras(),
		validateProvider("embedding", c.Embedding),
		validateProvider("generation", c.Generation),
		c.validateResilience(),
		c.validateCache(),
	)
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !c.Server.RateLimitDisabled && (c.Server.RateLimitReqs <= 0 || c.Server.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSimilarityExtras() error {
	s := c.Similarity
	if s.ValidatorAcceptSimilarity < 0 || s.ValidatorAcceptSimilarity > 1 {
		return fmt.Errorf("similarity.validator_accept_similarity must be in [0, 1]")
	}
	if s.DiversifyEnabled && s.DiversePhrases < 1 {
		return fmt.Errorf("similarity.diverse_phrases must be positive when diversification is enabled")
	}
	return nil
}

func validateProvider(section string, p ProviderConfig) error {
	switch p.Provider {
	case ProviderNone, "":
		return nil
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("%s.provider must be ollama, openai or none, got %q", section, p.Provider)
	}

	if err := validateHTTPURL(p.BaseURL, section+".base_url"); err != nil {
		return err
	}
	if p.Model == "" {
		return fmt.Errorf("%s.model is required when %s.provider=%s", section, section, p.Provider)
	}
	if p.Provider == ProviderOpenAI && p.APIKey == "" {
		return fmt.Errorf("%s.api_key is required for the openai provider", section)
	}
	if p.Dimensions < 0 || p.MaxRetries < 0 || p.Timeout < 0 {
		return fmt.Errorf("%s dimensions, max_retries and timeout must not be negative", section)
	}
	return nil
}

func (c *Config) validateResilience() error {
	r := c.Resilience
	if r.BreakerFailureRatio <= 0 || r.BreakerFailureRatio > 1 {
		return fmt.Errorf("resilience.breaker_failure_ratio must be in (0, 1]")
	}
	if r.BreakerTimeout <= 0 {
		return fmt.Errorf("resilience.breaker_timeout must be positive")
	}
	if r.RateLimitPerSecond < 0 {
		return fmt.Errorf("resilience.rate_limit_per_second must not be negative")
	}
	if r.RateLimitPerSecond > 0 && r.RateLimitBurst < 1 {
		return fmt.Errorf("resilience.rate_limit_burst must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.ValidatorSize < 0 || c.Cache.CollectionSize < 0 {
		return fmt.Errorf("cache sizes must not be negative")
	}
	if c.Cache.MaintenanceInterval <= 0 {
		return fmt.Errorf("cache.maintenance_interval must be positive")
	}
	return nil
}

// validateHTTPURL validates that a URL is a base http(s) URL. A path is
// allowed since OpenAI-compatible gateways are often mounted under one.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
