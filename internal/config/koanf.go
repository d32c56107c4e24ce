// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/mediagraph/internal/similarity"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mediagraph/config.yaml",
	"/etc/mediagraph/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
func defaultConfig() *Config {
	engine := similarity.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8484,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second, // AI synthesis can be slow
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/mediagraph.duckdb",
			MaxMemory: "1GB",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Similarity: SimilarityConfig{
			DefaultLimit:              engine.DefaultLimit,
			MaxLimit:                  engine.MaxLimit,
			MaxDepth:                  engine.MaxDepth,
			MaxNodesDepth2:            engine.MaxNodesDepth2,
			MaxNodesDeep:              engine.MaxNodesDeep,
			OversampleFactor:          engine.OversampleFactor,
			BubbleThreshold:           engine.BubbleThreshold,
			DiverseEdgeSimilarity:     engine.DiverseEdgeSimilarity,
			AIEdgeSimilarity:          engine.AIEdgeSimilarity,
			BuildTimeout:              engine.BuildTimeout,
			SynthMaxItems:             engine.SynthMaxItems,
			SynthMaxEdges:             engine.SynthMaxEdges,
			FallbackPairItems:         engine.FallbackPairItems,
			ConnectivityFloor:         engine.ConnectivityFloor,
			SourceConcurrency:         engine.SourceConcurrency,
			PerSourceLimit:            engine.PerSourceLimit,
			ValidationEnabled:         true,
			ValidatorAcceptSimilarity: 0.75,
			DiversifyEnabled:          true,
			DiversePhrases:            3,
		},
		Embedding: ProviderConfig{
			Provider:   ProviderOllama,
			BaseURL:    "http://localhost:11434",
			Model:      "nomic-embed-text",
			Dimensions: 0,
			Timeout:    30 * time.Second,
			MaxRetries: 2,
		},
		Generation: ProviderConfig{
			Provider:   ProviderOllama,
			BaseURL:    "http://localhost:11434",
			Model:      "llama3.1",
			Timeout:    60 * time.Second,
			MaxRetries: 1,
		},
		Resilience: ResilienceConfig{
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      30 * time.Second,
			BreakerMinRequests:  5,
			BreakerFailureRatio: 0.6,
			RateLimitPerSecond:  10,
			RateLimitBurst:      20,
		},
		Cache: CacheConfig{
			CollectionSize:      engine.CollectionCacheSize,
			CollectionTTL:       engine.CollectionCacheTTL,
			ValidatorSize:       5000,
			ValidatorTTL:        24 * time.Hour,
			BadgerPath:          "",
			MaintenanceInterval: 5 * time.Minute,
		},
	}
}

// Defaults returns the built-in configuration without reading files or
// the environment.
func Defaults() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration using Koanf with layered sources.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables
//  2. Config file (if found)
//  3. Default values
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Environment variables, e.g. DUCKDB_PATH -> database.path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_reqs",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"environment":           "server.environment",

	// Database
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"duckdb_read_only":  "database.read_only",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Similarity engine
	"similarity_default_limit":       "similarity.default_limit",
	"similarity_max_limit":           "similarity.max_limit",
	"similarity_max_depth":           "similarity.max_depth",
	"similarity_max_nodes_depth2":    "similarity.max_nodes_depth2",
	"similarity_max_nodes_deep":      "similarity.max_nodes_deep",
	"similarity_bubble_threshold":    "similarity.bubble_threshold",
	"similarity_build_timeout":       "similarity.build_timeout",
	"similarity_connectivity_floor":  "similarity.connectivity_floor",
	"similarity_source_concurrency":  "similarity.source_concurrency",
	"similarity_per_source_limit":    "similarity.per_source_limit",
	"similarity_validation_enabled":  "similarity.validation_enabled",
	"similarity_validator_threshold": "similarity.validator_accept_similarity",
	"similarity_diversify_enabled":   "similarity.diversify_enabled",
	"similarity_diverse_phrases":     "similarity.diverse_phrases",

	// Embedding provider
	"embedding_provider":    "embedding.provider",
	"embedding_url":         "embedding.base_url",
	"embedding_model":       "embedding.model",
	"embedding_api_key":     "embedding.api_key",
	"embedding_dimensions":  "embedding.dimensions",
	"embedding_timeout":     "embedding.timeout",
	"embedding_max_retries": "embedding.max_retries",

	// Generation provider
	"generation_provider":    "generation.provider",
	"generation_url":         "generation.base_url",
	"generation_model":       "generation.model",
	"generation_api_key":     "generation.api_key",
	"generation_timeout":     "generation.timeout",
	"generation_max_retries": "generation.max_retries",

	// Resilience
	"breaker_max_requests":  "resilience.breaker_max_requests",
	"breaker_interval":      "resilience.breaker_interval",
	"breaker_timeout":       "resilience.breaker_timeout",
	"breaker_min_requests":  "resilience.breaker_min_requests",
	"breaker_failure_ratio": "resilience.breaker_failure_ratio",
	"provider_rate_limit":   "resilience.rate_limit_per_second",
	"provider_rate_burst":   "resilience.rate_limit_burst",

	// Cache
	"collection_cache_size":      "cache.collection_size",
	"collection_cache_ttl":       "cache.collection_ttl",
	"validator_cache_size":       "cache.validator_size",
	"validator_cache_ttl":        "cache.validator_ttl",
	"badger_path":                "cache.badger_path",
	"cache_maintenance_interval": "cache.maintenance_interval",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return "" so koanf skips them.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
