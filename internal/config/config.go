// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/mediagraph/internal/similarity"
)

// Provider backends.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Logging    LoggingConfig    `koanf:"logging"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Embedding  ProviderConfig   `koanf:"embedding"`
	Generation ProviderConfig   `koanf:"generation"`
	Resilience ResilienceConfig `koanf:"resilience"`
	Cache      CacheConfig      `koanf:"cache"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	Environment       string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default
	ReadOnly  bool   `koanf:"read_only"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// SimilarityConfig mirrors the graph engine tunables plus the switches for
// its optional collaborators.
type SimilarityConfig struct {
	DefaultLimit          int           `koanf:"default_limit"`
	MaxLimit              int           `koanf:"max_limit"`
	MaxDepth              int           `koanf:"max_depth"`
	MaxNodesDepth2        int           `koanf:"max_nodes_depth2"`
	MaxNodesDeep          int           `koanf:"max_nodes_deep"`
	OversampleFactor      int           `koanf:"oversample_factor"`
	BubbleThreshold       float64       `koanf:"bubble_threshold"`
	DiverseEdgeSimilarity float64       `koanf:"diverse_edge_similarity"`
	AIEdgeSimilarity      float64       `koanf:"ai_edge_similarity"`
	BuildTimeout          time.Duration `koanf:"build_timeout"`
	SynthMaxItems         int           `koanf:"synth_max_items"`
	SynthMaxEdges         int           `koanf:"synth_max_edges"`
	FallbackPairItems     int           `koanf:"fallback_pair_items"`
	ConnectivityFloor     float64       `koanf:"connectivity_floor"`
	SourceConcurrency     int           `koanf:"source_concurrency"`
	PerSourceLimit        int           `koanf:"per_source_limit"`

	// ValidationEnabled turns on the connection validator for expansion edges.
	ValidationEnabled bool `koanf:"validation_enabled"`

	// ValidatorAcceptSimilarity accepts ambiguous pairs when no generator is configured.
	ValidatorAcceptSimilarity float64 `koanf:"validator_accept_similarity"`

	// DiversifyEnabled turns on AI bubble breaking.
	DiversifyEnabled bool `koanf:"diversify_enabled"`

	// DiversePhrases is the number of search phrases requested per diversification.
	DiversePhrases int `koanf:"diverse_phrases"`
}

// EngineConfig converts the section into the engine configuration.
func (s SimilarityConfig) EngineConfig(c CacheConfig) similarity.Config {
	return similarity.Config{
		DefaultLimit:          s.DefaultLimit,
		MaxLimit:              s.MaxLimit,
		MaxDepth:              s.MaxDepth,
		MaxNodesDepth2:        s.MaxNodesDepth2,
		MaxNodesDeep:          s.MaxNodesDeep,
		OversampleFactor:      s.OversampleFactor,
		BubbleThreshold:       s.BubbleThreshold,
		DiverseEdgeSimilarity: s.DiverseEdgeSimilarity,
		AIEdgeSimilarity:      s.AIEdgeSimilarity,
		BuildTimeout:          s.BuildTimeout,
		SynthMaxItems:         s.SynthMaxItems,
		SynthMaxEdges:         s.SynthMaxEdges,
		FallbackPairItems:     s.FallbackPairItems,
		ConnectivityFloor:     s.ConnectivityFloor,
		SourceConcurrency:     s.SourceConcurrency,
		PerSourceLimit:        s.PerSourceLimit,
		CollectionCacheSize:   c.CollectionSize,
		CollectionCacheTTL:    c.CollectionTTL,
	}
}

// ProviderConfig configures an embedding or text generation backend.
type ProviderConfig struct {
	// Provider is ollama, openai or none.
	Provider   string        `koanf:"provider"`
	BaseURL    string        `koanf:"base_url"`
	Model      string        `koanf:"model"`
	APIKey     string        `koanf:"api_key"`
	Dimensions int           `koanf:"dimensions"` // embedding only, 0 skips the check
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`
}

// Enabled reports whether a backend is configured.
func (p ProviderConfig) Enabled() bool {
	return p.Provider != "" && p.Provider != ProviderNone
}

// ResilienceConfig holds circuit breaker and rate limit settings for the
// AI providers.
type ResilienceConfig struct {
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"` // half-open probes
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
	RateLimitPerSecond  float64       `koanf:"rate_limit_per_second"` // 0 = unlimited
	RateLimitBurst      int           `koanf:"rate_limit_burst"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	CollectionSize int           `koanf:"collection_size"`
	CollectionTTL  time.Duration `koanf:"collection_ttl"`
	ValidatorSize  int           `koanf:"validator_size"`
	ValidatorTTL   time.Duration `koanf:"validator_ttl"`

	// BadgerPath persists validator decisions. Empty keeps them in memory only.
	BadgerPath string `koanf:"badger_path"`

	MaintenanceInterval time.Duration `koanf:"maintenance_interval"`
}
