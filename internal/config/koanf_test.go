// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8484 {
		t.Errorf("Server.Port = %d, want 8484", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("Server.CORSOrigins = %v, want [*]", cfg.Server.CORSOrigins)
	}
	if cfg.Database.Path != "/data/mediagraph.duckdb" {
		t.Errorf("Database.Path = %q, want /data/mediagraph.duckdb", cfg.Database.Path)
	}
	if cfg.Similarity.DefaultLimit != 12 || cfg.Similarity.MaxNodesDeep != 45 {
		t.Errorf("Similarity limits = %d/%d, want 12/45", cfg.Similarity.DefaultLimit, cfg.Similarity.MaxNodesDeep)
	}
	if cfg.Embedding.Provider != ProviderOllama {
		t.Errorf("Embedding.Provider = %q, want ollama", cfg.Embedding.Provider)
	}
	if cfg.Cache.CollectionTTL != time.Hour {
		t.Errorf("Cache.CollectionTTL = %v, want 1h", cfg.Cache.CollectionTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "server.cors_origins"},
		{"DUCKDB_PATH", "database.path"},
		{"LOG_LEVEL", "logging.level"},
		{"SIMILARITY_MAX_DEPTH", "similarity.max_depth"},
		{"SIMILARITY_VALIDATOR_THRESHOLD", "similarity.validator_accept_similarity"},
		{"EMBEDDING_URL", "embedding.base_url"},
		{"GENERATION_API_KEY", "generation.api_key"},
		{"PROVIDER_RATE_LIMIT", "resilience.rate_limit_per_second"},
		{"BADGER_PATH", "cache.badger_path"},
		{"lowercase_log_level", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SIMILARITY_BUILD_TIMEOUT", "5s")
	t.Setenv("GENERATION_PROVIDER", "none")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Similarity.BuildTimeout != 5*time.Second {
		t.Errorf("Similarity.BuildTimeout = %v, want 5s", cfg.Similarity.BuildTimeout)
	}
	if cfg.Generation.Enabled() {
		t.Error("Generation should be disabled")
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7000
database:
  path: /tmp/media.duckdb
similarity:
  max_depth: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("DUCKDB_PATH", "/tmp/override.duckdb")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000 from file", cfg.Server.Port)
	}
	if cfg.Similarity.MaxDepth != 2 {
		t.Errorf("Similarity.MaxDepth = %d, want 2 from file", cfg.Similarity.MaxDepth)
	}
	if cfg.Database.Path != "/tmp/override.duckdb" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
}

func TestLoadWithKoanf_InvalidFails(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("EMBEDDING_PROVIDER", "cohere")

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("LoadWithKoanf() accepted an unknown provider")
	}
}
