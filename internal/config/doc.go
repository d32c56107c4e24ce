// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

/*
Package config provides centralized configuration management for Mediagraph.

Configuration is layered with koanf, lowest to highest precedence:

 1. Struct defaults from defaultConfig()
 2. An optional YAML file (CONFIG_PATH, then config.yaml, config.yml,
    /etc/mediagraph/config.yaml, /etc/mediagraph/config.yml)
 3. Environment variables mapped through an explicit table

Unmapped environment variables are ignored so unrelated process state never
leaks into the configuration.

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts, CORS and rate limiting
  - DatabaseConfig: DuckDB file and tuning
  - LoggingConfig: zerolog level and format
  - SimilarityConfig: graph engine tunables
  - ProviderConfig: embedding and text generation backends
  - ResilienceConfig: circuit breaker and provider rate limits
  - CacheConfig: collection size cache, validator decision cache, badger

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8484)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Database:
  - DUCKDB_PATH (default: /data/mediagraph.duckdb)
  - DUCKDB_MAX_MEMORY, DUCKDB_THREADS, DUCKDB_READ_ONLY

Providers:
  - EMBEDDING_PROVIDER: ollama, openai or none (default: ollama)
  - EMBEDDING_URL, EMBEDDING_MODEL, EMBEDDING_API_KEY, EMBEDDING_DIMENSIONS
  - GENERATION_PROVIDER, GENERATION_URL, GENERATION_MODEL, GENERATION_API_KEY

Usage:

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}
	engineCfg := cfg.Similarity.EngineConfig(cfg.Cache)
*/
package config
