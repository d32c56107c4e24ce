// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package providers

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/config"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

// NewEmbedder builds the configured embedding backend behind a breaker.
// It returns nil when embeddings are disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEmbedder(cfg config.ProviderConfig, res config.ResilienceConfig, logger zerolog.Logger) (similarity.TextEmbedder, error) {
	var next Embedder
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderOllama:
		next = NewOllama(cfg.Model, logger,
			WithOllamaURL(cfg.BaseURL),
			WithOllamaDimensions(cfg.Dimensions),
			WithOllamaTimeout(cfg.Timeout),
			WithOllamaRetries(cfg.MaxRetries))
	case config.ProviderOpenAI:
		next = NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Dimensions, cfg.Timeout, cfg.MaxRetries, logger)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	return NewResilientEmbedder(next, res, logger), nil
}

// NewGenerator builds the configured text generation backend behind a
// breaker. It returns nil when generation is disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGenerator(cfg config.ProviderConfig, res config.ResilienceConfig, logger zerolog.Logger) (similarity.TextGenerator, error) {
	var next Generator
	switch cfg.Provider {
	case config.ProviderNone, "":
		return nil, nil
	case config.ProviderOllama:
		next = NewOllama(cfg.Model, logger,
			WithOllamaURL(cfg.BaseURL),
			WithOllamaTimeout(cfg.Timeout),
			WithOllamaRetries(cfg.MaxRetries))
	case config.ProviderOpenAI:
		next = NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model, 0, cfg.Timeout, cfg.MaxRetries, logger)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
	return NewResilientGenerator(next, res, logger), nil
}
