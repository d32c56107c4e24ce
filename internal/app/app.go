// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// Package app assembles the similarity engine and its collaborators from
// configuration. Both the HTTP server and the CLI build on it.
package app

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/cache"
	"github.com/tomtom215/mediagraph/internal/config"
	"github.com/tomtom215/mediagraph/internal/database"
	"github.com/tomtom215/mediagraph/internal/providers"
	"github.com/tomtom215/mediagraph/internal/similarity"
	"github.com/tomtom215/mediagraph/internal/similarity/curation"
	"github.com/tomtom215/mediagraph/internal/supervisor/services"
)

// Cache names used for metrics labels.
const (
	CacheCollections = "collection_sizes"
	CacheValidator   = "validator_decisions"
)

// validatorKeyPrefix namespaces validator decisions in badger.
const validatorKeyPrefix = "validator:"

// App holds the assembled components. Validator and Badger are nil when
// disabled.
type App struct {
	Config    *config.Config
	DB        *database.DB
	Engine    *similarity.Engine
	Validator *curation.Validator
	Badger    *badger.DB

	logger zerolog.Logger
}

// New opens the database, builds the AI providers and wires the engine.
// On error everything opened so far is closed again.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, logger: logger}

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	if err := a.wireEngine(); err != nil {
		if closeErr := a.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("Error closing after failed startup")
		}
		return nil, err
	}
	return a, nil
}

func (a *App) wireEngine() error {
	cfg := a.Config

	embedder, err := providers.NewEmbedder(cfg.Embedding, cfg.Resilience, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	generator, err := providers.NewGenerator(cfg.Generation, cfg.Resilience, a.logger)
	if err != nil {
		return fmt.Errorf("failed to create generation provider: %w", err)
	}

	deps := similarity.Dependencies{
		Metadata:    a.DB,
		Embeddings:  a.DB,
		Embedder:    embedder,
		Generator:   generator,
		Preferences: a.DB,
		Watched:     a.DB,
	}

	if cfg.Similarity.ValidationEnabled {
		var store *cache.BadgerStore
		if cfg.Cache.BadgerPath != "" {
			bdb, err := cache.OpenBadger(cfg.Cache.BadgerPath)
			if err != nil {
				return fmt.Errorf("failed to open validator cache: %w", err)
			}
			a.Badger = bdb
			store = cache.NewBadgerStore(bdb, validatorKeyPrefix, cfg.Cache.ValidatorTTL)
		}

		vcfg := curation.DefaultValidatorConfig()
		vcfg.AcceptSimilarity = cfg.Similarity.ValidatorAcceptSimilarity
		vcfg.CacheSize = cfg.Cache.ValidatorSize
		vcfg.CacheTTL = cfg.Cache.ValidatorTTL
		a.Validator = curation.NewValidator(generator, store, vcfg, a.logger)
		deps.Validator = a.Validator
	}

	// Bubble breaking needs both phrase generation and phrase embedding.
	if cfg.Similarity.DiversifyEnabled && generator != nil && embedder != nil {
		dcfg := curation.DefaultDiverseConfig()
		dcfg.MaxPhrases = cfg.Similarity.DiversePhrases
		deps.Diverse = curation.NewDiverseFinder(generator, embedder, a.DB, dcfg, a.logger)
	}

	engine, err := similarity.NewEngine(deps, cfg.Similarity.EngineConfig(cfg.Cache), a.logger)
	if err != nil {
		return fmt.Errorf("failed to create similarity engine: %w", err)
	}
	a.Engine = engine

	a.logger.Info().
		Bool("embedder", embedder != nil).
		Bool("generator", generator != nil).
		Bool("validator", deps.Validator != nil).
		Bool("diversify", deps.Diverse != nil).
		Bool("persistent_validator_cache", a.Badger != nil).
		Msg("Similarity engine initialized")
	return nil
}

// Caches returns the in-memory caches that need periodic pruning.
func (a *App) Caches() map[string]services.ExpiringCache {
	caches := map[string]services.ExpiringCache{
		CacheCollections: a.Engine.CollectionSizes(),
	}
	if a.Validator != nil {
		caches[CacheValidator] = a.Validator.Decisions()
	}
	return caches
}

// ValueLog returns the badger store for value log GC, or nil.
func (a *App) ValueLog() services.ValueLogCollector {
	if a.Badger == nil {
		return nil
	}
	return a.Badger
}

// MaintenanceService returns the cache maintenance service for the
// supervisor's data layer.
func (a *App) MaintenanceService() *services.CacheMaintenanceService {
	return services.NewCacheMaintenanceService(a.Caches(), a.ValueLog(), a.Config.Cache.MaintenanceInterval, a.logger)
}

// Close releases badger and then the database. It is safe to call on a
// partially built App.
func (a *App) Close() error {
	var errs []error
	if a.Badger != nil {
		if err := a.Badger.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close badger: %w", err))
		}
		a.Badger = nil
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
