// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// Package main is the entry point for the Mediagraph server.
//
// Mediagraph serves similarity graphs over a media library: neighbors of a
// title, multi-hop graphs around it, semantic search, and graphs connecting
// search results or hand-picked sources.
//
// # Startup Order
//
//  1. Configuration: defaults, config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Database: DuckDB holding titles, embeddings and watch history
//  4. Providers: embedding and text generation behind circuit breakers
//  5. Engine: similarity engine with validator and diversification
//  6. Supervisor: HTTP server and cache maintenance under suture
//
// # Configuration
//
// Frequently used environment variables:
//
//	DUCKDB_PATH=/data/mediagraph.duckdb
//	HTTP_PORT=8484
//	EMBEDDING_PROVIDER=ollama   EMBEDDING_MODEL=nomic-embed-text
//	GENERATION_PROVIDER=ollama  GENERATION_MODEL=llama3.1
//	LOG_LEVEL=info              LOG_FORMAT=json
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests for up to HTTP_SHUTDOWN_TIMEOUT before the database is
// checkpointed and closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"

	_ "github.com/tomtom215/mediagraph/docs" // Import generated swagger docs
	"github.com/tomtom215/mediagraph/internal/api"
	"github.com/tomtom215/mediagraph/internal/app"
	"github.com/tomtom215/mediagraph/internal/config"
	"github.com/tomtom215/mediagraph/internal/logging"
	"github.com/tomtom215/mediagraph/internal/metrics"
	"github.com/tomtom215/mediagraph/internal/middleware"
	"github.com/tomtom215/mediagraph/internal/supervisor"
	"github.com/tomtom215/mediagraph/internal/supervisor/services"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "mediagraph",
	})
	logger := logging.Logger()
	metrics.AppInfo.WithLabelValues(Version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", Version).
		Str("db_path", cfg.Database.Path).
		Str("embedding_provider", cfg.Embedding.Provider).
		Str("generation_provider", cfg.Generation.Provider).
		Msg("Starting Mediagraph")

	a, err := app.New(cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing application")
		}
	}()

	handler := api.NewHandler(a.Engine, a.DB, Version, logger)
	routerCfg := api.RouterConfigFromServer(cfg.Server)
	routerCfg.SlowRequestThreshold = middleware.DefaultSlowThreshold

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(handler, routerCfg, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(a.MaintenanceService())
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Mediagraph stopped")
}
