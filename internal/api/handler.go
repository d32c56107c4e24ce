// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/logging"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

// GraphEngine is the subset of *similarity.Engine the handlers call.
type GraphEngine interface {
	FindSimilar(ctx context.Context, id string, t similarity.ContentType, limit int) (*similarity.SimilarResult, error)
	BuildGraph(ctx context.Context, req similarity.GraphRequest) (*similarity.GraphData, error)
	Search(ctx context.Context, query string, opts similarity.SearchOptions) (*similarity.SearchResult, error)
	SearchGraph(ctx context.Context, query string, search similarity.SearchOptions, synth similarity.SynthesisOptions) (*similarity.GraphData, error)
	UserContext(ctx context.Context, userID string, t similarity.ContentType) (similarity.Preferences, similarity.WatchedSet)
	BuildSourceGraph(ctx context.Context, req similarity.SourceGraphRequest) (*similarity.GraphData, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for API handlers
type Handler struct {
	engine    GraphEngine
	db        Pinger
	version   string
	startTime time.Time
	logger    zerolog.Logger
}

// NewHandler creates the API handlers. db may be nil, in which case the
// readiness probe always fails.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine GraphEngine, db Pinger, version string, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		db:        db,
		version:   version,
		startTime: time.Now(),
		logger:    logger.With().Str("component", "api").Logger(),
	}
}

// requestLogger returns the handler logger enriched with request ids.
func (h *Handler) requestLogger(r *http.Request) *zerolog.Logger {
	l := logging.Enrich(r.Context(), h.logger.With()).Logger()
	return &l
}
