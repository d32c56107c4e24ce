// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/metrics"
)

// NeighborFinder pairs a center item with its nearest neighbors and the
// reasons they are connected.
type NeighborFinder struct {
	metadata MetadataStore
	index    EmbeddingIndex
	cfg      Config
	logger   zerolog.Logger
}

// NewNeighborFinder creates a finder over the given stores.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewNeighborFinder(metadata MetadataStore, index EmbeddingIndex, cfg Config, logger zerolog.Logger) *NeighborFinder {
	return &NeighborFinder{
		metadata: metadata,
		index:    index,
		cfg:      cfg,
		logger:   logger.With().Str("component", "neighbors").Logger(),
	}
}

// FindSimilar returns the center item and up to limit ranked neighbors of the
// same content type. It fails only when the center cannot be loaded.
func (f *NeighborFinder) FindSimilar(ctx context.Context, id string, t ContentType, limit int) (*SimilarResult, error) {
	if id == "" || !t.Valid() {
		return nil, fmt.Errorf("find similar %q/%q: %w", t, id, ErrInvalidRequest)
	}
	limit = f.cfg.clampLimit(limit)

	center, err := f.loadCenter(ctx, id, t)
	if err != nil {
		return nil, err
	}

	result := &SimilarResult{Center: *center, Connections: []Connection{}}

	model := f.activeModel(ctx)
	if model == "" {
		return result, nil
	}

	result.Connections = f.neighbors(ctx, *center, model, limit)
	return result, nil
}

// loadCenter fetches the center item, wrapping lookup failures.
func (f *NeighborFinder) loadCenter(ctx context.Context, id string, t ContentType) (*Item, error) {
	item, err := f.metadata.GetItem(ctx, id, t)
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", t, id, err)
	}
	if item == nil {
		return nil, fmt.Errorf("load %s %s: %w", t, id, ErrNotFound)
	}
	return item, nil
}

// activeModel returns the active embedding model, or "" when none is usable.
func (f *NeighborFinder) activeModel(ctx context.Context) string {
	model, err := f.index.ActiveModel(ctx)
	if err != nil {
		f.logger.Warn().Err(err).Msg("active model lookup failed")
		metrics.RecordFallback("neighbors", "model")
		return ""
	}
	if model == "" {
		f.logger.Debug().Msg("no active embedding model")
	}
	return model
}

// neighbors returns up to k ranked neighbors of item under model. Index
// failures degrade to an empty slice.
func (f *NeighborFinder) neighbors(ctx context.Context, item Item, model string, k int) []Connection {
	if k <= 0 {
		return []Connection{}
	}

	scored, err := f.index.NearestToItem(ctx, item.ID, item.Type, model, k)
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			f.logger.Warn().Err(err).Str("item_id", item.ID).Msg("nearest neighbor query failed")
		}
		metrics.RecordFallback("neighbors", "index")
		return []Connection{}
	}

	conns := make([]Connection, 0, len(scored))
	for _, s := range scored {
		if s.Item.ID == item.ID {
			continue
		}
		conns = append(conns, Connection{
			Item:       s.Item,
			Similarity: s.Similarity,
			Reasons:    ComputeReasons(item, s.Item, s.Similarity),
		})
		if len(conns) == k {
			break
		}
	}
	return conns
}
