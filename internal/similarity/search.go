// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/metrics"
)

// maxQueryLength bounds the text sent to the embedder.
const maxQueryLength = 500

// SearchEngine runs free-text semantic search over the embedding index.
type SearchEngine struct {
	index    EmbeddingIndex
	embedder TextEmbedder
	cfg      Config
	logger   zerolog.Logger
}

// NewSearchEngine creates a search engine. A nil embedder makes every
// search return empty results.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSearchEngine(index EmbeddingIndex, embedder TextEmbedder, cfg Config, logger zerolog.Logger) *SearchEngine {
	return &SearchEngine{
		index:    index,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger.With().Str("component", "search").Logger(),
	}
}

// Search embeds query once and returns up to opts.Limit hits ordered by
// descending similarity. When two types are searched the limit is split
// ceil/floor between them in the order given. Missing models and embedder
// failures return an empty result, not an error.
func (e *SearchEngine) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	result := &SearchResult{Query: query, Results: []SearchHit{}}
	if query == "" {
		return result, nil
	}

	types, err := normalizeTypes(opts.Types)
	if err != nil {
		return nil, err
	}
	limit := e.cfg.clampLimit(opts.Limit)

	if e.embedder == nil {
		e.logger.Warn().Msg("semantic search unavailable: no text embedder configured")
		metrics.RecordFallback("search", "embedder")
		return result, nil
	}

	model, err := e.index.ActiveModel(ctx)
	if err != nil || model == "" {
		e.logger.Warn().Err(err).Msg("semantic search unavailable: no active embedding model")
		metrics.RecordFallback("search", "model")
		return result, nil
	}

	vec, err := e.embedder.Embed(ctx, truncateRunes(query, maxQueryLength))
	if err != nil {
		e.logger.Warn().Err(err).Msg("query embedding failed")
		metrics.RecordFallback("search", "embed")
		return result, nil
	}

	for i, t := range types {
		k := splitLimit(limit, len(types), i)
		if k == 0 {
			continue
		}
		scored, err := e.index.NearestToVector(ctx, vec, t, model, k)
		if err != nil {
			e.logger.Warn().Err(err).Str("type", string(t)).Msg("vector search failed")
			metrics.RecordFallback("search", "index")
			continue
		}
		for _, s := range scored {
			result.Results = append(result.Results, SearchHit(s))
		}
	}

	sort.SliceStable(result.Results, func(i, j int) bool {
		return result.Results[i].Similarity > result.Results[j].Similarity
	})
	if len(result.Results) > limit {
		result.Results = result.Results[:limit]
	}
	return result, nil
}

// splitLimit gives the first type ceil(limit/2) and the second floor(limit/2).
func splitLimit(limit, types, i int) int {
	if types < 2 {
		return limit
	}
	if i == 0 {
		return (limit + 1) / 2
	}
	return limit / 2
}

// normalizeTypes defaults to all types and drops duplicates.
func normalizeTypes(types []ContentType) ([]ContentType, error) {
	if len(types) == 0 {
		return AllContentTypes, nil
	}
	out := make([]ContentType, 0, len(types))
	seen := make(map[ContentType]bool, len(types))
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("search type %q: %w", t, ErrInvalidRequest)
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
