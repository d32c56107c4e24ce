// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/mediagraph/internal/cache"
	"github.com/tomtom215/mediagraph/internal/metrics"
)

// fallbackCollectionLimit applies when a collection size cannot be looked up.
const fallbackCollectionLimit = 3

// DynamicLimit returns how many members of a collection of the given size
// may appear in one graph.
func DynamicLimit(size int) int {
	switch {
	case size <= 5:
		return size
	case size <= 15:
		return max(3, size/2)
	default:
		return min(8, max(5, size*3/10))
	}
}

// CollectionSizer resolves collection sizes through a cache-aside LRU.
// Concurrent misses for the same key share a single store query.
type CollectionSizer struct {
	metadata MetadataStore
	cache    *cache.LRU[string, int]
	group    singleflight.Group
}

// NewCollectionSizer creates a sizer with the given cache. A nil cache gets
// a private default-sized one.
func NewCollectionSizer(metadata MetadataStore, sizes *cache.LRU[string, int]) *CollectionSizer {
	if sizes == nil {
		sizes = cache.NewLRU[string, int](0, 0)
	}
	return &CollectionSizer{metadata: metadata, cache: sizes}
}

// Size returns the number of items of type t in the collection.
func (s *CollectionSizer) Size(ctx context.Context, collection string, t ContentType) (int, error) {
	key := string(t) + ":" + collection
	if n, ok := s.cache.Get(key); ok {
		metrics.RecordCollectionCache(true)
		return n, nil
	}
	metrics.RecordCollectionCache(false)

	v, err, _ := s.group.Do(key, func() (any, error) {
		n, err := s.metadata.CountByCollection(ctx, collection, t)
		if err != nil {
			return 0, fmt.Errorf("count collection %q: %w", collection, err)
		}
		s.cache.Add(key, n)
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// Cache exposes the underlying LRU for maintenance.
func (s *CollectionSizer) Cache() *cache.LRU[string, int] {
	return s.cache
}

// CollectionLimiter tracks per-collection admissions within one graph build.
// It is not safe for concurrent use.
type CollectionLimiter struct {
	sizer  *CollectionSizer
	t      ContentType
	counts map[string]int
	logger zerolog.Logger
}

// NewCollectionLimiter creates a limiter for one build over items of type t.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCollectionLimiter(sizer *CollectionSizer, t ContentType, logger zerolog.Logger) *CollectionLimiter {
	return &CollectionLimiter{
		sizer:  sizer,
		t:      t,
		counts: make(map[string]int),
		logger: logger,
	}
}

// CanAdmit reports whether another member of collection may join the graph.
// Items without a collection and full franchise mode always pass.
func (l *CollectionLimiter) CanAdmit(ctx context.Context, collection string, fullFranchise bool) bool {
	if fullFranchise || collection == "" {
		return true
	}
	return l.counts[collection] < l.limitFor(ctx, collection)
}

// Record counts an admitted member of collection.
func (l *CollectionLimiter) Record(collection string) {
	if collection != "" {
		l.counts[collection]++
	}
}

// Count returns the admitted members of collection so far.
func (l *CollectionLimiter) Count(collection string) int {
	return l.counts[collection]
}

func (l *CollectionLimiter) limitFor(ctx context.Context, collection string) int {
	size, err := l.sizer.Size(ctx, collection, l.t)
	if err != nil {
		l.logger.Warn().Err(err).Str("collection", collection).Msg("collection size lookup failed, using fallback limit")
		metrics.RecordFallback("limiter", "size")
		return fallbackCollectionLimit
	}
	// A member being checked implies the collection is not empty.
	return DynamicLimit(max(size, 1))
}
