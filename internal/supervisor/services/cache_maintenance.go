// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package services

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/metrics"
)

const (
	// DefaultMaintenanceInterval is used when the configured interval is zero.
	DefaultMaintenanceInterval = 5 * time.Minute

	// valueLogDiscardRatio is passed to badger's value log GC.
	valueLogDiscardRatio = 0.5

	// maxValueLogRounds caps GC rounds per tick.
	maxValueLogRounds = 8
)

// ExpiringCache is an in-memory cache that can drop its expired entries.
// *cache.LRU satisfies it.
type ExpiringCache interface {
	CleanupExpired() int
	Len() int
}

// ValueLogCollector reclaims space in an on-disk store. *badger.DB
// satisfies it.
type ValueLogCollector interface {
	RunValueLogGC(discardRatio float64) error
}

// CacheMaintenanceService periodically prunes the named in-memory caches,
// publishes their sizes, and runs value log GC on the persistent cache.
type CacheMaintenanceService struct {
	caches   map[string]ExpiringCache
	store    ValueLogCollector
	interval time.Duration
	logger   zerolog.Logger
}

// NewCacheMaintenanceService creates the service. store may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheMaintenanceService(caches map[string]ExpiringCache, store ValueLogCollector, interval time.Duration, logger zerolog.Logger) *CacheMaintenanceService {
	if interval <= 0 {
		interval = DefaultMaintenanceInterval
	}
	named := make(map[string]ExpiringCache, len(caches))
	for name, c := range caches {
		if c != nil {
			named[name] = c
		}
	}
	return &CacheMaintenanceService{
		caches:   named,
		store:    store,
		interval: interval,
		logger:   logger.With().Str("component", "cache-maintenance").Logger(),
	}
}

// Serve implements suture.Service. One pass runs immediately so the size
// gauges are populated at startup.
func (s *CacheMaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce performs a single maintenance pass and returns the number of
// expired entries removed across all caches.
func (s *CacheMaintenanceService) RunOnce() int {
	total := 0
	for name, c := range s.caches {
		removed := c.CleanupExpired()
		total += removed
		if removed > 0 {
			metrics.CacheExpired.WithLabelValues(name).Add(float64(removed))
		}
		metrics.CacheEntries.WithLabelValues(name).Set(float64(c.Len()))
	}

	if s.store != nil {
		s.collectValueLog()
	}

	if total > 0 {
		s.logger.Debug().Int("expired", total).Msg("Pruned expired cache entries")
	}
	return total
}

func (s *CacheMaintenanceService) collectValueLog() {
	// Each successful round may leave more to rewrite.
	for range maxValueLogRounds {
		err := s.store.RunValueLogGC(valueLogDiscardRatio)
		if err == nil {
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
			s.logger.Warn().Err(err).Msg("Badger value log GC failed")
		}
		return
	}
}

// String names the service in supervisor events.
func (s *CacheMaintenanceService) String() string {
	return "cache-maintenance"
}
