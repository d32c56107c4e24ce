// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/logging"
)

// DefaultSlowThreshold is the latency above which requests are logged.
const DefaultSlowThreshold = 2 * time.Second

// SlowRequests logs a warning for every request slower than threshold.
// Graph expansion with AI curation is the usual culprit, so the log line
// carries the route pattern and the raw query.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func SlowRequests(threshold time.Duration, logger zerolog.Logger) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			if duration <= threshold {
				return
			}
			logger.Warn().
				Str("request_id", logging.RequestIDFromContext(r.Context())).
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Str("query", r.URL.RawQuery).
				Int("status", rec.status).
				Dur("duration", duration).
				Dur("threshold", threshold).
				Msg("Slow request detected")
		})
	}
}
