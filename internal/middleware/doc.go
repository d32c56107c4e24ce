// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// Package middleware provides the HTTP middleware shared by the API router.
//
// Every middleware has the chi signature func(http.Handler) http.Handler:
//
//   - RequestID: assigns X-Request-ID and seeds the logging context
//   - PrometheusMetrics: request counts and latency keyed by route pattern
//   - SlowRequests: warns about requests slower than a threshold
//   - Compression: gzip for JSON responses
//
// Order matters. RequestID must run first so later middleware and handlers
// log with the request id.
package middleware
