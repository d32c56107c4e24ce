// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// Package metrics defines the Prometheus instrumentation for mediagraph.
//
// Metrics are registered on the default registry at init via promauto and
// served by promhttp on /metrics. Helpers keep label usage consistent across
// packages.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Graph kinds used as label values.
const (
	KindExpansion = "expansion"
	KindSearch    = "search"
	KindSources   = "sources"
)

var (
	// Graph Engine Metrics
	GraphBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediagraph_graph_build_duration_seconds",
			Help:    "Duration of graph builds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"kind"},
	)

	GraphNodes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediagraph_graph_nodes",
			Help:    "Number of nodes in built graphs",
			Buckets: []float64{1, 2, 5, 10, 13, 25, 45, 60},
		},
		[]string{"kind"},
	)

	GraphEdges = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediagraph_graph_edges",
			Help:    "Number of edges in built graphs",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"kind"},
	)

	GraphTruncations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediagraph_graph_truncations_total",
			Help: "Total number of graph builds cut short by the build deadline",
		},
	)

	DiversificationTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediagraph_diversification_triggers_total",
			Help: "Total number of AI diversification attempts",
		},
		[]string{"outcome"}, // "added", "empty", "error"
	)

	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediagraph_fallbacks_total",
			Help: "Total number of soft failures that degraded a result",
		},
		[]string{"component", "tier"},
	)

	ValidatorDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediagraph_validator_decisions_total",
			Help: "Total number of connection validator decisions",
		},
		[]string{"source", "result"}, // source: "cache", "title", "genre", "ai", "default"
	)

	// Cache Metrics
	CollectionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediagraph_collection_cache_hits_total",
			Help: "Total number of collection size cache hits",
		},
	)

	CollectionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediagraph_collection_cache_misses_total",
			Help: "Total number of collection size cache misses",
		},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mediagraph_cache_entries",
			Help: "Current number of entries per cache",
		},
		[]string{"cache"},
	)

	CacheExpired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediagraph_cache_expired_total",
			Help: "Total number of expired cache entries pruned",
		},
		[]string{"cache"},
	)

	// Provider Metrics
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediagraph_provider_request_duration_seconds",
			Help:    "Duration of embedding and generation requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "operation"},
	)

	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediagraph_provider_errors_total",
			Help: "Total number of failed provider requests",
		},
		[]string{"provider", "operation", "error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mediagraph_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediagraph_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mediagraph_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediagraph_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediagraph_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediagraph_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediagraph_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediagraph_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediagraph_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mediagraph_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordGraphBuild records the duration and size of a built graph.
func RecordGraphBuild(kind string, duration time.Duration, nodes, edges int) {
	GraphBuildDuration.WithLabelValues(kind).Observe(duration.Seconds())
	GraphNodes.WithLabelValues(kind).Observe(float64(nodes))
	GraphEdges.WithLabelValues(kind).Observe(float64(edges))
}

// RecordFallback counts a soft failure of component that fell back past tier.
func RecordFallback(component, tier string) {
	Fallbacks.WithLabelValues(component, tier).Inc()
}

// RecordValidatorDecision counts a validator decision.
func RecordValidatorDecision(source string, accepted bool) {
	result := "reject"
	if accepted {
		result = "accept"
	}
	ValidatorDecisions.WithLabelValues(source, result).Inc()
}

// RecordCollectionCache counts a collection size cache lookup.
func RecordCollectionCache(hit bool) {
	if hit {
		CollectionCacheHits.Inc()
		return
	}
	CollectionCacheMisses.Inc()
}

// RecordProviderRequest records a provider call.
func RecordProviderRequest(provider, operation string, duration time.Duration, err error) {
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
	if err != nil {
		ProviderErrors.WithLabelValues(provider, operation, classifyError(err)).Inc()
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// classifyError maps an error onto a bounded label value.
func classifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		var sc interface{ HTTPStatus() int }
		if errors.As(err, &sc) {
			switch code := sc.HTTPStatus(); {
			case code == 429:
				return "rate_limited"
			case code >= 500:
				return "server_error"
			default:
				return "client_error"
			}
		}
		return "other"
	}
}
