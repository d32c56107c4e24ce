// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/mediagraph/internal/config"
	"github.com/tomtom215/mediagraph/internal/metrics"
)

// Embedder is a named text embedder.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generator is a named text generator.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// guard runs provider calls behind a rate limiter and a circuit breaker.
// Circuit breaker state uses real time; tests drive it through failures,
// not clocks.
type guard[T any] struct {
	name      string
	provider  string
	operation string
	cb        *gobreaker.CircuitBreaker[T]
	limiter   *rate.Limiter
	logger    zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newGuard[T any](provider, operation string, cfg config.ResilienceConfig, logger zerolog.Logger) *guard[T] {
	name := provider + "-" + operation
	g := &guard[T]{
		name:      name,
		provider:  provider,
		operation: operation,
		logger:    logger.With().Str("component", "circuit_breaker").Str("breaker", name).Logger(),
	}
	if cfg.RateLimitPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), max(cfg.RateLimitBurst, 1))
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	minRequests := max(cfg.BreakerMinRequests, 1)
	g.cb = gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: max(cfg.BreakerMaxRequests, 1),
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= cfg.BreakerFailureRatio
			if trip {
				g.logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		// A caller giving up says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return g
}

func (g *guard[T]) run(ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return zero, fmt.Errorf("%s rate limit: %w", g.name, err)
		}
	}

	start := time.Now()
	result, err := g.cb.Execute(fn)
	metrics.RecordProviderRequest(g.provider, g.operation, time.Since(start), err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(g.name, "rejected").Inc()
			return zero, fmt.Errorf("%s unavailable: %w", g.name, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(g.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(float64(g.cb.Counts().ConsecutiveFailures))
		return zero, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(g.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(g.name).Set(0)
	return result, nil
}

// State returns the breaker state.
func (g *guard[T]) State() gobreaker.State {
	return g.cb.State()
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// ResilientEmbedder guards an Embedder.
type ResilientEmbedder struct {
	next  Embedder
	guard *guard[[]float32]
}

// NewResilientEmbedder wraps next with a breaker and limiter.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResilientEmbedder(next Embedder, cfg config.ResilienceConfig, logger zerolog.Logger) *ResilientEmbedder {
	return &ResilientEmbedder{next: next, guard: newGuard[[]float32](next.Name(), "embed", cfg, logger)}
}

// Embed implements similarity.TextEmbedder.
func (r *ResilientEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return r.guard.run(ctx, func() ([]float32, error) {
		return r.next.Embed(ctx, text)
	})
}

// State returns the breaker state.
func (r *ResilientEmbedder) State() gobreaker.State { return r.guard.State() }

// ResilientGenerator guards a Generator.
type ResilientGenerator struct {
	next  Generator
	guard *guard[string]
}

// NewResilientGenerator wraps next with a breaker and limiter.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResilientGenerator(next Generator, cfg config.ResilienceConfig, logger zerolog.Logger) *ResilientGenerator {
	return &ResilientGenerator{next: next, guard: newGuard[string](next.Name(), "generate", cfg, logger)}
}

// Generate implements similarity.TextGenerator.
func (r *ResilientGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return r.guard.run(ctx, func() (string, error) {
		return r.next.Generate(ctx, prompt)
	})
}

// State returns the breaker state.
func (r *ResilientGenerator) State() gobreaker.State { return r.guard.State() }
