// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// Package curation provides the AI-assisted collaborators of the graph
// builder: a connection validator and a diverse content finder.
package curation

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/cache"
	"github.com/tomtom215/mediagraph/internal/metrics"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

// Decision sources used in logs and metrics.
const (
	sourceCache   = "cache"
	sourceTitle   = "title"
	sourceGenre   = "genre"
	sourceAI      = "ai"
	sourceDefault = "default"
)

// ValidatorConfig tunes the connection validator.
type ValidatorConfig struct {
	// AcceptSimilarity accepts ambiguous pairs when no generator is configured.
	AcceptSimilarity float64

	// AITimeout bounds a single tie-break call.
	AITimeout time.Duration

	// CacheSize and CacheTTL size the in-memory decision cache.
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultValidatorConfig returns production defaults.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		AcceptSimilarity: 0.75,
		AITimeout:        10 * time.Second,
		CacheSize:        5000,
		CacheTTL:         24 * time.Hour,
	}
}

// Validator accepts or rejects expansion edges. Title patterns and genre
// overlap decide most pairs; pairs sharing exactly one genre go to the text
// generator. AI decisions are cached per unordered pair in memory and,
// when a store is set, in badger.
type Validator struct {
	generator similarity.TextGenerator
	decisions *cache.LRU[string, bool]
	store     *cache.BadgerStore
	cfg       ValidatorConfig
	logger    zerolog.Logger
}

// NewValidator creates a validator. generator and store may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewValidator(generator similarity.TextGenerator, store *cache.BadgerStore, cfg ValidatorConfig, logger zerolog.Logger) *Validator {
	return &Validator{
		generator: generator,
		decisions: cache.NewLRU[string, bool](cfg.CacheSize, cfg.CacheTTL),
		store:     store,
		cfg:       cfg,
		logger:    logger.With().Str("component", "validator").Logger(),
	}
}

// Decisions exposes the in-memory cache for maintenance.
func (v *Validator) Decisions() *cache.LRU[string, bool] {
	return v.decisions
}

// Validate implements similarity.ConnectionValidator.
func (v *Validator) Validate(ctx context.Context, from, to similarity.Item, sim float64) bool {
	if SameFranchise(from.Title, to.Title) {
		return v.decide(sourceTitle, true)
	}

	if len(from.Genres) > 0 && len(to.Genres) > 0 {
		switch shared := len(similarity.SharedValues(from.Genres, to.Genres)); {
		case shared == 0:
			return v.decide(sourceGenre, false)
		case shared >= 2:
			return v.decide(sourceGenre, true)
		}
	}

	return v.tieBreak(ctx, from, to, sim)
}

// tieBreak resolves an ambiguous pair through the cache or the generator.
func (v *Validator) tieBreak(ctx context.Context, from, to similarity.Item, sim float64) bool {
	key := pairKey(from, to)
	if accepted, ok := v.decisions.Get(key); ok {
		return v.decide(sourceCache, accepted)
	}
	if v.store != nil {
		var accepted bool
		found, err := v.store.Get(key, &accepted)
		if err != nil {
			v.logger.Warn().Err(err).Msg("decision store read failed")
		} else if found {
			v.decisions.Add(key, accepted)
			return v.decide(sourceCache, accepted)
		}
	}

	if v.generator == nil {
		return v.decide(sourceDefault, sim >= v.cfg.AcceptSimilarity)
	}

	callCtx := ctx
	if v.cfg.AITimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, v.cfg.AITimeout)
		defer cancel()
	}
	answer, err := v.generator.Generate(callCtx, buildValidationPrompt(from, to))
	if err != nil {
		v.logger.Warn().Err(err).Str("from", from.ID).Str("to", to.ID).Msg("ai validation failed, rejecting")
		metrics.RecordFallback("validator", "ai")
		return v.decide(sourceAI, false)
	}

	accepted := parseYesNo(answer)
	v.decisions.Add(key, accepted)
	if v.store != nil {
		if err := v.store.Set(key, accepted); err != nil {
			v.logger.Warn().Err(err).Msg("decision store write failed")
		}
	}
	return v.decide(sourceAI, accepted)
}

func (v *Validator) decide(source string, accepted bool) bool {
	metrics.RecordValidatorDecision(source, accepted)
	return accepted
}

func pairKey(a, b similarity.Item) string {
	x, y := string(a.Type)+":"+a.ID, string(b.Type)+":"+b.ID
	if x > y {
		x, y = y, x
	}
	return x + "|" + y
}

// parseYesNo reads the first word of a model answer.
func parseYesNo(answer string) bool {
	answer = strings.ToUpper(strings.TrimSpace(answer))
	answer = strings.TrimLeft(answer, "*\"'`")
	return strings.HasPrefix(answer, "YES")
}

var (
	nonAlnum     = regexp.MustCompile(`[^a-z0-9 ]+`)
	sequelSuffix = regexp.MustCompile(`\s+(part\s+)?([0-9]+|ii|iii|iv|v|vi|vii|viii|ix|x)$`)
	spaces       = regexp.MustCompile(`\s+`)
)

// minFranchiseRootLen keeps short roots like "it" from matching everything.
const minFranchiseRootLen = 3

// SameFranchise reports whether two titles share a franchise root, such as
// "Toy Story" and "Toy Story 2" or "Dune: Part Two" and "Dune".
func SameFranchise(a, b string) bool {
	ra, rb := franchiseRoot(a), franchiseRoot(b)
	return len(ra) >= minFranchiseRootLen && ra == rb
}

func franchiseRoot(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if i := strings.IndexAny(t, ":("); i > 0 {
		t = t[:i]
	}
	if i := strings.Index(t, " - "); i > 0 {
		t = t[:i]
	}
	t = nonAlnum.ReplaceAllString(t, " ")
	t = spaces.ReplaceAllString(strings.TrimSpace(t), " ")
	t = strings.TrimPrefix(t, "the ")
	t = sequelSuffix.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}
