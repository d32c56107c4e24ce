// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package curation

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/metrics"
	"github.com/tomtom215/mediagraph/internal/similarity"
)

// DiverseConfig tunes the diverse content finder.
type DiverseConfig struct {
	// MaxPhrases is the number of search phrases requested from the generator.
	MaxPhrases int

	// ResultsPerPhrase is the nearest-neighbor depth per phrase.
	ResultsPerPhrase int
}

// DefaultDiverseConfig returns production defaults.
func DefaultDiverseConfig() DiverseConfig {
	return DiverseConfig{MaxPhrases: 3, ResultsPerPhrase: 8}
}

// DiverseFinder breaks franchise bubbles. The generator proposes thematic
// search phrases for the center; each phrase is embedded and matched against
// the library, skipping the center's collection, the dominant collection and
// anything already in the graph.
type DiverseFinder struct {
	generator similarity.TextGenerator
	embedder  similarity.TextEmbedder
	index     similarity.EmbeddingIndex
	cfg       DiverseConfig
	logger    zerolog.Logger
}

// NewDiverseFinder creates a finder.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDiverseFinder(generator similarity.TextGenerator, embedder similarity.TextEmbedder, index similarity.EmbeddingIndex, cfg DiverseConfig, logger zerolog.Logger) *DiverseFinder {
	if cfg.MaxPhrases <= 0 {
		cfg.MaxPhrases = DefaultDiverseConfig().MaxPhrases
	}
	if cfg.ResultsPerPhrase <= 0 {
		cfg.ResultsPerPhrase = DefaultDiverseConfig().ResultsPerPhrase
	}
	return &DiverseFinder{
		generator: generator,
		embedder:  embedder,
		index:     index,
		cfg:       cfg,
		logger:    logger.With().Str("component", "diverse_finder").Logger(),
	}
}

// FindDiverse implements similarity.DiverseContentFinder.
func (f *DiverseFinder) FindDiverse(ctx context.Context, center similarity.Item, existing []similarity.Item, budget int) ([]similarity.Item, error) {
	if budget <= 0 {
		return nil, nil
	}
	if f.generator == nil || f.embedder == nil || f.index == nil {
		return nil, similarity.ErrCapabilityUnavailable
	}

	model, err := f.index.ActiveModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("active model: %w", err)
	}
	if model == "" {
		return nil, similarity.ErrCapabilityUnavailable
	}

	avoid := excludedCollections(center, existing)
	phrases, err := f.phrases(ctx, center, avoid)
	if err != nil {
		metrics.RecordFallback("diverse", "ai")
		return nil, err
	}

	seen := make(map[string]struct{}, len(existing)+1)
	seen[center.ID] = struct{}{}
	for _, it := range existing {
		seen[it.ID] = struct{}{}
	}
	blocked := make(map[string]struct{}, len(avoid))
	for _, c := range avoid {
		blocked[strings.ToLower(c)] = struct{}{}
	}

	var out []similarity.Item
	for _, phrase := range phrases {
		if len(out) >= budget || ctx.Err() != nil {
			break
		}
		vec, err := f.embedder.Embed(ctx, phrase)
		if err != nil {
			f.logger.Warn().Err(err).Str("phrase", phrase).Msg("phrase embedding failed")
			continue
		}
		hits, err := f.index.NearestToVector(ctx, vec, center.Type, model, f.cfg.ResultsPerPhrase+budget)
		if err != nil {
			f.logger.Warn().Err(err).Str("phrase", phrase).Msg("phrase lookup failed")
			continue
		}
		for _, h := range hits {
			if len(out) >= budget {
				break
			}
			if _, dup := seen[h.Item.ID]; dup {
				continue
			}
			if _, ok := blocked[strings.ToLower(h.Item.Collection)]; ok && h.Item.Collection != "" {
				continue
			}
			seen[h.Item.ID] = struct{}{}
			out = append(out, h.Item)
		}
	}

	f.logger.Debug().
		Str("center", center.ID).
		Int("phrases", len(phrases)).
		Int("found", len(out)).
		Msg("diverse content lookup")
	return out, nil
}

// phrases asks the generator for search phrases and parses its answer.
func (f *DiverseFinder) phrases(ctx context.Context, center similarity.Item, avoid []string) ([]string, error) {
	answer, err := f.generator.Generate(ctx, buildDiversePrompt(center, avoid, f.cfg.MaxPhrases))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", similarity.ErrAIFailure, err)
	}
	raw, err := similarity.ExtractJSONArray(answer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", similarity.ErrAIFailure, err)
	}
	var parsed []any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode phrases: %w", similarity.ErrAIFailure, err)
	}

	phrases := make([]string, 0, len(parsed))
	for _, v := range parsed {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			phrases = append(phrases, s)
		}
		if len(phrases) == f.cfg.MaxPhrases {
			break
		}
	}
	if len(phrases) == 0 {
		return nil, fmt.Errorf("%w: no usable phrases", similarity.ErrAIFailure)
	}
	return phrases, nil
}

func excludedCollections(center similarity.Item, existing []similarity.Item) []string {
	var avoid []string
	if center.Collection != "" {
		avoid = append(avoid, center.Collection)
	}
	bubble := similarity.DetectBubble(existing, 0)
	if c := bubble.DominantCollection; c != "" && !strings.EqualFold(c, center.Collection) {
		avoid = append(avoid, c)
	}
	return avoid
}
