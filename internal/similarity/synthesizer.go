// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/metrics"
)

// Synthesizer connects a flat result set into a graph in which every node
// has at least one edge. Edges come from the text generator first, then
// from embedding similarity, then from a closing pass and finally a chain.
type Synthesizer struct {
	index     EmbeddingIndex
	generator TextGenerator
	cfg       Config
	logger    zerolog.Logger
}

// NewSynthesizer creates a synthesizer. generator may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSynthesizer(index EmbeddingIndex, generator TextGenerator, cfg Config, logger zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		index:     index,
		generator: generator,
		cfg:       cfg,
		logger:    logger.With().Str("component", "synthesizer").Logger(),
	}
}

// BuildGraph turns hits into a graph of center nodes. With two or more
// distinct items every node has degree >= 1.
func (s *Synthesizer) BuildGraph(ctx context.Context, hits []SearchHit, opts SynthesisOptions) *GraphData {
	start := time.Now()
	state := newGraphState()
	items := make([]Item, 0, len(hits))
	for _, h := range hits {
		if state.conflicts(h.Item) {
			s.logger.Warn().Str("item_id", h.Item.ID).Str("type", string(h.Item.Type)).Msg("item id already used by another type, dropping hit")
			metrics.RecordFallback("synthesizer", "id_conflict")
			continue
		}
		if state.addNode(h.Item, true) {
			items = append(items, h.Item)
		}
	}
	meta := GraphMeta{Depth: 1, MaxNodes: len(items)}

	if len(items) >= 2 {
		if opts.UseAI {
			s.addAIEdges(ctx, state, items)
		}

		model := ""
		if state.edgeCount() == 0 || s.hasIsolated(state, items) {
			model = s.activeModel(ctx)
		}
		if state.edgeCount() == 0 && model != "" {
			s.addEmbeddingEdges(ctx, state, items, model)
		}
		if state.edgeCount() > 0 {
			s.closeIsolated(ctx, state, items, model)
		}
		if state.edgeCount() == 0 {
			s.chain(state, items)
		}
	}

	graph := state.graph(meta)
	metrics.RecordGraphBuild(metrics.KindSearch, time.Since(start), len(graph.Nodes), len(graph.Edges))
	return graph
}

// addAIEdges asks the generator to connect the first SynthMaxItems items.
func (s *Synthesizer) addAIEdges(ctx context.Context, state *graphState, items []Item) {
	if s.generator == nil {
		metrics.RecordFallback("synthesizer", "ai")
		return
	}

	capped := items[:min(len(items), s.cfg.SynthMaxItems)]
	maxEdges := min(len(capped)*2, s.cfg.SynthMaxEdges)

	out, err := s.generator.Generate(ctx, buildSynthesisPrompt(capped, maxEdges))
	if err != nil {
		s.logger.Warn().Err(err).Msg("ai connection synthesis failed")
		metrics.RecordFallback("synthesizer", "ai")
		return
	}

	edges, err := ParseAIEdges(out, len(capped))
	if err != nil {
		s.logger.Warn().Err(err).Msg("ai connection output unusable")
		metrics.RecordFallback("synthesizer", "ai")
		return
	}

	added := 0
	for _, e := range edges {
		if added >= maxEdges {
			break
		}
		reason := ConnectionReason{Type: e.Type, Value: e.Reason}
		if state.addEdge(capped[e.From].ID, capped[e.To].ID, s.cfg.AIEdgeSimilarity, []ConnectionReason{reason}) {
			added++
		}
	}
	if added == 0 {
		metrics.RecordFallback("synthesizer", "ai")
	}
	s.logger.Debug().Int("proposed", len(edges)).Int("added", added).Msg("ai edges added")
}

// addEmbeddingEdges connects pairs among the first FallbackPairItems items
// whose similarity reaches ConnectivityFloor.
func (s *Synthesizer) addEmbeddingEdges(ctx context.Context, state *graphState, items []Item, model string) {
	capped := items[:min(len(items), s.cfg.FallbackPairItems)]
	for i := 0; i < len(capped); i++ {
		for j := i + 1; j < len(capped); j++ {
			sim, ok := s.pairSimilarity(ctx, capped[i], capped[j], model)
			if !ok || sim < s.cfg.ConnectivityFloor {
				continue
			}
			state.addEdge(capped[i].ID, capped[j].ID, sim, ComputeReasons(capped[i], capped[j], sim))
		}
	}
	if state.edgeCount() == 0 {
		metrics.RecordFallback("synthesizer", "embedding")
	}
}

// closeIsolated attaches every isolated node to its best-matching connected
// node, or to the first connected node when no similarity is available.
func (s *Synthesizer) closeIsolated(ctx context.Context, state *graphState, items []Item, model string) {
	for _, item := range items {
		if state.connected(item.ID) {
			continue
		}

		var connected []Item
		for _, other := range items {
			if other.ID != item.ID && state.connected(other.ID) {
				connected = append(connected, other)
			}
		}
		if len(connected) == 0 {
			return
		}

		target, sim, found := connected[0], 0.0, false
		if model != "" {
			for _, other := range connected[:min(len(connected), s.cfg.FallbackPairItems)] {
				v, ok := s.pairSimilarity(ctx, item, other, model)
				if ok && (!found || v > sim) {
					target, sim, found = other, v, true
				}
			}
		}
		if !found {
			metrics.RecordFallback("synthesizer", "closing")
		}
		state.addEdge(item.ID, target.ID, sim, ComputeReasons(item, target, sim))
	}
}

// chain links items in order. It only runs when no other tier produced an edge.
func (s *Synthesizer) chain(state *graphState, items []Item) {
	metrics.RecordFallback("synthesizer", "chain")
	for i := 0; i+1 < len(items); i++ {
		state.addEdge(items[i].ID, items[i+1].ID, 0, ComputeReasons(items[i], items[i+1], 0))
	}
}

func (s *Synthesizer) hasIsolated(state *graphState, items []Item) bool {
	for _, item := range items {
		if !state.connected(item.ID) {
			return true
		}
	}
	return false
}

func (s *Synthesizer) activeModel(ctx context.Context) string {
	model, err := s.index.ActiveModel(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("active model lookup failed")
		return ""
	}
	return model
}

func (s *Synthesizer) pairSimilarity(ctx context.Context, a, b Item, model string) (float64, bool) {
	sim, err := s.index.PairSimilarity(ctx, a.Ref(), b.Ref(), model)
	if err != nil {
		if !errors.Is(err, ErrNoEmbedding) {
			s.logger.Debug().Err(err).Str("a", a.ID).Str("b", b.ID).Msg("pair similarity failed")
		}
		return 0, false
	}
	return sim, true
}
