// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/mediagraph/internal/metrics"
)

// minAddedBeforeDiversify is the per-level admission count below which a
// bubbled graph triggers diversification.
const minAddedBeforeDiversify = 2

// GraphBuilder runs multi-level expansion from a center item.
// It is safe for concurrent use; each Build owns its own state.
type GraphBuilder struct {
	finder    *NeighborFinder
	sizer     *CollectionSizer
	validator ConnectionValidator
	diverse   DiverseContentFinder
	cfg       Config
	logger    zerolog.Logger
}

// NewGraphBuilder creates a builder. validator and diverse may be nil, in
// which case every candidate passes validation and bubbles are not diversified.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGraphBuilder(finder *NeighborFinder, sizer *CollectionSizer, validator ConnectionValidator, diverse DiverseContentFinder, cfg Config, logger zerolog.Logger) *GraphBuilder {
	return &GraphBuilder{
		finder:    finder,
		sizer:     sizer,
		validator: validator,
		diverse:   diverse,
		cfg:       cfg,
		logger:    logger.With().Str("component", "graph_builder").Logger(),
	}
}

// build holds the mutable state of one Build call.
type build struct {
	b       *GraphBuilder
	req     GraphRequest
	center  Item
	model   string
	state   *graphState
	limiter *CollectionLimiter
	meta    GraphMeta
	logger  zerolog.Logger
}

// Build expands a graph around req.ItemID. Only a failed center lookup or an
// invalid request is returned as an error; everything else degrades the
// graph. When the build deadline passes the graph built so far is returned
// with Meta.Truncated set.
func (b *GraphBuilder) Build(ctx context.Context, req GraphRequest) (*GraphData, error) {
	if req.ItemID == "" || !req.Type.Valid() {
		return nil, fmt.Errorf("build graph %q/%q: %w", req.Type, req.ItemID, ErrInvalidRequest)
	}
	start := time.Now()
	req.Depth = b.cfg.clampDepth(req.Depth)
	req.Limit = b.cfg.clampLimit(req.Limit)

	if b.cfg.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.BuildTimeout)
		defer cancel()
	}

	center, err := b.finder.loadCenter(ctx, req.ItemID, req.Type)
	if err != nil {
		return nil, err
	}

	run := &build{
		b:       b,
		req:     req,
		center:  *center,
		state:   newGraphState(),
		limiter: NewCollectionLimiter(b.sizer, req.Type, b.logger),
		meta: GraphMeta{
			Depth:    req.Depth,
			MaxNodes: b.cfg.MaxNodes(req.Depth, req.Limit),
		},
		logger: b.logger.With().Str("center_id", center.ID).Logger(),
	}
	run.state.addNode(run.center, true)
	run.limiter.Record(run.center.Collection)

	run.model = b.finder.activeModel(ctx)
	if run.model != "" {
		run.expand(ctx)
		// A lookup cut short by the deadline ends its level without an
		// expired check, so the deadline is checked once more here.
		run.expired(ctx)
	}

	graph := run.state.graph(run.meta)
	if graph.Meta.Truncated {
		metrics.GraphTruncations.Inc()
	}
	metrics.RecordGraphBuild(metrics.KindExpansion, time.Since(start), len(graph.Nodes), len(graph.Edges))

	run.logger.Debug().
		Int("depth", req.Depth).
		Int("nodes", len(graph.Nodes)).
		Int("edges", len(graph.Edges)).
		Bool("truncated", graph.Meta.Truncated).
		Bool("diversified", graph.Meta.Diversified).
		Dur("duration", time.Since(start)).
		Msg("graph built")

	return graph, nil
}

// expand runs level 1 and then levels 2..depth until the node cap is hit.
func (r *build) expand(ctx context.Context) {
	frontier := r.directNeighbors(ctx)
	r.maybeDiversify(ctx, 1, len(frontier), &frontier)

	for level := 2; level <= r.req.Depth; level++ {
		if r.expired(ctx) || r.full() || len(frontier) == 0 {
			return
		}

		levelLimit := max(2, r.req.Limit/level)
		var next []Item
		for _, node := range frontier {
			if r.expired(ctx) || r.full() {
				break
			}
			next = append(next, r.expandNode(ctx, node, levelLimit)...)
		}

		r.maybeDiversify(ctx, level, len(next), &next)
		frontier = next
	}
}

// directNeighbors admits the center's nearest neighbors. Level 1 skips the
// validator so the first ring reflects true nearest neighbors. Duplicates,
// watched items and members of a collection at its limit are dropped, and
// the lookup is oversampled whenever either filter can reject candidates.
func (r *build) directNeighbors(ctx context.Context) []Item {
	k := r.req.Limit
	if r.hideWatched() || !r.req.Preferences.FullFranchiseMode {
		k *= r.b.cfg.OversampleFactor
	}

	var admitted []Item
	for _, c := range r.b.finder.neighbors(ctx, r.center, r.model, k) {
		if len(admitted) >= r.req.Limit || r.full() {
			break
		}
		if r.state.hasNode(c.Item.ID) || r.watched(c.Item.ID) {
			continue
		}
		if !r.limiter.CanAdmit(ctx, c.Item.Collection, r.req.Preferences.FullFranchiseMode) {
			continue
		}
		r.admit(r.center.ID, c)
		admitted = append(admitted, c.Item)
	}
	return admitted
}

// expandNode admits up to levelLimit new neighbors of node.
func (r *build) expandNode(ctx context.Context, node Item, levelLimit int) []Item {
	candidates := r.b.finder.neighbors(ctx, node, r.model, levelLimit*r.b.cfg.OversampleFactor)

	var admitted []Item
	for _, c := range candidates {
		if len(admitted) >= levelLimit || r.full() || r.expired(ctx) {
			break
		}
		id := c.Item.ID
		if id == r.center.ID || r.state.hasNode(id) || r.watched(id) {
			continue
		}
		if !r.limiter.CanAdmit(ctx, c.Item.Collection, r.req.Preferences.FullFranchiseMode) {
			continue
		}
		if r.b.validator != nil && !r.b.validator.Validate(ctx, node, c.Item, c.Similarity) {
			continue
		}
		r.admit(node.ID, c)
		admitted = append(admitted, c.Item)
	}
	return admitted
}

func (r *build) admit(from string, c Connection) {
	if !r.state.addNode(c.Item, false) {
		return
	}
	r.state.addEdge(from, c.Item.ID, c.Similarity, c.Reasons)
	r.limiter.Record(c.Item.Collection)
}

// maybeDiversify asks the diverse finder for off-bubble items when the graph
// is bubbled and the level admitted fewer than two nodes. Admitted items are
// appended to frontier so deeper levels can expand from them.
func (r *build) maybeDiversify(ctx context.Context, level, added int, frontier *[]Item) {
	analysis := DetectBubble(r.state.allItems(), r.b.cfg.BubbleThreshold)
	if !analysis.IsBubbled {
		return
	}
	r.meta.DominantCollection = analysis.DominantCollection

	if added >= minAddedBeforeDiversify || r.b.diverse == nil || r.expired(ctx) {
		return
	}
	budget := r.meta.MaxNodes - r.state.nodeCount()
	if budget <= 0 {
		return
	}

	r.logger.Debug().
		Int("level", level).
		Int("added", added).
		Str("collection", analysis.DominantCollection).
		Float64("share", analysis.CollectionPercentage).
		Int("budget", budget).
		Msg("graph is bubbled, diversifying")

	found, err := r.b.diverse.FindDiverse(ctx, r.center, r.state.allItems(), budget)
	if err != nil {
		r.logger.Warn().Err(err).Int("level", level).Msg("diverse content lookup failed")
		metrics.RecordFallback("graph_builder", "diversify")
		metrics.DiversificationTriggers.WithLabelValues("error").Inc()
		return
	}

	reason := ConnectionReason{Type: ReasonAIDiverse, Value: "Beyond " + analysis.DominantCollection}
	n := 0
	for _, item := range found {
		if n >= budget || r.full() {
			break
		}
		if item.ID == r.center.ID || r.watched(item.ID) || !r.state.addNode(item, false) {
			continue
		}
		r.state.addEdge(r.center.ID, item.ID, r.b.cfg.DiverseEdgeSimilarity, []ConnectionReason{reason})
		r.limiter.Record(item.Collection)
		*frontier = append(*frontier, item)
		n++
	}

	if n > 0 {
		r.meta.Diversified = true
		metrics.DiversificationTriggers.WithLabelValues("added").Inc()
	} else {
		metrics.DiversificationTriggers.WithLabelValues("empty").Inc()
	}
}

func (r *build) full() bool {
	return r.state.nodeCount() >= r.meta.MaxNodes
}

// expired marks the graph truncated once the build context is done.
func (r *build) expired(ctx context.Context) bool {
	if ctx.Err() == nil {
		return false
	}
	if !r.meta.Truncated {
		r.meta.Truncated = true
		r.logger.Warn().Err(ctx.Err()).Msg("graph build deadline reached, returning partial graph")
	}
	return true
}

func (r *build) hideWatched() bool {
	return r.req.Preferences.HideWatched && len(r.req.Watched) > 0
}

// watched reports whether a non-center candidate must be hidden.
func (r *build) watched(id string) bool {
	return r.req.Preferences.HideWatched && id != r.center.ID && r.req.Watched.Has(id)
}
