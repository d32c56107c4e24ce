// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/mediagraph/internal/cache"
	"github.com/tomtom215/mediagraph/internal/metrics"
)

// Dependencies are the collaborators of an Engine. Metadata and Embeddings
// are required; the rest degrade features when nil.
type Dependencies struct {
	Metadata    MetadataStore
	Embeddings  EmbeddingIndex
	Embedder    TextEmbedder
	Generator   TextGenerator
	Validator   ConnectionValidator
	Diverse     DiverseContentFinder
	Preferences PreferenceStore
	Watched     WatchedStore

	// SizeCache holds collection sizes. Nil creates one from the config.
	SizeCache *cache.LRU[string, int]
}

// Engine composes the similarity components behind one façade.
// It is safe for concurrent use.
type Engine struct {
	cfg         Config
	logger      zerolog.Logger
	finder      *NeighborFinder
	sizer       *CollectionSizer
	builder     *GraphBuilder
	search      *SearchEngine
	synthesizer *Synthesizer
	prefs       PreferenceStore
	watched     WatchedStore
}

// NewEngine wires an engine from deps.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(deps Dependencies, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if deps.Metadata == nil || deps.Embeddings == nil {
		return nil, errors.New("similarity engine requires metadata and embedding stores")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sizes := deps.SizeCache
	if sizes == nil {
		sizes = cache.NewLRU[string, int](cfg.CollectionCacheSize, cfg.CollectionCacheTTL)
	}

	finder := NewNeighborFinder(deps.Metadata, deps.Embeddings, cfg, logger)
	sizer := NewCollectionSizer(deps.Metadata, sizes)

	return &Engine{
		cfg:         cfg,
		logger:      logger.With().Str("component", "similarity").Logger(),
		finder:      finder,
		sizer:       sizer,
		builder:     NewGraphBuilder(finder, sizer, deps.Validator, deps.Diverse, cfg, logger),
		search:      NewSearchEngine(deps.Embeddings, deps.Embedder, cfg, logger),
		synthesizer: NewSynthesizer(deps.Embeddings, deps.Generator, cfg, logger),
		prefs:       deps.Preferences,
		watched:     deps.Watched,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// CollectionSizes exposes the collection size cache for maintenance.
func (e *Engine) CollectionSizes() *cache.LRU[string, int] {
	return e.sizer.Cache()
}

// FindSimilar returns the center item and its ranked neighbors.
func (e *Engine) FindSimilar(ctx context.Context, id string, t ContentType, limit int) (*SimilarResult, error) {
	return e.finder.FindSimilar(ctx, id, t, limit)
}

// BuildGraph expands a graph around req.ItemID.
func (e *Engine) BuildGraph(ctx context.Context, req GraphRequest) (*GraphData, error) {
	return e.builder.Build(ctx, req)
}

// Search runs a free-text semantic search.
func (e *Engine) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	return e.search.Search(ctx, query, opts)
}

// BuildGraphFromSearch connects search hits into a fully connected graph.
func (e *Engine) BuildGraphFromSearch(ctx context.Context, hits []SearchHit, opts SynthesisOptions) *GraphData {
	return e.synthesizer.BuildGraph(ctx, hits, opts)
}

// SearchGraph runs Search and then BuildGraphFromSearch on its results.
func (e *Engine) SearchGraph(ctx context.Context, query string, search SearchOptions, synth SynthesisOptions) (*GraphData, error) {
	result, err := e.Search(ctx, query, search)
	if err != nil {
		return nil, err
	}
	return e.BuildGraphFromSearch(ctx, result.Results, synth), nil
}

// UserContext loads preferences and the watched set for userID. Lookup
// failures are logged and yield defaults. An empty userID returns defaults.
func (e *Engine) UserContext(ctx context.Context, userID string, t ContentType) (Preferences, WatchedSet) {
	var prefs Preferences
	if userID == "" {
		return prefs, nil
	}

	if e.prefs != nil {
		p, err := e.prefs.Preferences(ctx, userID)
		if err != nil {
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("preference lookup failed, using defaults")
			metrics.RecordFallback("engine", "preferences")
		} else {
			prefs = p
		}
	}

	if !prefs.HideWatched || e.watched == nil {
		return prefs, nil
	}
	ids, err := e.watched.WatchedIDs(ctx, userID, t)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("watched lookup failed, not filtering")
		metrics.RecordFallback("engine", "watched")
		return prefs, nil
	}
	return prefs, WatchedSet(ids)
}

// BuildSourceGraph merges the direct neighborhoods of several sources into
// one graph. Neighbor lookups run in parallel; merging is sequential and
// applies the collection limiter across the whole graph. Sources that do
// not exist are skipped; ErrNotFound is returned only if none resolve.
func (e *Engine) BuildSourceGraph(ctx context.Context, req SourceGraphRequest) (*GraphData, error) {
	if len(req.Sources) == 0 {
		return nil, fmt.Errorf("build source graph: no sources: %w", ErrInvalidRequest)
	}
	for _, src := range req.Sources {
		if src.ID == "" || !src.Type.Valid() {
			return nil, fmt.Errorf("build source graph %q/%q: %w", src.Type, src.ID, ErrInvalidRequest)
		}
	}
	start := time.Now()

	if e.cfg.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.BuildTimeout)
		defer cancel()
	}

	perSource := e.cfg.PerSourceLimit
	if req.Limit > 0 {
		perSource = min(req.Limit, e.cfg.MaxLimit)
	}
	fetch := perSource
	if req.Preferences.HideWatched {
		fetch *= e.cfg.OversampleFactor
	}

	results := make([]*SimilarResult, len(req.Sources))
	var g errgroup.Group
	g.SetLimit(e.cfg.SourceConcurrency)
	for i, src := range req.Sources {
		g.Go(func() error {
			res, err := e.finder.FindSimilar(ctx, src.ID, src.Type, fetch)
			if err != nil {
				e.logger.Warn().Err(err).Str("item_id", src.ID).Str("type", string(src.Type)).Msg("source lookup failed")
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	state := newGraphState()
	for i, res := range results {
		if res == nil {
			continue
		}
		if state.conflicts(res.Center) {
			e.logger.Warn().Str("item_id", res.Center.ID).Str("type", string(res.Center.Type)).Msg("source id already used by another type, skipping")
			results[i] = nil
			continue
		}
		state.addNode(res.Center, true)
	}
	if state.nodeCount() == 0 {
		return nil, fmt.Errorf("build source graph: %w", ErrNotFound)
	}

	meta := GraphMeta{Depth: 1, MaxNodes: max(e.cfg.MaxNodesDeep, state.nodeCount())}
	limiters := make(map[ContentType]*CollectionLimiter)
	limiterFor := func(t ContentType) *CollectionLimiter {
		if l, ok := limiters[t]; ok {
			return l
		}
		l := NewCollectionLimiter(e.sizer, t, e.logger)
		limiters[t] = l
		return l
	}
	for _, res := range results {
		if res != nil {
			limiterFor(res.Center.Type).Record(res.Center.Collection)
		}
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		limiter := limiterFor(res.Center.Type)
		watched := req.Watched[res.Center.Type]
		added := 0
		for _, c := range res.Connections {
			if added >= perSource {
				break
			}
			id := c.Item.ID
			if state.conflicts(c.Item) {
				continue
			}
			if state.hasNode(id) {
				// Cross-links between sources and shared neighbors.
				state.addEdge(res.Center.ID, id, c.Similarity, c.Reasons)
				continue
			}
			if state.nodeCount() >= meta.MaxNodes {
				break
			}
			if req.Preferences.HideWatched && watched.Has(id) {
				continue
			}
			if !limiter.CanAdmit(ctx, c.Item.Collection, req.Preferences.FullFranchiseMode) {
				continue
			}
			state.addNode(c.Item, false)
			state.addEdge(res.Center.ID, id, c.Similarity, c.Reasons)
			limiter.Record(c.Item.Collection)
			added++
		}
	}
	if ctx.Err() != nil {
		meta.Truncated = true
		metrics.GraphTruncations.Inc()
	}

	graph := state.graph(meta)
	metrics.RecordGraphBuild(metrics.KindSources, time.Since(start), len(graph.Nodes), len(graph.Edges))
	return graph, nil
}
