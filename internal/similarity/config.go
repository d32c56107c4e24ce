// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"errors"
	"fmt"
	"time"
)

// Config contains the engine tunables.
type Config struct {
	// DefaultLimit is used when a request does not specify a limit.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit.
	MaxLimit int `json:"max_limit"`

	// MaxDepth caps the graph expansion depth.
	MaxDepth int `json:"max_depth"`

	// MaxNodesDepth2 and MaxNodesDeep cap node counts for depth 2 and depth >= 3.
	// Depth 1 graphs are capped at limit+1.
	MaxNodesDepth2 int `json:"max_nodes_depth2"`
	MaxNodesDeep   int `json:"max_nodes_deep"`

	// OversampleFactor multiplies candidate requests to leave headroom for filtering.
	OversampleFactor int `json:"oversample_factor"`

	// BubbleThreshold is the dominant collection share that marks a bubble.
	BubbleThreshold float64 `json:"bubble_threshold"`

	// DiverseEdgeSimilarity is the placeholder score on ai-diverse edges.
	DiverseEdgeSimilarity float64 `json:"diverse_edge_similarity"`

	// AIEdgeSimilarity is the placeholder score on synthesized AI edges.
	AIEdgeSimilarity float64 `json:"ai_edge_similarity"`

	// BuildTimeout bounds a whole graph build. Zero disables the deadline.
	BuildTimeout time.Duration `json:"build_timeout"`

	// SynthMaxItems caps the items sent to the text generator.
	SynthMaxItems int `json:"synth_max_items"`

	// SynthMaxEdges caps the edges requested from the text generator.
	SynthMaxEdges int `json:"synth_max_edges"`

	// FallbackPairItems bounds the embedding pair scan of the synthesizer.
	FallbackPairItems int `json:"fallback_pair_items"`

	// ConnectivityFloor is the minimum similarity for embedding fallback edges.
	ConnectivityFloor float64 `json:"connectivity_floor"`

	// SourceConcurrency bounds parallel lookups in BuildSourceGraph.
	SourceConcurrency int `json:"source_concurrency"`

	// PerSourceLimit is the neighbor count per source in BuildSourceGraph.
	PerSourceLimit int `json:"per_source_limit"`

	// CollectionCacheSize and CollectionCacheTTL size the collection-size cache.
	CollectionCacheSize int           `json:"collection_cache_size"`
	CollectionCacheTTL  time.Duration `json:"collection_cache_ttl"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:          12,
		MaxLimit:              50,
		MaxDepth:              3,
		MaxNodesDepth2:        25,
		MaxNodesDeep:          45,
		OversampleFactor:      3,
		BubbleThreshold:       0.5,
		DiverseEdgeSimilarity: 0.5,
		AIEdgeSimilarity:      0.5,
		BuildTimeout:          20 * time.Second,
		SynthMaxItems:         15,
		SynthMaxEdges:         25,
		FallbackPairItems:     10,
		ConnectivityFloor:     0.6,
		SourceConcurrency:     8,
		PerSourceLimit:        6,
		CollectionCacheSize:   1000,
		CollectionCacheTTL:    time.Hour,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.DefaultLimit <= 0 {
		errs = append(errs, errors.New("default_limit must be positive"))
	}
	if c.MaxLimit < c.DefaultLimit {
		errs = append(errs, fmt.Errorf("max_limit (%d) must be >= default_limit (%d)", c.MaxLimit, c.DefaultLimit))
	}
	if c.MaxDepth < 1 {
		errs = append(errs, errors.New("max_depth must be at least 1"))
	}
	if c.MaxNodesDepth2 < 2 || c.MaxNodesDeep < c.MaxNodesDepth2 {
		errs = append(errs, errors.New("max_nodes_deep must be >= max_nodes_depth2 >= 2"))
	}
	if c.OversampleFactor < 1 {
		errs = append(errs, errors.New("oversample_factor must be at least 1"))
	}
	if c.BubbleThreshold <= 0 || c.BubbleThreshold > 1 {
		errs = append(errs, errors.New("bubble_threshold must be in (0, 1]"))
	}
	for name, v := range map[string]float64{
		"diverse_edge_similarity": c.DiverseEdgeSimilarity,
		"ai_edge_similarity":      c.AIEdgeSimilarity,
		"connectivity_floor":      c.ConnectivityFloor,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be in [0, 1]", name))
		}
	}
	if c.BuildTimeout < 0 {
		errs = append(errs, errors.New("build_timeout must not be negative"))
	}
	if c.SynthMaxItems < 2 || c.SynthMaxEdges < 1 || c.FallbackPairItems < 2 {
		errs = append(errs, errors.New("synthesizer bounds must be positive"))
	}
	if c.SourceConcurrency < 1 || c.PerSourceLimit < 1 {
		errs = append(errs, errors.New("source_concurrency and per_source_limit must be positive"))
	}

	return errors.Join(errs...)
}

// clampLimit applies the default and maximum to a requested limit.
func (c *Config) clampLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}

// clampDepth bounds depth to [1, MaxDepth].
func (c *Config) clampDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > c.MaxDepth {
		return c.MaxDepth
	}
	return depth
}

// MaxNodes returns the node cap for a build of the given depth and limit.
func (c *Config) MaxNodes(depth, limit int) int {
	switch {
	case depth <= 1:
		return limit + 1
	case depth == 2:
		return c.MaxNodesDepth2
	default:
		return c.MaxNodesDeep
	}
}
