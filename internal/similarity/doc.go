// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// Package similarity builds explorable similarity graphs over media titles.
//
// # Architecture
//
// The engine combines vector nearest-neighbor retrieval with metadata
// overlap and optional language-model assistance:
//
//   - NeighborFinder: center item plus ranked neighbors with reasons
//   - GraphBuilder: multi-level expansion with collection exclusion
//   - CollectionLimiter: size-proportional cap per franchise
//   - DetectBubble: dominance check that triggers diversification
//   - SearchEngine: free-text semantic search across content types
//   - Synthesizer: connects a result set with typed AI edges, falling
//     back to embedding similarity and finally a chain
//
// # Failure Model
//
// Only a missing center item is returned as an error. Missing models,
// missing vectors and language-model failures degrade the result (fewer
// nodes, no AI edges) and are logged and counted as fallbacks.
//
// # Concurrency
//
// A single graph build is sequential: later steps depend on collection
// counts and the node set mutated by earlier steps. Engine.BuildSourceGraph
// fans out independent neighbor lookups and merges them afterwards.
//
// # Usage
//
//	engine := similarity.NewEngine(similarity.Dependencies{
//	    Metadata:   db,
//	    Embeddings: db,
//	    Embedder:   embedder,
//	    Generator:  generator,
//	}, similarity.DefaultConfig(), logger)
//
//	graph, err := engine.BuildGraph(ctx, similarity.GraphRequest{
//	    ItemID: "m1", Type: similarity.ContentTypeMovie, Depth: 2, Limit: 12,
//	})
package similarity
