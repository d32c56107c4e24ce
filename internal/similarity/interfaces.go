// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import "context"

// MetadataStore reads title records.
// This is typically implemented by the database layer.
type MetadataStore interface {
	// GetItem returns the item or an error wrapping ErrNotFound.
	GetItem(ctx context.Context, id string, t ContentType) (*Item, error)

	// CountByCollection returns how many items of type t belong to the collection.
	CountByCollection(ctx context.Context, name string, t ContentType) (int, error)
}

// EmbeddingIndex answers nearest-neighbor queries over stored vectors.
type EmbeddingIndex interface {
	// ActiveModel returns the active embedding model id, or "" when none is active.
	ActiveModel(ctx context.Context) (string, error)

	// NearestToItem returns up to k items of type t nearest to the stored
	// vector of id, excluding id, ordered by descending similarity. It
	// returns an empty slice when id has no vector under model.
	NearestToItem(ctx context.Context, id string, t ContentType, model string, k int) ([]ScoredItem, error)

	// NearestToVector returns up to k items of type t nearest to vec.
	NearestToVector(ctx context.Context, vec []float32, t ContentType, model string, k int) ([]ScoredItem, error)

	// PairSimilarity returns the cosine similarity of two stored vectors or
	// an error wrapping ErrNoEmbedding.
	PairSimilarity(ctx context.Context, a, b ItemRef, model string) (float64, error)
}

// TextEmbedder turns text into a vector.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TextGenerator completes a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// PreferenceStore returns per-user similarity preferences. Unknown users get
// the zero value.
type PreferenceStore interface {
	Preferences(ctx context.Context, userID string) (Preferences, error)
}

// WatchedStore returns the ids a user has watched.
type WatchedStore interface {
	WatchedIDs(ctx context.Context, userID string, t ContentType) (map[string]struct{}, error)
}

// ConnectionValidator accepts or rejects a proposed expansion edge. A
// rejection is normal control flow. Implementations must not block
// indefinitely and should treat their own failures as a rejection.
type ConnectionValidator interface {
	Validate(ctx context.Context, from, to Item, similarity float64) bool
}

// DiverseContentFinder proposes off-bubble candidates for a center item.
// At most budget items are used by the caller.
type DiverseContentFinder interface {
	FindDiverse(ctx context.Context, center Item, existing []Item, budget int) ([]Item, error)
}
