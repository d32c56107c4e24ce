// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import "errors"

var (
	// ErrNotFound is returned when the requested center item does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrCapabilityUnavailable marks a missing embedding model or provider.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrNoEmbedding is returned by EmbeddingIndex.PairSimilarity when either
	// item has no vector under the active model.
	ErrNoEmbedding = errors.New("no embedding for item")

	// ErrAIFailure wraps provider errors and unusable model output.
	ErrAIFailure = errors.New("ai failure")

	// ErrInvalidRequest is returned for malformed arguments.
	ErrInvalidRequest = errors.New("invalid request")
)
