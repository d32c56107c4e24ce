// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

// BubbleAnalysis describes how strongly one collection dominates a node set.
type BubbleAnalysis struct {
	IsBubbled            bool    `json:"is_bubbled"`
	DominantCollection   string  `json:"dominant_collection,omitempty"`
	CollectionPercentage float64 `json:"collection_percentage"`
}

// DetectBubble computes the share of items held by the most common
// collection. Items without a collection count toward the total. Ties go to
// the lexicographically smaller name.
func DetectBubble(items []Item, threshold float64) BubbleAnalysis {
	if len(items) == 0 {
		return BubbleAnalysis{}
	}

	counts := make(map[string]int)
	for _, it := range items {
		if it.Collection != "" {
			counts[it.Collection]++
		}
	}

	var dominant string
	best := 0
	for name, n := range counts {
		if n > best || (n == best && name < dominant) {
			dominant, best = name, n
		}
	}
	if best == 0 {
		return BubbleAnalysis{}
	}

	pct := float64(best) / float64(len(items))
	return BubbleAnalysis{
		IsBubbled:            pct >= threshold,
		DominantCollection:   dominant,
		CollectionPercentage: pct,
	}
}
