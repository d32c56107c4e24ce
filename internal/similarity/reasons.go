// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"fmt"
	"math"
	"strings"
)

// Per-type caps keep edge labels readable.
const (
	maxActorReasons   = 3
	maxGenreReasons   = 3
	maxKeywordReasons = 3
	maxStudioReasons  = 2
)

// ComputeReasons derives the typed overlap between two items in the order
// director, actor, genre, keyword, studio, collection. Values use a's
// spelling; matching is case-insensitive. When nothing overlaps the result
// is a single similarity reason, so it is never empty.
func ComputeReasons(a, b Item, similarity float64) []ConnectionReason {
	var reasons []ConnectionReason

	for _, d := range sharedStrings(a.Directors, b.Directors, 0) {
		reasons = append(reasons, ConnectionReason{Type: ReasonDirector, Value: d})
	}
	for _, name := range sharedStrings(actorNames(a.Actors), actorNames(b.Actors), maxActorReasons) {
		reasons = append(reasons, ConnectionReason{Type: ReasonActor, Value: name})
	}
	for _, g := range sharedStrings(a.Genres, b.Genres, maxGenreReasons) {
		reasons = append(reasons, ConnectionReason{Type: ReasonGenre, Value: g})
	}
	for _, k := range sharedStrings(a.Keywords, b.Keywords, maxKeywordReasons) {
		reasons = append(reasons, ConnectionReason{Type: ReasonKeyword, Value: k})
	}
	for _, s := range sharedStrings(studioNames(a.Studios), studioNames(b.Studios), maxStudioReasons) {
		reasons = append(reasons, ConnectionReason{Type: ReasonStudio, Value: s})
	}
	if a.Collection != "" && strings.EqualFold(a.Collection, b.Collection) {
		reasons = append(reasons, ConnectionReason{Type: ReasonCollection, Value: a.Collection})
	}

	if len(reasons) == 0 {
		reasons = append(reasons, similarityReason(similarity))
	}
	return reasons
}

// similarityReason labels an edge that has no metadata overlap.
func similarityReason(similarity float64) ConnectionReason {
	if similarity <= 0 {
		return ConnectionReason{Type: ReasonSimilarity}
	}
	pct := int(math.Round(math.Min(similarity, 1) * 100))
	return ConnectionReason{Type: ReasonSimilarity, Value: fmt.Sprintf("%d%% similar", pct)}
}

// SharedValues returns the values of a also present in b, compared
// case-insensitively, in a's order and without duplicates.
func SharedValues(a, b []string) []string {
	return sharedStrings(a, b, 0)
}

// sharedStrings is SharedValues capped at limit entries. A limit of 0 means no cap.
func sharedStrings(a, b []string, limit int) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		if k := normalize(v); k != "" {
			inB[k] = struct{}{}
		}
	}

	var out []string
	seen := make(map[string]struct{})
	for _, v := range a {
		k := normalize(v)
		if k == "" {
			continue
		}
		if _, ok := inB[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, strings.TrimSpace(v))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func actorNames(actors []Person) []string {
	names := make([]string, 0, len(actors))
	for _, p := range actors {
		names = append(names, p.Name)
	}
	return names
}

func studioNames(studios []Studio) []string {
	names := make([]string, 0, len(studios))
	for _, s := range studios {
		names = append(names, s.Name)
	}
	return names
}
