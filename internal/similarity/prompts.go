// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"fmt"
	"strings"
)

const promptActorLimit = 3

// DescribeItem renders a one-line summary of an item for prompts.
func DescribeItem(item Item) string {
	var b strings.Builder
	b.WriteString(item.Title)
	if item.Year != nil {
		fmt.Fprintf(&b, " (%d)", *item.Year)
	}
	fmt.Fprintf(&b, " [%s]", item.Type)
	if len(item.Genres) > 0 {
		fmt.Fprintf(&b, " genres: %s;", strings.Join(item.Genres, ", "))
	}
	if len(item.Directors) > 0 {
		fmt.Fprintf(&b, " directed by %s;", strings.Join(item.Directors, ", "))
	}
	if len(item.Actors) > 0 {
		names := actorNames(item.Actors)
		if len(names) > promptActorLimit {
			names = names[:promptActorLimit]
		}
		fmt.Fprintf(&b, " starring %s;", strings.Join(names, ", "))
	}
	if item.Collection != "" {
		fmt.Fprintf(&b, " part of %s;", item.Collection)
	}
	return strings.TrimSuffix(b.String(), ";")
}

func buildSynthesisPrompt(items []Item, maxEdges int) string {
	var list strings.Builder
	for i, item := range items {
		fmt.Fprintf(&list, "%d. %s\n", i, DescribeItem(item))
	}

	return fmt.Sprintf(`You connect media titles in a recommendation graph.

Titles:
%s
Propose up to %d meaningful connections between these titles. Prefer
connections a viewer would find insightful: shared directors, actors,
genres, themes, studios or franchises.

Respond with ONLY a JSON array, no prose. Each element must be:
{"from": <index>, "to": <index>, "type": "<director|actor|genre|keyword|studio|collection|similarity>", "reason": "<short explanation>"}

Indices refer to the numbers in the list above. Do not connect a title to itself.`, list.String(), maxEdges)
}
