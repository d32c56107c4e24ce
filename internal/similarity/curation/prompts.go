// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package curation

import (
	"fmt"

	"github.com/tomtom215/mediagraph/internal/similarity"
)

func buildValidationPrompt(from, to similarity.Item) string {
	return fmt.Sprintf(`You review recommendations in a media similarity graph.

A: %s
B: %s

Would a viewer who enjoyed A reasonably enjoy B? Consider tone, themes and
audience, not just surface genre labels.

Answer with a single word: YES or NO.`, similarity.DescribeItem(from), similarity.DescribeItem(to))
}

func buildDiversePrompt(center similarity.Item, avoid []string, phrases int) string {
	avoidLine := "none"
	if len(avoid) > 0 {
		avoidLine = fmt.Sprintf("%q", avoid)
	}
	return fmt.Sprintf(`A viewer is exploring titles related to:
%s

Their recommendations are stuck inside one franchise. Suggest up to %d short
search phrases describing the themes, moods or styles of this title that
would surface thematically related titles OUTSIDE these collections: %s

Respond with ONLY a JSON array of strings, for example:
["slow-burn political intrigue", "found family in space"]`, similarity.DescribeItem(center), phrases, avoidLine)
}
