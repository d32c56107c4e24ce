// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// AIEdge is a validated edge proposed by the text generator. From and To
// index the item list that was sent in the prompt.
type AIEdge struct {
	From   int
	To     int
	Type   ReasonType
	Reason string
}

// aiEdgeTypes are the reason types a generator may propose.
var aiEdgeTypes = map[string]ReasonType{
	"director":   ReasonDirector,
	"actor":      ReasonActor,
	"genre":      ReasonGenre,
	"keyword":    ReasonKeyword,
	"theme":      ReasonKeyword,
	"studio":     ReasonStudio,
	"collection": ReasonCollection,
	"similarity": ReasonSimilarity,
}

var errNoJSONArray = errors.New("no JSON array in response")

// rawAIEdge accepts indices as numbers or numeric strings.
type rawAIEdge struct {
	From   any    `json:"from"`
	To     any    `json:"to"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// ParseAIEdges extracts edges from free-form model output over n items.
// Markdown fences are stripped and the first top-level JSON array is decoded.
// Entries with out-of-range indices, self loops, unknown types or a repeated
// pair are dropped. An error is returned only when no array can be decoded.
func ParseAIEdges(raw string, n int) ([]AIEdge, error) {
	arr, err := ExtractJSONArray(raw)
	if err != nil {
		return nil, fmt.Errorf("parse ai edges: %w: %w", ErrAIFailure, err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(arr), &entries); err != nil {
		return nil, fmt.Errorf("parse ai edges: %w: %w", ErrAIFailure, err)
	}

	edges := make([]AIEdge, 0, len(entries))
	seen := make(map[[2]int]struct{}, len(entries))
	for _, entry := range entries {
		var r rawAIEdge
		if err := json.Unmarshal(entry, &r); err != nil {
			continue
		}
		from, ok1 := toIndex(r.From)
		to, ok2 := toIndex(r.To)
		if !ok1 || !ok2 || from < 0 || to < 0 || from >= n || to >= n || from == to {
			continue
		}
		typ, ok := aiEdgeTypes[normalize(r.Type)]
		if !ok {
			continue
		}
		pair := [2]int{min(from, to), max(from, to)}
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}
		edges = append(edges, AIEdge{
			From:   from,
			To:     to,
			Type:   typ,
			Reason: strings.TrimSpace(r.Reason),
		})
	}
	return edges, nil
}

// ExtractJSONArray returns the first balanced top-level JSON array in text,
// after removing a surrounding markdown code fence if present.
func ExtractJSONArray(text string) (string, error) {
	text = stripCodeFence(text)

	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", errNoJSONArray
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", errNoJSONArray
}

// stripCodeFence removes a leading ```lang line and a trailing ``` line.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return strings.Trim(text, "`")
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}

func toIndex(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int(x), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		return i, err == nil
	default:
		return 0, false
	}
}
