// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"errors"
	"reflect"
	"testing"
)

func TestExtractJSONArray(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare array", in: `[1,2]`, want: `[1,2]`},
		{name: "fenced json", in: "```json\n[{\"from\":0}]\n```", want: `[{"from":0}]`},
		{name: "fence without trailer", in: "```\n[3]", want: `[3]`},
		{name: "prose around", in: "Sure! Here you go:\n[[1],[2]]\nHope that helps [x]", want: `[[1],[2]]`},
		{name: "brackets inside strings", in: `[{"reason":"a ] b [ c \" ]"}] trailing`, want: `[{"reason":"a ] b [ c \" ]"}]`},
		{name: "no array", in: `{"from":0}`, wantErr: true},
		{name: "unterminated", in: `[{"from":0}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractJSONArray(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSONArray() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractJSONArray() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseAIEdges(t *testing.T) {
	t.Parallel()

	raw := "```json\n" + `[
  {"from": 0, "to": 1, "type": "director", "reason": " Same director "},
  {"from": 1, "to": 0, "type": "genre", "reason": "duplicate pair"},
  {"from": 2, "to": 2, "type": "genre", "reason": "self loop"},
  {"from": 0, "to": 9, "type": "actor", "reason": "out of range"},
  {"from": -1, "to": 1, "type": "actor", "reason": "negative"},
  {"from": 1, "to": 2, "type": "vibes", "reason": "unknown type"},
  {"from": "1", "to": "2", "type": "Theme", "reason": "string indices"},
  {"from": 0.5, "to": 2, "type": "genre", "reason": "fractional"},
  "garbage",
  {"from": 0, "to": 2, "type": "STUDIO", "reason": ""}
]` + "\n```"

	got, err := ParseAIEdges(raw, 3)
	if err != nil {
		t.Fatalf("ParseAIEdges() error = %v", err)
	}

	want := []AIEdge{
		{From: 0, To: 1, Type: ReasonDirector, Reason: "Same director"},
		{From: 1, To: 2, Type: ReasonKeyword, Reason: "string indices"},
		{From: 0, To: 2, Type: ReasonStudio, Reason: ""},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseAIEdges() = %+v, want %+v", got, want)
	}
}

func TestParseAIEdges_Failures(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "I cannot help with that.", "[not json]"} {
		if _, err := ParseAIEdges(raw, 3); !errors.Is(err, ErrAIFailure) {
			t.Errorf("ParseAIEdges(%q) error = %v, want ErrAIFailure", raw, err)
		}
	}

	edges, err := ParseAIEdges("[]", 3)
	if err != nil || len(edges) != 0 {
		t.Errorf("ParseAIEdges([]) = %v, %v, want empty and nil", edges, err)
	}
}
