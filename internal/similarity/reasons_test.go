// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"reflect"
	"strings"
	"testing"
)

func TestComputeReasons(t *testing.T) {
	t.Parallel()

	a := Item{
		ID:         "a",
		Genres:     []string{"Action", "Thriller", "Drama", "Crime"},
		Directors:  []string{"Sam Mendes"},
		Actors:     []Person{{Name: "Daniel Craig"}, {Name: "Judi Dench"}, {Name: "Ralph Fiennes"}, {Name: "Ben Whishaw"}},
		Collection: "Bond",
		Keywords:   []string{"spy"},
		Studios:    []Studio{{Name: "Eon"}},
	}

	tests := []struct {
		name string
		b    Item
		sim  float64
		want []ConnectionReason
	}{
		{
			name: "full overlap in fixed order",
			b: Item{
				ID:         "b",
				Genres:     []string{"action", "thriller"},
				Directors:  []string{"Sam Mendes"},
				Actors:     []Person{{Name: "Daniel Craig"}},
				Collection: "bond",
				Keywords:   []string{"Spy"},
				Studios:    []Studio{{Name: "Eon"}},
			},
			sim: 0.9,
			want: []ConnectionReason{
				{Type: ReasonDirector, Value: "Sam Mendes"},
				{Type: ReasonActor, Value: "Daniel Craig"},
				{Type: ReasonGenre, Value: "Action"},
				{Type: ReasonGenre, Value: "Thriller"},
				{Type: ReasonKeyword, Value: "spy"},
				{Type: ReasonStudio, Value: "Eon"},
				{Type: ReasonCollection, Value: "Bond"},
			},
		},
		{
			name: "caps actors and genres at three",
			b: Item{
				ID:     "c",
				Genres: []string{"Crime", "Drama", "Thriller", "Action"},
				Actors: []Person{{Name: "Ben Whishaw"}, {Name: "Ralph Fiennes"}, {Name: "Judi Dench"}, {Name: "Daniel Craig"}},
			},
			want: []ConnectionReason{
				{Type: ReasonActor, Value: "Daniel Craig"},
				{Type: ReasonActor, Value: "Judi Dench"},
				{Type: ReasonActor, Value: "Ralph Fiennes"},
				{Type: ReasonGenre, Value: "Action"},
				{Type: ReasonGenre, Value: "Thriller"},
				{Type: ReasonGenre, Value: "Drama"},
			},
		},
		{
			name: "no overlap falls back to similarity",
			b:    Item{ID: "d", Genres: []string{"Animation"}},
			sim:  0.873,
			want: []ConnectionReason{{Type: ReasonSimilarity, Value: "87% similar"}},
		},
		{
			name: "no overlap and no score",
			b:    Item{ID: "e"},
			want: []ConnectionReason{{Type: ReasonSimilarity}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeReasons(a, tt.b, tt.sim)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComputeReasons() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSharedValues(t *testing.T) {
	t.Parallel()

	got := SharedValues([]string{"Drama", " drama", "Comedy", ""}, []string{"DRAMA", "comedy", ""})
	want := []string{"Drama", "Comedy"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SharedValues() = %v, want %v", got, want)
	}
	if SharedValues(nil, want) != nil {
		t.Error("SharedValues(nil, _) should be nil")
	}
}

func TestGraphState_AddNodeIdempotent(t *testing.T) {
	t.Parallel()

	s := newGraphState()
	if !s.addNode(movie("a", ""), true) {
		t.Fatal("first addNode() = false, want true")
	}
	if s.addNode(movie("a", "Other"), false) {
		t.Error("second addNode() = true, want false")
	}
	if s.nodeCount() != 1 {
		t.Errorf("nodeCount() = %d, want 1", s.nodeCount())
	}
	if !s.nodes["a"].IsCenter {
		t.Error("second add must not overwrite the first node")
	}
	if s.addNode(Item{}, false) {
		t.Error("addNode() accepted an empty id")
	}
}

func TestGraphState_SharedIDAcrossTypes(t *testing.T) {
	t.Parallel()

	s := newGraphState()
	s.addNode(movie("42", ""), true)

	if !s.conflicts(series("42")) {
		t.Error("conflicts(series 42) = false with movie 42 in the graph")
	}
	if s.conflicts(movie("42", "")) {
		t.Error("conflicts(movie 42) = true for the same item")
	}
	if s.conflicts(series("7")) {
		t.Error("conflicts(series 7) = true for an unused id")
	}
	if s.addNode(series("42"), false) {
		t.Error("addNode(series 42) = true, want false")
	}
	if got := s.nodes["42"].Type; got != ContentTypeMovie {
		t.Errorf("node 42 type = %s, want movie", got)
	}
}

func TestGraphState_AddEdge(t *testing.T) {
	t.Parallel()

	s := newGraphState()
	s.addNode(movie("a", ""), true)
	s.addNode(movie("b", ""), false)

	tests := []struct {
		name   string
		source string
		target string
		want   bool
	}{
		{name: "new edge", source: "a", target: "b", want: true},
		{name: "same pair", source: "a", target: "b", want: false},
		{name: "reversed pair", source: "b", target: "a", want: false},
		{name: "self loop", source: "a", target: "a", want: false},
		{name: "unknown endpoint", source: "a", target: "z", want: false},
	}

	for _, tt := range tests {
		if got := s.addEdge(tt.source, tt.target, 0.7, nil); got != tt.want {
			t.Errorf("%s: addEdge() = %v, want %v", tt.name, got, tt.want)
		}
	}
	if s.edgeCount() != 1 {
		t.Fatalf("edgeCount() = %d, want 1", s.edgeCount())
	}
	if r := s.edges[0].Reasons; len(r) != 1 || r[0].Type != ReasonSimilarity {
		t.Errorf("default reasons = %+v, want one similarity reason", r)
	}
	if !s.connected("a") || !s.connected("b") || !s.hasEdge("b", "a") {
		t.Error("edge endpoints should be connected")
	}
}

func TestGraphData_NodeListAndJSON(t *testing.T) {
	t.Parallel()

	s := newGraphState()
	s.addNode(movie("m", ""), false)
	s.addNode(movie("z", ""), true)
	s.addNode(movie("b", ""), false)
	g := s.graph(GraphMeta{Depth: 1})

	list := g.NodeList()
	got := []string{list[0].ID, list[1].ID, list[2].ID}
	if !reflect.DeepEqual(got, []string{"z", "b", "m"}) {
		t.Errorf("NodeList() order = %v, want [z b m]", got)
	}

	data, err := g.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if want := `"edges":[]`; !strings.Contains(string(data), want) {
		t.Errorf("JSON %s does not contain %s", data, want)
	}
}
