// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func newSearchLibrary() *fakeLibrary {
	lib := newFakeLibrary()
	lib.search[ContentTypeMovie] = []ScoredItem{
		{Item: movie("m1", ""), Similarity: 0.91},
		{Item: movie("m2", ""), Similarity: 0.80},
		{Item: movie("m3", ""), Similarity: 0.70},
		{Item: movie("m4", ""), Similarity: 0.60},
	}
	lib.search[ContentTypeSeries] = []ScoredItem{
		{Item: series("s1"), Similarity: 0.85},
		{Item: series("s2"), Similarity: 0.75},
		{Item: series("s3"), Similarity: 0.65},
	}
	return lib
}

func TestSearch_SplitsLimitAndMerges(t *testing.T) {
	t.Parallel()

	lib := newSearchLibrary()
	engine := NewSearchEngine(lib, lib, testConfig(), zerolog.Nop())

	res, err := engine.Search(context.Background(), "  heist thrillers ", SearchOptions{Limit: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if res.Query != "heist thrillers" {
		t.Errorf("Query = %q, want trimmed", res.Query)
	}
	if lib.searchK[ContentTypeMovie] != 3 || lib.searchK[ContentTypeSeries] != 2 {
		t.Errorf("per-type k = %v, want movie 3 series 2", lib.searchK)
	}

	wantIDs := []string{"m1", "s1", "m2", "s2", "m3"}
	if len(res.Results) != len(wantIDs) {
		t.Fatalf("results = %d, want %d", len(res.Results), len(wantIDs))
	}
	for i, id := range wantIDs {
		if res.Results[i].Item.ID != id {
			t.Errorf("result[%d] = %s, want %s", i, res.Results[i].Item.ID, id)
		}
	}
}

func TestSearch_SingleType(t *testing.T) {
	t.Parallel()

	lib := newSearchLibrary()
	engine := NewSearchEngine(lib, lib, testConfig(), zerolog.Nop())

	res, err := engine.Search(context.Background(), "space", SearchOptions{Types: []ContentType{ContentTypeSeries, ContentTypeSeries}, Limit: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if lib.searchK[ContentTypeSeries] != 2 {
		t.Errorf("series k = %d, want full limit 2", lib.searchK[ContentTypeSeries])
	}
	if _, queried := lib.searchK[ContentTypeMovie]; queried {
		t.Error("movies were queried for a series-only search")
	}
	if len(res.Results) != 2 {
		t.Errorf("results = %d, want 2", len(res.Results))
	}
}

func TestSearch_SoftFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		setup    func(*fakeLibrary)
		embedder bool
	}{
		{name: "blank query", query: "   ", embedder: true},
		{name: "no active model", query: "noir", setup: func(l *fakeLibrary) { l.model = "" }, embedder: true},
		{name: "model lookup error", query: "noir", setup: func(l *fakeLibrary) { l.modelErr = errors.New("db") }, embedder: true},
		{name: "embedder failure", query: "noir", setup: func(l *fakeLibrary) { l.embedErr = errors.New("timeout") }, embedder: true},
		{name: "no embedder", query: "noir", embedder: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lib := newSearchLibrary()
			if tt.setup != nil {
				tt.setup(lib)
			}
			var embedder TextEmbedder
			if tt.embedder {
				embedder = lib
			}
			engine := NewSearchEngine(lib, embedder, testConfig(), zerolog.Nop())

			res, err := engine.Search(context.Background(), tt.query, SearchOptions{})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if res.Results == nil || len(res.Results) != 0 {
				t.Errorf("Results = %v, want empty non-nil slice", res.Results)
			}
		})
	}
}

func TestSearch_InvalidType(t *testing.T) {
	t.Parallel()

	lib := newSearchLibrary()
	engine := NewSearchEngine(lib, lib, testConfig(), zerolog.Nop())
	if _, err := engine.Search(context.Background(), "x", SearchOptions{Types: []ContentType{"podcast"}}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Search() error = %v, want ErrInvalidRequest", err)
	}
}

func TestSplitLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit, types, i, want int
	}{
		{limit: 12, types: 1, i: 0, want: 12},
		{limit: 12, types: 2, i: 0, want: 6},
		{limit: 12, types: 2, i: 1, want: 6},
		{limit: 7, types: 2, i: 0, want: 4},
		{limit: 7, types: 2, i: 1, want: 3},
		{limit: 1, types: 2, i: 1, want: 0},
	}
	for _, tt := range tests {
		if got := splitLimit(tt.limit, tt.types, tt.i); got != tt.want {
			t.Errorf("splitLimit(%d, %d, %d) = %d, want %d", tt.limit, tt.types, tt.i, got, tt.want)
		}
	}
}
