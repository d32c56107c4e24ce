// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

// fakeLibrary implements MetadataStore and EmbeddingIndex over explicit
// ranked neighbor lists.
type fakeLibrary struct {
	mu        sync.Mutex
	items     map[string]Item
	alt       map[string]Item // a second item per id under another type
	neighbors map[string][]string // ranked neighbor ids per item
	search    map[ContentType][]ScoredItem
	pairs     map[string]float64 // keyed by edgeKey
	model     string

	modelErr   error
	countErr   error
	nearestErr error
	embedErr   error
	blockIDs   map[string]bool // NearestToItem waits for ctx cancellation

	countCalls   atomic.Int32
	nearestCalls atomic.Int32
	pairCalls    atomic.Int32
	searchK      map[ContentType]int
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		items:     make(map[string]Item),
		alt:       make(map[string]Item),
		neighbors: make(map[string][]string),
		search:    make(map[ContentType][]ScoredItem),
		pairs:     make(map[string]float64),
		model:     "test-model",
		blockIDs:  make(map[string]bool),
		searchK:   make(map[ContentType]int),
	}
}

func (f *fakeLibrary) add(items ...Item) {
	for _, it := range items {
		f.items[it.ID] = it
	}
}

// addAlt registers items whose ids are already used by another type.
func (f *fakeLibrary) addAlt(items ...Item) {
	for _, it := range items {
		f.alt[it.ID] = it
	}
}

// lookup returns the item with id and type t from either map.
func (f *fakeLibrary) lookup(id string, t ContentType) (Item, bool) {
	if it, ok := f.items[id]; ok && it.Type == t {
		return it, true
	}
	if it, ok := f.alt[id]; ok && it.Type == t {
		return it, true
	}
	return Item{}, false
}

func (f *fakeLibrary) link(id string, neighbors ...string) {
	f.neighbors[id] = append(f.neighbors[id], neighbors...)
}

func (f *fakeLibrary) GetItem(_ context.Context, id string, t ContentType) (*Item, error) {
	it, ok := f.lookup(id, t)
	if !ok {
		return nil, fmt.Errorf("get item %s: %w", id, ErrNotFound)
	}
	return &it, nil
}

func (f *fakeLibrary) CountByCollection(_ context.Context, name string, t ContentType) (int, error) {
	f.countCalls.Add(1)
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, it := range f.items {
		if it.Collection == name && it.Type == t {
			n++
		}
	}
	return n, nil
}

func (f *fakeLibrary) ActiveModel(context.Context) (string, error) {
	return f.model, f.modelErr
}

func (f *fakeLibrary) NearestToItem(ctx context.Context, id string, t ContentType, _ string, k int) ([]ScoredItem, error) {
	f.nearestCalls.Add(1)
	if f.blockIDs[id] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.nearestErr != nil {
		return nil, f.nearestErr
	}
	var out []ScoredItem
	for rank, nid := range f.neighbors[id] {
		it, ok := f.lookup(nid, t)
		if !ok || nid == id {
			continue
		}
		out = append(out, ScoredItem{Item: it, Similarity: 0.95 - float64(rank)*0.01})
		if len(out) == k {
			break
		}
	}
	return out, nil
}

func (f *fakeLibrary) NearestToVector(_ context.Context, _ []float32, t ContentType, _ string, k int) ([]ScoredItem, error) {
	f.mu.Lock()
	f.searchK[t] = k
	f.mu.Unlock()
	res := f.search[t]
	if len(res) > k {
		res = res[:k]
	}
	return res, nil
}

func (f *fakeLibrary) PairSimilarity(_ context.Context, a, b ItemRef, _ string) (float64, error) {
	f.pairCalls.Add(1)
	if sim, ok := f.pairs[edgeKey(a.ID, b.ID)]; ok {
		return sim, nil
	}
	return 0, fmt.Errorf("pair %s/%s: %w", a.ID, b.ID, ErrNoEmbedding)
}

func (f *fakeLibrary) Embed(context.Context, string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// mockGenerator returns a fixed response.
type mockGenerator struct {
	response string
	err      error
	calls    atomic.Int32
	prompts  []string
	mu       sync.Mutex
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.response, m.err
}

// mockValidator rejects the ids in reject.
type mockValidator struct {
	reject map[string]bool
	calls  atomic.Int32
}

func (m *mockValidator) Validate(_ context.Context, _, to Item, _ float64) bool {
	m.calls.Add(1)
	return !m.reject[to.ID]
}

// mockDiverse returns fixed items.
type mockDiverse struct {
	items      []Item
	err        error
	calls      atomic.Int32
	lastBudget int
}

func (m *mockDiverse) FindDiverse(_ context.Context, _ Item, _ []Item, budget int) ([]Item, error) {
	m.calls.Add(1)
	m.lastBudget = budget
	return m.items, m.err
}

func movie(id, collection string, genres ...string) Item {
	return Item{ID: id, Title: "Title " + id, Type: ContentTypeMovie, Collection: collection, Genres: genres}
}

func series(id string, genres ...string) Item {
	return Item{ID: id, Title: "Title " + id, Type: ContentTypeSeries, Genres: genres}
}

func ids(prefix string, from, to int) []string {
	out := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, fmt.Sprintf("%s%02d", prefix, i))
	}
	return out
}

func testConfig() Config {
	return DefaultConfig()
}

func newTestBuilder(t *testing.T, lib *fakeLibrary, validator ConnectionValidator, diverse DiverseContentFinder, cfg Config) *GraphBuilder {
	t.Helper()
	logger := zerolog.Nop()
	finder := NewNeighborFinder(lib, lib, cfg, logger)
	return NewGraphBuilder(finder, NewCollectionSizer(lib, nil), validator, diverse, cfg, logger)
}

// assertGraphInvariants checks node/edge uniqueness, no self loops and that
// every edge endpoint is a node.
func assertGraphInvariants(t *testing.T, g *GraphData) {
	t.Helper()
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		if e.Source == e.Target {
			t.Errorf("self edge on %s", e.Source)
		}
		if _, ok := g.Nodes[e.Source]; !ok {
			t.Errorf("edge source %s is not a node", e.Source)
		}
		if _, ok := g.Nodes[e.Target]; !ok {
			t.Errorf("edge target %s is not a node", e.Target)
		}
		key := edgeKey(e.Source, e.Target)
		if seen[key] {
			t.Errorf("duplicate edge %s-%s", e.Source, e.Target)
		}
		seen[key] = true
		if len(e.Reasons) == 0 {
			t.Errorf("edge %s-%s has no reasons", e.Source, e.Target)
		}
	}
	for id, n := range g.Nodes {
		if n.ID != id {
			t.Errorf("node keyed %s has id %s", id, n.ID)
		}
	}
}

func countCollection(g *GraphData, lib *fakeLibrary, collection string) int {
	n := 0
	for id := range g.Nodes {
		if lib.items[id].Collection == collection {
			n++
		}
	}
	return n
}
