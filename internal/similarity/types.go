// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ContentType distinguishes movies from series.
type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// AllContentTypes lists the searchable content types in merge order.
var AllContentTypes = []ContentType{ContentTypeMovie, ContentTypeSeries}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	return t == ContentTypeMovie || t == ContentTypeSeries
}

// ParseContentType accepts "movie"/"movies" and "series"/"show"/"shows"/"tv".
func ParseContentType(s string) (ContentType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return ContentTypeMovie, true
	case "series", "show", "shows", "tv":
		return ContentTypeSeries, true
	default:
		return "", false
	}
}

// Person is a cast member.
type Person struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Thumb string `json:"thumb,omitempty"`
}

// Studio is a production company.
type Studio struct {
	Name string `json:"name"`
}

// Item is an immutable snapshot of a title's metadata.
type Item struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Year       *int        `json:"year,omitempty"`
	PosterURL  string      `json:"poster_url,omitempty"`
	Type       ContentType `json:"type"`
	Genres     []string    `json:"genres,omitempty"`
	Directors  []string    `json:"directors,omitempty"`
	Actors     []Person    `json:"actors,omitempty"`
	Collection string      `json:"collection,omitempty"` // movies only
	Network    string      `json:"network,omitempty"`    // series only
	Keywords   []string    `json:"keywords,omitempty"`
	Studios    []Studio    `json:"studios,omitempty"`
}

// Ref returns the item's identity.
func (i Item) Ref() ItemRef {
	return ItemRef{ID: i.ID, Type: i.Type}
}

// ItemRef identifies an item by id and content type.
type ItemRef struct {
	ID   string      `json:"id" validate:"required,max=128"`
	Type ContentType `json:"type" validate:"required,oneof=movie series"`
}

// ScoredItem is an index result: an item and its cosine similarity to the query.
type ScoredItem struct {
	Item       Item    `json:"item"`
	Similarity float64 `json:"similarity"`
}

// ReasonType tags why two items are connected.
type ReasonType string

const (
	ReasonDirector   ReasonType = "director"
	ReasonActor      ReasonType = "actor"
	ReasonGenre      ReasonType = "genre"
	ReasonKeyword    ReasonType = "keyword"
	ReasonStudio     ReasonType = "studio"
	ReasonCollection ReasonType = "collection"
	ReasonSimilarity ReasonType = "similarity"
	ReasonAIDiverse  ReasonType = "ai-diverse"
)

// ConnectionReason is a human-readable explanation attached to an edge.
type ConnectionReason struct {
	Type  ReasonType `json:"type"`
	Value string     `json:"value,omitempty"`
}

// Connection is a ranked neighbor of a center item.
type Connection struct {
	Item       Item               `json:"item"`
	Similarity float64            `json:"similarity"`
	Reasons    []ConnectionReason `json:"reasons"`
}

// SimilarResult is returned by FindSimilar. Connections is empty, not nil,
// when no model is active or the center has no vector.
type SimilarResult struct {
	Center      Item         `json:"center"`
	Connections []Connection `json:"connections"`
}

// GraphNode is a title in a graph.
type GraphNode struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Year      *int        `json:"year,omitempty"`
	PosterURL string      `json:"poster_url,omitempty"`
	Type      ContentType `json:"type"`
	IsCenter  bool        `json:"is_center"`
}

func nodeFromItem(item Item, isCenter bool) GraphNode {
	return GraphNode{
		ID:        item.ID,
		Title:     item.Title,
		Year:      item.Year,
		PosterURL: item.PosterURL,
		Type:      item.Type,
		IsCenter:  isCenter,
	}
}

// GraphEdge is an undirected connection. Source and Target are stored in
// insertion order; identity is the sorted pair.
type GraphEdge struct {
	Source     string             `json:"source"`
	Target     string             `json:"target"`
	Similarity float64            `json:"similarity"`
	Reasons    []ConnectionReason `json:"reasons"`
}

// GraphMeta describes how a graph was built.
type GraphMeta struct {
	Depth              int    `json:"depth"`
	MaxNodes           int    `json:"max_nodes"`
	Truncated          bool   `json:"truncated"`
	Diversified        bool   `json:"diversified"`
	DominantCollection string `json:"dominant_collection,omitempty"`
}

// GraphData is a built graph. Every edge endpoint is a key of Nodes.
type GraphData struct {
	Nodes map[string]GraphNode
	Edges []GraphEdge
	Meta  GraphMeta
}

// NodeList returns the nodes with centers first, then ordered by id.
func (g *GraphData) NodeList() []GraphNode {
	nodes := make([]GraphNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].IsCenter != nodes[j].IsCenter {
			return nodes[i].IsCenter
		}
		return nodes[i].ID < nodes[j].ID
	})
	return nodes
}

// Degrees returns the number of edges touching each node.
func (g *GraphData) Degrees() map[string]int {
	deg := make(map[string]int, len(g.Nodes))
	for id := range g.Nodes {
		deg[id] = 0
	}
	for _, e := range g.Edges {
		deg[e.Source]++
		deg[e.Target]++
	}
	return deg
}

// MarshalJSON renders nodes as an ordered list.
func (g *GraphData) MarshalJSON() ([]byte, error) {
	edges := g.Edges
	if edges == nil {
		edges = []GraphEdge{}
	}
	return json.Marshal(struct {
		Nodes []GraphNode `json:"nodes"`
		Edges []GraphEdge `json:"edges"`
		Meta  GraphMeta   `json:"meta"`
	}{
		Nodes: g.NodeList(),
		Edges: edges,
		Meta:  g.Meta,
	})
}

// Preferences are per-user graph options.
type Preferences struct {
	// FullFranchiseMode disables the collection limiter.
	FullFranchiseMode bool `json:"full_franchise_mode"`

	// HideWatched skips watched candidates. The center is never skipped.
	HideWatched bool `json:"hide_watched"`
}

// WatchedSet is a set of watched item ids for one content type.
type WatchedSet map[string]struct{}

// Has reports whether id is in the set. A nil set contains nothing.
func (w WatchedSet) Has(id string) bool {
	_, ok := w[id]
	return ok
}

// GraphRequest parameterizes GraphBuilder.Build.
type GraphRequest struct {
	ItemID      string
	Type        ContentType
	Depth       int
	Limit       int
	Preferences Preferences
	Watched     WatchedSet
}

// SearchOptions parameterizes SearchEngine.Search. Empty Types searches all.
type SearchOptions struct {
	Types []ContentType
	Limit int
}

// SearchHit is a ranked search result.
type SearchHit struct {
	Item       Item    `json:"item"`
	Similarity float64 `json:"similarity"`
}

// SearchResult is returned by Search. Results is empty, not nil, on soft failure.
type SearchResult struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

// SynthesisOptions parameterizes Synthesizer.BuildGraph.
type SynthesisOptions struct {
	UseAI bool
}

// SourceGraphRequest parameterizes Engine.BuildSourceGraph.
type SourceGraphRequest struct {
	Sources     []ItemRef
	Limit       int
	Preferences Preferences
	Watched     map[ContentType]WatchedSet
}
