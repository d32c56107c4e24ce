// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

// graphState accumulates nodes and edges for one build. Node insertion is
// idempotent and edges are deduplicated by their sorted endpoint pair.
type graphState struct {
	nodes    map[string]GraphNode
	items    map[string]Item
	order    []string
	edges    []GraphEdge
	edgeKeys map[string]struct{}
	degree   map[string]int
}

func newGraphState() *graphState {
	return &graphState{
		nodes:    make(map[string]GraphNode),
		items:    make(map[string]Item),
		edgeKeys: make(map[string]struct{}),
		degree:   make(map[string]int),
	}
}

// addNode inserts item and reports whether it was new. A repeated id is a
// no-op, including an id already held by an item of another type.
func (s *graphState) addNode(item Item, isCenter bool) bool {
	if item.ID == "" {
		return false
	}
	if _, ok := s.nodes[item.ID]; ok {
		return false
	}
	s.nodes[item.ID] = nodeFromItem(item, isCenter)
	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return true
}

// conflicts reports whether item's id is already a node of another type.
func (s *graphState) conflicts(item Item) bool {
	n, ok := s.nodes[item.ID]
	return ok && n.Type != item.Type
}

func (s *graphState) hasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// addEdge connects two existing nodes. Self edges, unknown endpoints and
// repeated pairs are rejected. Empty reasons get a similarity reason.
func (s *graphState) addEdge(source, target string, similarity float64, reasons []ConnectionReason) bool {
	if source == target || !s.hasNode(source) || !s.hasNode(target) {
		return false
	}
	key := edgeKey(source, target)
	if _, dup := s.edgeKeys[key]; dup {
		return false
	}
	if len(reasons) == 0 {
		reasons = []ConnectionReason{similarityReason(similarity)}
	}

	s.edgeKeys[key] = struct{}{}
	s.edges = append(s.edges, GraphEdge{
		Source:     source,
		Target:     target,
		Similarity: similarity,
		Reasons:    reasons,
	})
	s.degree[source]++
	s.degree[target]++
	return true
}

func (s *graphState) hasEdge(a, b string) bool {
	_, ok := s.edgeKeys[edgeKey(a, b)]
	return ok
}

func (s *graphState) nodeCount() int { return len(s.nodes) }

func (s *graphState) edgeCount() int { return len(s.edges) }

// connected reports whether id has at least one edge.
func (s *graphState) connected(id string) bool {
	return s.degree[id] > 0
}

// allItems returns the admitted items in insertion order.
func (s *graphState) allItems() []Item {
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *graphState) graph(meta GraphMeta) *GraphData {
	edges := make([]GraphEdge, len(s.edges))
	copy(edges, s.edges)
	nodes := make(map[string]GraphNode, len(s.nodes))
	for id, n := range s.nodes {
		nodes[id] = n
	}
	return &GraphData{Nodes: nodes, Edges: edges, Meta: meta}
}

func edgeKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}
