// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package api

import (
	"net/http"
	"strings"

	"github.com/tomtom215/mediagraph/internal/similarity"
	"github.com/tomtom215/mediagraph/internal/validation"
)

// Similar returns the ranked neighbors of one item.
//
// @Summary Similar items
// @Tags Similarity
// @Produce json
// @Param type path string true "movie or series"
// @Param id path string true "Item ID"
// @Param limit query int false "Number of neighbors"
// @Success 200 {object} APIResponse{data=similarity.SimilarResult}
// @Failure 404 {object} APIResponse "Unknown item"
// @Router /similar/{type}/{id} [get]
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := similarQuery{itemPath: pathItem(r)}
	var err error
	if q.Limit, err = intParam(r, "limit"); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	result, err := h.engine.FindSimilar(r.Context(), q.ID, q.contentType(), q.Limit)
	if err != nil {
		h.writeEngineError(rw, r, "similar", err)
		return
	}
	rw.Success(result)
}

// Graph expands a similarity graph around one item.
//
// @Summary Similarity graph
// @Tags Similarity
// @Produce json
// @Param type path string true "movie or series"
// @Param id path string true "Item ID"
// @Param depth query int false "Expansion depth"
// @Param limit query int false "Neighbors per node"
// @Param user_id query string false "Apply this user's preferences"
// @Success 200 {object} APIResponse{data=similarity.GraphData}
// @Failure 404 {object} APIResponse "Unknown item"
// @Router /graph/{type}/{id} [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := graphQuery{
		itemPath: pathItem(r),
		UserID:   strings.TrimSpace(r.URL.Query().Get("user_id")),
	}
	var err error
	if q.Depth, err = intParam(r, "depth"); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if q.Limit, err = intParam(r, "limit"); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	t := q.contentType()
	prefs, watched := h.engine.UserContext(r.Context(), q.UserID, t)
	graph, err := h.engine.BuildGraph(r.Context(), similarity.GraphRequest{
		ItemID:      q.ID,
		Type:        t,
		Depth:       q.Depth,
		Limit:       q.Limit,
		Preferences: prefs,
		Watched:     watched,
	})
	if err != nil {
		h.writeEngineError(rw, r, "graph", err)
		return
	}
	rw.Success(graph)
}

// Search runs a free-text semantic search.
//
// @Summary Semantic search
// @Tags Search
// @Produce json
// @Param q query string true "Search text"
// @Param type query string false "movie or series; both when omitted"
// @Param limit query int false "Maximum results"
// @Success 200 {object} APIResponse{data=similarity.SearchResult}
// @Router /search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	q := searchQuery{
		Query: r.URL.Query().Get("q"),
		Type:  strings.TrimSpace(r.URL.Query().Get("type")),
	}
	var err error
	if q.Limit, err = intParam(r, "limit"); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	result, err := h.engine.Search(r.Context(), q.Query, similarity.SearchOptions{
		Types: searchTypes(q.Type),
		Limit: q.Limit,
	})
	if err != nil {
		h.writeEngineError(rw, r, "search", err)
		return
	}
	rw.Success(result)
}

// SearchGraph searches and connects the hits into one graph.
//
// @Summary Graph from search results
// @Tags Search
// @Accept json
// @Produce json
// @Param body body searchGraphBody true "Query and options"
// @Success 200 {object} APIResponse{data=similarity.GraphData}
// @Router /search/graph [post]
func (h *Handler) SearchGraph(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var body searchGraphBody
	if err := decodeBody(w, r, &body); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	body.Query = strings.TrimSpace(body.Query)
	if verr := validation.ValidateStruct(&body); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	graph, err := h.engine.SearchGraph(r.Context(), body.Query,
		similarity.SearchOptions{Types: searchTypes(body.Type), Limit: body.Limit},
		similarity.SynthesisOptions{UseAI: body.UseAI},
	)
	if err != nil {
		h.writeEngineError(rw, r, "search_graph", err)
		return
	}
	rw.Success(graph)
}

// SourceGraph merges the neighborhoods of several source items.
//
// @Summary Multi-source graph
// @Tags Similarity
// @Accept json
// @Produce json
// @Param body body sourceGraphBody true "Sources and options"
// @Success 200 {object} APIResponse{data=similarity.GraphData}
// @Failure 404 {object} APIResponse "No source exists"
// @Router /graph/sources [post]
func (h *Handler) SourceGraph(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var body sourceGraphBody
	if err := decodeBody(w, r, &body); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	body.UserID = strings.TrimSpace(body.UserID)
	if verr := validation.ValidateStruct(&body); verr != nil {
		writeValidationError(rw, verr)
		return
	}

	req := similarity.SourceGraphRequest{
		Sources: body.Sources,
		Limit:   body.Limit,
		Watched: make(map[similarity.ContentType]similarity.WatchedSet),
	}
	for _, src := range body.Sources {
		if _, done := req.Watched[src.Type]; done {
			continue
		}
		prefs, watched := h.engine.UserContext(r.Context(), body.UserID, src.Type)
		req.Preferences = prefs
		req.Watched[src.Type] = watched
	}

	graph, err := h.engine.BuildSourceGraph(r.Context(), req)
	if err != nil {
		h.writeEngineError(rw, r, "source_graph", err)
		return
	}
	rw.Success(graph)
}
