// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

// @title Mediagraph API
// @version 1.0
// @description Similarity graphs over a media library: nearest neighbors of a title,
// @description multi-hop graphs around it, semantic search, and graphs that connect
// @description search results or hand-picked sources.
// @description
// @description ## Error Responses
// @description
// @description Every response uses the same envelope:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {"code": "NOT_FOUND", "message": "movie 42 not found"},
// @description   "meta": {"request_id": "...", "timestamp": "2026-01-01T00:00:00Z", "duration_ms": 3}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/mediagraph/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8484
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Health
// @tag.description Liveness and readiness probes
//
// @tag.name Similarity
// @tag.description Neighbors and expansion graphs around titles
//
// @tag.name Search
// @tag.description Semantic search and graphs built from search results
package main
