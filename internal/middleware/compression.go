// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package middleware

import (
	"compress/gzip"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Compression gzips JSON responses for clients that accept it. Graph
// payloads with posters and reasons compress well.
func Compression() func(http.Handler) http.Handler {
	return chimiddleware.Compress(gzip.DefaultCompression, "application/json")
}
