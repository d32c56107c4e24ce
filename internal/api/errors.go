// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/mediagraph/internal/similarity"
	"github.com/tomtom215/mediagraph/internal/validation"
)

// writeEngineError maps engine errors onto HTTP responses. Soft failures
// never reach here; the engine degrades to empty results instead.
func (h *Handler) writeEngineError(rw *ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, similarity.ErrNotFound):
		rw.NotFound("Item not found")
	case errors.Is(err, similarity.ErrInvalidRequest):
		rw.BadRequest(err.Error())
	case errors.Is(err, similarity.ErrCapabilityUnavailable):
		rw.ServiceUnavailable("Similarity backend unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		rw.Error(http.StatusGatewayTimeout, ErrCodeTimeout, "Graph build timed out")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful can be written.
		h.requestLogger(r).Debug().Str("op", op).Msg("request canceled")
	default:
		h.requestLogger(r).Error().Err(err).Str("op", op).Msg("engine request failed")
		rw.InternalError("Internal server error")
	}
}

func writeValidationError(rw *ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}
