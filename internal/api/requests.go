// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mediagraph/internal/similarity"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 64 << 10

// itemPath is the {type}/{id} pair shared by item routes.
type itemPath struct {
	Type string `json:"type" validate:"required,content_type"`
	ID   string `json:"id" validate:"required,max=128"`
}

func (p itemPath) contentType() similarity.ContentType {
	t, _ := similarity.ParseContentType(p.Type)
	return t
}

type similarQuery struct {
	itemPath
	Limit int `json:"limit" validate:"min=0,max=200"`
}

type graphQuery struct {
	itemPath
	Depth  int    `json:"depth" validate:"min=0,max=10"`
	Limit  int    `json:"limit" validate:"min=0,max=200"`
	UserID string `json:"user_id" validate:"omitempty,max=128"`
}

type searchQuery struct {
	Query string `json:"q" validate:"max=500"`
	Type  string `json:"type" validate:"omitempty,content_type"`
	Limit int    `json:"limit" validate:"min=0,max=200"`
}

type searchGraphBody struct {
	Query string `json:"query" validate:"required,max=500"`
	Type  string `json:"type" validate:"omitempty,content_type"`
	Limit int    `json:"limit" validate:"min=0,max=200"`
	UseAI bool   `json:"use_ai"`
}

type sourceGraphBody struct {
	Sources []similarity.ItemRef `json:"sources" validate:"required,min=1,max=10,dive"`
	Limit   int                  `json:"limit" validate:"min=0,max=200"`
	UserID  string               `json:"user_id" validate:"omitempty,max=128"`
}

// searchTypes turns an optional type filter into SearchOptions.Types.
func searchTypes(raw string) []similarity.ContentType {
	if raw == "" {
		return nil
	}
	t, _ := similarity.ParseContentType(raw)
	return []similarity.ContentType{t}
}

func pathItem(r *http.Request) itemPath {
	return itemPath{
		Type: chi.URLParam(r, "type"),
		ID:   strings.TrimSpace(chi.URLParam(r, "id")),
	}
}

// intParam parses an optional integer query parameter; absent yields 0.
func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// decodeBody reads a bounded JSON body into out.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(out); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		default:
			return errors.New("request body is not valid JSON")
		}
	}
	return nil
}
