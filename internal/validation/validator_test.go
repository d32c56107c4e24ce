// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/mediagraph/internal/similarity"
)

type graphQuery struct {
	Type   string `json:"type" validate:"required,content_type"`
	Depth  int    `json:"depth" validate:"min=1,max=3"`
	Limit  int    `json:"limit" validate:"min=1,max=200"`
	UserID string `json:"user_id,omitempty" validate:"omitempty,max=128"`
}

type sourcesBody struct {
	Sources []similarity.ItemRef `json:"sources" validate:"required,min=1,max=5,dive"`
	Mode    string               `json:"mode" validate:"omitempty,oneof=fast full"`
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	v1 := GetValidator()
	v2 := GetValidator()
	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return one shared instance")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     any
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:  "valid query",
			input: &graphQuery{Type: "movie", Depth: 2, Limit: 50},
		},
		{
			name:  "type alias accepted",
			input: &graphQuery{Type: "TV", Depth: 1, Limit: 1},
		},
		{
			name:      "missing type",
			input:     &graphQuery{Depth: 1, Limit: 1},
			wantField: "type",
			wantTag:   "required",
			wantMsg:   "type is required",
		},
		{
			name:      "unknown type",
			input:     &graphQuery{Type: "podcast", Depth: 1, Limit: 1},
			wantField: "type",
			wantTag:   "content_type",
			wantMsg:   "type must be movie or series",
		},
		{
			name:      "depth too large",
			input:     &graphQuery{Type: "movie", Depth: 4, Limit: 1},
			wantField: "depth",
			wantTag:   "max",
			wantMsg:   "depth must be at most 3",
		},
		{
			name:      "user id too long",
			input:     &graphQuery{Type: "movie", Depth: 1, Limit: 1, UserID: strings.Repeat("u", 129)},
			wantField: "user_id",
			wantTag:   "max",
			wantMsg:   "user_id must be at most 128 characters",
		},
		{
			name:      "too many sources",
			input:     &sourcesBody{Sources: make([]similarity.ItemRef, 6)},
			wantField: "sources",
			wantTag:   "max",
			wantMsg:   "sources must be at most 5 entries",
		},
		{
			name: "invalid source entry",
			input: &sourcesBody{Sources: []similarity.ItemRef{
				{ID: "m-1", Type: similarity.ContentTypeMovie},
				{ID: "m-2", Type: "podcast"},
			}},
			wantField: "type",
			wantTag:   "oneof",
			wantMsg:   "type must be one of: movie series",
		},
		{
			name:      "bad mode",
			input:     &sourcesBody{Sources: []similarity.ItemRef{{ID: "m-1", Type: "movie"}}, Mode: "slow"},
			wantField: "mode",
			wantTag:   "oneof",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("got %d field errors, want 1: %v", len(verr.Fields), verr)
			}
			got := verr.Fields[0]
			if got.Field != tt.wantField || got.Tag != tt.wantTag {
				t.Errorf("field error = %s/%s, want %s/%s", got.Field, got.Tag, tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && got.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		t.Parallel()

		apiErr := ValidateStruct(&graphQuery{Type: "movie", Depth: 0, Limit: 1}).ToAPIError()
		if apiErr.Code != CodeValidation {
			t.Errorf("Code = %q", apiErr.Code)
		}
		if apiErr.Details["field"] != "depth" || apiErr.Details["tag"] != "min" {
			t.Errorf("Details = %v", apiErr.Details)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		t.Parallel()

		apiErr := ValidateStruct(&graphQuery{Depth: 9, Limit: 0}).ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]any)
		if !ok || len(fields) != 3 {
			t.Fatalf("Details[fields] = %v", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "type is required") || !strings.Contains(apiErr.Message, "limit must be at least 1") {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}
