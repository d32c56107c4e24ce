// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package similarity

import "testing"

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero default limit", mutate: func(c *Config) { c.DefaultLimit = 0 }, wantErr: true},
		{name: "max below default", mutate: func(c *Config) { c.MaxLimit = 5 }, wantErr: true},
		{name: "zero depth", mutate: func(c *Config) { c.MaxDepth = 0 }, wantErr: true},
		{name: "deep cap below depth2 cap", mutate: func(c *Config) { c.MaxNodesDeep = 10 }, wantErr: true},
		{name: "bubble threshold above one", mutate: func(c *Config) { c.BubbleThreshold = 1.5 }, wantErr: true},
		{name: "negative floor", mutate: func(c *Config) { c.ConnectivityFloor = -0.1 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.BuildTimeout = -1 }, wantErr: true},
		{name: "no concurrency", mutate: func(c *Config) { c.SourceConcurrency = 0 }, wantErr: true},
		{name: "zero timeout disables deadline", mutate: func(c *Config) { c.BuildTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ClampAndMaxNodes(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if got := cfg.clampLimit(0); got != 12 {
		t.Errorf("clampLimit(0) = %d, want 12", got)
	}
	if got := cfg.clampLimit(500); got != 50 {
		t.Errorf("clampLimit(500) = %d, want 50", got)
	}
	if got := cfg.clampDepth(9); got != 3 {
		t.Errorf("clampDepth(9) = %d, want 3", got)
	}

	tests := []struct {
		depth, limit, want int
	}{
		{depth: 1, limit: 12, want: 13},
		{depth: 1, limit: 3, want: 4},
		{depth: 2, limit: 12, want: 25},
		{depth: 3, limit: 12, want: 45},
		{depth: 5, limit: 12, want: 45},
	}
	for _, tt := range tests {
		if got := cfg.MaxNodes(tt.depth, tt.limit); got != tt.want {
			t.Errorf("MaxNodes(%d, %d) = %d, want %d", tt.depth, tt.limit, got, tt.want)
		}
	}
}

func TestParseContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want ContentType
		ok   bool
	}{
		{in: "movie", want: ContentTypeMovie, ok: true},
		{in: " Movies ", want: ContentTypeMovie, ok: true},
		{in: "series", want: ContentTypeSeries, ok: true},
		{in: "tv", want: ContentTypeSeries, ok: true},
		{in: "book", ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseContentType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseContentType(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
