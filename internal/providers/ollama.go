// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultOllamaURL is the default Ollama API endpoint.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultTimeout is the HTTP timeout for provider requests.
	DefaultTimeout = 30 * time.Second

	ollamaPathTags       = "/api/tags"
	ollamaPathEmbeddings = "/api/embeddings"
	ollamaPathGenerate   = "/api/generate"
)

// Ollama talks to a local Ollama server. One client serves either
// embeddings or generation depending on its model.
type Ollama struct {
	api        jsonClient
	model      string
	dimensions int
}

// OllamaOption configures an Ollama client.
type OllamaOption func(*Ollama)

// WithOllamaURL sets the Ollama API base URL.
func WithOllamaURL(url string) OllamaOption {
	return func(o *Ollama) {
		if url != "" {
			o.api.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithOllamaDimensions sets the expected vector dimensions. Zero skips the check.
func WithOllamaDimensions(dims int) OllamaOption {
	return func(o *Ollama) {
		o.dimensions = dims
	}
}

// WithOllamaTimeout sets the HTTP client timeout. Zero keeps the default.
func WithOllamaTimeout(timeout time.Duration) OllamaOption {
	return func(o *Ollama) {
		if timeout > 0 {
			o.api.http.Timeout = timeout
		}
	}
}

// WithOllamaRetries sets how often retryable failures are repeated.
func WithOllamaRetries(n int) OllamaOption {
	return func(o *Ollama) {
		o.api.maxRetries = n
	}
}

// NewOllama creates an Ollama client for model.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOllama(model string, logger zerolog.Logger, opts ...OllamaOption) *Ollama {
	o := &Ollama{
		api: jsonClient{
			name:    "ollama",
			baseURL: DefaultOllamaURL,
			http:    &http.Client{Timeout: DefaultTimeout},
			logger:  logger.With().Str("component", "ollama").Str("model", model).Logger(),
		},
		model: model,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name identifies the provider in metrics.
func (o *Ollama) Name() string { return "ollama" }

// Model returns the configured model.
func (o *Ollama) Model() string { return o.model }

// Embed implements similarity.TextEmbedder.
func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp struct {
		Embedding []float32 `json:"embedding"`
	}
	req := map[string]string{"model": o.model, "prompt": text}
	if err := o.api.post(ctx, ollamaPathEmbeddings, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama returned an empty embedding")
	}
	if o.dimensions > 0 && len(resp.Embedding) != o.dimensions {
		return nil, fmt.Errorf("unexpected embedding dimensions: got %d, want %d", len(resp.Embedding), o.dimensions)
	}
	return resp.Embedding, nil
}

// Generate implements similarity.TextGenerator.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}
	req := ollamaGenerateRequest{Model: o.model, Prompt: prompt, Stream: false}
	req.Options.Temperature = 0.2
	if err := o.api.post(ctx, ollamaPathGenerate, req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Ping checks that Ollama is running and serves the configured model.
func (o *Ollama) Ping(ctx context.Context) error {
	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := o.api.get(ctx, ollamaPathTags, &tags); err != nil {
		return fmt.Errorf("ollama is not reachable: %w", err)
	}
	for _, m := range tags.Models {
		if m.Name == o.model || strings.TrimSuffix(m.Name, ":latest") == o.model {
			return nil
		}
	}
	return fmt.Errorf("ollama model %q is not pulled", o.model)
}

type ollamaGenerateRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}
