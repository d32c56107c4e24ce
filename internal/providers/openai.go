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

// DefaultOpenAIURL is the public OpenAI endpoint. Any compatible gateway works.
const DefaultOpenAIURL = "https://api.openai.com"

// OpenAI talks to an OpenAI-compatible API.
type OpenAI struct {
	api        jsonClient
	model      string
	dimensions int
}

// NewOpenAI creates a client. baseURL may be empty for the public endpoint;
// a trailing /v1 is accepted.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOpenAI(baseURL, apiKey, model string, dimensions int, timeout time.Duration, maxRetries int, logger zerolog.Logger) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	baseURL = strings.TrimSuffix(strings.TrimRight(baseURL, "/"), "/v1")
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAI{
		api: jsonClient{
			name:       "openai",
			baseURL:    baseURL,
			headers:    map[string]string{"Authorization": "Bearer " + apiKey},
			http:       &http.Client{Timeout: timeout},
			maxRetries: maxRetries,
			logger:     logger.With().Str("component", "openai").Str("model", model).Logger(),
		},
		model:      model,
		dimensions: dimensions,
	}
}

// Name identifies the provider in metrics.
func (o *OpenAI) Name() string { return "openai" }

// Model returns the configured model.
func (o *OpenAI) Model() string { return o.model }

type openAIEmbeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed implements similarity.TextEmbedder.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		text = " "
	}
	req := openAIEmbeddingRequest{Model: o.model, Input: []string{text}, Dimensions: o.dimensions}

	var resp openAIEmbeddingResponse
	if err := o.api.post(ctx, "/v1/embeddings", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("openai returned no embedding")
	}
	return resp.Data[0].Embedding, nil
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Generate implements similarity.TextGenerator.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	req := openAIChatRequest{
		Model:       o.model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	}

	var resp openAIChatResponse
	if err := o.api.post(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping checks that the API answers and accepts the key.
func (o *OpenAI) Ping(ctx context.Context) error {
	if err := o.api.get(ctx, "/v1/models", nil); err != nil {
		return fmt.Errorf("openai is not reachable: %w", err)
	}
	return nil
}
