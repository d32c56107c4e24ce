// Mediagraph - Media Similarity Graph Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediagraph

package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/mediagraph/internal/config"
)

func newOllamaServer(t *testing.T, handler http.HandlerFunc) *Ollama {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	o := NewOllama("nomic-embed-text", zerolog.Nop(), WithOllamaURL(srv.URL+"/"), WithOllamaRetries(2))
	o.api.backoff = time.Millisecond
	return o
}

func TestOllama_Embed(t *testing.T) {
	t.Parallel()

	o := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ollamaPathEmbeddings || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["model"] != "nomic-embed-text" || body["prompt"] != "heist films" {
			t.Errorf("request body = %v", body)
		}
		_, _ = w.Write([]byte(`{"embedding":[0.1,0.2,0.3]}`))
	})

	vec, err := o.Embed(context.Background(), "heist films")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 || vec[2] != 0.3 {
		t.Errorf("Embed() = %v", vec)
	}

	WithOllamaDimensions(4)(o)
	if _, err := o.Embed(context.Background(), "heist films"); err == nil {
		t.Error("Embed() accepted a vector of the wrong dimension")
	}
}

func TestOllama_Generate(t *testing.T) {
	t.Parallel()

	o := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("streaming requested")
		}
		_, _ = w.Write([]byte(`{"response":"YES","done":true}`))
	})

	out, err := o.Generate(context.Background(), "Are these related?")
	if err != nil || out != "YES" {
		t.Errorf("Generate() = %q, %v", out, err)
	}
}

func TestOllama_Ping(t *testing.T) {
	t.Parallel()

	o := newOllamaServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"nomic-embed-text:latest"}]}`))
	})
	if err := o.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	missing := NewOllama("llama3.1", zerolog.Nop(), WithOllamaURL(o.api.baseURL))
	if err := missing.Ping(context.Background()); err == nil {
		t.Error("Ping() succeeded for a model that is not pulled")
	}
}

func TestJSONClient_Retries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		statuses     []int
		wantErr      bool
		wantStatus   int
		wantAttempts int32
	}{
		{name: "recovers after 503", statuses: []int{503, 200}, wantAttempts: 2},
		{name: "recovers after 429", statuses: []int{429, 429, 200}, wantAttempts: 3},
		{name: "gives up after retries", statuses: []int{500, 500, 500, 500}, wantErr: true, wantStatus: 500, wantAttempts: 3},
		{name: "client error not retried", statuses: []int{400, 200}, wantErr: true, wantStatus: 400, wantAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var attempts atomic.Int32
			o := newOllamaServer(t, func(w http.ResponseWriter, _ *http.Request) {
				n := int(attempts.Add(1)) - 1
				status := tt.statuses[min(n, len(tt.statuses)-1)]
				if status != http.StatusOK {
					http.Error(w, "busy", status)
					return
				}
				_, _ = w.Write([]byte(`{"embedding":[1]}`))
			})

			_, err := o.Embed(context.Background(), "x")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Embed() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) || httpErr.HTTPStatus() != tt.wantStatus {
					t.Errorf("error = %v, want HTTPError %d", err, tt.wantStatus)
				}
			}
			if got := attempts.Load(); got != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", got, tt.wantAttempts)
			}
		})
	}
}

func TestJSONClient_ContextCancelStopsRetry(t *testing.T) {
	t.Parallel()

	o := newOllamaServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	o.api.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := o.Embed(ctx, "x"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Embed() error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("retry wait ignored the context")
	}
}

func TestOpenAI_EmbedAndGenerate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		switch r.URL.Path {
		case "/v1/embeddings":
			var req openAIEmbeddingRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Dimensions != 256 || len(req.Input) != 1 {
				t.Errorf("embedding request = %+v", req)
			}
			_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5,0.25]}]}`))
		case "/v1/chat/completions":
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[\"noir\"]"}}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	o := NewOpenAI(srv.URL+"/v1/", "sk-test", "text-embedding-3-small", 256, time.Second, 0, zerolog.Nop())

	vec, err := o.Embed(context.Background(), "  ")
	if err != nil || len(vec) != 2 {
		t.Errorf("Embed() = %v, %v", vec, err)
	}
	out, err := o.Generate(context.Background(), "phrases")
	if err != nil || out != `["noir"]` {
		t.Errorf("Generate() = %q, %v", out, err)
	}
}

type flakyEmbedder struct {
	err   error
	calls atomic.Int32
}

func (f *flakyEmbedder) Name() string { return "fake" }

func (f *flakyEmbedder) Embed(context.Context, string) ([]float32, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1}, nil
}

func testResilience() config.ResilienceConfig {
	return config.ResilienceConfig{
		BreakerMaxRequests:  1,
		BreakerInterval:     time.Minute,
		BreakerTimeout:      time.Minute,
		BreakerMinRequests:  3,
		BreakerFailureRatio: 0.5,
	}
}

func TestResilientEmbedder_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	next := &flakyEmbedder{err: &HTTPError{Provider: "fake", StatusCode: 503}}
	r := NewResilientEmbedder(next, testResilience(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, err := r.Embed(context.Background(), "x"); err == nil {
			t.Fatal("Embed() succeeded against a failing provider")
		}
	}

	_, err := r.Embed(context.Background(), "x")
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Embed() error = %v, want open circuit", err)
	}
	if next.calls.Load() != 3 {
		t.Errorf("provider calls = %d, want 3 before the breaker opened", next.calls.Load())
	}
}

func TestResilientEmbedder_CancellationDoesNotTrip(t *testing.T) {
	t.Parallel()

	next := &flakyEmbedder{err: context.Canceled}
	r := NewResilientEmbedder(next, testResilience(), zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, _ = r.Embed(context.Background(), "x")
	}
	if next.calls.Load() != 5 {
		t.Errorf("provider calls = %d, want 5 with a closed breaker", next.calls.Load())
	}
}

func TestResilientEmbedder_RateLimitHonorsContext(t *testing.T) {
	t.Parallel()

	cfg := testResilience()
	cfg.RateLimitPerSecond = 0.001
	cfg.RateLimitBurst = 1
	next := &flakyEmbedder{}
	r := NewResilientEmbedder(next, cfg, zerolog.Nop())

	if _, err := r.Embed(context.Background(), "x"); err != nil {
		t.Fatalf("first Embed() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := r.Embed(ctx, "x"); err == nil {
		t.Error("second Embed() bypassed the rate limiter")
	}
	if next.calls.Load() != 1 {
		t.Errorf("provider calls = %d, want 1", next.calls.Load())
	}
}

func TestFactory(t *testing.T) {
	t.Parallel()

	res := testResilience()

	emb, err := NewEmbedder(config.ProviderConfig{Provider: config.ProviderNone}, res, zerolog.Nop())
	if err != nil || emb != nil {
		t.Errorf("NewEmbedder(none) = %v, %v, want nil, nil", emb, err)
	}
	if _, err := NewGenerator(config.ProviderConfig{Provider: "cohere"}, res, zerolog.Nop()); err == nil {
		t.Error("NewGenerator accepted an unknown provider")
	}

	gen, err := NewGenerator(config.ProviderConfig{Provider: config.ProviderOllama, Model: "llama3.1"}, res, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGenerator(ollama) error = %v", err)
	}
	if _, ok := gen.(*ResilientGenerator); !ok {
		t.Errorf("NewGenerator(ollama) = %T, want *ResilientGenerator", gen)
	}
}
