package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"moviecat/internal/config"
	"moviecat/internal/services"
)

func newOllamaServer(t *testing.T, handler http.HandlerFunc) *OllamaClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewOllamaClient(
		Config{BaseURL: server.URL, Model: "qwen2.5:1.5b", JSON: true},
		WithRetryBackoff(0, 0),
	)
}

func TestOllamaGenerateSendsDeterministicRequest(t *testing.T) {
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "qwen2.5:1.5b" || req.Stream || req.Format != "json" {
			t.Errorf("unexpected request fields: %+v", req)
		}
		if req.Options["temperature"] != float64(0) {
			t.Errorf("expected temperature 0, got %v", req.Options["temperature"])
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "list movies" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"role": "assistant", "content": "  {\"operation\":\"listMovies\"}  "},
			"done":    true,
		})
	})

	content, err := client.Generate(context.Background(), "list movies")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if content != `{"operation":"listMovies"}` {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestOllamaGenerateRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	var slept []time.Duration
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"loading model"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]any{"content": "ok"}, "done": true})
	}))
	defer server.Close()

	client := NewOllamaClient(Config{BaseURL: server.URL, Model: "m"}, WithSleeper(func(d time.Duration) { slept = append(slept, d) }))
	content, err := client.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if content != "ok" || calls.Load() != 2 {
		t.Fatalf("expected success on second call, got %q after %d calls", content, calls.Load())
	}
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Fatalf("expected Retry-After delay, got %v", slept)
	}
}

func TestFromConfigCallsModelOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.LLM.BaseURL = server.URL
	gen, err := New(FromConfig(&cfg), WithSleeper(func(time.Duration) {}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := gen.Generate(context.Background(), "hi"); !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one model call, got %d", calls.Load())
	}

	calls.Store(0)
	cfg.LLM.MaxAttempts = 3
	gen, err = New(FromConfig(&cfg), WithSleeper(func(time.Duration) {}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, _ = gen.Generate(context.Background(), "hi")
	if calls.Load() != 3 {
		t.Fatalf("expected three attempts when configured, got %d", calls.Load())
	}
}

func TestOllamaGenerateClassifiesFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		marker  error
	}{
		{
			name: "model missing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"error":"model 'qwen2.5:1.5b' not found"}`))
			},
			marker: services.ErrUpstreamUnavailable,
		},
		{
			name: "empty reply",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":""},"done":true,"done_reason":"length"}`))
			},
			marker: services.ErrTranslation,
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>proxy error</html>`))
			},
			marker: services.ErrUpstreamUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newOllamaServer(t, tt.handler)
			_, err := client.Generate(context.Background(), "hi")
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
		})
	}
}

func TestOllamaGenerateUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewOllamaClient(Config{BaseURL: url, Model: "m"}, WithRetryMaxAttempts(1))
	_, err := client.Generate(context.Background(), "hi")
	if !errors.Is(err, services.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream unavailable, got %v", err)
	}
	if !services.Retryable(err) {
		t.Fatal("expected unreachable backend to be retryable")
	}
}

func TestOllamaGenerateHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Generate(ctx, "hi")
	if !errors.Is(err, services.ErrUpstreamUnavailable) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline mapped to upstream unavailable, got %v", err)
	}
}

func TestOllamaHealthCheck(t *testing.T) {
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3:latest"},{"name":"qwen2.5:1.5b"}]}`))
	})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}

	client.cfg.Model = "llama3"
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected implicit :latest tag to match: %v", err)
	}

	client.cfg.Model = "mistral"
	if err := client.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected missing model to fail health check")
	}
}

func TestNewSelectsProvider(t *testing.T) {
	gen, err := New(Config{Provider: "Ollama"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, ok := gen.(*OllamaClient); !ok {
		t.Fatalf("expected ollama client, got %T", gen)
	}
	gen, err = New(Config{Provider: "openai", APIKey: "k"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, ok := gen.(*OpenAIClient); !ok {
		t.Fatalf("expected openai client, got %T", gen)
	}
	if _, err := New(Config{Provider: "bard"}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
