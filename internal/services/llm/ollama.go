package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOllamaBaseURL = "http://127.0.0.1:11434"

// OllamaClient calls the native Ollama chat API.
type OllamaClient struct {
	retrier
	cfg Config
}

// NewOllamaClient constructs an Ollama client using the supplied configuration.
func NewOllamaClient(cfg Config, opts ...Option) *OllamaClient {
	cfg = cfg.normalized()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOllamaBaseURL
	}
	return &OllamaClient{retrier: newRetrier(cfg, opts), cfg: cfg}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Format   string         `json:"format,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message    chatMessage `json:"message"`
	Done       bool        `json:"done"`
	DoneReason string      `json:"done_reason"`
	Error      string      `json:"error"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Generate sends prompt as a single user message and returns the reply text.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("ollama generate: prompt required")
	}
	payload := ollamaChatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Options:  map[string]any{"temperature": 0},
	}
	if c.cfg.JSON {
		payload.Format = "json"
	}
	content, err := c.do(ctx, "ollama generate", func(ctx context.Context) (string, error) {
		return c.chatOnce(ctx, payload)
	})
	return content, classify("generate", err)
}

func (c *OllamaClient) chatOnce(ctx context.Context, payload ollamaChatRequest) (string, error) {
	body, err := c.send(ctx, http.MethodPost, "/api/chat", payload)
	if err != nil {
		return "", err
	}
	var resp ollamaChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("ollama request: decode response: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ollama request: api error: %s", strings.TrimSpace(resp.Error))
	}
	content := strings.TrimSpace(resp.Message.Content)
	if content == "" {
		return "", &emptyContentError{Op: "ollama generate", FinishReason: resp.DoneReason, Snippet: summarizePayloadSnippet(string(body))}
	}
	return content, nil
}

// HealthCheck verifies the server answers and the configured model is pulled.
func (c *OllamaClient) HealthCheck(ctx context.Context) error {
	body, err := c.send(ctx, http.MethodGet, "/api/tags", nil)
	if err != nil {
		return classify("health", err)
	}
	var tags ollamaTagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return classify("health", fmt.Errorf("ollama health: decode tags: %w", err))
	}
	for _, m := range tags.Models {
		if modelMatches(c.cfg.Model, m.Name) || modelMatches(c.cfg.Model, m.Model) {
			return nil
		}
	}
	return classify("health", fmt.Errorf("ollama health: model %q is not pulled (run `ollama pull %s`)", c.cfg.Model, c.cfg.Model))
}

// modelMatches treats "llama3" and "llama3:latest" as the same model.
func modelMatches(want, have string) bool {
	if want == "" || have == "" {
		return false
	}
	if want == have {
		return true
	}
	return !strings.Contains(want, ":") && have == want+":latest"
}

func (c *OllamaClient) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("ollama request: encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("ollama request: new request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: http error (timeout=%s): %w", c.timeoutDuration(), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama request: read body (timeout=%s): %w", c.timeoutDuration(), err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return body, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       summarizePayloadSnippet(string(body)),
			RetryAfter: retryAfter,
		}
	}
	return body, nil
}
