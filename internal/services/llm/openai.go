package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	retrier
	cfg    Config
	client *openai.Client
}

// NewOpenAIClient constructs a client for OpenAI, OpenRouter or any server that
// speaks the same protocol.
func NewOpenAIClient(cfg Config, opts ...Option) *OpenAIClient {
	cfg = cfg.normalized()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	r := newRetrier(cfg, opts)

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	httpClient := *r.httpClient
	httpClient.Transport = &headerTransport{
		base:    httpClient.Transport,
		referer: cfg.Referer,
		title:   cfg.Title,
	}
	clientCfg.HTTPClient = &httpClient

	return &OpenAIClient{retrier: r, cfg: cfg, client: openai.NewClientWithConfig(clientCfg)}
}

// Generate sends prompt as a single user message and returns the reply text.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("openai generate: prompt required")
	}
	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		// A literal 0 is dropped by omitempty and the server default applies.
		Temperature: math.SmallestNonzeroFloat32,
	}
	if c.cfg.JSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}
	content, err := c.do(ctx, "openai generate", func(ctx context.Context) (string, error) {
		return c.completeOnce(ctx, req)
	})
	return content, classify("generate", err)
}

// HealthCheck issues a minimal completion to verify the key and model.
func (c *OpenAIClient) HealthCheck(ctx context.Context) error {
	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: "Reply with the single word OK."},
		},
		MaxTokens:   8,
		Temperature: math.SmallestNonzeroFloat32,
	}
	_, err := c.completeOnce(ctx, req)
	return classify("health", err)
}

func (c *OpenAIClient) completeOnce(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", translateOpenAIError(err, c.timeoutDuration())
	}
	var finishReason string
	for _, choice := range resp.Choices {
		if finishReason == "" {
			finishReason = string(choice.FinishReason)
		}
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, nil
		}
	}
	if len(resp.Choices) == 0 {
		return "", &emptyContentError{Op: "openai generate", Snippet: "<no choices>"}
	}
	return "", &emptyContentError{
		Op:           "openai generate",
		FinishReason: finishReason,
		Snippet:      summarizePayloadSnippet(resp.Choices[0].Message.Refusal),
	}
}

// translateOpenAIError maps go-openai errors onto the status error used by the
// retry policy.
func translateOpenAIError(err error, timeout time.Duration) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &httpStatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &httpStatusError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}
	return fmt.Errorf("openai request: http error (timeout=%s): %w", timeout, err)
}

// headerTransport adds the attribution headers OpenRouter uses for ranking.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.referer == "" && t.title == "" {
		return base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	if t.referer != "" {
		clone.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		clone.Header.Set("X-Title", t.title)
	}
	return base.RoundTrip(clone)
}
