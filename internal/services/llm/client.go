package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"moviecat/internal/services"
)

const (
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryMaxDelay  = 5 * time.Second
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryAttempts  = 3
)

// Provider names.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Generator produces a completion for a single user prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HealthChecker is implemented by generators that can probe their backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	// MaxAttempts bounds transport attempts per Generate call. Zero keeps the
	// client default; options override it.
	MaxAttempts int
	// JSON asks the backend to constrain the reply to a JSON object.
	JSON bool
}

func (c Config) normalized() Config {
	return Config{
		Provider:       strings.ToLower(strings.TrimSpace(c.Provider)),
		APIKey:         strings.TrimSpace(c.APIKey),
		BaseURL:        strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"),
		Model:          strings.TrimSpace(c.Model),
		Referer:        strings.TrimSpace(c.Referer),
		Title:          strings.TrimSpace(c.Title),
		TimeoutSeconds: c.TimeoutSeconds,
		MaxAttempts:    c.MaxAttempts,
		JSON:           c.JSON,
	}
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return defaultHTTPTimeout
}

// Option customizes a client.
type Option func(*retrier)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *retrier) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(r *retrier) {
		r.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(r *retrier) {
		r.retryBaseDelay = baseDelay
		r.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(r *retrier) {
		r.sleeper = sleeper
	}
}

// New constructs the generator selected by cfg.Provider.
func New(cfg Config, opts ...Option) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOllama:
		return NewOllamaClient(cfg, opts...), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg, opts...), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "llm", "new", fmt.Sprintf("unsupported provider %q", cfg.Provider), nil)
	}
}

func newRetrier(cfg Config, opts []Option) retrier {
	timeout := cfg.timeout()
	attempts := defaultRetryAttempts
	if cfg.MaxAttempts > 0 {
		attempts = cfg.MaxAttempts
	}
	r := retrier{
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: attempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: timeout}
	}
	return r
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

type emptyContentError struct {
	Op           string
	FinishReason string
	Snippet      string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf("%s: empty content (finish_reason=%q, response_snippet=%s)", e.Op, e.FinishReason, e.Snippet)
}

// classify tags a final client error for the service layer.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var empty *emptyContentError
	if errors.As(err, &empty) {
		return services.Wrap(services.ErrTranslation, "llm", op, "model returned no content", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrUpstreamUnavailable, "llm", op, "timed out waiting for model", err)
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return services.Wrap(services.ErrUpstreamUnavailable, "llm", op, fmt.Sprintf("model endpoint returned %d", statusErr.StatusCode), err)
	}
	return services.Wrap(services.ErrUpstreamUnavailable, "llm", op, "model endpoint unreachable", err)
}
