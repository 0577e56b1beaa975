package translator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"moviecat/internal/api"
	"moviecat/internal/logging"
	"moviecat/internal/services"
	"moviecat/internal/services/llm"
)

const (
	defaultTimeout = 60 * time.Second
	maxQueryLength = 2000
)

// Translation is the outcome of a successful Translate call.
type Translation struct {
	Request api.Request
	// Raw is the model reply as received.
	Raw string
}

// Translator derives structured requests from natural language.
type Translator struct {
	generator llm.Generator
	timeout   time.Duration
	examples  []Example
	logger    *slog.Logger
}

// Option customizes a Translator.
type Option func(*Translator)

// WithTimeout bounds each Generate call.
func WithTimeout(d time.Duration) Option {
	return func(t *Translator) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithExamples replaces the built-in few-shot examples.
func WithExamples(examples []Example) Option {
	return func(t *Translator) {
		t.examples = examples
	}
}

// New builds a Translator over gen.
func New(gen llm.Generator, opts ...Option) *Translator {
	t := &Translator{
		generator: gen,
		timeout:   defaultTimeout,
		examples:  Examples(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.NewComponentLogger(t.logger, "translator")
	return t
}

// Translate converts text into a validated request. The raw reply is returned
// alongside translation errors so callers can journal it.
func (t *Translator) Translate(ctx context.Context, text string) (Translation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Translation{}, services.Wrap(services.ErrValidation, "translator", "translate", "query is empty", nil)
	}
	if len(text) > maxQueryLength {
		return Translation{}, services.Wrap(services.ErrValidation, "translator", "translate", "query is too long", nil)
	}

	prompt, err := Prompt(text, t.examples)
	if err != nil {
		return Translation{}, services.Wrap(services.ErrTranslation, "translator", "prompt", "render prompt", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	logger := logging.WithContext(ctx, t.logger)
	start := time.Now()
	raw, err := t.generator.Generate(callCtx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			if ctx.Err() != nil {
				return Translation{}, ctx.Err()
			}
		}
		if services.Kind(err) == "internal" {
			err = services.Wrap(services.ErrUpstreamUnavailable, "translator", "generate", "language model call failed", err)
		}
		logging.WarnWithContext(logger, "language model call failed", "translator_generate_failed",
			logging.Duration("elapsed", elapsed),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the configured llm endpoint is running and the model is available"),
			logging.String(logging.FieldImpact, "chat request was not executed"))
		return Translation{}, err
	}

	req, err := decode(raw)
	if err != nil {
		logging.WarnWithContext(logger, "model reply rejected", "translator_reply_rejected",
			logging.String("reply", truncate(raw, 300)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rephrase the request or use a stronger model"),
			logging.String(logging.FieldImpact, "chat request was not executed"))
		return Translation{Raw: raw}, err
	}

	logger.Debug("query translated",
		logging.String(logging.FieldOperation, string(req.Operation)),
		logging.Duration("elapsed", elapsed))
	return Translation{Request: req, Raw: raw}, nil
}

func decode(raw string) (api.Request, error) {
	var req api.Request
	if err := llm.DecodeLLMJSON(llm.StripCodeFence(raw), &req); err != nil {
		return api.Request{}, services.Wrap(services.ErrTranslation, "translator", "decode", "model reply is not a valid request", err)
	}
	// The validation marker is flattened so the failure classifies as a
	// translation error rather than a caller mistake.
	if err := req.Validate(); err != nil {
		return api.Request{}, services.Wrap(services.ErrTranslation, "translator", "validate",
			"model reply is not a valid request: "+err.Error(), nil)
	}
	return req, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
