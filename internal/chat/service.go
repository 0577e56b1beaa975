package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"moviecat/internal/api"
	"moviecat/internal/journal"
	"moviecat/internal/logging"
	"moviecat/internal/services"
	"moviecat/internal/translator"
)

// Translator turns user text into a structured request.
type Translator interface {
	Translate(ctx context.Context, text string) (translator.Translation, error)
}

// Executor runs structured requests against the catalog.
type Executor interface {
	Execute(ctx context.Context, req api.Request) (api.Result, error)
}

// Journal stores and lists exchanges. It is optional.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) (journal.Entry, error)
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// Response is the reply to one chat message.
type Response struct {
	RequestID string       `json:"request_id"`
	Query     string       `json:"query"`
	Request   *api.Request `json:"request,omitempty"`
	Result    *api.Result  `json:"result,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// Service answers chat messages.
type Service struct {
	translator Translator
	executor   Executor
	journal    Journal
	logger     *slog.Logger
}

// NewService wires a chat service. j may be nil to disable journaling.
func NewService(tr Translator, exec Executor, j Journal, logger *slog.Logger) *Service {
	return &Service{
		translator: tr,
		executor:   exec,
		journal:    j,
		logger:     logging.NewComponentLogger(logger, "chat"),
	}
}

// Chat translates text, executes the derived request and journals the
// exchange. The returned Response always carries the request id, also on
// error, so callers can correlate failures with the journal and logs.
func (s *Service) Chat(ctx context.Context, text string) (Response, error) {
	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}
	resp := Response{RequestID: requestID, Query: strings.TrimSpace(text)}
	logger := logging.WithContext(ctx, s.logger)
	start := time.Now()

	tr, err := s.translator.Translate(ctx, text)
	if err != nil {
		s.record(ctx, resp, tr.Raw, nil, start, err)
		return resp, err
	}
	req := tr.Request
	resp.Request = &req

	// Translation can take long enough for the caller to go away; nothing is
	// executed for an abandoned request.
	if err := ctx.Err(); err != nil {
		s.record(ctx, resp, tr.Raw, &req, start, err)
		return resp, err
	}

	result, err := s.executor.Execute(ctx, req)
	if err != nil {
		s.record(ctx, resp, tr.Raw, &req, start, err)
		return resp, err
	}
	resp.Result = &result
	resp.Message = result.Message
	s.record(ctx, resp, tr.Raw, &req, start, nil)

	logger.Info("chat request answered",
		logging.String(logging.FieldOperation, string(req.Operation)),
		logging.Duration("elapsed", time.Since(start)))
	return resp, nil
}

// History returns the most recent journaled exchanges, newest first. It
// returns an empty slice when journaling is disabled.
func (s *Service) History(ctx context.Context, limit int) ([]journal.Entry, error) {
	if s.journal == nil {
		return []journal.Entry{}, nil
	}
	return s.journal.Recent(ctx, limit)
}

// JournalEnabled reports whether exchanges are being recorded.
func (s *Service) JournalEnabled() bool {
	return s.journal != nil
}

func (s *Service) record(ctx context.Context, resp Response, raw string, req *api.Request, start time.Time, failure error) {
	if s.journal == nil {
		return
	}
	entry := journal.Entry{
		RequestID:  resp.RequestID,
		Query:      resp.Query,
		Raw:        raw,
		Outcome:    journal.OutcomeOK,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if req != nil {
		entry.Operation = string(req.Operation)
		if payload, err := json.Marshal(req); err == nil {
			entry.Request = payload
		}
	}
	if failure != nil {
		entry.Outcome = journal.OutcomeError
		entry.ErrorKind = services.Kind(failure)
		if ctx.Err() != nil {
			entry.ErrorKind = "cancelled"
		}
		entry.Error = failure.Error()
	}

	// The exchange is journaled even when the caller has gone away.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if _, err := s.journal.Record(recordCtx, entry); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "chat journal write failed", "chat_journal_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions and free space for the chat journal"),
			logging.String(logging.FieldImpact, "exchange missing from chat history"))
	}
}
