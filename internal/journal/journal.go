package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"moviecat/internal/services"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	maxRecentLimit          = 500
)

// Outcome classifies a chat exchange.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Entry is one journaled chat exchange. ID is assigned by the journal;
// RequestID is the caller's correlation id and may repeat across entries.
type Entry struct {
	ID         string          `json:"id"`
	RequestID  string          `json:"request_id,omitempty"`
	Time       time.Time       `json:"time"`
	Query      string          `json:"query"`
	Raw        string          `json:"raw,omitempty"`
	Request    json.RawMessage `json:"request,omitempty"`
	Operation  string          `json:"operation,omitempty"`
	Outcome    Outcome         `json:"outcome"`
	ErrorKind  string          `json:"error_kind,omitempty"`
	Error      string          `json:"error,omitempty"`
	DurationMS int64           `json:"duration_ms"`
}

type row struct {
	ID           string `db:"id"`
	RequestID    string `db:"request_id"`
	CreatedAt    int64  `db:"created_at"`
	Query        string `db:"query"`
	RawReply     string `db:"raw_reply"`
	Request      string `db:"request"`
	Operation    string `db:"operation"`
	Outcome      string `db:"outcome"`
	ErrorKind    string `db:"error_kind"`
	ErrorMessage string `db:"error_message"`
	DurationMS   int64  `db:"duration_ms"`
}

func (r row) entry() Entry {
	e := Entry{
		ID:         r.ID,
		RequestID:  r.RequestID,
		Time:       time.UnixMilli(r.CreatedAt).UTC(),
		Query:      r.Query,
		Raw:        r.RawReply,
		Operation:  r.Operation,
		Outcome:    Outcome(r.Outcome),
		ErrorKind:  r.ErrorKind,
		Error:      r.ErrorMessage,
		DurationMS: r.DurationMS,
	}
	if r.Request != "" {
		e.Request = json.RawMessage(r.Request)
	}
	return e
}

// Journal persists chat exchanges.
type Journal struct {
	db   *sqlx.DB
	path string
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open", "journal path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	j := &Journal{db: db, path: path}
	if err := j.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Path returns the database location.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record stores e under a fresh ID. A missing Time is filled in.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	e.ID = uuid.NewString()
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}
	r := row{
		ID:           e.ID,
		RequestID:    e.RequestID,
		CreatedAt:    e.Time.UnixMilli(),
		Query:        e.Query,
		RawReply:     e.Raw,
		Request:      string(e.Request),
		Operation:    e.Operation,
		Outcome:      string(e.Outcome),
		ErrorKind:    e.ErrorKind,
		ErrorMessage: e.Error,
		DurationMS:   e.DurationMS,
	}
	err := retryOnBusy(ctx, func() error {
		_, err := j.db.NamedExecContext(ctx, `
INSERT INTO exchanges (id, request_id, created_at, query, raw_reply, request, operation, outcome, error_kind, error_message, duration_ms)
VALUES (:id, :request_id, :created_at, :query, :raw_reply, :request, :operation, :outcome, :error_kind, :error_message, :duration_ms)`, r)
		return err
	})
	if err != nil {
		return Entry{}, fmt.Errorf("record exchange: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, services.Wrap(services.ErrValidation, "journal", "recent", fmt.Sprintf("limit must be >= 1, got %d", limit), nil)
	}
	limit = min(limit, maxRecentLimit)
	var rows []row
	err := j.db.SelectContext(ctx, &rows, `
SELECT id, request_id, created_at, query, raw_reply, request, operation, outcome, error_kind, error_message, duration_ms
FROM exchanges
ORDER BY created_at DESC, rowid DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.entry())
	}
	return out, nil
}

// Count returns the number of stored exchanges.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.GetContext(ctx, &n, "SELECT COUNT(1) FROM exchanges"); err != nil {
		return 0, fmt.Errorf("count exchanges: %w", err)
	}
	return n, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
