package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"moviecat/internal/catalog"
	"moviecat/internal/logging"
	"moviecat/internal/services"
)

// ErrLocked reports that another process holds the catalog lock.
var ErrLocked = errors.New("catalog locked by another process")

// MutateFunc receives a private copy of the current records and the identifier
// a newly created record should take. It returns the replacement set, or nil
// to signal that nothing changed and no write is needed.
type MutateFunc func(records []catalog.Movie, nextID int) ([]catalog.Movie, error)

// Store is the process-wide owner of a catalog file.
type Store struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock

	writeMu sync.Mutex
	mu      sync.RWMutex
	state   State
}

// Option customizes Open.
type Option func(*Store)

// WithLogger sets the logger used for store diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open acquires the catalog lock and loads the file at path.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "store", "open", "catalog path is empty", nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}

	s := &Store{path: abs, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "store")

	s.lock = flock.New(abs + ".lock")
	ok, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, s.lock.Path())
	}

	state, reassigned, err := Load(abs)
	if err != nil {
		_ = s.lock.Unlock()
		return nil, err
	}
	s.state = state

	if reassigned > 0 {
		logging.WarnWithContext(s.logger, "reassigned catalog identifiers", "store_ids_reassigned",
			logging.Int("reassigned", reassigned),
			logging.Alert("id_repair"),
			logging.String("path", abs),
			logging.String(logging.FieldErrorHint, "records were missing identifiers or shared one"),
			logging.String(logging.FieldImpact, "new identifiers are written on the next mutation"))
	}
	s.logger.Info("catalog loaded",
		logging.String("path", abs),
		logging.Int("records", len(state.Movies)),
		logging.Int("last_id", state.LastID))
	return s, nil
}

// Close releases the catalog lock.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// Path returns the absolute catalog file path.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns the currently published record set. The slice is shared
// and must be treated as read-only; use Movies for a private copy.
func (s *Store) Snapshot() []catalog.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Movies
}

// Movies returns a deep copy of the current record set.
func (s *Store) Movies() []catalog.Movie {
	return catalog.CloneAll(s.Snapshot())
}

// Count returns the number of records currently published.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Movies)
}

// LastID returns the identifier high-water mark.
func (s *Store) LastID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LastID
}

// Mutate runs fn as a single-writer transaction. The result is persisted
// before it becomes visible to readers; if fn, the context, or the write
// fails, the published set is left unchanged.
func (s *Store) Mutate(ctx context.Context, fn MutateFunc) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	current := s.currentState()
	next, err := fn(catalog.CloneAll(current.Movies), NextID(current.Movies, current.LastID))
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.publish(State{
		Version: formatVersion,
		LastID:  max(current.LastID, catalog.MaxID(next)),
		Movies:  next,
	})
}

// Replace swaps the whole record set, as used by import. Imported records
// keep their identifiers only when those lie above every identifier the
// catalog has issued; the rest are renumbered past the high-water mark.
func (s *Store) Replace(ctx context.Context, records []catalog.Movie) (int, error) {
	var reassigned int
	err := s.Mutate(ctx, func(_ []catalog.Movie, nextID int) ([]catalog.Movie, error) {
		next := catalog.CloneAll(records)
		next, _, reassigned = normalizeIDs(next, nextID-1, nextID-1)
		return next, nil
	})
	return reassigned, err
}

func (s *Store) currentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) publish(next State) error {
	start := time.Now()
	if err := Save(s.path, next); err != nil {
		logging.ErrorWithContext(s.logger, "catalog write failed", "store_save_failed",
			logging.String("path", s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check free space and permissions on the data directory"))
		return err
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	s.logger.Debug("catalog persisted",
		logging.Int("records", len(next.Movies)),
		logging.Int("last_id", next.LastID),
		logging.Duration("duration", time.Since(start)))
	return nil
}
