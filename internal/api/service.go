package api

import (
	"context"
	"log/slog"
	"time"

	"moviecat/internal/catalog"
	"moviecat/internal/logging"
	"moviecat/internal/services"
	"moviecat/internal/store"
)

const maxSuggestions = 3

// Store is the subset of *store.Store the service depends on.
type Store interface {
	Snapshot() []catalog.Movie
	Mutate(ctx context.Context, fn store.MutateFunc) error
}

// CatalogService executes catalog operations against a Store.
type CatalogService struct {
	store  Store
	logger *slog.Logger
}

// NewCatalogService wires a service over st.
func NewCatalogService(st Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: st, logger: logging.NewComponentLogger(logger, "catalog")}
}

// List returns the records matching filter, ordered and truncated.
func (s *CatalogService) List(ctx context.Context, filter catalog.Filter, order catalog.Sort, limit *int) ([]catalog.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return catalog.List(s.store.Snapshot(), filter, order, limit)
}

// Get looks up a record by title. A miss is reported through the boolean.
func (s *CatalogService) Get(ctx context.Context, title string) (catalog.Movie, bool, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Movie{}, false, err
	}
	m, ok := catalog.Get(s.store.Snapshot(), title)
	return m, ok, nil
}

// Create adds a record and returns it with its assigned identifier.
func (s *CatalogService) Create(ctx context.Context, input catalog.MovieInput) (catalog.Movie, error) {
	var created catalog.Movie
	err := s.store.Mutate(ctx, func(records []catalog.Movie, nextID int) ([]catalog.Movie, error) {
		next, m, err := catalog.Create(records, input, nextID)
		if err != nil {
			return nil, err
		}
		created = m
		return next, nil
	})
	if err != nil {
		return catalog.Movie{}, err
	}
	logging.WithContext(ctx, s.logger).Info("movie created",
		logging.Int("id", created.ID),
		logging.String("title", created.Title))
	return created, nil
}

// Update applies a partial update to the first record matching title.
func (s *CatalogService) Update(ctx context.Context, title string, update catalog.MovieUpdate) (catalog.Movie, error) {
	var updated catalog.Movie
	err := s.store.Mutate(ctx, func(records []catalog.Movie, _ int) ([]catalog.Movie, error) {
		next, m, err := catalog.Update(records, title, update)
		if err != nil {
			return nil, err
		}
		updated = m
		return next, nil
	})
	if err != nil {
		return catalog.Movie{}, err
	}
	logging.WithContext(ctx, s.logger).Info("movie updated",
		logging.Int("id", updated.ID),
		logging.String("title", updated.Title))
	return updated, nil
}

// Delete removes every record matching title and reports how many went. When
// nothing matches the catalog file is not rewritten.
func (s *CatalogService) Delete(ctx context.Context, title string) (int, error) {
	var removed int
	err := s.store.Mutate(ctx, func(records []catalog.Movie, _ int) ([]catalog.Movie, error) {
		next, n, err := catalog.Delete(records, title)
		if err != nil {
			return nil, err
		}
		removed = n
		if n == 0 {
			return nil, nil
		}
		return next, nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logging.WithContext(ctx, s.logger).Info("movie deleted",
			logging.String("title", title),
			logging.Int("removed", removed))
	}
	return removed, nil
}

// Execute validates req and dispatches it.
func (s *CatalogService) Execute(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	ctx = services.WithOperation(ctx, string(req.Operation))
	start := time.Now()
	res, err := s.dispatch(ctx, req)
	logger := logging.WithContext(ctx, s.logger)
	if err != nil {
		logger.Debug("request failed",
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Error(err))
		return Result{}, err
	}
	logger.Debug("request executed", logging.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (s *CatalogService) dispatch(ctx context.Context, req Request) (Result, error) {
	fields := req.Projection()
	switch req.Operation {
	case OpListMovies:
		order, err := req.SortSpec()
		if err != nil {
			return Result{}, err
		}
		var filter catalog.Filter
		if req.Filter != nil {
			filter = *req.Filter
		}
		records, err := s.List(ctx, filter, order, req.Limit)
		if err != nil {
			return Result{}, err
		}
		return listResult(records, fields), nil
	case OpGetMovie:
		m, ok, err := s.Get(ctx, req.Title)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return notFoundResult(req.Title, catalog.Suggest(s.store.Snapshot(), req.Title, maxSuggestions)), nil
		}
		return movieResult(OpGetMovie, m, fields), nil
	case OpCreateMovie:
		input, err := req.CreateInput()
		if err != nil {
			return Result{}, err
		}
		m, err := s.Create(ctx, input)
		if err != nil {
			return Result{}, err
		}
		return movieResult(OpCreateMovie, m, fields), nil
	case OpUpdateMovie:
		update, err := req.UpdateInput()
		if err != nil {
			return Result{}, err
		}
		m, err := s.Update(ctx, req.Title, update)
		if err != nil {
			return Result{}, err
		}
		return movieResult(OpUpdateMovie, m, fields), nil
	case OpDeleteMovie:
		removed, err := s.Delete(ctx, req.Title)
		if err != nil {
			return Result{}, err
		}
		return deleteResult(req.Title, removed), nil
	default:
		return Result{}, invalid("unsupported operation " + string(req.Operation))
	}
}
