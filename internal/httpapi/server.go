package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"moviecat/internal/api"
	"moviecat/internal/chat"
	"moviecat/internal/logging"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Counter reports the number of catalog records.
type Counter interface {
	Count() int
}

// Dependencies are the services the server routes to.
type Dependencies struct {
	Catalog *api.CatalogService
	Chat    *chat.Service
	Records Counter
}

// Options configures the listener and request handling.
type Options struct {
	Bind         string
	Token        string
	HistoryLimit int
}

// Server serves the HTTP API.
type Server struct {
	opts    Options
	deps    Dependencies
	logger  *slog.Logger
	router  *mux.Router
	server  *http.Server
	started time.Time

	listener net.Listener
}

// New builds a server. Nothing listens until Start is called.
func New(opts Options, deps Dependencies, logger *slog.Logger) (*Server, error) {
	if deps.Catalog == nil {
		return nil, errors.New("httpapi: catalog service is required")
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}
	s := &Server{
		opts:    opts,
		deps:    deps,
		logger:  logging.NewComponentLogger(logger, "api-server"),
		started: time.Now(),
	}
	s.router = s.routes()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Chat requests wait on the language model.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter().UseEncodedPath()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.writeMessage(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.Use(s.requestIDMiddleware, s.accessLogMiddleware)

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("/movies", s.handleListMovies).Methods(http.MethodGet)
	protected.HandleFunc("/movies", s.handleCreateMovie).Methods(http.MethodPost)
	protected.HandleFunc("/movies/{title}", s.handleGetMovie).Methods(http.MethodGet)
	protected.HandleFunc("/movies/{title}", s.handleUpdateMovie).Methods(http.MethodPatch)
	protected.HandleFunc("/movies/{title}", s.handleDeleteMovie).Methods(http.MethodDelete)
	protected.HandleFunc("/query", s.handleQuery).Methods(http.MethodPost)
	protected.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	protected.HandleFunc("/chat/history", s.handleChatHistory).Methods(http.MethodGet)
	return r
}

// Start listens on the configured address and serves until ctx ends or Stop
// is called.
func (s *Server) Start(ctx context.Context) error {
	bind := strings.TrimSpace(s.opts.Bind)
	if bind == "" {
		return errors.New("httpapi: bind address is empty")
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("auth", s.opts.Token != ""))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}
