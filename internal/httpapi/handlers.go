package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"moviecat/internal/api"
	"moviecat/internal/services"
)

type healthResponse struct {
	Status        string `json:"status"`
	Records       int    `json:"records"`
	Journal       bool   `json:"journal"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type chatRequest struct {
	Query string `json:"query"`
}

type historyResponse struct {
	Entries any `json:"entries"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	}
	if s.deps.Records != nil {
		resp.Records = s.deps.Records.Count()
	}
	if s.deps.Chat != nil {
		resp.Journal = s.deps.Chat.JournalEnabled()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	req, err := listRequest(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.execute(w, r, req, http.StatusOK)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	title, err := titleVar(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req := api.Request{Operation: api.OpGetMovie, Title: title, Fields: fieldsParam(r.URL.Query())}
	res, err := s.deps.Catalog.Execute(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if res.Found != nil && !*res.Found {
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, res)
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req := api.Request{Operation: api.OpCreateMovie, Input: body, Fields: fieldsParam(r.URL.Query())}
	s.execute(w, r, req, http.StatusCreated)
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	title, err := titleVar(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req := api.Request{Operation: api.OpUpdateMovie, Title: title, Input: body, Fields: fieldsParam(r.URL.Query())}
	s.execute(w, r, req, http.StatusOK)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	title, err := titleVar(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.execute(w, r, api.Request{Operation: api.OpDeleteMovie, Title: title}, http.StatusOK)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	req, err := api.DecodeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if req.Operation == api.OpCreateMovie {
		status = http.StatusCreated
	}
	s.execute(w, r, req, status)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.deps.Chat == nil {
		s.writeMessage(w, http.StatusServiceUnavailable, "chat is not configured")
		return
	}
	var body chatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "httpapi", "chat", "body must be {\"query\": \"...\"}", err))
		return
	}
	resp, err := s.deps.Chat.Chat(r.Context(), body.Query)
	if err != nil {
		s.writeFailure(w, r, err, resp.Request)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	limit := s.opts.HistoryLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, badParam("limit must be a positive integer"))
			return
		}
		limit = n
	}
	if s.deps.Chat == nil {
		s.writeJSON(w, http.StatusOK, historyResponse{Entries: []any{}})
		return
	}
	entries, err := s.deps.Chat.History(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, req api.Request, status int) {
	res, err := s.deps.Catalog.Execute(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, status, res)
}

func titleVar(r *http.Request) (string, error) {
	title, err := url.PathUnescape(mux.Vars(r)["title"])
	if err != nil {
		return "", badParam("title is not a valid path segment")
	}
	return title, nil
}

func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "httpapi", "read", "read request body", err)
	}
	return json.RawMessage(data), nil
}
