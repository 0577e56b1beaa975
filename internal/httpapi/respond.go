package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"moviecat/internal/api"
	"moviecat/internal/logging"
	"moviecat/internal/services"
)

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	// Request is the structured request a chat message was translated into.
	Request *api.Request `json:"request,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorBody{Error: message})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeFailure(w, r, err, nil)
}

// writeFailure is writeError with the derived request attached, for chat
// messages that translated but failed to execute.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error, derived *api.Request) {
	status := services.HTTPStatus(err)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		status = http.StatusRequestEntityTooLarge
	}
	body := errorBody{Error: err.Error(), Kind: services.Kind(err), Request: derived}
	if id, ok := services.RequestIDFromContext(r.Context()); ok {
		body.RequestID = id
	}
	logger := logging.WithContext(r.Context(), s.logger)
	if status >= http.StatusInternalServerError {
		logging.ErrorWithContext(logger, "request failed", "api_request_failed",
			logging.String(logging.FieldErrorKind, body.Kind),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the catalog file and language model endpoint"))
	} else {
		logger.Debug("request rejected",
			logging.String(logging.FieldErrorKind, body.Kind),
			logging.Error(err))
	}
	s.writeJSON(w, status, body)
}
