package services_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"moviecat/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("disk full")
	err := services.Wrap(services.ErrPersistence, "store", "save", "write temp file", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"store", "save", "write temp file"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "", "", "", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestKindAndStatusMapping(t *testing.T) {
	tests := []struct {
		marker error
		kind   string
		status int
	}{
		{services.ErrValidation, "validation", http.StatusBadRequest},
		{services.ErrDuplicateTitle, "duplicate_title", http.StatusConflict},
		{services.ErrNotFound, "not_found", http.StatusNotFound},
		{services.ErrPersistence, "persistence", http.StatusInternalServerError},
		{services.ErrUpstreamUnavailable, "upstream_unavailable", http.StatusBadGateway},
		{services.ErrTranslation, "translation", http.StatusUnprocessableEntity},
		{errors.New("other"), "internal", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		err := fmt.Errorf("outer: %w", services.Wrap(tt.marker, "c", "op", "msg", nil))
		if got := services.Kind(err); got != tt.kind {
			t.Fatalf("Kind(%v) = %q, want %q", tt.marker, got, tt.kind)
		}
		if got := services.HTTPStatus(err); got != tt.status {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tt.marker, got, tt.status)
		}
	}
	if services.Kind(nil) != "" {
		t.Fatal("expected empty kind for nil error")
	}
}

func TestRetryable(t *testing.T) {
	if !services.Retryable(services.Wrap(services.ErrUpstreamUnavailable, "llm", "generate", "", nil)) {
		t.Fatal("expected upstream errors to be retryable")
	}
	if services.Retryable(services.Wrap(services.ErrValidation, "api", "decode", "", nil)) {
		t.Fatal("expected validation errors to be final")
	}
}
