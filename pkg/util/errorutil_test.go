package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainError(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}

	wrapped := fmt.Errorf("login: %w", NewUnauthorized("login required"))
	if de := ToDomainError(wrapped); de.HTTPStatus != http.StatusUnauthorized || de.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected domain error %+v", de)
	}

	if de := ToDomainError(errors.New("boom")); de.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500 for plain errors, got %d", de.HTTPStatus)
	}
}

func TestNewUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")
	de := ToDomainError(NewUpstreamError(0, "Login failed", cause))
	if de.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("expected 502 for transport failures, got %d", de.HTTPStatus)
	}
	if !errors.Is(de, cause) {
		t.Fatalf("expected cause to be wrapped")
	}

	if de := ToDomainError(NewUpstreamError(http.StatusConflict, "taken", nil)); de.HTTPStatus != http.StatusConflict {
		t.Fatalf("expected backend status kept, got %d", de.HTTPStatus)
	}
}
