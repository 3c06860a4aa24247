package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("disk full")
	wrapped := Wrap(originalErr, CodeSync, "write failed", http.StatusInsufficientStorage)

	if !errors.Is(wrapped, originalErr) {
		t.Errorf("expected wrapped error to unwrap to original error")
	}
	if wrapped.Code != CodeSync {
		t.Errorf("expected code %s, got %s", CodeSync, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "booking not found",
			},
			expected: "NOT_FOUND: booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeSync,
				Message: "failed to persist bookings",
				Err:     errors.New("disk full"),
			},
			expected: "SYNC_ERROR: failed to persist bookings (caused by: disk full)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestTaxonomyConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", Validation("bad draft", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"integrity", Integrity("corrupt collection", errors.New("not json")), CodeIntegrity, http.StatusInternalServerError},
		{"sync", Sync("write failed", errors.New("quota")), CodeSync, http.StatusInsufficientStorage},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"not found", NotFoundWithID("Booking", "42"), CodeNotFound, http.StatusNotFound},
		{"internal", Internal("boom", errors.New("x")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.HTTPStatus)
			}
		})
	}
}

func TestIntegrityIsRetryable(t *testing.T) {
	err := Integrity("corrupt collection", nil)
	retryable, ok := err.Details["retryable"].(bool)
	if !ok || !retryable {
		t.Errorf("expected integrity error to carry retryable=true, got %v", err.Details)
	}
}

func TestHasCode(t *testing.T) {
	base := Sync("write failed", errors.New("quota"))

	if !HasCode(base, CodeSync) {
		t.Error("expected HasCode to match the sync code")
	}
	if HasCode(base, CodeValidation) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(errors.New("plain"), CodeSync) {
		t.Error("expected HasCode to reject a plain error")
	}
}

func TestAsAppError_PlainError(t *testing.T) {
	appErr := AsAppError(errors.New("plain failure"))

	if appErr.Code != CodeInternal {
		t.Errorf("expected plain errors to convert to %s, got %s", CodeInternal, appErr.Code)
	}
}
