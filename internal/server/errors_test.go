package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	userID := uuid.New()
	jobID := uuid.New()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"email exists", &ErrEmailAlreadyExists{Email: "test@example.com"}, "email already registered: test@example.com"},
		{"invalid credentials", &ErrInvalidCredentials{}, "invalid email or password"},
		{"user not found", &ErrUserNotFound{UserID: userID}, "user not found: " + userID.String()},
		{"validation", &ErrValidation{Field: "email", Message: "invalid format"}, "validation error: email - invalid format"},
		{"forbidden without reason", &ErrForbidden{}, "forbidden"},
		{"forbidden with reason", &ErrForbidden{Reason: "not your job"}, "forbidden: not your job"},
		{"not found with id", &ErrNotFound{Resource: "job", ID: jobID}, "job not found: " + jobID.String()},
		{"not found without id", &ErrNotFound{Resource: "score"}, "score not found"},
		{"conflict", &ErrConflict{Message: "already applied"}, "already applied"},
		{"reset token", &ErrInvalidResetToken{}, "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"ErrEmailAlreadyExists", &ErrEmailAlreadyExists{Email: "test@example.com"}, http.StatusConflict},
		{"ErrInvalidCredentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"ErrUserNotFound", &ErrUserNotFound{UserID: uuid.New()}, http.StatusNotFound},
		{"ErrNotFound", &ErrNotFound{Resource: "job"}, http.StatusNotFound},
		{"ErrValidation", &ErrValidation{Field: "email", Message: "invalid"}, http.StatusBadRequest},
		{"ErrConflict", &ErrConflict{Message: "dup"}, http.StatusBadRequest},
		{"ErrInvalidResetToken", &ErrInvalidResetToken{}, http.StatusBadRequest},
		{"ErrForbidden", &ErrForbidden{}, http.StatusForbidden},
		{"wrapped", fmt.Errorf("outer: %w", &ErrNotFound{Resource: "question"}), http.StatusNotFound},
		{"generic error", errors.New("boom"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
