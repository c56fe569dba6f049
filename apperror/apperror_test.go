package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  *AppError
		want int
	}{
		{"auth", NewAuthError("missing credentials", nil), http.StatusUnauthorized},
		{"unauthorized", NewUnauthorizedError("user not authorised", nil), http.StatusForbidden},
		{"not found", NewNotFoundError("post not found", nil), http.StatusNotFound},
		{"validation", NewValidationError("text is required", nil), http.StatusBadRequest},
		{"bad request", NewBadRequestError("invalid credentials", nil), http.StatusBadRequest},
		{"conflict", NewConflictError("post already liked", nil), http.StatusBadRequest},
		{"database", NewDatabaseError("query failed", nil), http.StatusInternalServerError},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError},
		{"unknown", NewAppError(UnknownError, "???", nil), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.StatusCode())
		})
	}
}

func TestErrorIncludesWrappedError(t *testing.T) {
	inner := errors.New("connection refused")
	err := NewDatabaseError("query failed", inner)

	assert.Equal(t, "query failed: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestToResponseHidesWrappedError(t *testing.T) {
	err := NewDatabaseError("query failed", errors.New("password=hunter2"))
	resp := err.ToResponse()

	assert.Equal(t, "query failed", resp.Error)
	assert.NotContains(t, resp.Error, "hunter2")
}

func TestFromError(t *testing.T) {
	appErr := NewNotFoundError("post not found", nil)
	wrapped := fmt.Errorf("handler: %w", appErr)

	got, ok := FromError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, NotFoundError, got.Type)

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = FromError(nil)
	assert.False(t, ok)
}

func TestTypeCheckers(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("x", nil)))
	assert.True(t, IsAuthError(NewAuthError("x", nil)))
	assert.True(t, IsUnauthorizedError(NewUnauthorizedError("x", nil)))
	assert.True(t, IsValidationError(NewValidationError("x", nil)))
	assert.True(t, IsConflictError(NewConflictError("x", nil)))

	assert.False(t, IsNotFound(NewConflictError("x", nil)))
	assert.False(t, IsConflictError(errors.New("plain")))
}
