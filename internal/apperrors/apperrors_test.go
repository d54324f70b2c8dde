package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/apperrors"
)

func TestError_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperrors.Error
		status int
	}{
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest},
		{"unauthorized", apperrors.Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", apperrors.Forbidden("not yours"), http.StatusForbidden},
		{"not found", apperrors.NotFound("gone"), http.StatusNotFound},
		{"conflict", apperrors.Conflict("exists"), http.StatusConflict},
		{"internal", apperrors.Internal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status())
		})
	}
}

func TestError_Is(t *testing.T) {
	sentinel := apperrors.NotFound("Video not found")

	t.Run("matches same kind and message", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", apperrors.NotFound("Video not found"))
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("message must match when set", func(t *testing.T) {
		assert.NotErrorIs(t, apperrors.NotFound("Comment not found"), sentinel)
	})

	t.Run("empty target message matches any of the kind", func(t *testing.T) {
		assert.ErrorIs(t, sentinel, &apperrors.Error{Kind: apperrors.KindNotFound})
	})

	t.Run("kind mismatch", func(t *testing.T) {
		assert.NotErrorIs(t, apperrors.Forbidden("Video not found"), sentinel)
	})
}

func TestFrom(t *testing.T) {
	t.Run("passes through an app error", func(t *testing.T) {
		orig := apperrors.Conflict("User already exists")
		assert.Equal(t, orig, apperrors.From(fmt.Errorf("register: %w", orig)))
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		cause := errors.New("connection refused")
		e := apperrors.From(cause)
		assert.Equal(t, apperrors.KindInternal, e.Kind)
		assert.Equal(t, "Internal server error", e.Message)
		assert.ErrorIs(t, e, cause)
	})
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	e := apperrors.Internal(cause)

	assert.Equal(t, "Internal server error", e.Message)
	assert.Contains(t, e.Error(), "pq: relation does not exist")
	assert.ErrorIs(t, e, cause)
}

func TestIsKind(t *testing.T) {
	assert.True(t, apperrors.IsKind(apperrors.Validation("bad"), apperrors.KindValidation))
	assert.False(t, apperrors.IsKind(apperrors.Validation("bad"), apperrors.KindConflict))
	assert.False(t, apperrors.IsKind(errors.New("plain"), apperrors.KindInternal))
}
