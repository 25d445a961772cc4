package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "domain error passes through",
			err:        NewDuplicateEmail(),
			wantCode:   "DUPLICATE_EMAIL",
			wantStatus: http.StatusConflict,
			wantMsg:    "email already registered",
		},
		{
			name:       "wrapped domain error is unwrapped",
			err:        fmt.Errorf("signup: %w", NewUnauthorized("nope")),
			wantCode:   "UNAUTHORIZED",
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "nope",
		},
		{
			name:       "unknown error is sanitized",
			err:        errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantMsg, got.Message)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestInternalErrorKeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "error", ToDomainError(err).Status())
	assert.Equal(t, "fail", ToDomainError(NewNotFound("task", nil)).Status())
}

func TestFromStatus(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", FromStatus(http.StatusNotFound, "Cannot GET /x").Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", FromStatus(http.StatusMethodNotAllowed, "no").Code)

	internal := FromStatus(http.StatusBadGateway, "upstream said something")
	assert.Equal(t, "internal server error", internal.Message)
}
