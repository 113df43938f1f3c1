package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RetryableDetection(t *testing.T) {
	assert.False(t, New(ErrCodeNotFound, "x", http.StatusNotFound).Retryable)
	assert.True(t, New(ErrCodeDatabaseError, "x", http.StatusInternalServerError).Retryable)
}

func TestConstructors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"not found", NotFound("note"), ErrCodeNotFound, http.StatusNotFound},
		{"unauthorized", Unauthorized(""), ErrCodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden(), ErrCodeForbidden, http.StatusForbidden},
		{"invalid token", InvalidToken(), ErrCodeInvalidToken, http.StatusUnauthorized},
		{"invalid credentials", InvalidCredentials(), ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{"account disabled", AccountDisabled(), ErrCodeAccountDisabled, http.StatusBadRequest},
		{"invalid input", InvalidInput("page", "must be a number"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"validation", Validation(map[string]string{"title": "required"}), ErrCodeValidation, http.StatusBadRequest},
		{"conflict", Conflict("duplicate"), ErrCodeConflict, http.StatusConflict},
		{"internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestNotFound_DoesNotLeakIdentifier(t *testing.T) {
	err := NotFound("note")
	assert.Equal(t, "Not found", err.Message)
	assert.Equal(t, map[string]any{"resource": "note"}, err.Details)
}

func TestInternal_KeepsCauseOutOfResponse(t *testing.T) {
	cause := fmt.Errorf("db connection lost")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	resp := err.ToResponse()
	assert.Equal(t, ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "db connection lost")
}

func TestAsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Forbidden())

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeForbidden, appErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeForbidden))
	assert.True(t, stderrors.Is(wrapped, Forbidden()))
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))
	assert.Equal(t, ErrCodeInternal, From(stderrors.New("boom")).Code)
	assert.Equal(t, ErrCodeNotFound, From(NotFound("task")).Code)
}

func TestInvalidInput_Field(t *testing.T) {
	err := InvalidInput("sortDir", "must be asc or desc")
	assert.Equal(t, "sortDir", err.Details["field"])

	err = InvalidInput("", "bad body")
	assert.Nil(t, err.Details)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusTooManyRequests, StatusOf(ErrCodeRateLimited))
	assert.Equal(t, http.StatusInternalServerError, StatusOf("SOMETHING_NEW"))
	assert.True(t, DatabaseError(nil).Retryable)
	assert.False(t, InvalidToken().Retryable)
}
