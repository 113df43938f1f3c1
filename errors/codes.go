package errors

import "net/http"

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Resource errors
const (
	// ErrCodeNotFound covers unknown resource names, unknown external ids and
	// records outside the caller's scope.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeConflict indicates a uniqueness or state conflict on write.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Request errors
const (
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
)

// Authentication/Authorization errors
const (
	// ErrCodeUnauthorized indicates a missing, invalid or expired bearer token,
	// or a token whose subject no longer resolves to a user.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates the caller lacks a required scope.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeInvalidToken indicates a token that failed verification, including
	// reset tokens that are unknown, expired or already redeemed.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	// ErrCodeInvalidCredentials is returned for every login failure.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeAccountDisabled indicates the user exists but is disabled.
	ErrCodeAccountDisabled ErrorCode = "ACCOUNT_DISABLED"
)

// Throttling errors
const (
	// ErrCodeRateLimited indicates the caller exceeded a request budget.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Internal errors
const (
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var statusByCode = map[ErrorCode]int{
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeInvalidToken:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountDisabled:    http.StatusBadRequest,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
}

// StatusOf returns the HTTP status for code; unknown codes map to 500.
func StatusOf(code ErrorCode) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeDatabaseError: true,
	ErrCodeRateLimited:   true,
}

// IsRetryableCode reports whether clients may retry a request that failed
// with code.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
