package errors

import "fmt"

// AppError is the error every layer returns once a failure has a known
// meaning. Cause stays server side; the rest is rendered to clients.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any AppError carrying the same code, so callers can compare
// against a freshly built sentinel such as Forbidden().
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause attaches the underlying error and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets one client-visible detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// New builds an AppError whose retryability follows the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Retryable: IsRetryableCode(code)}
}

// of builds an AppError with the status registered for code.
func of(code ErrorCode, message string) *AppError {
	return New(code, message, StatusOf(code))
}

// NotFound is used for unknown resources and for records outside the
// caller's scope alike, so the message never names the identifier.
func NotFound(resource string) *AppError {
	return of(ErrCodeNotFound, "Not found").WithDetail("resource", resource)
}

func Conflict(reason string) *AppError { return of(ErrCodeConflict, reason) }

// InvalidInput reports a malformed body or query parameter. An empty field
// leaves Details unset.
func InvalidInput(field, reason string) *AppError {
	e := of(ErrCodeInvalidInput, "Invalid input: "+reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation carries per-field failures under the "fields" detail.
func Validation(fields map[string]string) *AppError {
	e := of(ErrCodeValidation, "Validation failed")
	if len(fields) > 0 {
		e.WithDetail("fields", fields)
	}
	return e
}

// Unauthorized defaults reason to the generic credentials message.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Could not validate credentials"
	}
	return of(ErrCodeUnauthorized, reason)
}

func Forbidden() *AppError { return of(ErrCodeForbidden, "Not enough permissions") }

func InvalidToken() *AppError { return of(ErrCodeInvalidToken, "Token not valid or expired") }

// InvalidCredentials is returned by login for an unknown email and for a
// wrong password alike.
func InvalidCredentials() *AppError {
	return of(ErrCodeInvalidCredentials, "Incorrect username or password")
}

func AccountDisabled() *AppError { return of(ErrCodeAccountDisabled, "Inactive user") }

func RateLimited() *AppError { return of(ErrCodeRateLimited, "Too many requests") }

func Internal(cause error) *AppError {
	return of(ErrCodeInternal, "An unexpected error occurred").WithCause(cause)
}

func DatabaseError(cause error) *AppError {
	return of(ErrCodeDatabaseError, "A database error occurred").WithCause(cause)
}
