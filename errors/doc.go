// Package errors provides the application error type shared by every layer.
// Each AppError carries a machine-readable code, a fixed client-facing message
// and the HTTP status it maps to.
package errors
