package database

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/recordkit/errors"
)

// IsNotFoundError checks if the error is a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError checks if the error is a translated unique-key violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// FromDatabase converts a database error to an AppError. AppErrors pass
// through unchanged so callers can return domain errors from transactions.
func FromDatabase(err error, resource string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	switch {
	case IsNotFoundError(err):
		return apperrors.NotFound(resource)
	case IsDuplicateError(err):
		return apperrors.Conflict("A record with these details already exists").WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.InvalidInput("", "referenced record does not exist").WithCause(err)
	default:
		return apperrors.DatabaseError(err)
	}
}
