package tracker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound reports a referenced row that does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict reports a unique-constraint violation on creation.
var ErrConflict = errors.New("already exists")

// ValidationError reports caller input that violates a recording
// precondition. It is always correctable by the caller and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError wraps a storage failure that occurred after validation
// passed. The write it belongs to was rolled back; callers must not assume
// partial application.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err is a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsUniqueViolation detects a SQLite unique-constraint failure. Both the
// mattn and libsql drivers surface the constraint name in the message.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
