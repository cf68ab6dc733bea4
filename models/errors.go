package models

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by stores, the pricing engine and controllers.
// Controllers map these to HTTP status codes with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence error")
)

type taggedError struct {
	kind error
	msg  string
}

func (e *taggedError) Error() string { return e.msg }

func (e *taggedError) Unwrap() error { return e.kind }

// ValidationError reports missing or malformed input
func ValidationError(format string, args ...any) error {
	return &taggedError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown experiment, item or category id
func NotFoundError(format string, args ...any) error {
	return &taggedError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness violation
func ConflictError(format string, args ...any) error {
	return &taggedError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failed save; the in-memory state was left unchanged
func PersistenceError(document string, err error) error {
	return fmt.Errorf("%w: failed to save %s: %w", ErrPersistence, document, err)
}
