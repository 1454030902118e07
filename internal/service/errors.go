package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.  Handlers map it to 400.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a referenced entity that does not exist.  Handlers map it to 404.
	ErrNotFound = errors.New("not found")
)

// Error is a classified service error.  Error() returns the client-facing
// message; errors.Is matches the kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func activityNotFound(id int64) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("Activity not found: %d", id)}
}
