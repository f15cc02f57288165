// Package apperr defines the tagged error kinds that endpoint logic
// returns and the request pipeline classifies into HTTP responses.
package apperr

import "fmt"

// Kind enumerates the failure categories the pipeline can classify.
type Kind int

// Kind values, one per row of the error taxonomy.
const (
	// KindInternal is the catch-all failure category.
	KindInternal Kind = iota
	// KindValidation marks rejected input.
	KindValidation
	// KindUnauthorized marks missing or invalid credentials.
	KindUnauthorized
	// KindForbidden marks authenticated callers lacking the required role.
	KindForbidden
	// KindNotFound marks a missing record.
	KindNotFound
	// KindConflict marks a uniqueness conflict.
	KindConflict
)

// Error is a classified failure carrying a caller-visible message.
type Error struct {
	Kind    Kind   // Failure category.
	Message string // Message surfaced in the error envelope.
	Err     error  // Optional wrapped cause, logged but never returned.
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New constructs a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs a classified error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation constructs a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Unauthorized constructs an authentication error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Forbidden constructs an authorization error.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// NotFound constructs a missing-record error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}
