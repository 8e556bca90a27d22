// Package apperr defines the error kinds surfaced by the dictionary API.
package apperr

import (
	"errors"
)

var (
	// ErrInvalidArgument reports caller-supplied parameters out of range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports a referenced word absent from the word store.
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a duplicate favorite or a missing unfavorite target.
	ErrConflict = errors.New("conflict")
	// ErrUpstreamUnavailable reports a failed call to the word-data provider.
	// It is never cached and is safe to retry on a later request.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Error carries a message that is safe to show to API clients along with the
// kind it belongs to.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is matches the kind so that errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func InvalidArgument(message string) *Error {
	return &Error{Kind: ErrInvalidArgument, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: ErrConflict, Message: message}
}

// Upstream wraps a provider failure.
func Upstream(message string, err error) *Error {
	return &Error{Kind: ErrUpstreamUnavailable, Message: message, Err: err}
}

// Message returns the client-facing message of err, or fallback when err does
// not carry one.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
