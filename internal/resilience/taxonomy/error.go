package taxonomy

import (
	"errors"
	"fmt"
)

// Error is a classified error raised by collaborators that already know
// their failure kind. Classify unwraps it ahead of any heuristics.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error for a kind.
func New(k Kind, message string) *Error {
	return &Error{Kind: k, Message: message}
}

// Wrap attaches a kind to an underlying error.
func Wrap(k Kind, err error) *Error {
	return &Error{Kind: k, Err: err}
}

// StatusError carries an HTTP status from a backend response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// KindOf extracts the kind from an error chain, or KindUnknown.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}
