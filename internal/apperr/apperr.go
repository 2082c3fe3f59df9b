// Package apperr defines the typed error taxonomy shared by the service
// layer and the HTTP gateway. Every service operation surfaces failures as
// an *Error carrying one of the kinds below; the gateway maps kinds to
// status codes in a single place.
package apperr

import "errors"

// Kind classifies a service-level failure.
type Kind string

const (
	NotFound        Kind = "not_found"
	Forbidden       Kind = "forbidden"
	Unauthenticated Kind = "unauthenticated"
	DuplicateName   Kind = "duplicate_name"
	DuplicateSlug   Kind = "duplicate_slug"
	Validation      Kind = "validation"
	Conflict        Kind = "conflict"
	Internal        Kind = "internal"
)

// Error is a kind-tagged error with a human-readable message and an
// optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap creates an error of the given kind around an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or Internal when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
