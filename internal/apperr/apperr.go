// Package apperr defines the error taxonomy surfaced by the HTTP API.
// Every error that reaches a response body is one of these kinds; raw
// error text from drivers or upstream services never leaves the server.
package apperr

import "errors"

type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindDuplicateIdentifier Kind = "duplicate_identifier"
	KindInvalidCredentials  Kind = "invalid_credentials"
	KindUnauthenticated     Kind = "unauthenticated"
	KindNotFound            Kind = "not_found"
	KindInvalidMethod       Kind = "invalid_method"
	KindUpstreamFailure     Kind = "upstream_failure"
	KindInternal            Kind = "internal"
)

// Error carries a machine-readable kind and a user-facing message.
// The wrapped cause, if any, is for server-side logs only.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap provides compatibility with errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an Error with a kind and user-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error that keeps cause for server-side logging while
// exposing only message to the caller.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

func Duplicate(message string) *Error {
	return New(KindDuplicateIdentifier, message)
}

func InvalidCredentials(message string) *Error {
	return New(KindInvalidCredentials, message)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Upstream(message string, cause error) *Error {
	return Wrap(KindUpstreamFailure, message, cause)
}

func Internal(message string, cause error) *Error {
	return Wrap(KindInternal, message, cause)
}

// KindOf extracts the kind from err, or KindInternal for errors that
// were never classified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
