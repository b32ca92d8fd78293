// Package apperr defines the typed failure kinds shared by every layer of
// the service. Handlers map kinds onto HTTP statuses so that callers can
// distinguish failures by code instead of parsing messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// KindUpstreamUnreachable is a transport-level failure reaching the
	// embedding, index, or generation provider.
	KindUpstreamUnreachable Kind = "upstream_unreachable"
	// KindUpstreamRejected is a non-success status from an upstream; the
	// upstream message is passed through verbatim.
	KindUpstreamRejected Kind = "upstream_rejected"
	// KindNotFound is a referenced job id absent from catalog or ledger.
	KindNotFound Kind = "not_found"
	// KindInvalidInput is a malformed request: unsupported file type,
	// unreadable document, bad fields.
	KindInvalidInput Kind = "invalid_input"
	// KindInternal is any other failure.
	KindInternal Kind = "internal"
)

// Error carries a kind alongside the message and optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
