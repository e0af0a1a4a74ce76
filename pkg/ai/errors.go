package ai

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the failure modes of an external model call.
type ErrorKind int

const (
	// KindTransport covers network failures and exceeded call budgets.
	KindTransport ErrorKind = iota
	// KindService covers non-success responses from the model API.
	KindService
	// KindFormat covers responses that cannot be parsed into the expected
	// structure.
	KindFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindService:
		return "service"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Error wraps a model-call failure with its kind. Callers use IsKind to
// branch on the failure mode without depending on the adapter in use.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ai %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err as a transport-kind failure.
func NewTransportError(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// NewServiceError wraps err as a service-kind failure.
func NewServiceError(err error) *Error {
	return &Error{Kind: KindService, Err: err}
}

// NewFormatError wraps err as a format-kind failure.
func NewFormatError(err error) *Error {
	return &Error{Kind: KindFormat, Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind == kind
	}
	return false
}
