// Package domainerrors provides coded errors that cross layer boundaries.
// Services return these so transports can map them to protocol status codes
// without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and caller retry decisions.
type Code string

const (
	// CodeValidation marks a malformed request. The call never started real work.
	CodeValidation Code = "validation_error"

	// CodeBadRequest marks a request the transport could not decode.
	CodeBadRequest Code = "bad_request"

	// CodeCapacityExceeded marks admission-control rejection. The caller owns
	// retry and backoff; the engine does not queue.
	CodeCapacityExceeded Code = "capacity_exceeded"

	// CodeCancelled marks a verification cancelled via the cancel endpoint.
	CodeCancelled Code = "cancelled"

	// CodeUnauthorized marks a missing or invalid credential.
	CodeUnauthorized Code = "unauthorized"

	// CodeNotFound marks a reference to an entity that does not exist.
	CodeNotFound Code = "not_found"

	// CodeUnavailable marks a dependency that is temporarily down.
	CodeUnavailable Code = "unavailable"

	// CodeInternal marks an unexpected failure. Details stay server-side.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. It may wrap an underlying cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New builds a coded error with a caller-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a coded error around an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
