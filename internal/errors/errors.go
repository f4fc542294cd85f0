package errors

import (
	"fmt"

	"google.golang.org/grpc/status"
)

// Error is a domain error with a machine-readable code and optional metadata
// used to format localized user-facing messages.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	cause    error
}

// New creates a domain error with the given code and developer message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error that preserves an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithMetadata attaches message-formatting metadata and returns the error.
func (e *Error) WithMetadata(md map[string]string) *Error {
	e.Metadata = md
	return e
}

// Error implements the error interface with the developer-facing message.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// ToGRPCStatus converts the error to a gRPC status carrying the localized
// user message.
func (e *Error) ToGRPCStatus(userMsg string) error {
	return status.Error(e.Code.GRPCCode(), userMsg)
}
