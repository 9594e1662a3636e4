// Package errors provides coded errors for the hehify surfaces.
//
// The transformation core never fails; these errors are raised at the
// boundaries (config loading, settings validation, IPC and HTTP requests)
// so callers can branch on a machine-readable Code.
//
//	err := errors.New(errors.ErrCodeInvalidConfiguration, "rate %v outside [0,1]", rate)
//	if errors.Is(err, errors.ErrCodeInvalidConfiguration) {
//	    // reject the request
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeInvalidConfiguration Code = "INVALID_CONFIGURATION"
	ErrCodeInvalidInput         Code = "INVALID_INPUT"
	ErrCodeInvalidRequest       Code = "INVALID_REQUEST"
	ErrCodeInternal             Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an existing cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any error in err's chain carries code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from err, or "" when err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Status maps an error to the numeric status used by the IPC and HTTP
// surfaces.
func Status(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidConfiguration:
		return 422
	case ErrCodeInvalidInput, ErrCodeInvalidRequest:
		return 400
	default:
		return 500
	}
}
