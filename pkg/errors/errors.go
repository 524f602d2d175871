// Package errors provides structured error types for splitgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes map onto the failure classes of the report pipeline:
//   - PRECONDITION_VIOLATION: the pipeline ran without a usable build
//   - ASSEMBLY_INVARIANT: layout output and extracted data disagree on ids
//   - MALFORMED_METADATA: a module or chunk lacked naming metadata (recovered)
//   - ARTIFACT_WRITE: the report could not be serialized or written
//   - OPEN_ACTION: the OS "open" action failed (non-fatal)
//   - INVALID_*: input validation failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodePrecondition, "build has no output path")
//	if errors.Is(err, errors.ErrCodePrecondition) {
//	    // abort the run
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeArtifactWrite, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidEngine Code = "INVALID_ENGINE"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Pipeline errors
	ErrCodePrecondition      Code = "PRECONDITION_VIOLATION"
	ErrCodeAssemblyInvariant Code = "ASSEMBLY_INVARIANT"
	ErrCodeMalformedMetadata Code = "MALFORMED_METADATA"
	ErrCodeLayout            Code = "LAYOUT_FAILED"
	ErrCodeArtifactWrite     Code = "ARTIFACT_WRITE"
	ErrCodeOpenAction        Code = "OPEN_ACTION"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsFatal reports whether err should abort a pipeline run.
// Malformed metadata and failed open actions are recovered locally; every
// other error, coded or not, is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetCode(err) {
	case ErrCodeMalformedMetadata, ErrCodeOpenAction:
		return false
	}
	return true
}
