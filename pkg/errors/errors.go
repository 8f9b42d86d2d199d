// Package errors provides structured error types for cargo-print.
//
// Every failure the tool can report carries a [Code] so that the command
// layer can decide how to present it (usage errors print the usage line,
// everything else prints the message) while still exiting with status 1.
//
// # Error Codes
//
//   - USAGE: malformed command line
//   - PROVIDER_ERROR: the metadata provider (cargo metadata) failed
//   - NOT_IN_PACKAGE / PACKAGE_NOT_FOUND: lookup failures
//   - INVALID_FEATURE: a requested feature does not exist
//   - CYCLE: circular intra-workspace dependencies
//   - INVARIANT_VIOLATION: the snapshot broke a uniqueness guarantee
//
// # Usage
//
//	err := errors.New(errors.ErrCodePackageNotFound, "package %q not found", name)
//	if errors.Is(err, errors.ErrCodePackageNotFound) {
//	    // ...
//	}
//
//	err := errors.Wrap(errors.ErrCodeProvider, origErr, "cargo metadata failed")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure kinds cargo-print reports.
const (
	// Input errors
	ErrCodeUsage           Code = "USAGE"
	ErrCodeInvalidFeature  Code = "INVALID_FEATURE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// Lookup errors
	ErrCodeNotInPackage    Code = "NOT_IN_PACKAGE"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"

	// Collaborator errors
	ErrCodeProvider Code = "PROVIDER_ERROR"

	// Graph errors
	ErrCodeCycle Code = "CYCLE"

	// Internal errors
	ErrCodeInvariant Code = "INVARIANT_VIOLATION"
	ErrCodeInternal  Code = "INTERNAL_ERROR"
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
// It unwraps the error chain looking for an *Error or *UsageError.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the chain holds neither an *Error nor a *UsageError.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if ue, ok := AsUsage(err); ok {
		return ue.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix, followed by
// the cause when there is one. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// UsageError reports a malformed command line. Line is the one-line usage
// string of the subcommand the user was trying to run.
type UsageError struct {
	Line   string
	Reason string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Line)
	}
	return e.Line
}

// Code returns the error code for this error type.
func (e *UsageError) Code() Code {
	return ErrCodeUsage
}

// Usage creates a UsageError for the given usage line.
func Usage(line, reason string) *UsageError {
	return &UsageError{Line: line, Reason: reason}
}

// AsUsage returns the *UsageError in err's chain, if any.
func AsUsage(err error) (*UsageError, bool) {
	var ue *UsageError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
