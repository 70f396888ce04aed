// Package errors provides structured error types for the indexforge planner.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Registration validation failures, plus malformed build
//     profiles and provisions (INVALID_PROFILE, INVALID_PROVISIONS)
//   - DUPLICATE_*: Uniqueness violations in the registry
//   - UNKNOWN_*: References to unregistered entries
//   - CYCLIC_GRAPH, RECIPE_FAILED, INSUFFICIENT_INPUT: build-time failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateIdentifier, "artifact %q already registered", id)
//	if errors.Is(err, errors.ErrCodeDuplicateIdentifier) {
//	    // Handle registration bug
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRecipeFailed, origErr, "recipe %d for %q", idx, id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Registration validation errors. These indicate configuration bugs in
	// the code that assembles a registry and are not recoverable.
	ErrCodeInvalidIdentifier   Code = "INVALID_IDENTIFIER"
	ErrCodeInvalidSuffix       Code = "INVALID_SUFFIX"
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	ErrCodeDuplicateSuffix     Code = "DUPLICATE_SUFFIX"

	// Lookup errors
	ErrCodeUnknownArtifact Code = "UNKNOWN_ARTIFACT"

	// Graph errors
	ErrCodeCyclicGraph Code = "CYCLIC_GRAPH"

	// Build-time errors
	ErrCodeInsufficientInput Code = "INSUFFICIENT_INPUT"
	ErrCodeRecipeFailed      Code = "RECIPE_FAILED"
	ErrCodeArtifactFinished  Code = "ARTIFACT_FINISHED"

	// Input/configuration surface errors
	ErrCodeInvalidProfile    Code = "INVALID_PROFILE"
	ErrCodeInvalidProvisions Code = "INVALID_PROVISIONS"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
