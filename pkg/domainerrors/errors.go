// Package domainerrors defines the coded error taxonomy shared by the audit
// pipeline. Every error that crosses a package boundary carries a Code so the
// HTTP layer and the CLI can translate it without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for boundary translation.
type Code string

const (
	// CodeValidation marks client-caused input problems. Never retryable.
	CodeValidation Code = "validation"

	// CodeUnauthorized marks a failed operator credential check.
	CodeUnauthorized Code = "unauthorized"

	// CodeSchemaInit marks a failure to create the environment schema or the
	// events table. Fatal at startup; the process must not accept traffic.
	CodeSchemaInit Code = "schema_init"

	// CodePersistence marks a failed append. The event is not retried here;
	// the submitter owns resubmission.
	CodePersistence Code = "persistence"

	// CodeAggregation marks a failed report query. No partial results.
	CodeAggregation Code = "aggregation"

	// CodeExternalFetch marks an unreachable or malformed usage-report source.
	CodeExternalFetch Code = "external_fetch"

	// CodeInternal is the catch-all for everything uncoded.
	CodeInternal Code = "internal"
)

// Error is a coded error with an operator-facing message and optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded error around an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the response status the transport layer writes.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeSchemaInit, CodePersistence, CodeAggregation, CodeExternalFetch, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
