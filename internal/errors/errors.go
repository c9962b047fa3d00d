// Package errors provides coded application errors shared by the game engine
// and the HTTP layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeNotFound means a referenced bill, problem, scenario, stage or session does not exist.
	CodeNotFound Code = "NOT_FOUND"

	// CodeIncompleteSubmission means a required selection is missing. State is unchanged.
	CodeIncompleteSubmission Code = "INCOMPLETE_SUBMISSION"

	// CodeInvalidRequest covers malformed input such as an out-of-range choice index.
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// CodeInvalidState means the session does not allow the operation right now.
	CodeInvalidState Code = "INVALID_STATE"

	// CodeInvalidContent means content or configuration failed validation.
	CodeInvalidContent Code = "INVALID_CONTENT"
)

// HTTPStatus maps a code to the status the API answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeIncompleteSubmission:
		return http.StatusUnprocessableEntity
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error carrying a code and optional metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error with the given code.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying error.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// With returns a copy of e with an extra metadata entry.
func (e *Error) With(key, value string) *Error {
	out := *e
	out.Metadata = make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		out.Metadata[k] = v
	}
	out.Metadata[key] = value
	return &out
}

// NotFound reports a missing entity of the given kind.
func NotFound(kind, id string) *Error {
	return Newf(CodeNotFound, "%s %q not found", kind, id).With("kind", kind).With("id", id)
}

// Incomplete reports the ids whose selection is missing.
func Incomplete(field string, missing []string) *Error {
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)
	return Newf(CodeIncompleteSubmission, "missing %s for %d item(s)", field, len(sorted)).
		With("field", field).
		With("missing", strings.Join(sorted, ","))
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata extracts metadata from an error if present.
func GetMetadata(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}
