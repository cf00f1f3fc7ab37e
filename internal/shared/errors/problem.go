// Package errors provides RFC 7807 Problem Details for HTTP APIs.
package errors

import (
	"fmt"
	"net/http"
	"sort"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	// Type is a URI reference that identifies the problem type.
	Type string `json:"type"`
	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`
	// Status is the HTTP status code for this occurrence.
	Status int `json:"status"`
	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`
	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`
	// Errors lists field-level validation messages.
	Errors []FieldMessage `json:"errors,omitempty"`
}

// FieldMessage describes why a single request field was rejected.
type FieldMessage struct {
	FieldName string `json:"fieldName"`
	Message   string `json:"message"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithFieldError returns a copy with one more field message appended.
func (p ProblemDetail) WithFieldError(field, message string) ProblemDetail {
	errs := make([]FieldMessage, 0, len(p.Errors)+1)
	errs = append(errs, p.Errors...)
	p.Errors = append(errs, FieldMessage{FieldName: field, Message: message})
	return p
}

// Common problem types as URI references.
const (
	TypeValidation   = "/problems/validation-error"
	TypeNotFound     = "/problems/not-found"
	TypeInternal     = "/problems/internal-error"
	TypeUnauthorized = "/problems/unauthorized"
	TypeForbidden    = "/problems/forbidden"
	TypeBadRequest   = "/problems/bad-request"
	TypeConstraint   = "/problems/database-constraint"
	TypeTooMany      = "/problems/too-many-requests"
)

// Pre-defined problem templates for common scenarios.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = ProblemDetail{
		Type:   TypeNotFound,
		Title:  "Resource Not Found",
		Status: http.StatusNotFound,
	}

	// ErrValidation indicates the request body failed validation.
	ErrValidation = ProblemDetail{
		Type:   TypeValidation,
		Title:  "Validation Error",
		Status: http.StatusUnprocessableEntity,
	}

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = ProblemDetail{
		Type:   TypeBadRequest,
		Title:  "Bad Request",
		Status: http.StatusBadRequest,
	}

	// ErrDatabaseConstraint indicates the change would break referential integrity.
	ErrDatabaseConstraint = ProblemDetail{
		Type:   TypeConstraint,
		Title:  "Database Constraint Violation",
		Status: http.StatusBadRequest,
	}

	// ErrInternal indicates an unexpected server error.
	ErrInternal = ProblemDetail{
		Type:   TypeInternal,
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
	}

	// ErrUnauthorized indicates missing or invalid authentication.
	ErrUnauthorized = ProblemDetail{
		Type:   TypeUnauthorized,
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
	}

	// ErrForbidden indicates the action is not allowed.
	ErrForbidden = ProblemDetail{
		Type:   TypeForbidden,
		Title:  "Forbidden",
		Status: http.StatusForbidden,
	}

	ErrTooManyRequests = ProblemDetail{
		Type:   TypeTooMany,
		Title:  "Too Many Requests",
		Status: http.StatusTooManyRequests,
	}
)

// NewValidationProblem creates a validation error with field-level details.
// Fields are emitted in the order given by keys, or sorted by name when keys is empty.
func NewValidationProblem(fieldErrors map[string]string, keys ...string) ProblemDetail {
	problem := ErrValidation.WithDetail("invalid data")
	if len(keys) == 0 {
		for field := range fieldErrors {
			keys = append(keys, field)
		}
		sort.Strings(keys)
	}
	for _, field := range keys {
		if msg, ok := fieldErrors[field]; ok {
			problem = problem.WithFieldError(field, msg)
		}
	}
	return problem
}
