// Package validation accumulates field-level invariant violations into a single error.
package validation

import (
	"errors"
	"strings"
)

// FieldError ties a violated invariant to the input field it concerns.
type FieldError struct {
	Field string
	Err   error
}

// Error is returned when one or more fields are invalid.
// errors.Is matches any of the underlying field errors.
type Error struct {
	fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f.Field+": "+f.Err.Error())
	}
	return "invalid data: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, len(e.fields))
	for _, f := range e.fields {
		out = append(out, f.Err)
	}
	return out
}

// Fields returns the violations in the order they were recorded.
func (e *Error) Fields() []FieldError {
	return append([]FieldError(nil), e.fields...)
}

// Messages maps each field to its message.
func (e *Error) Messages() map[string]string {
	out := make(map[string]string, len(e.fields))
	for _, f := range e.fields {
		out[f.Field] = f.Err.Error()
	}
	return out
}

// Collector gathers field errors while validating an aggregate.
type Collector struct {
	fields []FieldError
}

// Check records err against field when cond is false.
func (c *Collector) Check(cond bool, field string, err error) {
	if !cond {
		c.fields = append(c.fields, FieldError{Field: field, Err: err})
	}
}

// Add records err against field when err is non-nil.
func (c *Collector) Add(field string, err error) {
	if err != nil {
		c.fields = append(c.fields, FieldError{Field: field, Err: err})
	}
}

// Err returns nil when nothing was recorded, otherwise an *Error.
func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{fields: append([]FieldError(nil), c.fields...)}
}

// As extracts the validation error from err, if any.
func As(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
