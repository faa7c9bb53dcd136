package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("resource not found")
var ErrInvalidState = errors.New("operation not allowed in the current state")
var ErrCapacityExceeded = errors.New("not enough remaining capacity")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrGateway = errors.New("payment gateway call failed")

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of field errors for one request so
// the presentation layer can re-render the form with inline messages.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Validation returns a ValidationError with a single field error.
func Validation(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}
