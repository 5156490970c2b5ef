package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested item, location or tag does not exist.
var ErrNotFound = errors.New("not found")

// ErrQuerySyntax is returned when a term is not a valid full-text query.
var ErrQuerySyntax = errors.New("invalid full-text query")

// NotFoundError names what was missing. It wraps ErrNotFound.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(kind, name string) error {
	return &NotFoundError{Kind: kind, Name: name}
}

// QuerySyntaxError reports a term the full-text engine rejected. It wraps
// ErrQuerySyntax.
type QuerySyntaxError struct {
	Term string
	Err  error
}

func (e *QuerySyntaxError) Error() string {
	return fmt.Sprintf("invalid full-text query %q: %v", e.Term, e.Err)
}

func (e *QuerySyntaxError) Unwrap() []error { return []error{ErrQuerySyntax, e.Err} }

// ValidationError is returned when input fails field-level validation.
// Chars lists offending characters, if any.
type ValidationError struct {
	Field   string
	Message string
	Chars   []string
}

func (e *ValidationError) Error() string {
	if len(e.Chars) > 0 {
		return fmt.Sprintf("validation error: %s: %s: %s", e.Field, e.Message, strings.Join(e.Chars, " "))
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}
