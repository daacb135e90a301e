package catalog

import (
	"fmt"
	"strings"

	"mercator-hq/promptfactory/pkg/tagspec"
)

// LoadError reports a document that could not be read: a missing path, a
// permission problem, an oversized file or invalid encoding.
type LoadError struct {
	FilePath string
	Message  string
	Cause    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("failed to load %q: %s", e.FilePath, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Is makes every LoadError match tagspec.ErrConfig.
func (e *LoadError) Is(target error) bool { return target == tagspec.ErrConfig }

// ParseError reports a document that was read but is not a valid catalog
// document. Line and Column are 1-based and zero when unknown.
type ParseError struct {
	FilePath     string
	Line, Column int
	Message      string
	Cause        error
}

func (e *ParseError) Error() string {
	var at string
	switch {
	case e.Line > 0 && e.Column > 0:
		at = fmt.Sprintf(" at line %d, column %d", e.Line, e.Column)
	case e.Line > 0:
		at = fmt.Sprintf(" at line %d", e.Line)
	}
	return fmt.Sprintf("parse error in %q%s: %s", e.FilePath, at, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Is makes every ParseError match tagspec.ErrConfig.
func (e *ParseError) Is(target error) bool { return target == tagspec.ErrConfig }

// ErrorList collects the errors of one load so a single run reports every
// broken document.
type ErrorList struct {
	Errors []error
}

func (e *ErrorList) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %v\n", i+1, err)
	}
	return sb.String()
}

// Unwrap exposes each collected error to errors.Is and errors.As.
func (e *ErrorList) Unwrap() []error { return e.Errors }

// Add appends err unless it is nil.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *ErrorList) HasErrors() bool { return len(e.Errors) > 0 }

// ToError returns nil for an empty list, the only error for a list of one
// and the list itself otherwise.
func (e *ErrorList) ToError() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	}
	return e
}
