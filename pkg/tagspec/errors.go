package tagspec

import (
	"errors"
	"fmt"
)

// ErrConfig is wrapped by every error caused by bad configuration, whether it
// is detected at load time or during a build.
var ErrConfig = errors.New("configuration error")

// ValidationError reports an invalid value in a document.
type ValidationError struct {
	// Path is the slash separated key path to the value (e.g. "tags/hair/number").
	Path string

	// Line and Column locate the value in its document (1-indexed, 0 if unknown).
	Line   int
	Column int

	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Path, e.Message)
}

// Unwrap returns ErrConfig so callers can test with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrConfig
}
