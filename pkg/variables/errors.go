package variables

import "fmt"

// ResolveError reports a variable that could not be sampled.
type ResolveError struct {
	Name  string
	Cause error
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("variable %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ResolveError) Unwrap() error {
	return e.Cause
}
