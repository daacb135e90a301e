package prompt

import (
	"errors"
	"fmt"
)

// ErrUnknownNode is returned when a build names a node that is not in the
// catalog.
var ErrUnknownNode = errors.New("unknown node")

// BuildError reports a failure while building one node.
type BuildError struct {
	// Node is the node ID being built.
	Node string

	// Tag is the top-level tag being processed, if any.
	Tag string

	Cause error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("build %s: tag %s: %v", e.Node, e.Tag, e.Cause)
	}
	return fmt.Sprintf("build %s: %v", e.Node, e.Cause)
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Cause
}
