package override

import (
	"fmt"
	"strings"

	"mercator-hq/promptfactory/pkg/tagspec"
)

// UnknownAlternativeError is returned when a field is pinned to an
// alternative its group does not declare.
type UnknownAlternativeError struct {
	Field string
	Name  string
	Known []string
}

// Error implements the error interface.
func (e *UnknownAlternativeError) Error() string {
	return fmt.Sprintf("field %q has no alternative %q (known: %s)", e.Field, e.Name, strings.Join(e.Known, ", "))
}

// Unwrap returns tagspec.ErrConfig.
func (e *UnknownAlternativeError) Unwrap() error {
	return tagspec.ErrConfig
}
