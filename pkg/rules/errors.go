package rules

import (
	"errors"
	"fmt"

	"mercator-hq/promptfactory/pkg/tagspec"
)

var (
	// ErrUnknownRuleSet is returned when applying a set that is not loaded.
	ErrUnknownRuleSet = errors.New("unknown rule set")

	// ErrReservedSetName is returned when a rule document is named after
	// the composite set.
	ErrReservedSetName = fmt.Errorf("%w: rule set name %q is reserved", tagspec.ErrConfig, AllSets)
)

// PatternError reports a trigger or path that cannot be compiled.
type PatternError struct {
	Rule    string
	Pattern string
	Cause   error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("rule %s: invalid pattern %q: %v", e.Rule, e.Pattern, e.Cause)
	}
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Cause)
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Cause
}

// Is reports configuration errors.
func (e *PatternError) Is(target error) bool {
	return target == tagspec.ErrConfig
}
