package tagspec

import "strings"

// ActionType is the kind of change an action makes to a tag list.
type ActionType string

const (
	// ActionAdd appends one sampled value to the tag list.
	ActionAdd ActionType = "add"

	// ActionRemove drops every tag containing one of the values.
	ActionRemove ActionType = "remove"
)

// Rule adds or removes tags when one of its triggers matches a prompt.
type Rule struct {
	// Name identifies the rule in logs and metrics ("<set>#<index>").
	Name string

	// Triggers are glob patterns matched against the whole prompt.
	Triggers []string

	Actions []Action

	Probability *float64
}

// Chance returns the probability of the rule being considered at all.
func (r *Rule) Chance() float64 {
	if r.Probability == nil {
		return 1
	}
	return *r.Probability
}

// Action is one mutation run by a fired rule.
type Action struct {
	Type ActionType

	// Values holds literals and config paths. Config paths are expanded
	// into the string leaves they match in the node configuration.
	Values []string

	Probability *float64
}

// Chance returns the probability of the action running once its rule fired.
func (a *Action) Chance() float64 {
	if a.Probability == nil {
		return 1
	}
	return *a.Probability
}

// IsConfigPath reports whether an action value is a query into the node
// configuration rather than a literal tag. Glob paths contain "/" or "*";
// JSONPath expressions start with "$".
func IsConfigPath(value string) bool {
	return strings.ContainsAny(value, "/*") || strings.HasPrefix(value, "$")
}
