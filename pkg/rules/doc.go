// Package rules post-processes a finished tag list with trigger/action
// rules.
//
// Rules are grouped in named sets, one set per rule document. A rule fires
// at most once per application: when its probability gate passes and one of
// its trigger globs matches the whole prompt, its actions run in order. An
// add action appends one value sampled from its pool; a remove action drops
// every tag containing one of its values.
//
// Action values containing "/" or "*" are paths into the node
// configuration. Glob paths use "/" separated segments where "*" matches
// one segment and "**" any number of segments. Values starting with "$" are
// JSONPath expressions.
//
// The set name "all" is reserved for a composite rule made of the triggers
// and actions of every rule in every set.
package rules
