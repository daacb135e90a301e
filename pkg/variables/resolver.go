package variables

import (
	"log/slog"
	"math/rand/v2"

	"mercator-hq/promptfactory/pkg/tagspec"
)

// Resolver builds per-build variable scopes over a set of global variables
// and a tag index. A Resolver is immutable and safe for concurrent use; the
// scopes it returns are not.
type Resolver struct {
	globals []tagspec.NamedVariable
	index   *TagIndex
	logger  *slog.Logger
}

// NewResolver creates a resolver. index may be nil. A nil logger uses
// slog.Default().
func NewResolver(globals []tagspec.NamedVariable, index *TagIndex, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{globals: globals, index: index, logger: logger}
}

// Build resolves the globals and the given locals for one build:
//
//  1. fixed globals are sampled;
//  2. fixed locals are sampled and global placeholders in them expanded;
//  3. both tables are merged, locals winning;
//  4. fixed entries still unresolved in the merged table are sampled.
//
// Non-fixed variables stay unresolved and are sampled at every occurrence.
func (r *Resolver) Build(rng *rand.Rand, locals []tagspec.NamedVariable) (*Scope, error) {
	globals := NewTable(r.globals)
	if err := globals.resolveFixed(rng); err != nil {
		return nil, err
	}

	local := NewTable(locals)
	if err := local.resolveFixed(rng); err != nil {
		return nil, err
	}

	outer := newScope(globals, nil, rng, r.logger)
	for _, name := range local.order {
		v := local.values[name]
		if !v.Resolved {
			continue
		}
		text, err := outer.Expand(v.Text)
		if err != nil {
			return nil, &ResolveError{Name: name, Cause: err}
		}
		local.values[name] = &Value{Variable: v.Variable, Text: text, Resolved: true}
	}

	merged := globals.Merge(local)
	if err := merged.resolveFixed(rng); err != nil {
		return nil, err
	}

	r.logger.Debug("variables resolved",
		"globals", globals.Len(),
		"locals", local.Len(),
	)
	return newScope(merged, r.index, rng, r.logger), nil
}
