package variables

import (
	"math/rand/v2"

	"mercator-hq/promptfactory/pkg/sampling"
	"mercator-hq/promptfactory/pkg/tagspec"
)

// Value is one table slot: the declared variable and, once resolved, its
// text.
type Value struct {
	tagspec.Variable
	Text     string
	Resolved bool
}

// Table is an ordered set of variables. Set keeps the position of an
// existing name.
type Table struct {
	order  []string
	values map[string]*Value
}

// NewTable builds a table from declared variables.
func NewTable(vars []tagspec.NamedVariable) *Table {
	t := &Table{values: make(map[string]*Value, len(vars))}
	for _, v := range vars {
		t.Set(v.Name, &Value{Variable: v.Variable})
	}
	return t
}

// Set stores v under name.
func (t *Table) Set(name string, v *Value) {
	if _, ok := t.values[name]; !ok {
		t.order = append(t.order, name)
	}
	t.values[name] = v
}

// Get returns the value stored under name.
func (t *Table) Get(name string) (*Value, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Names returns the variable names in insertion order.
func (t *Table) Names() []string {
	return t.order
}

// Len returns the number of variables.
func (t *Table) Len() int {
	return len(t.order)
}

// Merge returns a new table holding t's variables overlaid with other's.
func (t *Table) Merge(other *Table) *Table {
	m := &Table{values: make(map[string]*Value, t.Len()+other.Len())}
	for _, name := range t.order {
		m.Set(name, t.values[name])
	}
	for _, name := range other.order {
		m.Set(name, other.values[name])
	}
	return m
}

// resolveFixed samples every fixed variable that is not resolved yet.
// Values are replaced, never modified, so tables sharing a Value are not
// affected.
func (t *Table) resolveFixed(rng *rand.Rand) error {
	for _, name := range t.order {
		v := t.values[name]
		if v.Resolved || !v.Fixed {
			continue
		}
		text, err := sampling.Select(rng, v.Spec)
		if err != nil {
			return &ResolveError{Name: name, Cause: err}
		}
		t.values[name] = &Value{Variable: v.Variable, Text: text, Resolved: true}
	}
	return nil
}
