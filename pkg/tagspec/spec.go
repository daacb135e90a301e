package tagspec

import "slices"

// DefaultSeparator joins the selected strings of a group when the group does
// not declare its own separator.
const DefaultSeparator = ","

// PoolKey is the group key holding the sampling pool.
const PoolKey = "tags"

// ReservedKeys lists group parameter names. They are never treated as
// subgroup names.
var ReservedKeys = []string{
	"prefix",
	"suffix",
	"separator",
	"probability",
	"distribution",
	"number",
	"hide",
	"group_labels",
	"fixed",
}

// IsReserved reports whether name is a group parameter name or the pool key.
func IsReserved(name string) bool {
	return name == PoolKey || slices.Contains(ReservedKeys, name)
}

// Spec is one node of a tag tree. It is implemented by Literal, Choices and
// *Group only.
type Spec interface {
	isSpec()
}

// Literal always contributes its text verbatim.
type Literal string

// Choices is an ordered pool of strings sampled with the default group
// parameters.
type Choices []string

func (Literal) isSpec() {}
func (Choices) isSpec() {}
func (*Group) isSpec()  {}

// Entry is a named spec. Slices of entries keep declaration order.
type Entry struct {
	Name string
	Spec Spec
}

// Number is the count of strings drawn from a pool: either an exact count or
// a half-open range [Min, Max).
type Number struct {
	Min    int
	Max    int
	Ranged bool
}

// Exactly returns a Number drawing n strings.
func Exactly(n int) Number {
	return Number{Min: n, Max: n}
}

// Between returns a Number drawing a count in [min, max).
func Between(min, max int) Number {
	return Number{Min: min, Max: max, Ranged: true}
}

// Group is a weighted selection unit.
//
// Optional parameters are pointers so that "declared" can be told apart from
// the zero value. Use the accessor methods to read them with their defaults
// applied.
type Group struct {
	// Tags is the pool. It is nil when the group is a subgroup container.
	// A *Group value is either a nested group (it has its own Tags) or a
	// set of named alternatives (its Children).
	Tags Spec

	Prefix string
	Suffix string

	Separator    *string
	Probability  *float64
	Number       *Number
	Distribution []float64

	GroupLabels bool
	Hide        bool
	Fixed       *bool

	// Children holds the non-reserved keys in declaration order.
	Children []Entry
}

// IsContainer reports whether the group has no pool of its own.
func (g *Group) IsContainer() bool {
	return g.Tags == nil
}

// Alternatives returns the named alternatives when the pool is a mapping
// without its own pool.
func (g *Group) Alternatives() ([]Entry, bool) {
	inner, ok := g.Tags.(*Group)
	if !ok || !inner.IsContainer() {
		return nil, false
	}
	return inner.Children, true
}

// Child returns the child spec declared under name.
func (g *Group) Child(name string) (Spec, bool) {
	for _, e := range g.Children {
		if e.Name == name {
			return e.Spec, true
		}
	}
	return nil, false
}

// Chance returns the probability of the group contributing anything.
func (g *Group) Chance() float64 {
	if g.Probability == nil {
		return 1
	}
	return *g.Probability
}

// Sep returns the separator used to join selected strings.
func (g *Group) Sep() string {
	if g.Separator == nil {
		return DefaultSeparator
	}
	return *g.Separator
}

// Count returns the declared number of strings to draw.
func (g *Group) Count() Number {
	if g.Number == nil {
		return Exactly(1)
	}
	return *g.Number
}

// IsFixed reports whether a variable declared with this group is resolved
// once per build.
func (g *Group) IsFixed() bool {
	return g.Fixed == nil || *g.Fixed
}

// Clone returns a copy of g that shares no mutable state with it. Nested
// specs are shared since they are never modified in place.
func (g *Group) Clone() *Group {
	c := *g
	c.Distribution = slices.Clone(g.Distribution)
	c.Children = slices.Clone(g.Children)
	if g.Separator != nil {
		s := *g.Separator
		c.Separator = &s
	}
	if g.Probability != nil {
		p := *g.Probability
		c.Probability = &p
	}
	if g.Number != nil {
		n := *g.Number
		c.Number = &n
	}
	if g.Fixed != nil {
		f := *g.Fixed
		c.Fixed = &f
	}
	return &c
}

// WithProbability returns a copy of spec whose top-level probability is p.
// Literal and Choices specs are wrapped in a group first.
func WithProbability(spec Spec, p float64) *Group {
	var g *Group
	switch s := spec.(type) {
	case *Group:
		g = s.Clone()
	case Literal, Choices:
		g = &Group{Tags: s}
	default:
		g = &Group{}
	}
	g.Probability = &p
	return g
}

// Clamp01 limits p to [0, 1].
func Clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Variable is a spec used to substitute {name} placeholders.
type Variable struct {
	Spec Spec

	// Fixed variables are resolved once per build. Non-fixed variables are
	// re-resolved at every placeholder occurrence.
	Fixed bool
}

// NamedVariable is a variable with its declared name.
type NamedVariable struct {
	Name string
	Variable
}

// NewVariable wraps spec as a variable, reading the fixed flag from a group.
func NewVariable(spec Spec) Variable {
	fixed := true
	if g, ok := spec.(*Group); ok {
		fixed = g.IsFixed()
	}
	return Variable{Spec: spec, Fixed: fixed}
}

// Node is one node document: a named tag tree with its local variables.
type Node struct {
	// ID is derived from the document file name.
	ID        string
	Name      string
	Hide      bool
	Variables []NamedVariable
	Tags      []Entry
}

// DisplayName returns Name, falling back to ID.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
