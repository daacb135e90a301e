// Package override applies host supplied field values to the top-level tags
// of a node before sampling.
//
// A field can be left random, switched off, re-weighted, toggled or pinned
// to a concrete value. Resolution is copy-on-resolve: the loaded specs are
// never modified, changed groups are cloned.
package override

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind int

const (
	// KindRandom samples the field as configured. It is the default.
	KindRandom Kind = iota

	// KindNone drops the field.
	KindNone

	// KindProbability replaces the declared probability of a group.
	KindProbability

	// KindEnabled keeps (true) or drops (false) the field.
	KindEnabled

	// KindSelect pins the field to a literal or a named alternative.
	KindSelect
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRandom:
		return "random"
	case KindNone:
		return "none"
	case KindProbability:
		return "probability"
	case KindEnabled:
		return "enabled"
	case KindSelect:
		return "select"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is one host supplied override. The zero Value is Random().
type Value struct {
	kind    Kind
	p       float64
	enabled bool
	text    string
}

// Random leaves the field to the sampler.
func Random() Value { return Value{kind: KindRandom} }

// None drops the field.
func None() Value { return Value{kind: KindNone} }

// Probability re-weights a group that declares a probability.
func Probability(p float64) Value { return Value{kind: KindProbability, p: p} }

// Enabled toggles an optional field.
func Enabled(on bool) Value { return Value{kind: KindEnabled, enabled: on} }

// Select pins the field to text.
func Select(text string) Value { return Value{kind: KindSelect, text: text} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// String formats v the way ParseString reads it back.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "none"
	case KindProbability:
		return strconv.FormatFloat(v.p, 'g', -1, 64)
	case KindEnabled:
		return strconv.FormatBool(v.enabled)
	case KindSelect:
		return v.text
	default:
		return "random"
	}
}

// Overrides maps field names to values.
type Overrides map[string]Value

// Parse converts a decoded host value (JSON, YAML or native Go) into a Value.
// nil means Random.
func Parse(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Random(), nil
	case Value:
		return x, nil
	case bool:
		return Enabled(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Value{}, fmt.Errorf("override probability %v is not a finite number", x)
		}
		return Probability(x), nil
	case float32:
		return Parse(float64(x))
	case int:
		return Probability(float64(x)), nil
	case int64:
		return Probability(float64(x)), nil
	case uint64:
		return Probability(float64(x)), nil
	case string:
		return fromString(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported override value %v (%T)", raw, raw)
	}
}

// ParseString reads an override typed on a command line. Booleans and
// finite numbers are recognized; everything else, "NaN" and "Inf"
// included, is a string value.
func ParseString(s string) Value {
	switch s {
	case "true":
		return Enabled(true)
	case "false":
		return Enabled(false)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Probability(f)
	}
	return fromString(s)
}

func fromString(s string) Value {
	switch s {
	case "", "random":
		return Random()
	case "none":
		return None()
	default:
		return Select(s)
	}
}

// ParseMap parses every value of raw. A trailing "?" is stripped from keys.
func ParseMap(raw map[string]any) (Overrides, error) {
	out := make(Overrides, len(raw))
	for k, r := range raw {
		v, err := Parse(r)
		if err != nil {
			return nil, fmt.Errorf("override %q: %w", k, err)
		}
		out[strings.TrimRight(k, "?")] = v
	}
	return out, nil
}

// ParseAssignments parses "key=value" pairs as typed on a command line.
// Non-finite numbers such as NaN and Inf are rejected.
func ParseAssignments(pairs []string) (Overrides, error) {
	out := make(Overrides, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid override %q: expected key=value", pair)
		}
		if f, err := strconv.ParseFloat(val, 64); err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return nil, fmt.Errorf("invalid override %q: probability must be a finite number", pair)
		}
		out[strings.TrimRight(key, "?")] = ParseString(val)
	}
	return out, nil
}
