package tagspec

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Decoder turns yaml.v3 node trees into specs, nodes, variables and rules.
// JSON documents parse into the same node trees, so one decoder serves both.
type Decoder struct {
	// OnClamp, when set, is called for every probability outside [0, 1]
	// before it is clamped into range.
	OnClamp func(path string, value float64)
}

// Spec decodes a single tag spec.
func (d *Decoder) Spec(n *yaml.Node, path string) (Spec, error) {
	n = resolve(n)
	if n == nil {
		return nil, &ValidationError{Path: path, Message: "missing value"}
	}

	switch n.Kind {
	case yaml.ScalarNode:
		if isNull(n) {
			return nil, errAt(n, path, "empty value")
		}
		return Literal(n.Value), nil

	case yaml.SequenceNode:
		choices := make(Choices, 0, len(n.Content))
		for i, item := range n.Content {
			item = resolve(item)
			if item == nil || item.Kind != yaml.ScalarNode || isNull(item) {
				return nil, errAt(n, fmt.Sprintf("%s[%d]", path, i), "choices must be strings")
			}
			choices = append(choices, item.Value)
		}
		return choices, nil

	case yaml.MappingNode:
		return d.group(n, path)
	}

	return nil, errAt(n, path, "unsupported value")
}

func (d *Decoder) group(n *yaml.Node, path string) (*Group, error) {
	g := &Group{}
	err := eachPair(n, path, func(key string, v *yaml.Node, kp string) error {
		var err error
		switch key {
		case PoolKey:
			if isNull(resolve(v)) {
				return nil
			}
			g.Tags, err = d.Spec(v, kp)
		case "prefix":
			g.Prefix, err = scalarString(v, kp)
		case "suffix":
			g.Suffix, err = scalarString(v, kp)
		case "separator":
			var s string
			if s, err = scalarString(v, kp); err == nil {
				g.Separator = &s
			}
		case "probability":
			var p float64
			if p, err = d.probability(v, kp); err == nil {
				g.Probability = &p
			}
		case "distribution":
			g.Distribution, err = distribution(v, kp)
		case "number":
			var num Number
			if num, err = number(v, kp); err == nil {
				g.Number = &num
			}
		case "hide":
			g.Hide, err = boolean(v, kp)
		case "group_labels":
			g.GroupLabels, err = boolean(v, kp)
		case "fixed":
			var b bool
			if b, err = boolean(v, kp); err == nil {
				g.Fixed = &b
			}
		default:
			var child Spec
			if child, err = d.Spec(v, kp); err == nil {
				g.Children = append(g.Children, Entry{Name: key, Spec: child})
			}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Entries decodes a mapping of named specs. Names colliding with reserved
// keys are rejected.
func (d *Decoder) Entries(n *yaml.Node, path string) ([]Entry, error) {
	n = resolve(n)
	if n == nil || isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errAt(n, path, "expected a mapping of named tags")
	}

	var entries []Entry
	err := eachPair(n, path, func(key string, v *yaml.Node, kp string) error {
		if IsReserved(key) {
			return errAt(v, kp, fmt.Sprintf("tag name %q collides with a reserved key", key))
		}
		spec, err := d.Spec(v, kp)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Name: key, Spec: spec})
		return nil
	})
	return entries, err
}

// Variables decodes a mapping of variable names to specs.
func (d *Decoder) Variables(n *yaml.Node, path string) ([]NamedVariable, error) {
	n = resolve(n)
	if n == nil || isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errAt(n, path, "expected a mapping of variables")
	}

	var vars []NamedVariable
	err := eachPair(n, path, func(key string, v *yaml.Node, kp string) error {
		spec, err := d.Spec(v, kp)
		if err != nil {
			return err
		}
		vars = append(vars, NamedVariable{Name: key, Variable: NewVariable(spec)})
		return nil
	})
	return vars, err
}

// Node decodes a node document. id is usually the document file name.
func (d *Decoder) Node(id string, doc *yaml.Node) (*Node, error) {
	n := resolve(doc)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, errAt(n, id, "node document must be a mapping")
	}

	node := &Node{ID: id}
	err := eachPair(n, id, func(key string, v *yaml.Node, kp string) error {
		var err error
		switch key {
		case "name":
			node.Name, err = scalarString(v, kp)
		case "hide":
			node.Hide, err = boolean(v, kp)
		case "variables":
			node.Variables, err = d.Variables(v, kp)
		case PoolKey:
			node.Tags, err = d.Entries(v, kp)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Rules decodes a rule document: a list of rules. Rules without an explicit
// name are called "<set>#<index>".
func (d *Decoder) Rules(set string, doc *yaml.Node) ([]Rule, error) {
	n := resolve(doc)
	if n == nil || isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errAt(n, set, "rule document must be a list")
	}

	rules := make([]Rule, 0, len(n.Content))
	for i, item := range n.Content {
		path := fmt.Sprintf("%s[%d]", set, i)
		rule, err := d.rule(item, path)
		if err != nil {
			return nil, err
		}
		if rule.Name == "" {
			rule.Name = fmt.Sprintf("%s#%d", set, i)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (d *Decoder) rule(item *yaml.Node, path string) (Rule, error) {
	var r Rule
	item = resolve(item)
	if item == nil || item.Kind != yaml.MappingNode {
		return r, errAt(item, path, "rule must be a mapping")
	}

	err := eachPair(item, path, func(key string, v *yaml.Node, kp string) error {
		var err error
		switch key {
		case "name":
			r.Name, err = scalarString(v, kp)
		case "triggers":
			r.Triggers, err = stringList(v, kp)
		case "probability":
			var p float64
			if p, err = d.probability(v, kp); err == nil {
				r.Probability = &p
			}
		case "actions":
			r.Actions, err = d.actions(v, kp)
		}
		return err
	})
	if err != nil {
		return r, err
	}
	if len(r.Triggers) == 0 {
		return r, errAt(item, path, "rule has no triggers")
	}
	return r, nil
}

func (d *Decoder) actions(n *yaml.Node, path string) ([]Action, error) {
	n = resolve(n)
	if n == nil || isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errAt(n, path, "actions must be a list")
	}

	actions := make([]Action, 0, len(n.Content))
	for i, item := range n.Content {
		ap := fmt.Sprintf("%s[%d]", path, i)
		item = resolve(item)
		if item == nil || item.Kind != yaml.MappingNode {
			return nil, errAt(item, ap, "action must be a mapping")
		}

		a := Action{Type: ActionAdd}
		err := eachPair(item, ap, func(key string, v *yaml.Node, kp string) error {
			var err error
			switch key {
			case "type":
				var t string
				if t, err = scalarString(v, kp); err != nil {
					return err
				}
				switch ActionType(t) {
				case ActionAdd, ActionRemove:
					a.Type = ActionType(t)
				default:
					return errAt(v, kp, fmt.Sprintf("unknown action type %q", t))
				}
			case "value":
				a.Values, err = stringList(v, kp)
			case "probability":
				var p float64
				if p, err = d.probability(v, kp); err == nil {
					a.Probability = &p
				}
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (d *Decoder) probability(n *yaml.Node, path string) (float64, error) {
	var p float64
	if err := resolve(n).Decode(&p); err != nil || math.IsNaN(p) {
		return 0, errAt(n, path, "probability must be a number")
	}
	if p < 0 || p > 1 {
		if d.OnClamp != nil {
			d.OnClamp(path, p)
		}
		p = Clamp01(p)
	}
	return p, nil
}

func distribution(n *yaml.Node, path string) ([]float64, error) {
	var weights []float64
	if err := resolve(n).Decode(&weights); err != nil {
		return nil, errAt(n, path, "distribution must be a list of numbers")
	}
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errAt(n, path, "distribution weights must be finite and non-negative")
		}
	}
	return weights, nil
}

func number(n *yaml.Node, path string) (Number, error) {
	n = resolve(n)
	if n.Kind == yaml.SequenceNode {
		var bounds []int
		if err := n.Decode(&bounds); err != nil || len(bounds) != 2 {
			return Number{}, errAt(n, path, "number range must be two integers [min, max]")
		}
		if bounds[0] < 0 || bounds[1] < 0 {
			return Number{}, errAt(n, path, "number range must not be negative")
		}
		return Between(bounds[0], bounds[1]), nil
	}

	var count int
	if err := n.Decode(&count); err != nil {
		return Number{}, errAt(n, path, "number must be an integer or [min, max]")
	}
	if count < 0 {
		return Number{}, errAt(n, path, "number must not be negative")
	}
	return Exactly(count), nil
}

func boolean(n *yaml.Node, path string) (bool, error) {
	var b bool
	if err := resolve(n).Decode(&b); err != nil {
		return false, errAt(n, path, "expected a boolean")
	}
	return b, nil
}

func scalarString(n *yaml.Node, path string) (string, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", errAt(n, path, "expected a string")
	}
	if isNull(n) {
		return "", nil
	}
	return n.Value, nil
}

// stringList accepts a single string or a list of strings.
func stringList(n *yaml.Node, path string) ([]string, error) {
	n = resolve(n)
	if n == nil || isNull(n) {
		return nil, nil
	}
	if n.Kind == yaml.ScalarNode {
		return []string{n.Value}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errAt(n, path, "expected a string or a list of strings")
	}

	out := make([]string, 0, len(n.Content))
	for i, item := range n.Content {
		item = resolve(item)
		if item == nil || item.Kind != yaml.ScalarNode {
			return nil, errAt(n, fmt.Sprintf("%s[%d]", path, i), "expected a string")
		}
		out = append(out, item.Value)
	}
	return out, nil
}

// eachPair walks a mapping node in declaration order, rejecting duplicate
// and non-scalar keys.
func eachPair(n *yaml.Node, path string, fn func(key string, v *yaml.Node, kp string) error) error {
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := resolve(n.Content[i]), n.Content[i+1]
		if k == nil || k.Kind != yaml.ScalarNode {
			return errAt(n.Content[i], path, "mapping keys must be strings")
		}
		if seen[k.Value] {
			return errAt(k, path, fmt.Sprintf("duplicate key %q", k.Value))
		}
		seen[k.Value] = true

		if err := fn(k.Value, v, path+"/"+k.Value); err != nil {
			return err
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

func errAt(n *yaml.Node, path, msg string) *ValidationError {
	e := &ValidationError{Path: path, Message: msg}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}
