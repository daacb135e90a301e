package override

import (
	"strings"

	"mercator-hq/promptfactory/pkg/tagspec"
)

// Resolve returns the effective entries after applying overrides. Fields
// without an override are Random. Dropped fields are removed from the
// result. Containers left random are resolved recursively, so nested fields
// can carry their own overrides.
//
// entries are never modified.
func Resolve(entries []tagspec.Entry, overrides Overrides) ([]tagspec.Entry, error) {
	norm := make(Overrides, len(overrides))
	for k, v := range overrides {
		norm[strings.TrimRight(k, "?")] = v
	}
	return resolveEntries(entries, norm)
}

func resolveEntries(entries []tagspec.Entry, ov Overrides) ([]tagspec.Entry, error) {
	out := make([]tagspec.Entry, 0, len(entries))
	for _, e := range entries {
		spec, err := resolveEntry(e, ov[e.Name], ov)
		if err != nil {
			return nil, err
		}
		if spec != nil {
			out = append(out, tagspec.Entry{Name: e.Name, Spec: spec})
		}
	}
	return out, nil
}

// resolveEntry returns the effective spec of one field, or nil when the
// field is dropped.
func resolveEntry(e tagspec.Entry, v Value, ov Overrides) (tagspec.Spec, error) {
	g, isGroup := e.Spec.(*tagspec.Group)

	switch v.kind {
	case KindNone:
		return nil, nil

	case KindEnabled:
		if !v.enabled {
			return nil, nil
		}
		return e.Spec, nil

	case KindProbability:
		if !isGroup || g.Probability == nil {
			return e.Spec, nil
		}
		c := g.Clone()
		p := tagspec.Clamp01(v.p)
		c.Probability = &p
		return c, nil

	case KindSelect:
		if !isGroup {
			return tagspec.Literal(v.text), nil
		}
		if alts, ok := g.Alternatives(); ok {
			known := make([]string, 0, len(alts))
			for _, alt := range alts {
				if alt.Name == v.text {
					return alt.Spec, nil
				}
				known = append(known, alt.Name)
			}
			return nil, &UnknownAlternativeError{Field: e.Name, Name: v.text, Known: known}
		}
		return tagspec.Literal(g.Prefix + v.text + g.Suffix), nil
	}

	if isGroup && g.IsContainer() {
		children, err := resolveEntries(g.Children, ov)
		if err != nil {
			return nil, err
		}
		c := g.Clone()
		c.Children = children
		return c, nil
	}
	return e.Spec, nil
}
