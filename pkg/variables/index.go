package variables

import (
	"sort"

	"mercator-hq/promptfactory/pkg/tagspec"
)

// TagIndex exposes node tags as variables. Indexed specs have their
// probability forced to 1 so a referenced tag is never dropped.
type TagIndex struct {
	specs map[string]tagspec.Spec
}

// NewTagIndex indexes the tags of nodes, including the children of
// subgroup containers. When several nodes declare the same name, the node
// with the greatest ID wins.
func NewTagIndex(nodes []*tagspec.Node) *TagIndex {
	sorted := make([]*tagspec.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	x := &TagIndex{specs: make(map[string]tagspec.Spec)}
	for _, n := range sorted {
		x.add(n.Tags)
	}
	return x
}

func (x *TagIndex) add(entries []tagspec.Entry) {
	for _, e := range entries {
		x.specs[e.Name] = tagspec.WithProbability(e.Spec, 1)
		if g, ok := e.Spec.(*tagspec.Group); ok && g.IsContainer() {
			x.add(g.Children)
		}
	}
}

// Lookup returns the spec indexed under name.
func (x *TagIndex) Lookup(name string) (tagspec.Spec, bool) {
	if x == nil {
		return nil, false
	}
	s, ok := x.specs[name]
	return s, ok
}

// Names returns the indexed names in sorted order.
func (x *TagIndex) Names() []string {
	if x == nil {
		return nil
	}
	names := make([]string, 0, len(x.specs))
	for name := range x.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
