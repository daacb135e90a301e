package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/ohler55/ojg/jp"
)

// PathQuerier expands config paths into the string values they select.
type PathQuerier interface {
	Query(path string) ([]string, error)
}

// leaf is one string value of the configuration tree.
type leaf struct {
	path  string
	value string
}

// ConfigQuerier queries a decoded configuration tree (maps, slices and
// scalars as produced by yaml.v3 or encoding/json). It is safe for
// concurrent use.
type ConfigQuerier struct {
	data   any
	leaves []leaf
}

// NewConfigQuerier indexes the string leaves of data.
func NewConfigQuerier(data any) *ConfigQuerier {
	q := &ConfigQuerier{data: data}
	jp.Walk(data, func(path jp.Expr, value any) {
		if s, ok := value.(string); ok {
			q.leaves = append(q.leaves, leaf{path: slashPath(path), value: s})
		}
	}, true)
	sort.SliceStable(q.leaves, func(i, j int) bool { return q.leaves[i].path < q.leaves[j].path })
	return q
}

// Query returns the string values selected by path, ordered by their
// location in the tree. A path selecting a mapping or a list selects every
// string below it. A path that selects nothing returns no values.
func (q *ConfigQuerier) Query(path string) ([]string, error) {
	if strings.HasPrefix(path, "$") {
		return q.jsonPath(path)
	}

	g, err := compileGlob(strings.Trim(path, "/"), '/')
	if err != nil {
		return nil, &PatternError{Pattern: path, Cause: err}
	}

	var out []string
	for _, l := range q.leaves {
		if matchPrefix(g, l.path) {
			out = append(out, l.value)
		}
	}
	return out, nil
}

func (q *ConfigQuerier) jsonPath(path string) ([]string, error) {
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, &PatternError{Pattern: path, Cause: fmt.Errorf("invalid jsonpath: %w", err)}
	}

	var out []string
	for _, result := range x.Get(q.data) {
		out = append(out, NewConfigQuerier(result).values()...)
	}
	return out, nil
}

func (q *ConfigQuerier) values() []string {
	if s, ok := q.data.(string); ok {
		return []string{s}
	}
	out := make([]string, len(q.leaves))
	for i, l := range q.leaves {
		out[i] = l.value
	}
	return out
}

// matchPrefix reports whether g matches path or one of its ancestors.
func matchPrefix(g glob.Glob, path string) bool {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' && g.Match(path[:i]) {
			return true
		}
	}
	return g.Match(path)
}

// slashPath renders a walked path as "/" separated segments. List indexes
// become numeric segments.
func slashPath(path jp.Expr) string {
	segs := make([]string, 0, len(path))
	for _, frag := range path {
		switch f := frag.(type) {
		case jp.Child:
			segs = append(segs, string(f))
		case jp.Nth:
			segs = append(segs, strconv.Itoa(int(f)))
		}
	}
	return strings.Join(segs, "/")
}
