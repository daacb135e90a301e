package variables

import (
	"log/slog"
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"

	"mercator-hq/promptfactory/pkg/sampling"
)

// placeholder matches {name}. Names contain no braces or whitespace, so
// literal braces in ordinary text are left alone.
var placeholder = regexp.MustCompile(`\{([^{}\s]+)\}`)

// Scope expands placeholders for one build. It owns the build's generator
// and is not safe for concurrent use.
type Scope struct {
	table  *Table
	index  *TagIndex
	rng    *rand.Rand
	logger *slog.Logger

	// tags memoizes tag index lookups: a tag variable is sampled once
	// per build.
	tags map[string]string
}

func newScope(table *Table, index *TagIndex, rng *rand.Rand, logger *slog.Logger) *Scope {
	return &Scope{
		table:  table,
		index:  index,
		rng:    rng,
		logger: logger,
		tags:   make(map[string]string),
	}
}

// Table returns the merged variable table of the scope.
func (s *Scope) Table() *Table {
	return s.table
}

// Expand replaces every {name} placeholder in text. Each occurrence is
// substituted independently. Substituted text is expanded in turn; a name
// already being expanded is left verbatim, as are unknown names.
func (s *Scope) Expand(text string) (string, error) {
	return s.expand(text, nil)
}

func (s *Scope) expand(text string, active []string) (string, error) {
	matches := placeholder.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text, nil
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		last = m[1]

		name := text[m[2]:m[3]]
		if slices.Contains(active, name) {
			b.WriteString(text[m[0]:m[1]])
			continue
		}

		val, ok, err := s.lookup(name)
		if err != nil {
			return "", &ResolveError{Name: name, Cause: err}
		}
		if !ok {
			s.logger.Debug("unknown placeholder left verbatim", "name", name)
			b.WriteString(text[m[0]:m[1]])
			continue
		}

		val, err = s.expand(val, append(slices.Clip(active), name))
		if err != nil {
			return "", err
		}
		b.WriteString(val)
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

// lookup returns the text for one occurrence of name.
func (s *Scope) lookup(name string) (string, bool, error) {
	if v, ok := s.table.Get(name); ok {
		if v.Resolved {
			return v.Text, true, nil
		}
		text, err := sampling.Select(s.rng, v.Spec)
		return text, err == nil, err
	}

	if text, ok := s.tags[name]; ok {
		return text, true, nil
	}
	spec, ok := s.index.Lookup(name)
	if !ok {
		return "", false, nil
	}
	text, err := sampling.Select(s.rng, spec)
	if err != nil {
		return "", false, err
	}
	s.tags[name] = text
	return text, true, nil
}
