package rules

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"mercator-hq/promptfactory/pkg/tagspec"
)

// AllSets names the composite rule set.
const AllSets = "all"

// RuleSet is the list of rules of one rule document.
type RuleSet struct {
	Name  string
	Rules []tagspec.Rule
}

// Book holds every loaded rule set with its compiled triggers. A Book is
// immutable once built.
type Book struct {
	sets     map[string]RuleSet
	all      RuleSet
	triggers map[string]glob.Glob
}

// NewBook compiles the triggers of sets and builds the composite set.
func NewBook(sets []RuleSet) (*Book, error) {
	b := &Book{
		sets:     make(map[string]RuleSet, len(sets)),
		triggers: make(map[string]glob.Glob),
	}

	sorted := slices.Clone(sets)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	composite := tagspec.Rule{Name: AllSets}
	for _, set := range sorted {
		if set.Name == AllSets {
			return nil, ErrReservedSetName
		}
		if _, dup := b.sets[set.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate rule set %q", tagspec.ErrConfig, set.Name)
		}

		for _, r := range set.Rules {
			for _, trigger := range r.Triggers {
				if err := b.compile(r.Name, trigger); err != nil {
					return nil, err
				}
			}
			composite.Triggers = append(composite.Triggers, r.Triggers...)
			composite.Actions = append(composite.Actions, r.Actions...)
		}
		b.sets[set.Name] = set
	}

	b.all = RuleSet{Name: AllSets}
	if len(composite.Triggers) > 0 {
		b.all.Rules = []tagspec.Rule{composite}
	}
	return b, nil
}

func (b *Book) compile(rule, pattern string) error {
	if _, ok := b.triggers[pattern]; ok {
		return nil
	}
	g, err := compileGlob(pattern)
	if err != nil {
		return &PatternError{Rule: rule, Pattern: pattern, Cause: err}
	}
	b.triggers[pattern] = g
	return nil
}

// braces escapes the alternation syntax, which shell-style patterns do not
// have.
var braces = strings.NewReplacer("{", `\{`, "}", `\}`)

// compileGlob compiles a shell-style pattern: "*", "?" and "[...]" are
// special, everything else is literal.
func compileGlob(pattern string, separators ...rune) (glob.Glob, error) {
	return glob.Compile(braces.Replace(pattern), separators...)
}

// CompilePattern compiles a shell-style pattern matched against whole
// strings, with the same syntax as rule triggers.
func CompilePattern(pattern string) (glob.Glob, error) {
	g, err := compileGlob(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Cause: err}
	}
	return g, nil
}

// Set returns the named rule set. AllSets returns the composite set.
func (b *Book) Set(name string) (RuleSet, error) {
	if name == AllSets {
		return b.all, nil
	}
	set, ok := b.sets[name]
	if !ok {
		return RuleSet{}, fmt.Errorf("%w: %q", ErrUnknownRuleSet, name)
	}
	return set, nil
}

// Names returns the loaded set names in sorted order, without AllSets.
func (b *Book) Names() []string {
	names := make([]string, 0, len(b.sets))
	for name := range b.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of rules across every set.
func (b *Book) Len() int {
	n := 0
	for _, set := range b.sets {
		n += len(set.Rules)
	}
	return n
}

// match reports whether prompt matches trigger.
func (b *Book) match(trigger, prompt string) bool {
	g, ok := b.triggers[trigger]
	return ok && g.Match(prompt)
}
