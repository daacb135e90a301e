package rules

import (
	"log/slog"
	"math/rand/v2"
	"strings"

	"mercator-hq/promptfactory/pkg/sampling"
	"mercator-hq/promptfactory/pkg/tagspec"
)

// Firing records one rule that fired during an application.
type Firing struct {
	Rule    string `json:"rule" yaml:"rule"`
	Trigger string `json:"trigger" yaml:"trigger"`

	// Added holds the values appended by add actions.
	Added []string `json:"added,omitempty" yaml:"added,omitempty"`

	// Removed holds the tags dropped by remove actions.
	Removed []string `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// Report describes one application of a rule set.
type Report struct {
	Set string `json:"set" yaml:"set"`

	// Evaluated counts the rules that passed their probability gate.
	Evaluated int `json:"evaluated" yaml:"evaluated"`

	Fired []Firing `json:"fired" yaml:"fired"`
}

// Engine applies rule sets from a Book.
type Engine struct {
	book   *Book
	query  PathQuerier
	logger *slog.Logger
}

// NewEngine creates an engine. query may be nil when no action uses config
// paths. A nil logger uses slog.Default().
func NewEngine(book *Book, query PathQuerier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{book: book, query: query, logger: logger}
}

// Apply runs the named rule set over tags and returns the new tag list.
// tags is not modified.
func (e *Engine) Apply(rng *rand.Rand, tags []string, setName string) ([]string, *Report, error) {
	set, err := e.book.Set(setName)
	if err != nil {
		return nil, nil, err
	}

	working := append([]string(nil), tags...)
	report := &Report{Set: set.Name}

	// Triggers see the input prompt, never tags added or removed by
	// earlier rules.
	prompt := sampling.Stringify(tags, ", ")

	for i := range set.Rules {
		rule := &set.Rules[i]
		if rng.Float64() >= rule.Chance() {
			continue
		}
		report.Evaluated++

		for _, trigger := range rule.Triggers {
			if !e.book.match(trigger, prompt) {
				continue
			}

			firing := Firing{Rule: rule.Name, Trigger: trigger}
			working, err = e.run(rng, rule.Actions, working, &firing)
			if err != nil {
				return nil, nil, err
			}
			report.Fired = append(report.Fired, firing)

			e.logger.Debug("rule fired",
				"set", set.Name,
				"rule", rule.Name,
				"trigger", trigger,
				"added", len(firing.Added),
				"removed", len(firing.Removed),
			)
			break
		}
	}

	return working, report, nil
}

func (e *Engine) run(rng *rand.Rand, actions []tagspec.Action, tags []string, firing *Firing) ([]string, error) {
	for i := range actions {
		action := &actions[i]
		if rng.Float64() >= action.Chance() {
			continue
		}

		pool, err := e.pool(action.Values)
		if err != nil {
			return nil, err
		}

		switch action.Type {
		case tagspec.ActionRemove:
			var removed []string
			tags, removed = remove(tags, pool)
			firing.Removed = append(firing.Removed, removed...)

		default:
			if len(pool) == 0 {
				continue
			}
			value, err := sampling.Select(rng, tagspec.Choices(pool))
			if err != nil {
				return nil, err
			}
			tags = append(tags, value)
			firing.Added = append(firing.Added, value)
		}
	}
	return tags, nil
}

// pool expands action values into candidate strings.
func (e *Engine) pool(values []string) ([]string, error) {
	var pool []string
	for _, v := range values {
		if !tagspec.IsConfigPath(v) || e.query == nil {
			pool = append(pool, v)
			continue
		}
		matches, err := e.query.Query(v)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			e.logger.Debug("config path matched nothing", "path", v)
		}
		pool = append(pool, matches...)
	}
	return pool, nil
}

// remove drops every tag containing one of values, in one pass.
func remove(tags, values []string) (kept, removed []string) {
	if len(values) == 0 {
		return tags, nil
	}

	matchers := make([]func(string) bool, len(values))
	for i, v := range values {
		if g, err := compileGlob("*" + v + "*"); err == nil {
			matchers[i] = g.Match
		} else {
			matchers[i] = func(s string) bool { return strings.Contains(s, v) }
		}
	}

	kept = make([]string, 0, len(tags))
	for _, tag := range tags {
		drop := false
		for _, m := range matchers {
			if m(tag) {
				drop = true
				break
			}
		}
		if drop {
			removed = append(removed, tag)
		} else {
			kept = append(kept, tag)
		}
	}
	return kept, removed
}
