package sampling

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"mercator-hq/promptfactory/pkg/tagspec"
)

// Stats counts what happened during one selection.
type Stats struct {
	// Groups is the number of groups visited, literals and lists included.
	Groups int

	// Skipped is the number of groups dropped by their probability gate.
	Skipped int

	// Drawn is the number of strings drawn from pools.
	Drawn int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Groups += other.Groups
	s.Skipped += other.Skipped
	s.Drawn += other.Drawn
}

// Select resolves spec into a cleaned-up string.
func Select(rng *rand.Rand, spec tagspec.Spec) (string, error) {
	s := sampler{rng: rng}
	return s.sample(spec)
}

// Engine runs selections and reports their statistics.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an engine. A nil logger uses slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Select resolves spec like the package level Select and also returns the
// selection statistics.
func (e *Engine) Select(rng *rand.Rand, spec tagspec.Spec) (string, Stats, error) {
	s := sampler{rng: rng}
	out, err := s.sample(spec)
	if err != nil {
		e.logger.Debug("selection failed", "error", err, "groups", s.stats.Groups)
		return "", s.stats, err
	}
	return out, s.stats, nil
}

type sampler struct {
	rng   *rand.Rand
	stats Stats
}

func (s *sampler) sample(spec tagspec.Spec) (string, error) {
	g := asGroup(spec)
	s.stats.Groups++

	if s.rng.Float64() >= g.Chance() {
		s.stats.Skipped++
		return "", nil
	}

	var selected []string
	if g.IsContainer() {
		for _, child := range g.Children {
			out, err := s.sample(child.Spec)
			if err != nil {
				return "", fmt.Errorf("%s: %w", child.Name, err)
			}
			if out != "" {
				selected = append(selected, out)
			}
		}
	} else {
		pool, err := s.pool(g.Tags)
		if err != nil {
			return "", err
		}
		if len(pool) > 0 {
			n := drawCount(s.rng, g.Count(), len(pool))
			weights, err := ResolveDistribution(g.Distribution, len(pool))
			if err != nil {
				return "", err
			}
			for _, i := range DrawWithoutReplacement(s.rng, weights, n) {
				selected = append(selected, pool[i])
			}
			s.stats.Drawn += len(selected)
		}
	}

	if g.Prefix != "" || g.Suffix != "" {
		for i, tag := range selected {
			selected[i] = g.Prefix + tag + g.Suffix
		}
	}
	return Stringify(selected, g.Sep()), nil
}

// pool resolves the tags of a group into the list of candidate strings.
func (s *sampler) pool(tags tagspec.Spec) ([]string, error) {
	switch t := tags.(type) {
	case tagspec.Literal:
		return []string{string(t)}, nil
	case tagspec.Choices:
		return t, nil
	case *tagspec.Group:
		if t.IsContainer() {
			pool := make([]string, 0, len(t.Children))
			for _, alt := range t.Children {
				out, err := s.sample(alt.Spec)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", alt.Name, err)
				}
				pool = append(pool, out)
			}
			return pool, nil
		}
		out, err := s.sample(t)
		if err != nil || out == "" {
			return nil, err
		}
		return []string{out}, nil
	}
	return nil, nil
}

func asGroup(spec tagspec.Spec) *tagspec.Group {
	switch t := spec.(type) {
	case *tagspec.Group:
		return t
	case nil:
		return &tagspec.Group{Tags: tagspec.Choices{}}
	default:
		return &tagspec.Group{Tags: t}
	}
}
