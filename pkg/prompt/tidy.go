package prompt

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"mercator-hq/promptfactory/pkg/rules"
	"mercator-hq/promptfactory/pkg/sampling"
)

// SortMode selects how Tidy orders tags.
type SortMode string

const (
	SortNone   SortMode = "none"
	SortAsc    SortMode = "asc"
	SortDesc   SortMode = "desc"
	SortRandom SortMode = "random"
)

// ParseSortMode parses a sort mode name. The empty string is SortNone.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortNone, nil
	case SortNone, SortAsc, SortDesc, SortRandom:
		return m, nil
	default:
		return "", fmt.Errorf("invalid sort mode %q (must be none, asc, desc, or random)", s)
	}
}

// TidyOptions configures Tidy.
type TidyOptions struct {
	// Dedupe drops repeated tags, keeping the first occurrence.
	Dedupe bool

	Sort SortMode

	// Seed drives SortRandom.
	Seed uint64

	// CustomSort lists shell-style patterns. After sorting, tags are
	// stably reordered by the index of the last pattern they match; tags
	// matching no pattern go last.
	CustomSort []string
}

// Tidy cleans up a prompt: it is split into tags, deduplicated and
// reordered according to opts, then joined with ", ".
func (b *Builder) Tidy(ctx context.Context, prompt string, opts TidyOptions) (out string, err error) {
	start := time.Now()
	_, span := b.tracer.Start(ctx, "prompt.tidy")
	defer func() {
		b.finish(span, OpTidy, start, len(sampling.Split(out)), err)
	}()

	return Tidy(prompt, opts)
}

// Tidy is the stateless form of Builder.Tidy.
func Tidy(prompt string, opts TidyOptions) (string, error) {
	tags := sampling.Split(prompt)

	if opts.Dedupe {
		tags = dedupe(tags)
	}

	switch opts.Sort {
	case SortNone, "":
	case SortAsc:
		sort.Strings(tags)
	case SortDesc:
		sort.Sort(sort.Reverse(sort.StringSlice(tags)))
	case SortRandom:
		rng := sampling.New(opts.Seed)
		rng.Shuffle(len(tags), func(i, j int) { tags[i], tags[j] = tags[j], tags[i] })
	default:
		return "", fmt.Errorf("invalid sort mode %q", opts.Sort)
	}

	if len(opts.CustomSort) > 0 {
		patterns := make([]glob.Glob, 0, len(opts.CustomSort))
		for _, p := range opts.CustomSort {
			g, err := rules.CompilePattern(p)
			if err != nil {
				return "", err
			}
			patterns = append(patterns, g)
		}
		customSort(tags, patterns)
	}

	return sampling.Stringify(tags, ", "), nil
}

func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func customSort(tags []string, patterns []glob.Glob) {
	rank := func(tag string) int {
		r := len(patterns)
		for i, g := range patterns {
			if g.Match(tag) {
				r = i
			}
		}
		return r
	}
	slices.SortStableFunc(tags, func(a, b string) int {
		return rank(a) - rank(b)
	})
}

// ParsePatterns splits a custom sort specification on ", " or newlines.
func ParsePatterns(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		for _, p := range strings.Split(line, ", ") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
