package sampling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/promptfactory/pkg/tagspec"
)

func ptr[T any](v T) *T { return &v }

func TestSelect_Literal(t *testing.T) {
	out, err := Select(New(1), tagspec.Literal("red hair"))
	require.NoError(t, err)
	assert.Equal(t, "red hair", out)
}

func TestSelect_Deterministic(t *testing.T) {
	spec := &tagspec.Group{
		Children: []tagspec.Entry{
			{Name: "hair", Spec: &tagspec.Group{
				Tags:   tagspec.Choices{"long", "short", "braided", "curly"},
				Number: ptr(tagspec.Between(1, 4)),
				Prefix: "hair ",
			}},
			{Name: "eyes", Spec: tagspec.Choices{"blue eyes", "green eyes"}},
			{Name: "extra", Spec: &tagspec.Group{Tags: tagspec.Literal("hat"), Probability: ptr(0.5)}},
		},
	}

	for seed := range uint64(50) {
		first, err := Select(New(seed), spec)
		require.NoError(t, err)
		second, err := Select(New(seed), spec)
		require.NoError(t, err)
		assert.Equal(t, first, second, "seed %d", seed)
	}
}

// Scenario A: two of three letters, always in pool order.
func TestSelect_PreservesPoolOrder(t *testing.T) {
	spec := &tagspec.Group{Tags: tagspec.Choices{"a", "b", "c"}, Number: ptr(tagspec.Exactly(2))}
	allowed := map[string]bool{"a, b": true, "a, c": true, "b, c": true}

	out, err := Select(New(0), spec)
	require.NoError(t, err)
	assert.True(t, allowed[out], "seed 0 gave %q", out)

	for seed := range uint64(200) {
		out, err := Select(New(seed), spec)
		require.NoError(t, err)
		assert.True(t, allowed[out], "seed %d gave %q", seed, out)
	}
}

func TestSelect_OrderPreservedForLargePools(t *testing.T) {
	pool := tagspec.Choices{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8", "t9"}
	index := make(map[string]int, len(pool))
	for i, p := range pool {
		index[p] = i
	}
	spec := &tagspec.Group{Tags: pool, Number: ptr(tagspec.Exactly(6)), Distribution: []float64{0.5, 0.1}}

	for seed := range uint64(100) {
		out, err := Select(New(seed), spec)
		require.NoError(t, err)
		parts := strings.Split(out, ", ")
		require.Len(t, parts, 6)
		for i := 1; i < len(parts); i++ {
			assert.Less(t, index[parts[i-1]], index[parts[i]], "seed %d gave %q", seed, out)
		}
	}
}

// Scenario B: a zero probability group never contributes.
func TestSelect_ZeroProbability(t *testing.T) {
	spec := &tagspec.Group{
		Probability: ptr(0.0),
		Children: []tagspec.Entry{
			{Name: "inner", Spec: tagspec.Literal("never")},
		},
	}
	for seed := range uint64(100) {
		out, err := Select(New(seed), spec)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
}

func TestSelect_NumberBounds(t *testing.T) {
	pool := tagspec.Choices{"a", "b", "c", "d", "e"}

	t.Run("range", func(t *testing.T) {
		spec := &tagspec.Group{Tags: pool, Number: ptr(tagspec.Between(2, 4))}
		seen := map[int]bool{}
		for seed := range uint64(200) {
			out, err := Select(New(seed), spec)
			require.NoError(t, err)
			c := len(strings.Split(out, ", "))
			assert.GreaterOrEqual(t, c, 2)
			assert.Less(t, c, 4)
			seen[c] = true
		}
		assert.Len(t, seen, 2, "both counts in [2, 4) should appear")
	})

	t.Run("range clipped to pool", func(t *testing.T) {
		spec := &tagspec.Group{Tags: pool, Number: ptr(tagspec.Between(1, 50))}
		for seed := range uint64(200) {
			out, err := Select(New(seed), spec)
			require.NoError(t, err)
			assert.Less(t, len(strings.Split(out, ", ")), len(pool))
		}
	})

	t.Run("count larger than pool", func(t *testing.T) {
		spec := &tagspec.Group{Tags: pool, Number: ptr(tagspec.Exactly(9))}
		out, err := Select(New(3), spec)
		require.NoError(t, err)
		assert.Equal(t, "a, b, c, d, e", out)
	})

	t.Run("count clipped to resolved alternatives", func(t *testing.T) {
		spec := &tagspec.Group{
			Tags: &tagspec.Group{Children: []tagspec.Entry{
				{Name: "x", Spec: tagspec.Literal("x")},
				{Name: "y", Spec: tagspec.Literal("y")},
			}},
			Number: ptr(tagspec.Exactly(5)),
		}
		out, err := Select(New(3), spec)
		require.NoError(t, err)
		assert.Equal(t, "x, y", out)
	})
}

func TestSelect_EmptyPool(t *testing.T) {
	spec := &tagspec.Group{Tags: tagspec.Choices{}, Number: ptr(tagspec.Exactly(3))}
	out, err := Select(New(1), spec)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSelect_PrefixSuffixSeparator(t *testing.T) {
	spec := &tagspec.Group{
		Tags:      tagspec.Choices{"red", "blue"},
		Number:    ptr(tagspec.Exactly(2)),
		Prefix:    "(",
		Suffix:    ":1.2)",
		Separator: ptr(" and "),
	}
	out, err := Select(New(9), spec)
	require.NoError(t, err)
	assert.Equal(t, "(red:1.2) and (blue:1.2)", out)
}

func TestSelect_ContainerKeepsDeclarationOrder(t *testing.T) {
	spec := &tagspec.Group{
		Prefix: "[",
		Suffix: "]",
		Children: []tagspec.Entry{
			{Name: "z", Spec: tagspec.Literal("zebra")},
			{Name: "gone", Spec: &tagspec.Group{Tags: tagspec.Literal("skip"), Probability: ptr(0.0)}},
			{Name: "a", Spec: tagspec.Literal("ant")},
		},
	}
	out, err := Select(New(4), spec)
	require.NoError(t, err)
	assert.Equal(t, "[zebra], [ant]", out)
}

func TestSelect_NestedGroupPool(t *testing.T) {
	spec := &tagspec.Group{
		Tags:   &tagspec.Group{Tags: tagspec.Choices{"one", "two"}, Number: ptr(tagspec.Exactly(2))},
		Prefix: "n:",
	}
	out, err := Select(New(2), spec)
	require.NoError(t, err)
	assert.Equal(t, "n:one, two", out)
}

func TestSelect_ZeroDistribution(t *testing.T) {
	spec := &tagspec.Group{Tags: tagspec.Choices{"a", "b"}, Distribution: []float64{0, 0}}
	_, err := Select(New(1), spec)
	require.ErrorIs(t, err, ErrZeroDistribution)
	assert.ErrorIs(t, err, tagspec.ErrConfig)
}

func TestSelect_DoesNotMutateSpec(t *testing.T) {
	pool := tagspec.Choices{"a", "b", "c"}
	spec := &tagspec.Group{Tags: pool, Number: ptr(tagspec.Exactly(2)), Prefix: "p-", Distribution: []float64{0.2}}
	before := spec.Clone()

	_, err := Select(New(5), spec)
	require.NoError(t, err)
	assert.Equal(t, before, spec)
	assert.Equal(t, tagspec.Choices{"a", "b", "c"}, pool)
}

func TestEngine_Stats(t *testing.T) {
	spec := &tagspec.Group{
		Children: []tagspec.Entry{
			{Name: "a", Spec: tagspec.Choices{"x", "y"}},
			{Name: "b", Spec: &tagspec.Group{Tags: tagspec.Literal("z"), Probability: ptr(0.0)}},
		},
	}

	out, stats, err := NewEngine(nil).Select(New(1), spec)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, Stats{Groups: 3, Skipped: 1, Drawn: 1}, stats)
}
