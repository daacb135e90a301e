package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/promptfactory/pkg/rules"
	"mercator-hq/promptfactory/pkg/sampling"
)

func TestBuilder_ApplyRules(t *testing.T) {
	b := testBuilder(t)

	res, err := b.ApplyRulesWithReport(context.Background(), "1girl, red hat, blue scarf", "cleanup", 2)
	require.NoError(t, err)

	tags := sampling.Split(res.Prompt)
	require.Len(t, tags, 3)
	assert.Equal(t, []string{"1girl", "blue scarf"}, tags[:2])
	assert.Contains(t, []string{"cloudy sky", "clear sky"}, tags[2])

	require.Len(t, res.Report.Fired, 2)
	assert.Equal(t, "no-hat", res.Report.Fired[0].Rule)
	assert.Equal(t, []string{"red hat"}, res.Report.Fired[0].Removed)
	assert.Equal(t, "sky", res.Report.Fired[1].Rule)
	assert.Equal(t, "*1girl*", res.Report.Fired[1].Trigger)
	assert.NotEmpty(t, res.Snapshot)
}

func TestBuilder_ApplyRules_Deterministic(t *testing.T) {
	b := testBuilder(t)
	ctx := context.Background()

	for seed := uint64(0); seed < 10; seed++ {
		first, err := b.ApplyRules(ctx, "1girl, long hair", "cleanup", seed)
		require.NoError(t, err)
		second, err := b.ApplyRules(ctx, "1girl, long hair", "cleanup", seed)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestBuilder_ApplyRules_NoMatch(t *testing.T) {
	b := testBuilder(t)

	got, err := b.ApplyRules(context.Background(), "a cat, , a dog", "cleanup", 0)
	require.NoError(t, err)
	assert.Equal(t, "a cat, a dog", got)
}

func TestBuilder_ApplyRules_All(t *testing.T) {
	b := testBuilder(t)

	res, err := b.ApplyRulesWithReport(context.Background(), "1girl, red hat", rules.AllSets, 0)
	require.NoError(t, err)
	assert.Equal(t, rules.AllSets, res.Report.Set)
	assert.NotContains(t, res.Prompt, "red hat")
}

func TestBuilder_ApplyRules_UnknownSet(t *testing.T) {
	b := testBuilder(t)

	_, err := b.ApplyRules(context.Background(), "1girl", "nope", 0)
	assert.ErrorIs(t, err, rules.ErrUnknownRuleSet)
}
