package prompt

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Compose(t *testing.T) {
	b := testBuilder(t)

	got, err := b.Compose(context.Background(), "{season} in the {where}, {eyes}, {weather}, {unknown}", 4)
	require.NoError(t, err)

	parts := strings.Split(got, ", ")
	require.Len(t, parts, 4)
	assert.Contains(t, []string{"winter in the forest", "winter in the beach"}, parts[0])
	// the scene node declares eyes after the character node
	assert.Equal(t, "grey eyes", parts[1])
	assert.Contains(t, []string{"cloudy sky", "clear sky"}, parts[2])
	assert.Equal(t, "{unknown}", parts[3])
}

func TestBuilder_Compose_TagsIgnoreProbability(t *testing.T) {
	b := testBuilder(t)

	for seed := uint64(0); seed < 10; seed++ {
		got, err := b.Compose(context.Background(), "{extra}", seed)
		require.NoError(t, err)
		assert.Equal(t, "smile", got)
	}
}

func TestBuilder_Compose_Deterministic(t *testing.T) {
	b := testBuilder(t)
	ctx := context.Background()

	first, err := b.Compose(ctx, "{accent}, {hair}, {outfit}", 9)
	require.NoError(t, err)
	second, err := b.Compose(ctx, "{accent}, {hair}, {outfit}", 9)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuilder_Compose_PlainText(t *testing.T) {
	b := testBuilder(t)

	got, err := b.Compose(context.Background(), "no placeholders here", 0)
	require.NoError(t, err)
	assert.Equal(t, "no placeholders here", got)
}
