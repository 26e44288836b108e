package mock

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder()
	ctx := context.Background()

	a1, err := e.EmbedText(ctx, "entropy")
	require.NoError(t, err)
	a2, err := e.EmbedText(ctx, "entropy")
	require.NoError(t, err)
	b, err := e.EmbedText(ctx, "enthalpy")
	require.NoError(t, err)

	assert.Equal(t, a1, a2, "same text must produce the same vector")
	assert.NotEqual(t, a1, b, "different texts must produce different vectors")
	assert.Equal(t, 3, e.CallCount())
}

func TestMockEmbedderUnitLength(t *testing.T) {
	e := NewMockEmbedder()

	vecs, err := e.EmbedTexts(context.Background(), []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	for i, vec := range vecs {
		require.Len(t, vec, 384)
		var sumSquares float64
		for _, v := range vec {
			sumSquares += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-4, "vector %d is not unit length", i)
	}
}
