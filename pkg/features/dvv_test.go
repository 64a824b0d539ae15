package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seriesfang/pkg/embed"
)

func TestEmbedInShell(t *testing.T) {
	t.Parallel()

	t.Run("counts_vectors_inside_shell", func(t *testing.T) {
		t.Parallel()

		// Delay vectors at lag 1: (0.3, 0.4), (0.4, 3), (3, 0.1). Only the
		// first has norm inside the unit shell.
		frac, err := embedInShell([]float64{0.3, 0.4, 3, 0.1}, 1, 0, 1)
		require.NoError(t, err)
		assert.InDelta(t, 1.0/3.0, frac, 1e-12)
	})

	t.Run("invalid_radii", func(t *testing.T) {
		t.Parallel()

		_, err := embedInShell([]float64{1, 2, 3, 4}, 1, 2, 1)
		require.ErrorIs(t, err, embed.ErrInvalidParameter)

		_, err = embedInShell([]float64{1, 2, 3, 4}, 1, -1, 1)
		require.ErrorIs(t, err, embed.ErrInvalidParameter)
	})

	t.Run("series_too_short", func(t *testing.T) {
		t.Parallel()

		_, err := embedInShell([]float64{1}, 5, 0, 1)
		require.ErrorIs(t, err, embed.ErrEmbeddingTooShort)
	})
}

func TestDelayVectorVariance(t *testing.T) {
	t.Parallel()

	t.Run("sweep_shape", func(t *testing.T) {
		t.Parallel()

		scaled := []float64{0.1, -0.4, 0.8, -0.2, 0.5, -0.9, 0.3, -0.6, 0.7, -0.1}

		got, err := delayVectorVariance(scaled, 1, dvvDefaults())
		require.NoError(t, err)
		require.Len(t, got, 4)

		for _, v := range got {
			assert.GreaterOrEqual(t, v, 0.0)
		}

		// The widest threshold admits every neighbor, so the final entry
		// must accumulate variance from every delay vector.
		assert.Positive(t, got[len(got)-1])
	})

	t.Run("too_short", func(t *testing.T) {
		t.Parallel()

		_, err := delayVectorVariance([]float64{1, 2}, 5, dvvDefaults())
		require.ErrorIs(t, err, embed.ErrEmbeddingTooShort)
	})

	t.Run("bad_spacing", func(t *testing.T) {
		t.Parallel()

		cfg := dvvDefaults()
		cfg.NumSpacing = 1

		_, err := delayVectorVariance([]float64{1, 2, 3, 4, 5}, 1, cfg)
		require.ErrorIs(t, err, embed.ErrInvalidInput)
	})
}
