package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seriesfang/pkg/embed"
)

func TestEmbedExtractorConfigure(t *testing.T) {
	t.Parallel()

	t.Run("lag_spec_parsed", func(t *testing.T) {
		t.Parallel()

		e := NewEmbedExtractor()
		require.NoError(t, e.Configure(map[string]any{ConfigEmbedLag: "ami"}))
		assert.Equal(t, embed.LagStrategyAMI, e.Lag.Strategy)
	})

	t.Run("bad_lag_spec", func(t *testing.T) {
		t.Parallel()

		e := NewEmbedExtractor()
		err := e.Configure(map[string]any{ConfigEmbedLag: "bogus"})
		require.ErrorIs(t, err, embed.ErrInvalidParameter)
	})

	t.Run("non_positive_max_dim", func(t *testing.T) {
		t.Parallel()

		e := NewEmbedExtractor()
		err := e.Configure(map[string]any{ConfigEmbedMaxDim: 0})
		require.ErrorIs(t, err, embed.ErrInvalidParameter)
	})
}

func TestEmbedExtractorExtract(t *testing.T) {
	t.Parallel()

	sc, err := NewContext(noisyPeriodic(200), 0, 10)
	require.NoError(t, err)

	e := NewEmbedExtractor()
	require.NoError(t, e.Configure(map[string]any{ConfigEmbedMaxDim: 6}))

	report, err := e.Extract(context.Background(), sc)
	require.NoError(t, err)

	lag, ok := report["lag"].(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, lag, 1)

	_, ok = report["lag_fallback"].(bool)
	assert.True(t, ok)

	fnn, ok := report["fnn_prop"].([]float64)
	require.True(t, ok)
	assert.Len(t, fnn, 6)

	e1, ok := report["cao_e1"].([]float64)
	require.True(t, ok)
	assert.Len(t, e1, 5)

	e2, ok := report["cao_e2"].([]float64)
	require.True(t, ok)
	assert.Len(t, e2, 5)

	dim, ok := report["emb_dim_cao"].(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, dim, 1)
	assert.Less(t, dim, 6)
}

func TestCaoMinDimension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		e1   []float64
		tol  float64
		want int
	}{
		{name: "plateau_at_two", e1: []float64{0.4, 0.9, 0.93, 0.95}, tol: 0.05, want: 2},
		{name: "immediate_plateau", e1: []float64{1.0, 1.01}, tol: 0.05, want: 1},
		{name: "never_plateaus", e1: []float64{0.1, 0.4, 0.7, 1.3}, tol: 0.05, want: 1},
		{name: "too_short", e1: []float64{0.5}, tol: 0.05, want: 1},
		{name: "empty", e1: nil, tol: 0.05, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, caoMinDimension(tt.e1, tt.tol))
		})
	}
}
