package autocorr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n int, period float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * float64(i) / period)
	}

	return out
}

func TestACF(t *testing.T) {
	t.Parallel()

	t.Run("known_values", func(t *testing.T) {
		t.Parallel()

		// For {1..5}: lag-1 r = (4/4)/2 = 0.5, lag-2 r = (-1/3)/2 = -1/6.
		got, err := ACF([]float64{1, 2, 3, 4, 5}, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.InDelta(t, 0.5, got[0], 1e-12)
		assert.InDelta(t, -1.0/6.0, got[1], 1e-12)
	})

	t.Run("nlags_clamped", func(t *testing.T) {
		t.Parallel()

		got, err := ACF([]float64{1, 2, 3, 4, 5}, 50)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("periodic_peak", func(t *testing.T) {
		t.Parallel()

		got, err := ACF(sine(64, 8), 8)
		require.NoError(t, err)

		// Full-period lag correlates strongly; half-period anticorrelates.
		assert.Greater(t, got[7], 0.9)
		assert.Less(t, got[3], -0.9)
	})

	t.Run("too_short", func(t *testing.T) {
		t.Parallel()

		_, err := ACF([]float64{1, 2}, 1)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("zero_variance", func(t *testing.T) {
		t.Parallel()

		_, err := ACF([]float64{3, 3, 3, 3}, 1)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("bad_nlags", func(t *testing.T) {
		t.Parallel()

		_, err := ACF([]float64{1, 2, 3, 4}, 0)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestPACF(t *testing.T) {
	t.Parallel()

	t.Run("lag_one_matches_acf", func(t *testing.T) {
		t.Parallel()

		ts := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1, 2, 3, 4}

		acf, err := ACF(ts, 3)
		require.NoError(t, err)

		pacf, err := PACF(ts, 3)
		require.NoError(t, err)
		require.Len(t, pacf, 3)

		assert.InDelta(t, acf[0], pacf[0], 1e-12)
	})

	t.Run("durbin_levinson_order_two", func(t *testing.T) {
		t.Parallel()

		pacf, err := PACF([]float64{1, 2, 3, 4, 5}, 2)
		require.NoError(t, err)

		// phi22 = (r2 - r1^2) / (1 - r1^2) with r1 = 0.5, r2 = -1/6.
		want := (-1.0/6.0 - 0.25) / (1 - 0.25)
		assert.InDelta(t, want, pacf[1], 1e-12)
	})

	t.Run("propagates_acf_errors", func(t *testing.T) {
		t.Parallel()

		_, err := PACF([]float64{5, 5, 5, 5}, 2)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestAMI(t *testing.T) {
	t.Parallel()

	t.Run("periodic_series_carries_information", func(t *testing.T) {
		t.Parallel()

		got, err := AMI(sine(128, 16), 8, DefaultAMIBins)
		require.NoError(t, err)
		require.Len(t, got, 8)

		for _, v := range got {
			assert.False(t, math.IsNaN(v))
			assert.GreaterOrEqual(t, v, 0.0)
		}
	})

	t.Run("nlags_clamped", func(t *testing.T) {
		t.Parallel()

		got, err := AMI([]float64{1, 5, 2, 4, 3}, 10, 2)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("bins_fallback", func(t *testing.T) {
		t.Parallel()

		withDefault, err := AMI(sine(64, 8), 4, 0)
		require.NoError(t, err)

		explicit, err := AMI(sine(64, 8), 4, DefaultAMIBins)
		require.NoError(t, err)

		assert.InDeltaSlice(t, explicit, withDefault, 1e-12)
	})

	t.Run("zero_variance", func(t *testing.T) {
		t.Parallel()

		_, err := AMI([]float64{2, 2, 2, 2}, 2, 10)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}
