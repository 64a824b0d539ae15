package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaive(t *testing.T) {
	t.Parallel()

	t.Run("repeats_last_observation", func(t *testing.T) {
		t.Parallel()

		m := &Naive{}
		require.NoError(t, m.Fit([]float64{1, 2, 7}))

		got, err := m.Predict([]int{3, 4, 5})
		require.NoError(t, err)
		assert.Equal(t, []float64{7, 7, 7}, got)
	})

	t.Run("empty_fit", func(t *testing.T) {
		t.Parallel()

		m := &Naive{}
		require.ErrorIs(t, m.Fit(nil), ErrInvalidParameter)
	})

	t.Run("predict_before_fit", func(t *testing.T) {
		t.Parallel()

		m := &Naive{}
		_, err := m.Predict([]int{0})
		require.ErrorIs(t, err, ErrNotFitted)
	})
}

func TestNaiveDrift(t *testing.T) {
	t.Parallel()

	t.Run("extends_line", func(t *testing.T) {
		t.Parallel()

		m := &NaiveDrift{}
		require.NoError(t, m.Fit([]float64{0, 2, 4, 6}))

		got, err := m.Predict([]int{4, 5, 6})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{8, 10, 12}, got, 1e-12)
	})

	t.Run("flat_series_has_no_drift", func(t *testing.T) {
		t.Parallel()

		m := &NaiveDrift{}
		require.NoError(t, m.Fit([]float64{5, 5, 5}))

		got, err := m.Predict([]int{3, 9})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{5, 5}, got, 1e-12)
	})

	t.Run("single_point", func(t *testing.T) {
		t.Parallel()

		m := &NaiveDrift{}
		require.ErrorIs(t, m.Fit([]float64{1}), ErrInvalidParameter)
	})
}

func TestNaiveSeasonal(t *testing.T) {
	t.Parallel()

	t.Run("repeats_last_period", func(t *testing.T) {
		t.Parallel()

		m := NewNaiveSeasonal(3)
		require.NoError(t, m.Fit([]float64{10, 20, 30, 40, 50, 60}))

		got, err := m.Predict([]int{6, 7, 8, 9, 10})
		require.NoError(t, err)

		// Indices 6..8 read the final training period; 9 and 10 wrap a
		// second whole period back.
		assert.Equal(t, []float64{40, 50, 60, 40, 50}, got)
	})

	t.Run("period_too_long", func(t *testing.T) {
		t.Parallel()

		m := NewNaiveSeasonal(5)
		require.ErrorIs(t, m.Fit([]float64{1, 2, 3}), ErrInvalidParameter)
	})

	t.Run("non_positive_period", func(t *testing.T) {
		t.Parallel()

		m := NewNaiveSeasonal(0)
		require.ErrorIs(t, m.Fit([]float64{1, 2, 3}), ErrInvalidParameter)
	})

	t.Run("predict_before_fit", func(t *testing.T) {
		t.Parallel()

		m := NewNaiveSeasonal(2)
		_, err := m.Predict([]int{2})
		require.ErrorIs(t, err, ErrNotFitted)
	})
}

func TestLocalBaselines(t *testing.T) {
	t.Parallel()

	y := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	t.Run("local_mean_uses_trailing_quarter", func(t *testing.T) {
		t.Parallel()

		m := NewLocalMean()
		require.NoError(t, m.Fit(y))

		got, err := m.Predict([]int{8, 9})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{7.5, 7.5}, got, 1e-12)
	})

	t.Run("local_median", func(t *testing.T) {
		t.Parallel()

		m := NewLocalMedian()
		require.NoError(t, m.Fit([]float64{0, 0, 0, 0, 1, 9, 2}))

		// Trailing quarter of 7 points is the last 2; the empirical median
		// picks the lower one.
		got, err := m.Predict([]int{7})
		require.NoError(t, err)
		assert.InDelta(t, 2, got[0], 1e-12)
	})

	t.Run("empty_fit", func(t *testing.T) {
		t.Parallel()

		require.ErrorIs(t, NewLocalMean().Fit(nil), ErrInvalidParameter)
	})
}

func TestSMAPE(t *testing.T) {
	t.Parallel()

	t.Run("known_value", func(t *testing.T) {
		t.Parallel()

		got := SMAPE([]float64{1, 2}, []float64{3, 2})
		assert.InDelta(t, 0.25, got, 1e-9)
	})

	t.Run("identical_arrays", func(t *testing.T) {
		t.Parallel()

		assert.InDelta(t, 0, SMAPE([]float64{1, 2, 3}, []float64{1, 2, 3}), 1e-12)
	})

	t.Run("both_zero_guarded", func(t *testing.T) {
		t.Parallel()

		got := SMAPE([]float64{0}, []float64{0})
		assert.False(t, math.IsNaN(got))
		assert.InDelta(t, 0, got, 1e-12)
	})

	t.Run("length_mismatch", func(t *testing.T) {
		t.Parallel()

		assert.True(t, math.IsNaN(SMAPE([]float64{1}, []float64{1, 2})))
		assert.True(t, math.IsNaN(SMAPE(nil, nil)))
	})
}
