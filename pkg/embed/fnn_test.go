package embed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFNNProfileLinearTrend(t *testing.T) {
	t.Parallel()

	// A noiseless linear trend unfolds perfectly in one dimension: adding
	// coordinates never separates true neighbors.
	profile, err := FNNProfile(ramp(50), 1, []int{1, 2, 3}, DefaultRTol, DefaultATol, nil)
	require.NoError(t, err)
	require.Len(t, profile, 3)

	for _, v := range profile {
		assert.InDelta(t, 0.0, v, 1e-12)
	}
}

func TestFNNProfileSineUnfoldsAtTwo(t *testing.T) {
	t.Parallel()

	// A sampled sinusoid lives on a closed curve: one delay coordinate
	// folds opposite phase branches onto each other, so a large share of
	// one-dimensional neighbors are false, while two coordinates trace the
	// curve injectively and the false-neighbor rate drops to zero. The
	// frequency is incommensurate with the sampling step to avoid
	// duplicate points.
	n := 500
	ts := make([]float64, n)

	for i := range ts {
		ts[i] = math.Sin(0.737 * float64(i))
	}

	profile, err := FNNProfile(ts, 2, []int{1, 2, 3, 4}, DefaultRTol, DefaultATol, nil)
	require.NoError(t, err)
	require.Len(t, profile, 4)

	assert.Greater(t, profile[0], 0.2)

	for d, v := range profile[1:] {
		assert.InDelta(t, 0.0, v, 0.02, "dimension %d", d+2)
	}
}

func TestFNNProfileNaNPropagation(t *testing.T) {
	t.Parallel()

	// Length 10 at lag 3: dimension d probes an embedding at d+1, which
	// runs out of points (or of neighbor pairs) from d = 3 onward.
	profile, err := FNNProfile(ramp(10), 3, []int{1, 2, 3, 4, 5, 6}, DefaultRTol, DefaultATol, nil)
	require.NoError(t, err)
	require.Len(t, profile, 6)

	assert.False(t, math.IsNaN(profile[0]))
	assert.False(t, math.IsNaN(profile[1]))

	for _, v := range profile[2:] {
		assert.True(t, math.IsNaN(v), "entries past the failing dimension must be NaN")
	}
}

func TestFNNProfileValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lag  int
		dims []int
		rtol float64
		atol float64
	}{
		{name: "zero_lag", lag: 0, dims: []int{1, 2}, rtol: 10, atol: 2},
		{name: "zero_rtol", lag: 1, dims: []int{1, 2}, rtol: 0, atol: 2},
		{name: "zero_atol", lag: 1, dims: []int{1, 2}, rtol: 10, atol: 0},
		{name: "empty_dims", lag: 1, dims: nil, rtol: 10, atol: 2},
		{name: "unsorted_dims", lag: 1, dims: []int{2, 1}, rtol: 10, atol: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := FNNProfile(ramp(30), tt.lag, tt.dims, tt.rtol, tt.atol, nil)
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestFNNProfileSharesScaled(t *testing.T) {
	t.Parallel()

	ts := ramp(40)

	scaled, err := Standardize(ts, nil)
	require.NoError(t, err)

	fromRaw, err := FNNProfile(ts, 1, []int{1, 2}, DefaultRTol, DefaultATol, nil)
	require.NoError(t, err)

	fromScaled, err := FNNProfile(ts, 1, []int{1, 2}, DefaultRTol, DefaultATol, scaled)
	require.NoError(t, err)

	assert.InDeltaSlice(t, fromRaw, fromScaled, 1e-12)
}
