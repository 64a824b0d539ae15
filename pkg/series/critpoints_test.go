package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriticalPoints(t *testing.T) {
	t.Parallel()

	zigzag := []float64{0, 1, 0, 1, 0}

	tests := []struct {
		name string
		ts   []float64
		kind string
		want []int
	}{
		{name: "turning_points", ts: zigzag, kind: CritNonPlateau, want: []int{0, 1, 1, 1, 0}},
		{name: "minima", ts: zigzag, kind: CritMin, want: []int{0, 0, 1, 0, 0}},
		{name: "maxima", ts: zigzag, kind: CritMax, want: []int{0, 1, 0, 1, 0}},
		{name: "plateau", ts: []float64{0, 1, 1, 1, 2}, kind: CritPlateau, want: []int{0, 0, 1, 0, 0}},
		{name: "any_merges_kinds", ts: []float64{0, 1, 1, 1, 2}, kind: CritAny, want: []int{0, 0, 1, 0, 0}},
		{name: "monotone_has_none", ts: []float64{1, 2, 3, 4}, kind: CritNonPlateau, want: []int{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := CriticalPoints(tt.ts, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("mask_spans_series", func(t *testing.T) {
		t.Parallel()

		got, err := CriticalPoints(zigzag, CritAny)
		require.NoError(t, err)
		assert.Len(t, got, len(zigzag))
	})

	t.Run("too_short", func(t *testing.T) {
		t.Parallel()

		_, err := CriticalPoints([]float64{1, 2}, CritMin)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("unknown_kind", func(t *testing.T) {
		t.Parallel()

		_, err := CriticalPoints(zigzag, "saddle")
		require.ErrorIs(t, err, ErrInvalidParameter)
	})
}
