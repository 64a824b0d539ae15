// Package series provides shared array reductions and views over scalar
// time series: discrete differences, discretization, non-overlapping
// tiles, and critical-point masks. These are the leaf helpers consumed by
// the feature catalog; the phase-space engine lives in pkg/embed.
package series

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ErrInvalidParameter indicates a malformed argument (bad bin count,
// strategy token, tile count, or critical-point kind).
var ErrInvalidParameter = errors.New("invalid parameter")

// Diff returns the order-th discrete difference of ts. Each application
// shortens the series by one.
func Diff(ts []float64, order int) []float64 {
	if order < 1 || len(ts) == 0 {
		return slices.Clone(ts)
	}

	out := slices.Clone(ts)
	for range order {
		if len(out) < 2 {
			return nil
		}

		next := make([]float64, len(out)-1)
		for i := range next {
			next[i] = out[i+1] - out[i]
		}

		out = next
	}

	return out
}

// Discretization strategies.
const (
	// StrategyEqualWidth cuts the value range into bins of equal width.
	StrategyEqualWidth = "equal-width"

	// StrategyEquiprobable cuts the value range at quantiles so each bin
	// holds roughly the same number of observations.
	StrategyEquiprobable = "equiprobable"
)

// Discretize maps each observation to a bin index in [1, numBins] using
// the given strategy.
func Discretize(ts []float64, numBins int, strategy string) ([]int, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrInvalidParameter)
	}

	if numBins < 2 {
		return nil, fmt.Errorf("%w: numBins must be at least 2 (got %d)", ErrInvalidParameter, numBins)
	}

	var cuts []float64

	switch strategy {
	case StrategyEqualWidth:
		cuts = equalWidthCuts(ts, numBins)
	case StrategyEquiprobable:
		cuts = quantileCuts(ts, numBins)
	default:
		return nil, fmt.Errorf("%w: unrecognized strategy %q", ErrInvalidParameter, strategy)
	}

	out := make([]int, len(ts))
	for i, v := range ts {
		out[i] = digitize(v, cuts)
	}

	return out, nil
}

// equalWidthCuts returns the lower edges of numBins equal-width bins,
// excluding the global minimum edge.
func equalWidthCuts(ts []float64, numBins int) []float64 {
	lo := slices.Min(ts)
	hi := slices.Max(ts)
	width := (hi - lo) / float64(numBins)

	cuts := make([]float64, numBins-1)
	for i := range cuts {
		cuts[i] = lo + width*float64(i+1)
	}

	return cuts
}

// quantileCuts returns the interior quantile edges for numBins
// equiprobable bins.
func quantileCuts(ts []float64, numBins int) []float64 {
	sorted := slices.Clone(ts)
	slices.Sort(sorted)

	cuts := make([]float64, numBins-1)
	for i := range cuts {
		p := float64(i+1) / float64(numBins)
		cuts[i] = stat.Quantile(p, stat.Empirical, sorted, nil)
	}

	return cuts
}

// digitize returns 1 + the number of cuts at or below v.
func digitize(v float64, cuts []float64) int {
	bin := 1

	for _, c := range cuts {
		if v >= c {
			bin++
		}
	}

	return bin
}

// Tiles splits ts into numTiles contiguous non-overlapping windows of
// near-equal length. numTiles may not exceed half the series length.
func Tiles(ts []float64, numTiles int) ([][]float64, error) {
	if numTiles < 1 {
		return nil, fmt.Errorf("%w: numTiles must be positive (got %d)", ErrInvalidParameter, numTiles)
	}

	if float64(numTiles) > 0.5*float64(len(ts)) {
		return nil, fmt.Errorf("%w: numTiles %d larger than half the series size %d", ErrInvalidParameter, numTiles, len(ts))
	}

	out := make([][]float64, 0, numTiles)
	base := len(ts) / numTiles
	rem := len(ts) % numTiles
	start := 0

	for i := range numTiles {
		size := base
		if i < rem {
			size++
		}

		out = append(out, ts[start:start+size])
		start += size
	}

	return out, nil
}

// FlatSpotLengths returns the run lengths of consecutive equal values in
// the discretized series, excluding the trailing open run.
func FlatSpotLengths(binned []int) []float64 {
	var lengths []float64

	counter := 1

	for i := 1; i < len(binned); i++ {
		if binned[i] != binned[i-1] {
			lengths = append(lengths, float64(counter))
			counter = 1

			continue
		}

		counter++
	}

	return lengths
}

// StepChanges marks observations deviating from the expanding-window mean
// by more than two expanding-window standard deviations (sample
// estimator with ddof degrees of freedom).
func StepChanges(ts []float64, ddof int) []int {
	if len(ts) <= ddof+1 {
		return nil
	}

	var out []int

	for i := 1 + ddof; i < len(ts); i++ {
		prefix := ts[:i]
		mean := stat.Mean(prefix, nil)
		std := sampleStd(prefix, ddof)

		if math.Abs(ts[i]-mean) > 2*std {
			out = append(out, 1)
		} else {
			out = append(out, 0)
		}
	}

	return out
}

// sampleStd computes the standard deviation with the given delta degrees
// of freedom.
func sampleStd(v []float64, ddof int) float64 {
	n := len(v)
	if n <= ddof {
		return 0
	}

	mean := stat.Mean(v, nil)

	var sumSq float64

	for _, x := range v {
		d := x - mean
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(n-ddof))
}
