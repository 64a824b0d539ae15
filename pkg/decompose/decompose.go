// Package decompose estimates the seasonal period of a scalar time series
// and splits it into trend, seasonal, and residual components with a
// classical additive moving-average decomposition. The components are
// collaborator inputs for the feature catalog; the phase-space engine
// never consumes them.
package decompose

import (
	"errors"
	"fmt"
	"math"

	"github.com/Sumatoshi-tech/seriesfang/pkg/autocorr"
)

// ErrInvalidParameter indicates a period below 2 or a series shorter than
// two full periods.
var ErrInvalidParameter = errors.New("invalid parameter")

// Components holds the additive decomposition ts = Trend + Seasonal +
// Residual. Trend and Residual are NaN at the edges where the centered
// moving average is undefined.
type Components struct {
	Trend    []float64
	Seasonal []float64
	Residual []float64
}

// Period estimates the seasonal period as the lag of the maximum absolute
// autocorrelation. Series without a detectable period report 1.
func Period(ts []float64) int {
	acf, err := autocorr.ACF(ts, len(ts)/2)
	if err != nil {
		return 1
	}

	best := 0.0
	bestLag := 1

	for i, r := range acf {
		if math.Abs(r) > best {
			best = math.Abs(r)
			bestLag = i + 1
		}
	}

	return bestLag
}

// Decompose splits ts into additive components for the given period. The
// trend is a centered moving average (the standard 2xMA for even periods),
// the seasonal component is the phase-wise mean of the detrended series
// centered to sum to zero over one period, and the residual is what
// remains.
func Decompose(ts []float64, period int) (Components, error) {
	if period < 2 {
		return Components{}, fmt.Errorf("%w: period must be at least 2 (got %d)", ErrInvalidParameter, period)
	}

	if len(ts) < 2*period {
		return Components{}, fmt.Errorf("%w: need at least two full periods (%d points, have %d)",
			ErrInvalidParameter, 2*period, len(ts))
	}

	trend := centeredMovingAverage(ts, period)
	seasonal := seasonalComponent(ts, trend, period)

	residual := make([]float64, len(ts))
	for i := range ts {
		residual[i] = ts[i] - trend[i] - seasonal[i]
	}

	return Components{Trend: trend, Seasonal: seasonal, Residual: residual}, nil
}

// centeredMovingAverage computes the period-length centered MA, using the
// two-pass 2xMA when the period is even. Undefined edge positions are NaN.
func centeredMovingAverage(ts []float64, period int) []float64 {
	out := make([]float64, len(ts))
	for i := range out {
		out[i] = math.NaN()
	}

	half := period / 2

	if period%2 == 1 {
		for i := half; i < len(ts)-half; i++ {
			var sum float64

			for j := i - half; j <= i+half; j++ {
				sum += ts[j]
			}

			out[i] = sum / float64(period)
		}

		return out
	}

	// Even period: window of period+1 points with half weight at the ends.
	for i := half; i < len(ts)-half; i++ {
		sum := 0.5*ts[i-half] + 0.5*ts[i+half]

		for j := i - half + 1; j <= i+half-1; j++ {
			sum += ts[j]
		}

		out[i] = sum / float64(period)
	}

	return out
}

// seasonalComponent averages the detrended series per phase, skipping NaN
// trend positions, and centers the phase means to sum to zero.
func seasonalComponent(ts, trend []float64, period int) []float64 {
	sums := make([]float64, period)
	counts := make([]int, period)

	for i := range ts {
		if math.IsNaN(trend[i]) {
			continue
		}

		phase := i % period
		sums[phase] += ts[i] - trend[i]
		counts[phase]++
	}

	means := make([]float64, period)

	var total float64

	for p := range period {
		if counts[p] > 0 {
			means[p] = sums[p] / float64(counts[p])
		}

		total += means[p]
	}

	center := total / float64(period)

	out := make([]float64, len(ts))
	for i := range out {
		out[i] = means[i%period] - center
	}

	return out
}
