package embed

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// MinSeriesLen is the minimum series length accepted by the engine.
const MinSeriesLen = 3

// zeroVarianceTol is the standard deviation below which a series is
// considered constant.
const zeroVarianceTol = 1e-12

// Standardize z-score normalizes ts so the result has mean 0 and standard
// deviation 1 (population estimator). When scaled is non-nil it is assumed
// to be a previously standardized copy of ts and is returned unchanged;
// this short-circuit lets a pipeline of feature calls share one
// standardization. The operation is idempotent within floating tolerance.
func Standardize(ts, scaled []float64) ([]float64, error) {
	if scaled != nil {
		return scaled, nil
	}

	if len(ts) < MinSeriesLen {
		return nil, fmt.Errorf("%w: series length %d below minimum %d", ErrInvalidInput, len(ts), MinSeriesLen)
	}

	mean := stat.Mean(ts, nil)
	std := stat.PopStdDev(ts, nil)

	if std < zeroVarianceTol {
		return nil, fmt.Errorf("%w: zero variance series", ErrInvalidInput)
	}

	out := make([]float64, len(ts))
	for i, v := range ts {
		out[i] = (v - mean) / std
	}

	return out, nil
}
