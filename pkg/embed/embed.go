package embed

import "fmt"

// Embed builds the time-delay embedding of scaled at the given lag and
// dimension. Row i of the result is
//
//	(scaled[i], scaled[i+lag], ..., scaled[i+(dim-1)*lag])
//
// so the matrix has N-(dim-1)*lag rows of dim coordinates each. The input
// slice is shared, not copied, by the returned rows' source; rows
// themselves are freshly allocated.
func Embed(scaled []float64, lag, dim int) ([][]float64, error) {
	if lag < 1 {
		return nil, fmt.Errorf("%w: lag must be positive (got %d)", ErrInvalidParameter, lag)
	}

	if dim < 1 {
		return nil, fmt.Errorf("%w: dim must be positive (got %d)", ErrInvalidParameter, dim)
	}

	rows := len(scaled) - (dim-1)*lag
	if rows < 1 {
		return nil, fmt.Errorf("%w: need %d points for lag=%d dim=%d, have %d",
			ErrEmbeddingTooShort, (dim-1)*lag+1, lag, dim, len(scaled))
	}

	out := make([][]float64, rows)

	for i := range rows {
		row := make([]float64, dim)
		for j := range dim {
			row[j] = scaled[i+j*lag]
		}

		out[i] = row
	}

	return out, nil
}

// DimRange returns the candidate dimension list {1, ..., maxDim} used by
// the dimension estimators when the caller does not supply one.
func DimRange(maxDim int) []int {
	if maxDim < 1 {
		return nil
	}

	dims := make([]int, maxDim)
	for i := range dims {
		dims[i] = i + 1
	}

	return dims
}

// validateDims checks that dims is non-empty, starts at 1 or above, and is
// strictly increasing.
func validateDims(dims []int) error {
	if len(dims) == 0 {
		return fmt.Errorf("%w: empty dimension list", ErrInvalidParameter)
	}

	if dims[0] < 1 {
		return fmt.Errorf("%w: dimensions must be positive (got %d)", ErrInvalidParameter, dims[0])
	}

	for i := 1; i < len(dims); i++ {
		if dims[i] <= dims[i-1] {
			return fmt.Errorf("%w: dimension list must be strictly increasing", ErrInvalidParameter)
		}
	}

	return nil
}
