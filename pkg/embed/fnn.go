package embed

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Default False-Nearest-Neighbors thresholds from Kennel et al.
const (
	DefaultRTol = 10.0
	DefaultATol = 2.0
)

// DefaultMaxDim is the default upper bound of the candidate dimension
// range scanned by the dimension estimators.
const DefaultMaxDim = 16

// FNNProfile estimates, for each candidate dimension d in dims, the
// proportion of false nearest neighbors: points whose nearest neighbor in
// the d-dimensional embedding separates sharply once the (d+1)-th delay
// coordinate is added. A point is a false neighbor when the jump in the
// added coordinate exceeds rtol times the d-dimensional neighbor distance,
// or when the (d+1)-dimensional Chebyshev distance exceeds atol times the
// standard deviation of the raw series.
//
// dims must be strictly increasing. scaled may carry a precomputed
// standardized copy of ts. When the series is too short to embed at some
// dimension, that entry and all higher entries are NaN and the scan stops;
// a partially-NaN profile is a normal outcome, not an error. An embedding
// reduced to a single point is treated the same way: with no non-self
// neighbor available the rate at that dimension is undefined, so the
// entry goes NaN rather than being forced through a degenerate
// self-neighbor.
func FNNProfile(ts []float64, lag int, dims []int, rtol, atol float64, scaled []float64) ([]float64, error) {
	if lag < 1 {
		return nil, fmt.Errorf("%w: lag must be positive (got %d)", ErrInvalidParameter, lag)
	}

	if rtol <= 0 || atol <= 0 {
		return nil, fmt.Errorf("%w: rtol and atol must be positive (got %g, %g)", ErrInvalidParameter, rtol, atol)
	}

	if err := validateDims(dims); err != nil {
		return nil, err
	}

	scaled, err := Standardize(ts, scaled)
	if err != nil {
		return nil, err
	}

	tsStd := stat.PopStdDev(ts, nil)
	profile := make([]float64, len(dims))

	for ind, dim := range dims {
		next, embedErr := Embed(scaled, lag, dim+1)
		if embedErr != nil {
			if errors.Is(embedErr, ErrEmbeddingTooShort) {
				// Every larger dimension is a known failure; stop probing.
				markNaN(profile, ind)

				break
			}

			return nil, embedErr
		}

		cur, extra := splitExtraCoordinate(next)

		assign, nnErr := NearestNeighbors(cur, Chebyshev)
		if nnErr != nil {
			if errors.Is(nnErr, ErrInvalidInput) {
				markNaN(profile, ind)

				break
			}

			return nil, nnErr
		}

		profile[ind] = falseNeighborRate(extra, assign, rtol, atol*tsStd)
	}

	return profile, nil
}

// falseNeighborRate classifies each point against its assigned neighbor
// and returns the mean false-neighbor indicator.
func falseNeighborRate(extra []float64, assign NeighborAssignment, rtol, absLimit float64) float64 {
	count := 0

	for i, nnInd := range assign.Indices {
		distCur := assign.Distances[i]
		extraDiff := math.Abs(extra[i] - extra[nnInd])
		distNext := math.Max(distCur, extraDiff)

		if extraDiff > rtol*distCur || distNext > absLimit {
			count++
		}
	}

	return float64(count) / float64(len(assign.Indices))
}

// splitExtraCoordinate views a (d+1)-dimensional embedding as its
// d-dimensional prefix plus the added final coordinate of each row.
func splitExtraCoordinate(next [][]float64) (cur [][]float64, extra []float64) {
	cur = make([][]float64, len(next))
	extra = make([]float64, len(next))

	last := len(next[0]) - 1

	for i, row := range next {
		cur[i] = row[:last]
		extra[i] = row[last]
	}

	return cur, extra
}

// markNaN fills profile from index ind onward with NaN.
func markNaN(profile []float64, ind int) {
	for j := ind; j < len(profile); j++ {
		profile[j] = math.NaN()
	}
}
