package embed

import (
	"errors"
	"fmt"
	"math"
)

// CaoProfile computes Cao's E1 and E2 statistics over the candidate
// dimension range dims. For each dimension d the series is embedded at
// d+1; the (d+1)-dimensional Chebyshev neighbor distance is derived from
// the d-dimensional one through the max-norm recursion
//
//	dist_{d+1} = max(dist_d, |Δ added coordinate|)
//
// so the pairwise distances are never recomputed from scratch at the
// higher dimension. With E(d) the mean ratio dist_{d+1}/dist_d and E*(d)
// the mean added-coordinate difference, the returned profiles are
// E1(d) = E(d+1)/E(d) and E2(d) = E*(d+1)/E*(d), each one element shorter
// than dims.
//
// E1 saturates near 1 once the true minimal embedding dimension is
// reached; E2 differing from 1 at some dimension indicates the series is
// not an i.i.d. random process. Embedding failures propagate forward as
// NaN exactly as in FNNProfile.
func CaoProfile(ts []float64, lag int, dims []int, scaled []float64) (e1, e2 []float64, err error) {
	if lag < 1 {
		return nil, nil, fmt.Errorf("%w: lag must be positive (got %d)", ErrInvalidParameter, lag)
	}

	if err := validateDims(dims); err != nil {
		return nil, nil, err
	}

	scaled, err = Standardize(ts, scaled)
	if err != nil {
		return nil, nil, err
	}

	ed := make([]float64, len(dims))
	edStar := make([]float64, len(dims))

	for ind, dim := range dims {
		next, embedErr := Embed(scaled, lag, dim+1)
		if embedErr != nil {
			if errors.Is(embedErr, ErrEmbeddingTooShort) {
				markNaN(ed, ind)
				markNaN(edStar, ind)

				break
			}

			return nil, nil, embedErr
		}

		cur, extra := splitExtraCoordinate(next)

		assign, nnErr := NearestNeighbors(cur, Chebyshev)
		if nnErr != nil {
			if errors.Is(nnErr, ErrInvalidInput) {
				markNaN(ed, ind)
				markNaN(edStar, ind)

				break
			}

			return nil, nil, nnErr
		}

		ed[ind], edStar[ind] = caoMeans(extra, assign)
	}

	e1 = successiveRatios(ed)
	e2 = successiveRatios(edStar)

	return e1, e2, nil
}

// caoMeans returns E(d), the mean expansion ratio of neighbor distances
// when the extra coordinate is added, and E*(d), the mean absolute
// difference of the extra coordinate between neighbors.
func caoMeans(extra []float64, assign NeighborAssignment) (ed, edStar float64) {
	n := float64(len(assign.Indices))

	var ratioSum, diffSum float64

	for i, nnInd := range assign.Indices {
		distCur := assign.Distances[i]
		extraDiff := math.Abs(extra[i] - extra[nnInd])
		distNext := math.Max(distCur, extraDiff)

		ratioSum += distNext / distCur
		diffSum += extraDiff
	}

	return ratioSum / n, diffSum / n
}

// successiveRatios returns v[i+1]/v[i] for consecutive entries; NaN
// entries propagate into every ratio they touch.
func successiveRatios(v []float64) []float64 {
	if len(v) < 2 {
		return nil
	}

	out := make([]float64, len(v)-1)
	for i := range out {
		out[i] = v[i+1] / v[i]
	}

	return out
}
