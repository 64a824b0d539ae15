package embed

import (
	"fmt"
	"math"
)

// zeroDistanceTol is the threshold below which two embedded points are
// considered exact duplicates and excluded from neighbor selection,
// following Cao's recommendation to skip to the next-closest distinct
// point rather than bias the statistic.
const zeroDistanceTol = 1e-8

// NeighborAssignment holds, for each embedded point, the index of its
// nearest distinct neighbor and the distance to it.
type NeighborAssignment struct {
	Indices   []int
	Distances []float64
}

// NearestNeighbors computes the nearest distinct neighbor of every row of
// embedding under the given distance function. The search is exact: the
// full pairwise distance matrix is computed (O(K^2) in the number of
// embedded points). Self-distances and exact-duplicate distances are
// treated as unavailable, so the returned neighbor is always a distinct
// point; when every other point is a duplicate the recorded distance is
// +Inf (exhaustion edge case), never 0.
func NearestNeighbors(embedding [][]float64, dist DistanceFunc) (NeighborAssignment, error) {
	k := len(embedding)
	if k < 2 {
		return NeighborAssignment{}, fmt.Errorf("%w: need at least 2 embedded points (got %d)", ErrInvalidInput, k)
	}

	if dist == nil {
		return NeighborAssignment{}, fmt.Errorf("%w: nil distance function", ErrInvalidParameter)
	}

	mat := pairwiseDistances(embedding, dist)

	inds := make([]int, k)
	dists := make([]float64, k)

	for i := range k {
		best := math.Inf(1)
		bestInd := -1

		for j := range k {
			if j == i {
				continue
			}

			d := mat[i][j]
			if d < zeroDistanceTol {
				continue
			}

			if d < best || bestInd < 0 {
				best = d
				bestInd = j
			}
		}

		inds[i] = bestInd
		dists[i] = best

		if bestInd < 0 {
			// Every other point is an exact duplicate; keep a valid index
			// but report the distance as unavailable.
			if i == 0 {
				inds[i] = 1
			} else {
				inds[i] = 0
			}
		}
	}

	return NeighborAssignment{Indices: inds, Distances: dists}, nil
}

// pairwiseDistances fills the symmetric K x K distance matrix.
func pairwiseDistances(embedding [][]float64, dist DistanceFunc) [][]float64 {
	k := len(embedding)

	mat := make([][]float64, k)
	for i := range mat {
		mat[i] = make([]float64, k)
	}

	for i := range k {
		for j := i + 1; j < k; j++ {
			d := dist(embedding[i], embedding[j])
			mat[i][j] = d
			mat[j][i] = d
		}
	}

	return mat
}
