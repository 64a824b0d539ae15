package series

import (
	"fmt"
	"math"
)

// Critical-point kinds accepted by CriticalPoints.
const (
	CritMin        = "min"
	CritMax        = "max"
	CritPlateau    = "plateau"
	CritNonPlateau = "non-plateau"
	CritAny        = "any"
)

// critCloseTol matches the tolerance used to call a discrete derivative
// zero when detecting plateaus.
const critCloseTol = 1e-8

// CriticalPoints returns a binary mask over ts marking critical points of
// the requested kind. The first and last observations are never marked
// (their neighborhood is incomplete). ts must hold at least 3 elements.
func CriticalPoints(ts []float64, kind string) ([]int, error) {
	if len(ts) <= 2 {
		return nil, fmt.Errorf("%w: need at least 3 elements (got %d)", ErrInvalidParameter, len(ts))
	}

	d1 := Diff(ts, 1)

	switch kind {
	case CritPlateau:
		return plateauMask(d1), nil
	case CritNonPlateau:
		return padMask(turningMask(d1)), nil
	case CritAny:
		return orMask(padMask(turningMask(d1)), plateauMask(d1)), nil
	case CritMin, CritMax:
		return extremumMask(d1, kind), nil
	default:
		return nil, fmt.Errorf("%w: unrecognized critical-point kind %q", ErrInvalidParameter, kind)
	}
}

// turningMask marks sign changes of the first derivative.
func turningMask(d1 []float64) []int {
	mask := make([]int, len(d1)-1)

	for i := range mask {
		if d1[i+1]*d1[i] < 0 {
			mask[i] = 1
		}
	}

	return mask
}

// plateauMask marks points where both the first and second derivatives
// vanish.
func plateauMask(d1 []float64) []int {
	d2 := Diff(d1, 1)
	mask := make([]int, len(d2))

	for i := range mask {
		if math.Abs(d2[i]) < critCloseTol && math.Abs(d1[i]) < critCloseTol {
			mask[i] = 1
		}
	}

	return padMask(mask)
}

// extremumMask marks turning points filtered by the curvature sign.
func extremumMask(d1 []float64, kind string) []int {
	turning := turningMask(d1)
	d2 := Diff(d1, 1)
	mask := make([]int, len(turning))

	for i := range mask {
		curvatureOK := d2[i] > 0
		if kind == CritMax {
			curvatureOK = d2[i] < 0
		}

		if turning[i] == 1 && curvatureOK {
			mask[i] = 1
		}
	}

	return padMask(mask)
}

// padMask frames an interior mask with unmarked endpoints so the result
// has the original series length.
func padMask(interior []int) []int {
	out := make([]int, len(interior)+2)
	copy(out[1:], interior)

	return out
}

func orMask(a, b []int) []int {
	out := make([]int, len(a))

	for i := range out {
		if a[i] == 1 || b[i] == 1 {
			out[i] = 1
		}
	}

	return out
}
