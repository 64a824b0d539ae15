package embed

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Metric identifies the distance metric used for nearest-neighbor search
// over embedded points.
type Metric int

const (
	// MetricChebyshev is the L-infinity (max) norm. It is the metric the
	// dimension estimators are defined in terms of, because the max norm
	// composes across added coordinates.
	MetricChebyshev Metric = iota

	// MetricMinkowski is the L-p norm with a configurable exponent.
	MetricMinkowski
)

func (m Metric) String() string {
	switch m {
	case MetricChebyshev:
		return "chebyshev"
	case MetricMinkowski:
		return "minkowski"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// DistanceFunc computes a non-negative distance between two equal-length
// vectors.
type DistanceFunc func(a, b []float64) float64

// Chebyshev returns the L-infinity distance between a and b.
func Chebyshev(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}

// Minkowski returns an L-p DistanceFunc for the given exponent.
func Minkowski(p float64) DistanceFunc {
	return func(a, b []float64) float64 {
		return floats.Distance(a, b, p)
	}
}

// Provider returns the DistanceFunc for the given metric. The exponent p
// is consulted only for MetricMinkowski and must be at least 1.
func Provider(m Metric, p float64) (DistanceFunc, error) {
	switch m {
	case MetricChebyshev:
		return Chebyshev, nil
	case MetricMinkowski:
		if p < 1 {
			return nil, fmt.Errorf("%w: minkowski exponent must be >= 1 (got %g)", ErrInvalidParameter, p)
		}

		return Minkowski(p), nil
	default:
		return nil, fmt.Errorf("%w: unsupported metric %v", ErrInvalidParameter, m)
	}
}
