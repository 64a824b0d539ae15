// Package autocorr computes lag-indexed correlation and information
// arrays for scalar time series: the autocorrelation function (ACF), the
// partial autocorrelation function (PACF), and the automutual information
// function (AMI). The returned arrays exclude lag 0 and are consumed by
// the embedding-lag selector and by the autocorrelation feature group.
package autocorr

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrInvalidInput indicates a series too short or a lag count that leaves
// no estimable lags.
var ErrInvalidInput = errors.New("invalid input")

// DefaultNLags is the default number of lags reported by the feature
// catalog.
const DefaultNLags = 5

// DefaultAMIBins is the default number of equal-width histogram bins used
// by the automutual information estimator.
const DefaultAMIBins = 10

// minSeriesLen is the shortest series for which a lag-1 estimate exists.
const minSeriesLen = 3

// ACF returns the adjusted (unbiased) autocorrelation function of ts for
// lags 1..nlags: the lag-k autocovariance is normalized by n-k rather than
// n before division by the lag-0 variance. nlags is clamped so at least
// two observations overlap at the largest lag.
func ACF(ts []float64, nlags int) ([]float64, error) {
	n := len(ts)
	if n < minSeriesLen {
		return nil, fmt.Errorf("%w: series length %d below minimum %d", ErrInvalidInput, n, minSeriesLen)
	}

	if nlags < 1 {
		return nil, fmt.Errorf("%w: nlags must be positive (got %d)", ErrInvalidInput, nlags)
	}

	if nlags > n-2 {
		nlags = n - 2
	}

	mean := stat.Mean(ts, nil)
	c0 := stat.PopVariance(ts, nil)

	if c0 == 0 {
		return nil, fmt.Errorf("%w: zero variance series", ErrInvalidInput)
	}

	out := make([]float64, nlags)

	for k := 1; k <= nlags; k++ {
		var sum float64

		for i := 0; i < n-k; i++ {
			sum += (ts[i] - mean) * (ts[i+k] - mean)
		}

		out[k-1] = sum / float64(n-k) / c0
	}

	return out, nil
}

// PACF returns the partial autocorrelation function of ts for lags
// 1..nlags, computed from the ACF with the Durbin-Levinson recursion.
func PACF(ts []float64, nlags int) ([]float64, error) {
	acf, err := ACF(ts, nlags)
	if err != nil {
		return nil, err
	}

	nlags = len(acf)

	// r[k] is the autocorrelation at lag k, with r[0] = 1.
	r := make([]float64, nlags+1)
	r[0] = 1
	copy(r[1:], acf)

	pacf := make([]float64, nlags)
	phi := make([][]float64, nlags+1)

	for i := range phi {
		phi[i] = make([]float64, nlags+1)
	}

	for k := 1; k <= nlags; k++ {
		var num, den float64

		num = r[k]
		den = 1.0

		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * r[k-j]
			den -= phi[k-1][j] * r[j]
		}

		if den == 0 {
			pacf[k-1] = math.NaN()

			continue
		}

		phi[k][k] = num / den

		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}

		pacf[k-1] = phi[k][k]
	}

	return pacf, nil
}

// AMI returns the automutual information of ts for lags 1..nlags, in nats.
// For each lag k the mutual information between ts[:n-k] and ts[k:] is
// estimated from a numBins x numBins equal-width joint histogram whose bin
// edges span the full series range. numBins values below 2 fall back to
// DefaultAMIBins.
func AMI(ts []float64, nlags, numBins int) ([]float64, error) {
	n := len(ts)
	if n < minSeriesLen {
		return nil, fmt.Errorf("%w: series length %d below minimum %d", ErrInvalidInput, n, minSeriesLen)
	}

	if nlags < 1 {
		return nil, fmt.Errorf("%w: nlags must be positive (got %d)", ErrInvalidInput, nlags)
	}

	if nlags > n-2 {
		nlags = n - 2
	}

	if numBins < 2 {
		numBins = DefaultAMIBins
	}

	lo, hi := minMax(ts)
	if hi == lo {
		return nil, fmt.Errorf("%w: zero variance series", ErrInvalidInput)
	}

	binned := make([]int, n)
	width := (hi - lo) / float64(numBins)

	for i, v := range ts {
		b := int((v - lo) / width)
		if b >= numBins {
			b = numBins - 1
		}

		binned[i] = b
	}

	out := make([]float64, nlags)
	for k := 1; k <= nlags; k++ {
		out[k-1] = mutualInformation(binned[:n-k], binned[k:], numBins)
	}

	return out, nil
}

// mutualInformation estimates MI in nats between two equally-binned
// integer sequences of the same length.
func mutualInformation(a, b []int, numBins int) float64 {
	n := float64(len(a))

	joint := make([][]float64, numBins)
	for i := range joint {
		joint[i] = make([]float64, numBins)
	}

	margA := make([]float64, numBins)
	margB := make([]float64, numBins)

	for i := range a {
		joint[a[i]][b[i]]++
		margA[a[i]]++
		margB[b[i]]++
	}

	var mi float64

	for i := range numBins {
		for j := range numBins {
			if joint[i][j] == 0 {
				continue
			}

			pij := joint[i][j] / n
			mi += pij * math.Log(pij*n*n/(margA[i]*margB[j]))
		}
	}

	return mi
}

func minMax(v []float64) (lo, hi float64) {
	lo, hi = v[0], v[0]

	for _, x := range v[1:] {
		if x < lo {
			lo = x
		}

		if x > hi {
			hi = x
		}
	}

	return lo, hi
}
