// Package models implements the naive forecasting baselines used by the
// model-based feature group. Each baseline fits in O(n) and predicts from
// trivial structure (last value, drift line, seasonal repeat, or a local
// statistic); the SMAPE of these forecasts against held-out observations
// is a meta-feature, not a forecasting product.
package models

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ErrInvalidParameter indicates an unusable fit configuration.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrNotFitted indicates Predict was called before Fit.
var ErrNotFitted = errors.New("model not fitted")

// smapeEps guards the SMAPE denominator against two simultaneous zeros.
const smapeEps = 1e-9

// Forecaster is a minimal fit/predict contract over a scalar series.
// Indices passed to Predict continue the training index space: index n is
// the first step after a training series of length n.
type Forecaster interface {
	Fit(y []float64) error
	Predict(indices []int) ([]float64, error)
}

// Naive repeats the last training observation.
type Naive struct {
	lastObs float64
	fitted  bool
}

// Fit stores the final observation.
func (m *Naive) Fit(y []float64) error {
	if len(y) == 0 {
		return fmt.Errorf("%w: empty training series", ErrInvalidParameter)
	}

	m.lastObs = y[len(y)-1]
	m.fitted = true

	return nil
}

// Predict returns the last observation for every requested index.
func (m *Naive) Predict(indices []int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	out := make([]float64, len(indices))
	for i := range out {
		out[i] = m.lastObs
	}

	return out, nil
}

// NaiveDrift extrapolates the line through the first and last training
// observations.
type NaiveDrift struct {
	lastObs    float64
	lastObsInd int
	slope      float64
	fitted     bool
}

// Fit computes the drift slope.
func (m *NaiveDrift) Fit(y []float64) error {
	if len(y) < 2 {
		return fmt.Errorf("%w: need at least 2 observations (got %d)", ErrInvalidParameter, len(y))
	}

	m.lastObs = y[len(y)-1]
	m.lastObsInd = len(y)
	m.slope = (y[len(y)-1] - y[0]) / float64(len(y)-1)
	m.fitted = true

	return nil
}

// Predict extends the drift line.
func (m *NaiveDrift) Predict(indices []int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	out := make([]float64, len(indices))
	for i, ind := range indices {
		out[i] = m.lastObs + float64(ind-m.lastObsInd)*m.slope
	}

	return out, nil
}

// NaiveSeasonal repeats the most recent full observation one period back.
type NaiveSeasonal struct {
	y      []float64
	period int
}

// NewNaiveSeasonal creates a seasonal-repeat baseline with the given
// period.
func NewNaiveSeasonal(period int) *NaiveSeasonal {
	return &NaiveSeasonal{period: period}
}

// Fit keeps a copy of the training series.
func (m *NaiveSeasonal) Fit(y []float64) error {
	if m.period < 1 {
		return fmt.Errorf("%w: period must be positive (got %d)", ErrInvalidParameter, m.period)
	}

	if len(y) < m.period {
		return fmt.Errorf("%w: need at least one full period (%d points, have %d)", ErrInvalidParameter, m.period, len(y))
	}

	m.y = slices.Clone(y)

	return nil
}

// Predict looks each index up one or more whole periods back into the
// training series.
func (m *NaiveSeasonal) Predict(indices []int) ([]float64, error) {
	if m.y == nil {
		return nil, ErrNotFitted
	}

	out := make([]float64, len(indices))

	for i, ind := range indices {
		shift := (ind - len(m.y)) / m.period
		src := ind - m.period*(1+shift)

		if src < 0 || src >= len(m.y) {
			return nil, fmt.Errorf("%w: index %d unreachable with period %d", ErrInvalidParameter, ind, m.period)
		}

		out[i] = m.y[src]
	}

	return out, nil
}

// localStat predicts a fixed statistic of the trailing trainProp fraction
// of the training series.
type localStat struct {
	trainProp float64
	statFn    func([]float64) float64
	value     float64
	fitted    bool
}

func (m *localStat) Fit(y []float64) error {
	if len(y) == 0 {
		return fmt.Errorf("%w: empty training series", ErrInvalidParameter)
	}

	if m.trainProp <= 0 || m.trainProp > 1 {
		return fmt.Errorf("%w: trainProp must be in (0, 1] (got %g)", ErrInvalidParameter, m.trainProp)
	}

	lastInd := max(1, int(math.Ceil(float64(len(y))*m.trainProp)))
	m.value = m.statFn(y[len(y)-lastInd:])
	m.fitted = true

	return nil
}

func (m *localStat) Predict(indices []int) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}

	out := make([]float64, len(indices))
	for i := range out {
		out[i] = m.value
	}

	return out, nil
}

// DefaultLocalTrainProp is the default trailing fraction used by the
// local-statistic baselines.
const DefaultLocalTrainProp = 0.25

// NewLocalMean creates a baseline predicting the mean of the trailing
// quarter of the training series.
func NewLocalMean() Forecaster {
	return &localStat{trainProp: DefaultLocalTrainProp, statFn: func(v []float64) float64 {
		return stat.Mean(v, nil)
	}}
}

// NewLocalMedian creates a baseline predicting the median of the trailing
// quarter of the training series.
func NewLocalMedian() Forecaster {
	return &localStat{trainProp: DefaultLocalTrainProp, statFn: median}
}

func median(v []float64) float64 {
	sorted := slices.Clone(v)
	slices.Sort(sorted)

	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// SMAPE returns the symmetric mean absolute percentage error between two
// equal-length arrays as a fraction with a halved denominator, guarding
// against zero denominators.
func SMAPE(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.NaN()
	}

	var sum float64

	for i := range a {
		sum += math.Abs(a[i]-b[i]) / (smapeEps + math.Abs(a[i]) + math.Abs(b[i]))
	}

	return sum / float64(len(a))
}
