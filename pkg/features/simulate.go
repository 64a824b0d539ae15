package features

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/Sumatoshi-tech/seriesfang/pkg/embed"
)

// Force-potential presets.
const (
	potentialSine    = "sine"
	potentialDblWell = "dblwell"
)

// potentialParams holds the particle simulation constants: force scale,
// friction, and integration step.
type potentialParams struct {
	Alpha float64
	Fric  float64
	Dt    float64
}

// walkerPath simulates a particle attracted to the series: each step moves
// a step-size fraction toward the previous observation.
func walkerPath(scaled []float64, stepSize, startPoint float64) []float64 {
	path := make([]float64, len(scaled))
	path[0] = startPoint

	for i := 1; i < len(scaled); i++ {
		path[i] = path[i-1] + stepSize*(scaled[i-1]-path[i-1])
	}

	return path
}

// walkerCrossRate returns the fraction of transitions where the walker and
// the series swap sides.
func walkerCrossRate(path, scaled []float64) float64 {
	count := 0

	for i := 1; i < len(path); i++ {
		if (path[i-1]-scaled[i-1])*(path[i]-scaled[i]) < 0 {
			count++
		}
	}

	return float64(count) / float64(len(path)-1)
}

// movingThreshold runs the absorb/decay threshold model over the absolute
// standardized series and returns the per-step gap between the updated
// threshold and the observation that drove it.
func movingThreshold(scaled []float64, absorptionRate, decayRate float64) []float64 {
	absorb := 1 + absorptionRate
	decay := 1 - decayRate

	threshold := 1.0
	rel := make([]float64, len(scaled))

	for i, v := range scaled {
		abs := math.Abs(v)

		if abs > threshold {
			threshold = absorb * abs
		} else {
			threshold = decay * threshold
		}

		rel[i] = threshold - abs
	}

	return rel
}

// forcePotential integrates a forced, damped particle in the chosen
// potential, with the series acting as the external force. Diverging
// trajectories are an error.
func forcePotential(scaled []float64, potential string, params *potentialParams) ([]float64, error) {
	var force func(x float64) float64

	p := params

	switch potential {
	case potentialSine:
		if p == nil {
			p = &potentialParams{Alpha: 1, Fric: 1, Dt: 0.1}
		}

		alpha := p.Alpha
		force = func(x float64) float64 { return math.Sin(x/alpha) / alpha }
	case potentialDblWell:
		if p == nil {
			p = &potentialParams{Alpha: 2, Fric: 0.1, Dt: 0.1}
		}

		alpha := p.Alpha
		force = func(x float64) float64 { return alpha*alpha*x - x*x*x }
	default:
		return nil, fmt.Errorf("%w: unknown potential %q", embed.ErrInvalidParameter, potential)
	}

	pos := make([]float64, len(scaled))
	vel := make([]float64, len(scaled))

	for i := 0; i < len(scaled)-1; i++ {
		accel := force(pos[i]) + scaled[i] - p.Fric*vel[i]
		pos[i+1] = pos[i] + p.Dt*vel[i] + p.Dt*p.Dt*accel
		vel[i+1] = vel[i] + p.Dt*accel
	}

	if !isFinite(pos[len(pos)-1]) {
		return nil, fmt.Errorf("%w: potential trajectory diverged", embed.ErrInvalidInput)
	}

	return pos, nil
}

// stickAngles connects consecutive same-sign observations with sticks and
// returns the stick slopes as angles, nonnegative segment first.
func stickAngles(scaled []float64) []float64 {
	var posInds, negInds []int

	for i, v := range scaled {
		if v >= 0 {
			posInds = append(posInds, i)
		} else {
			negInds = append(negInds, i)
		}
	}

	angles := segmentAngles(scaled, posInds)
	angles = append(angles, segmentAngles(scaled, negInds)...)

	return angles
}

func segmentAngles(scaled []float64, inds []int) []float64 {
	if len(inds) < 2 {
		return nil
	}

	angles := make([]float64, 0, len(inds)-1)

	for i := 1; i < len(inds); i++ {
		rise := scaled[inds[i]] - scaled[inds[i-1]]
		run := float64(inds[i] - inds[i-1])
		angles = append(angles, math.Atan(rise/run))
	}

	return angles
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func quantileOf(v []float64, q float64) float64 {
	sorted := slices.Clone(v)
	slices.Sort(sorted)

	return stat.Quantile(q, stat.Empirical, sorted, nil)
}
