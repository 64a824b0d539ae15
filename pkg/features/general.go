package features

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Sumatoshi-tech/seriesfang/pkg/embed"
	"github.com/Sumatoshi-tech/seriesfang/pkg/series"
)

// Configuration keys for the general group.
const (
	ConfigGeneralWalkerStepSize = "General.WalkerStepSize"
	ConfigGeneralAbsorptionRate = "General.AbsorptionRate"
	ConfigGeneralDecayRate      = "General.DecayRate"
	ConfigGeneralNumBins        = "General.NumBins"
)

// Default configuration values for the general group.
const (
	DefaultWalkerStepSize = 0.1
	DefaultAbsorptionRate = 0.1
	DefaultDecayRate      = 0.1
	DefaultGeneralBins    = 10

	// Shell radii for the embed-in-shell fraction.
	defaultShellInner = 0.0
	defaultShellOuter = 1.0
)

func init() {
	Register("general", func() Extractor { return NewGeneralExtractor() })
}

// GeneralExtractor computes the descriptive feature group: counts, rates,
// flat spots, seasonal peak positions, and the particle/threshold
// simulations driven by the standardized series.
type GeneralExtractor struct {
	WalkerStepSize float64
	AbsorptionRate float64
	DecayRate      float64
	NumBins        int
}

// NewGeneralExtractor creates the group with default settings.
func NewGeneralExtractor() *GeneralExtractor {
	return &GeneralExtractor{
		WalkerStepSize: DefaultWalkerStepSize,
		AbsorptionRate: DefaultAbsorptionRate,
		DecayRate:      DefaultDecayRate,
		NumBins:        DefaultGeneralBins,
	}
}

// Name returns the extractor name.
func (e *GeneralExtractor) Name() string { return "General" }

// Flag returns the CLI flag for the extractor.
func (e *GeneralExtractor) Flag() string { return "general" }

// Description returns a one-line summary.
func (e *GeneralExtractor) Description() string {
	return "Descriptive statistics, crossing rates, flat spots, and simulation-derived features."
}

// Configure applies settings from the facts map.
func (e *GeneralExtractor) Configure(facts map[string]any) error {
	if v, ok := facts[ConfigGeneralWalkerStepSize].(float64); ok {
		e.WalkerStepSize = v
	}

	if v, ok := facts[ConfigGeneralAbsorptionRate].(float64); ok {
		e.AbsorptionRate = v
	}

	if v, ok := facts[ConfigGeneralDecayRate].(float64); ok {
		e.DecayRate = v
	}

	if v, ok := facts[ConfigGeneralNumBins].(int); ok {
		e.NumBins = v
	}

	if e.AbsorptionRate <= 0 || e.AbsorptionRate >= 1 {
		return fmt.Errorf("%w: absorption rate must be in (0, 1) (got %g)", embed.ErrInvalidParameter, e.AbsorptionRate)
	}

	if e.DecayRate <= 0 || e.DecayRate >= 1 {
		return fmt.Errorf("%w: decay rate must be in (0, 1) (got %g)", embed.ErrInvalidParameter, e.DecayRate)
	}

	return nil
}

// Extract computes the general feature group.
func (e *GeneralExtractor) Extract(_ context.Context, sc *Context) (Report, error) {
	report := Report{
		"length": len(sc.Raw),
	}

	e.addMaskRates(report, sc)
	e.addFlatSpots(report, sc)
	e.addSeasonFractions(report, sc)
	e.addSimulations(report, sc)

	return report, nil
}

// addMaskRates fills the binary-mask derived rates.
func (e *GeneralExtractor) addMaskRates(report Report, sc *Context) {
	if mask, err := series.CriticalPoints(sc.Raw, series.CritNonPlateau); err == nil {
		report["turning_points_rate"] = maskRate(mask)
	}

	report["step_changes_rate"] = maskRate(series.StepChanges(sc.Raw, 1))
	report["binmean_rate"] = binMeanRate(sc.Raw)
	report["cross_points_rate"] = crossPointRate(sc.Scaled)

	if !sc.HasComponents {
		return
	}

	trend := trimNaN(sc.Components.Trend)

	if mask, err := series.CriticalPoints(trend, series.CritNonPlateau); err == nil {
		report["turning_points_trend_rate"] = maskRate(mask)
	}

	report["step_changes_trend_rate"] = maskRate(series.StepChanges(trend, 1))
}

// addFlatSpots reports the mean run length of the discretized series.
func (e *GeneralExtractor) addFlatSpots(report Report, sc *Context) {
	binned, err := series.Discretize(sc.Raw, e.NumBins, series.StrategyEqualWidth)
	if err != nil {
		return
	}

	lengths := series.FlatSpotLengths(binned)
	if len(lengths) == 0 {
		report["flat_spot_mean_len"] = float64(len(sc.Raw))

		return
	}

	report["flat_spot_mean_len"] = stat.Mean(lengths, nil)
}

// addSeasonFractions reports where within a period the seasonal peak and
// trough tend to fall. Aperiodic series report NaN, matching the
// documented "inestimable" convention.
func (e *GeneralExtractor) addSeasonFractions(report Report, sc *Context) {
	if !sc.HasComponents || sc.Period <= 1 {
		report["peak_frac"] = math.NaN()
		report["trough_frac"] = math.NaN()

		return
	}

	report["peak_frac"] = seasonModeFraction(sc.Components.Seasonal, sc.Period, true)
	report["trough_frac"] = seasonModeFraction(sc.Components.Seasonal, sc.Period, false)
}

// addSimulations runs the walker, threshold, force-potential, stick-angle,
// shell, and delay-vector-variance features over the standardized series.
func (e *GeneralExtractor) addSimulations(report Report, sc *Context) {
	path := walkerPath(sc.Scaled, e.WalkerStepSize, 0)
	report["walker_dist_mean"] = meanAbsDiff(path, sc.Scaled)
	report["walker_cross_rate"] = walkerCrossRate(path, sc.Scaled)

	rel := movingThreshold(sc.Scaled, e.AbsorptionRate, e.DecayRate)
	report["moving_threshold_mean"] = stat.Mean(rel, nil)

	if pos, err := forcePotential(sc.Scaled, potentialSine, nil); err == nil {
		report["force_potential_mean"] = stat.Mean(pos, nil)
		report["force_potential_std"] = stat.PopStdDev(pos, nil)
	} else {
		report["force_potential_mean"] = math.NaN()
		report["force_potential_std"] = math.NaN()
	}

	angles := stickAngles(sc.Scaled)
	if len(angles) > 0 {
		report["stick_angles_mean"] = stat.Mean(angles, nil)
		report["stick_angles_std"] = stat.PopStdDev(angles, nil)
	}

	lag, _, err := embed.ResolveLagOrFallback(sc.Scaled, embed.LagSpec{}, len(sc.ACF), sc.ACF, sc.AMI)
	if err != nil {
		return
	}

	if frac, shellErr := embedInShell(sc.Scaled, lag, defaultShellInner, defaultShellOuter); shellErr == nil {
		report["embed_in_shell_frac"] = frac
	}

	if pred, dvvErr := delayVectorVariance(sc.Scaled, lag, dvvDefaults()); dvvErr == nil {
		report["pred_var_mean"] = stat.Mean(pred, nil)
	}
}

// maskRate returns the fraction of marked positions in a binary mask.
func maskRate(mask []int) float64 {
	if len(mask) == 0 {
		return math.NaN()
	}

	sum := 0
	for _, v := range mask {
		sum += v
	}

	return float64(sum) / float64(len(mask))
}

// binMeanRate returns the fraction of observations at or above the mean.
func binMeanRate(ts []float64) float64 {
	mean := stat.Mean(ts, nil)
	count := 0

	for _, v := range ts {
		if v >= mean {
			count++
		}
	}

	return float64(count) / float64(len(ts))
}

// crossPointRate returns the fraction of consecutive transitions that
// cross the median line.
func crossPointRate(scaled []float64) float64 {
	med := medianOf(scaled)
	count := 0

	for i := 1; i < len(scaled); i++ {
		below := scaled[i] <= med
		prevBelow := scaled[i-1] <= med

		if below != prevBelow {
			count++
		}
	}

	return float64(count) / float64(len(scaled)-1)
}

// seasonModeFraction locates the modal argmax (or argmin) position of the
// seasonal component across complete periods and returns it as a fraction
// of the period.
func seasonModeFraction(season []float64, period int, peak bool) float64 {
	numSeasons := len(season)/period - 1
	if numSeasons < 1 {
		return math.NaN()
	}

	counts := make(map[int]int)

	for i := 1; i <= numSeasons; i++ {
		window := season[i*period : i*period+period]

		best := 0
		for j := 1; j < period; j++ {
			if peak && window[j] > window[best] {
				best = j
			}

			if !peak && window[j] < window[best] {
				best = j
			}
		}

		counts[best]++
	}

	mode, bestCount := 0, -1

	for ind := range period {
		if c := counts[ind]; c > bestCount {
			mode = ind
			bestCount = c
		}
	}

	return float64(mode+1) / float64(period)
}

// trimNaN drops NaN entries, preserving order.
func trimNaN(v []float64) []float64 {
	out := make([]float64, 0, len(v))

	for _, x := range v {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}

	return out
}

func meanAbsDiff(a, b []float64) float64 {
	var sum float64

	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}

	return sum / float64(len(a))
}

func medianOf(v []float64) float64 {
	return quantileOf(v, 0.5)
}
