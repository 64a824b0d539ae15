package features

import (
	"context"
	"fmt"
	"math"

	"github.com/Sumatoshi-tech/seriesfang/pkg/autocorr"
	"github.com/Sumatoshi-tech/seriesfang/pkg/embed"
	"github.com/Sumatoshi-tech/seriesfang/pkg/series"
)

// Configuration keys for the autocorrelation group.
const (
	ConfigAutocorrNLags   = "Autocorr.NLags"
	ConfigAutocorrAMIBins = "Autocorr.AMIBins"
)

func init() {
	Register("autocorr", func() Extractor { return NewAutocorrExtractor() })
}

// AutocorrExtractor computes the autocorrelation group: ACF and PACF
// arrays over the raw series, its first difference, and the decomposition
// components, plus the automutual information array and the first
// structurally interesting ACF lags.
type AutocorrExtractor struct {
	NLags   int
	AMIBins int
}

// NewAutocorrExtractor creates the group with default settings.
func NewAutocorrExtractor() *AutocorrExtractor {
	return &AutocorrExtractor{
		NLags:   autocorr.DefaultNLags,
		AMIBins: autocorr.DefaultAMIBins,
	}
}

// Name returns the extractor name.
func (e *AutocorrExtractor) Name() string { return "Autocorrelation" }

// Flag returns the CLI flag for the extractor.
func (e *AutocorrExtractor) Flag() string { return "autocorr" }

// Description returns a one-line summary.
func (e *AutocorrExtractor) Description() string {
	return "ACF, PACF, and automutual information over the series, its difference, and its components."
}

// Configure applies settings from the facts map.
func (e *AutocorrExtractor) Configure(facts map[string]any) error {
	if v, ok := facts[ConfigAutocorrNLags].(int); ok {
		e.NLags = v
	}

	if v, ok := facts[ConfigAutocorrAMIBins].(int); ok {
		e.AMIBins = v
	}

	if e.NLags < 1 {
		return fmt.Errorf("%w: nlags must be positive (got %d)", embed.ErrInvalidParameter, e.NLags)
	}

	return nil
}

// Extract computes the autocorrelation feature group.
func (e *AutocorrExtractor) Extract(_ context.Context, sc *Context) (Report, error) {
	report := Report{}

	e.addPair(report, "acf", "pacf", sc.Raw)

	e.addPair(report, "acf_diff", "pacf_diff", series.Diff(sc.Raw, 1))

	if sc.HasComponents {
		e.addPair(report, "acf_trend", "pacf_trend", trimNaN(sc.Components.Trend))
		e.addPair(report, "acf_seasonality", "pacf_seasonality", sc.Components.Seasonal)
		e.addPair(report, "acf_residuals", "pacf_residuals", trimNaN(sc.Components.Residual))
		e.addPair(report, "acf_detrended", "pacf_detrended", trimNaN(subtract(sc.Raw, sc.Components.Trend)))
		e.addPair(report, "acf_deseasonalized", "pacf_deseasonalized", subtract(sc.Raw, sc.Components.Seasonal))
	}

	if ami, err := autocorr.AMI(sc.Scaled, e.NLags, e.AMIBins); err == nil {
		report["ami"] = ami
	}

	report["acf_first_nonsig_lag"] = firstStructuralLag(sc, embed.LagStrategyACFNonSig)
	report["acf_first_nonpos_lag"] = firstStructuralLag(sc, embed.LagStrategyACF)
	report["ami_first_min_lag"] = firstStructuralLag(sc, embed.LagStrategyAMI)

	return report, nil
}

// addPair stores the ACF and PACF of one input under the given keys,
// silently skipping inputs too short to estimate.
func (e *AutocorrExtractor) addPair(report Report, acfKey, pacfKey string, data []float64) {
	if acf, err := autocorr.ACF(data, e.NLags); err == nil {
		report[acfKey] = acf
	}

	if pacf, err := autocorr.PACF(data, e.NLags); err == nil {
		report[pacfKey] = pacf
	}
}

// subtract returns a - b elementwise.
func subtract(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range out {
		out[i] = a[i] - b[i]
	}

	return out
}

// firstStructuralLag resolves the lag for one selection strategy, NaN when
// the series has no such lag.
func firstStructuralLag(sc *Context, strategy embed.LagStrategy) float64 {
	spec := embed.LagSpec{Strategy: strategy}

	lag, err := embed.ResolveLag(sc.Scaled, spec, len(sc.ACF), sc.ACF, sc.AMI)
	if err != nil {
		return math.NaN()
	}

	return float64(lag)
}
