package features

import (
	"fmt"

	"github.com/Sumatoshi-tech/seriesfang/pkg/autocorr"
	"github.com/Sumatoshi-tech/seriesfang/pkg/decompose"
	"github.com/Sumatoshi-tech/seriesfang/pkg/embed"
)

// Context carries the raw series and every shared precomputation the
// extractor groups consume: the standardized copy, correlation and
// information arrays, the estimated period, and (when derivable) the
// additive decomposition. It is built once per series and treated as
// read-only by all groups.
type Context struct {
	Raw    []float64
	Scaled []float64

	// ACF and AMI cover lags 1..MaxNLags and feed both the lag selector
	// and the autocorrelation feature group.
	ACF []float64
	AMI []float64

	Period int

	// Components holds the additive decomposition; HasComponents is false
	// for aperiodic or too-short series, in which case component-derived
	// features are skipped rather than failing the whole run.
	Components    decompose.Components
	HasComponents bool
}

// NewContext standardizes the series and precomputes the shared arrays.
// maxNLags values below 1 default to half the series length; amiBins
// values below 2 default to autocorr.DefaultAMIBins.
func NewContext(ts []float64, maxNLags, amiBins int) (*Context, error) {
	scaled, err := embed.Standardize(ts, nil)
	if err != nil {
		return nil, fmt.Errorf("standardize: %w", err)
	}

	if maxNLags < 1 {
		maxNLags = len(ts) / 2
	}

	acf, err := autocorr.ACF(scaled, maxNLags)
	if err != nil {
		return nil, fmt.Errorf("acf: %w", err)
	}

	ami, err := autocorr.AMI(scaled, maxNLags, amiBins)
	if err != nil {
		return nil, fmt.Errorf("ami: %w", err)
	}

	sc := &Context{
		Raw:    ts,
		Scaled: scaled,
		ACF:    acf,
		AMI:    ami,
		Period: decompose.Period(ts),
	}

	if components, decompErr := decompose.Decompose(ts, sc.Period); decompErr == nil {
		sc.Components = components
		sc.HasComponents = true
	}

	return sc, nil
}
