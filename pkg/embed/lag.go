package embed

import (
	"errors"
	"fmt"
	"math"

	"github.com/Sumatoshi-tech/seriesfang/pkg/autocorr"
)

// LagStrategy selects how an embedding lag is derived from the series when
// no fixed lag is given.
type LagStrategy string

const (
	// LagStrategyACF picks the first lag at which the autocorrelation
	// function crosses from positive to non-positive.
	LagStrategyACF LagStrategy = "acf"

	// LagStrategyACFNonSig picks the first lag whose absolute
	// autocorrelation falls below the 95% white-noise significance band
	// 1.96/sqrt(N). This is the default strategy.
	LagStrategyACFNonSig LagStrategy = "acf-nonsig"

	// LagStrategyAMI picks the first local minimum of the automutual
	// information function.
	LagStrategyAMI LagStrategy = "ami"
)

// significanceZ is the 95% two-sided normal critical value used by the
// acf-nonsig strategy.
const significanceZ = 1.96

// LagSpec specifies an embedding lag: either a fixed positive value or a
// symbolic strategy. The zero value resolves with the default acf-nonsig
// strategy.
type LagSpec struct {
	Fixed    int
	Strategy LagStrategy
}

// FixedLag returns a LagSpec carrying an explicit lag value.
func FixedLag(n int) LagSpec {
	return LagSpec{Fixed: n}
}

// StrategyLag returns a LagSpec carrying a symbolic strategy.
func StrategyLag(s LagStrategy) LagSpec {
	return LagSpec{Strategy: s}
}

// ParseLagSpec converts a configuration token into a LagSpec. The token is
// either a strategy name or empty (default strategy).
func ParseLagSpec(token string) (LagSpec, error) {
	switch LagStrategy(token) {
	case "":
		return LagSpec{}, nil
	case LagStrategyACF, LagStrategyACFNonSig, LagStrategyAMI:
		return StrategyLag(LagStrategy(token)), nil
	default:
		return LagSpec{}, fmt.Errorf("%w: unrecognized lag strategy %q", ErrInvalidParameter, token)
	}
}

// ResolveLag resolves the embedding lag for the scaled series. A fixed
// positive lag is returned after validation. Otherwise the requested
// strategy scans the autocorrelation or automutual-information function up
// to maxNLags lags; acfs and amis, when non-nil, are used directly instead
// of recomputing them. maxNLags values below 1 default to half the series
// length. Returns ErrLagNotFound when no lag qualifies within the scanned
// range.
func ResolveLag(scaled []float64, spec LagSpec, maxNLags int, acfs, amis []float64) (int, error) {
	if spec.Fixed != 0 {
		if spec.Fixed < 0 {
			return 0, fmt.Errorf("%w: lag must be positive (got %d)", ErrInvalidParameter, spec.Fixed)
		}

		return spec.Fixed, nil
	}

	strategy := spec.Strategy
	if strategy == "" {
		strategy = LagStrategyACFNonSig
	}

	if maxNLags < 1 {
		maxNLags = len(scaled) / 2
	}

	switch strategy {
	case LagStrategyACF:
		return firstNonPositiveACF(scaled, maxNLags, acfs)
	case LagStrategyACFNonSig:
		return firstNonSignificantACF(scaled, maxNLags, acfs)
	case LagStrategyAMI:
		return firstAMIMinimum(scaled, maxNLags, amis)
	default:
		return 0, fmt.Errorf("%w: unrecognized lag strategy %q", ErrInvalidParameter, strategy)
	}
}

// ResolveLagOrFallback resolves the lag like ResolveLag but recovers from
// ErrLagNotFound by falling back to lag 1. The second return reports
// whether the fallback path was taken, so callers are never silently
// handed a substituted lag.
func ResolveLagOrFallback(scaled []float64, spec LagSpec, maxNLags int, acfs, amis []float64) (int, bool, error) {
	lag, err := ResolveLag(scaled, spec, maxNLags, acfs, amis)
	if err != nil {
		if errors.Is(err, ErrLagNotFound) {
			return 1, true, nil
		}

		return 0, false, err
	}

	return lag, false, nil
}

func firstNonPositiveACF(scaled []float64, maxNLags int, acfs []float64) (int, error) {
	acfs, err := ensureACF(scaled, maxNLags, acfs)
	if err != nil {
		return 0, err
	}

	for i, r := range acfs {
		if r <= 0 {
			return i + 1, nil
		}
	}

	return 0, fmt.Errorf("%w: acf stays positive within %d lags", ErrLagNotFound, len(acfs))
}

func firstNonSignificantACF(scaled []float64, maxNLags int, acfs []float64) (int, error) {
	acfs, err := ensureACF(scaled, maxNLags, acfs)
	if err != nil {
		return 0, err
	}

	band := significanceZ / math.Sqrt(float64(len(scaled)))

	for i, r := range acfs {
		if math.Abs(r) < band {
			return i + 1, nil
		}
	}

	return 0, fmt.Errorf("%w: acf stays significant within %d lags", ErrLagNotFound, len(acfs))
}

func firstAMIMinimum(scaled []float64, maxNLags int, amis []float64) (int, error) {
	if amis == nil {
		var err error

		amis, err = autocorr.AMI(scaled, maxNLags, autocorr.DefaultAMIBins)
		if err != nil {
			return 0, fmt.Errorf("compute ami: %w", err)
		}
	}

	for i := 1; i < len(amis)-1; i++ {
		if amis[i] < amis[i-1] && amis[i] < amis[i+1] {
			return i + 1, nil
		}
	}

	return 0, fmt.Errorf("%w: no ami local minimum within %d lags", ErrLagNotFound, len(amis))
}

func ensureACF(scaled []float64, maxNLags int, acfs []float64) ([]float64, error) {
	if acfs != nil {
		return acfs, nil
	}

	acfs, err := autocorr.ACF(scaled, maxNLags)
	if err != nil {
		return nil, fmt.Errorf("compute acf: %w", err)
	}

	return acfs, nil
}
