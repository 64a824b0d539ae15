package features

import (
	"context"
	"fmt"
	"math"

	"github.com/Sumatoshi-tech/seriesfang/pkg/embed"
)

// Configuration keys for the embedding group.
const (
	ConfigEmbedLag    = "Embed.Lag"
	ConfigEmbedMaxDim = "Embed.MaxDim"
	ConfigEmbedRTol   = "Embed.RTol"
	ConfigEmbedATol   = "Embed.ATol"
	ConfigEmbedCaoTol = "Embed.CaoTol"
)

// DefaultCaoTol is the E1 plateau threshold for the Cao minimum dimension.
const DefaultCaoTol = 0.05

func init() {
	Register("embed", func() Extractor { return NewEmbedExtractor() })
}

// EmbedExtractor computes the phase-space reconstruction group: the
// resolved embedding lag, the false-nearest-neighbor profile, and the Cao
// E1/E2 profiles with the derived minimum embedding dimension.
type EmbedExtractor struct {
	Lag    embed.LagSpec
	MaxDim int
	RTol   float64
	ATol   float64
	CaoTol float64
}

// NewEmbedExtractor creates the group with default settings.
func NewEmbedExtractor() *EmbedExtractor {
	return &EmbedExtractor{
		MaxDim: embed.DefaultMaxDim,
		RTol:   embed.DefaultRTol,
		ATol:   embed.DefaultATol,
		CaoTol: DefaultCaoTol,
	}
}

// Name returns the extractor name.
func (e *EmbedExtractor) Name() string { return "Embedding" }

// Flag returns the CLI flag for the extractor.
func (e *EmbedExtractor) Flag() string { return "embed" }

// Description returns a one-line summary.
func (e *EmbedExtractor) Description() string {
	return "Phase-space reconstruction: lag selection, false nearest neighbors, and Cao dimension profiles."
}

// Configure applies settings from the facts map.
func (e *EmbedExtractor) Configure(facts map[string]any) error {
	if v, ok := facts[ConfigEmbedLag].(string); ok && v != "" {
		spec, err := embed.ParseLagSpec(v)
		if err != nil {
			return fmt.Errorf("lag spec: %w", err)
		}

		e.Lag = spec
	}

	if v, ok := facts[ConfigEmbedMaxDim].(int); ok {
		e.MaxDim = v
	}

	if v, ok := facts[ConfigEmbedRTol].(float64); ok {
		e.RTol = v
	}

	if v, ok := facts[ConfigEmbedATol].(float64); ok {
		e.ATol = v
	}

	if v, ok := facts[ConfigEmbedCaoTol].(float64); ok {
		e.CaoTol = v
	}

	if e.MaxDim < 1 {
		return fmt.Errorf("%w: max dimension must be positive (got %d)", embed.ErrInvalidParameter, e.MaxDim)
	}

	return nil
}

// Extract computes the embedding feature group.
func (e *EmbedExtractor) Extract(_ context.Context, sc *Context) (Report, error) {
	lag, fellBack, err := embed.ResolveLagOrFallback(sc.Scaled, e.Lag, len(sc.ACF), sc.ACF, sc.AMI)
	if err != nil {
		return nil, fmt.Errorf("resolve lag: %w", err)
	}

	report := Report{
		"lag":          lag,
		"lag_fallback": fellBack,
	}

	dims := embed.DimRange(e.MaxDim)

	fnn, err := embed.FNNProfile(sc.Raw, lag, dims, e.RTol, e.ATol, sc.Scaled)
	if err != nil {
		return nil, fmt.Errorf("fnn profile: %w", err)
	}

	report["fnn_prop"] = fnn

	e1, e2, err := embed.CaoProfile(sc.Raw, lag, dims, sc.Scaled)
	if err != nil {
		return nil, fmt.Errorf("cao profile: %w", err)
	}

	report["cao_e1"] = e1
	report["cao_e2"] = e2
	report["emb_dim_cao"] = caoMinDimension(e1, e.CaoTol)

	return report, nil
}

// caoMinDimension returns the first dimension where the E1 profile
// plateaus: the smallest d with |E1(d+1) - E1(d)| at or below tol. A
// profile that never plateaus (or is too short to difference) reports
// dimension 1.
func caoMinDimension(e1 []float64, tol float64) int {
	for i := 1; i < len(e1); i++ {
		diff := math.Abs(e1[i] - e1[i-1])

		if diff <= tol {
			return i
		}
	}

	return 1
}
