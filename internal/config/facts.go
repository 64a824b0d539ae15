package config

// positive constrains types eligible for skip-on-zero fact application.
type positive interface {
	~int | ~float64
}

// applyPositive sets facts[key] = value when value is positive.
// Zero values are skipped, allowing the extractor to use its built-in default.
func applyPositive[T positive](facts map[string]any, key string, value T) {
	if value > 0 {
		facts[key] = value
	}
}

// applyNonEmpty sets facts[key] = value when value is non-empty.
func applyNonEmpty(facts map[string]any, key, value string) {
	if value != "" {
		facts[key] = value
	}
}

// ApplyToFacts merges config values into the extractor facts map.
// Only non-zero config values override existing facts; zero values
// indicate "use extractor default" and are skipped.
func (c *Config) ApplyToFacts(facts map[string]any) {
	g := c.Features.General

	applyPositive(facts, "General.WalkerStepSize", g.WalkerStepSize)
	applyPositive(facts, "General.AbsorptionRate", g.AbsorptionRate)
	applyPositive(facts, "General.DecayRate", g.DecayRate)
	applyPositive(facts, "General.NumBins", g.NumBins)

	e := c.Features.Embed

	applyNonEmpty(facts, "Embed.Lag", e.Lag)
	applyPositive(facts, "Embed.MaxDim", e.MaxDim)
	applyPositive(facts, "Embed.RTol", e.RTol)
	applyPositive(facts, "Embed.ATol", e.ATol)
	applyPositive(facts, "Embed.CaoTol", e.CaoTol)

	a := c.Features.Autocorr

	applyPositive(facts, "Autocorr.NLags", a.NLags)
	applyPositive(facts, "Autocorr.AMIBins", a.AMIBins)

	applyPositive(facts, "Model.TrainFraction", c.Features.Model.TrainFraction)
}
