package features

import (
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/seriesfang/pkg/embed"
	"github.com/Sumatoshi-tech/seriesfang/pkg/models"
)

// Configuration keys for the model group.
const (
	ConfigModelTrainFraction = "Model.TrainFraction"
)

// DefaultTrainFraction is the leading share of the series used to fit the
// baselines; the trailing remainder is the holdout.
const DefaultTrainFraction = 0.75

func init() {
	Register("model", func() Extractor { return NewModelExtractor() })
}

// ModelExtractor scores the naive forecasting baselines: each is fit on
// the leading portion of the raw series and its SMAPE on the holdout tail
// becomes a feature. The scores measure how much trivial structure the
// series carries, not forecasting quality.
type ModelExtractor struct {
	TrainFraction float64
}

// NewModelExtractor creates the group with default settings.
func NewModelExtractor() *ModelExtractor {
	return &ModelExtractor{TrainFraction: DefaultTrainFraction}
}

// Name returns the extractor name.
func (e *ModelExtractor) Name() string { return "Model" }

// Flag returns the CLI flag for the extractor.
func (e *ModelExtractor) Flag() string { return "model" }

// Description returns a one-line summary.
func (e *ModelExtractor) Description() string {
	return "Holdout SMAPE of the naive, drift, seasonal, and local-statistic baselines."
}

// Configure applies settings from the facts map.
func (e *ModelExtractor) Configure(facts map[string]any) error {
	if v, ok := facts[ConfigModelTrainFraction].(float64); ok {
		e.TrainFraction = v
	}

	if e.TrainFraction <= 0 || e.TrainFraction >= 1 {
		return fmt.Errorf("%w: train fraction must be in (0, 1) (got %g)", embed.ErrInvalidParameter, e.TrainFraction)
	}

	return nil
}

// Extract fits every baseline and reports its holdout SMAPE. Baselines
// whose preconditions fail on this series (too short, period too long)
// are skipped rather than failing the group.
func (e *ModelExtractor) Extract(_ context.Context, sc *Context) (Report, error) {
	cut := int(float64(len(sc.Raw)) * e.TrainFraction)
	if cut < 2 || cut >= len(sc.Raw) {
		return nil, fmt.Errorf("%w: series too short for a %g train split", embed.ErrInvalidInput, e.TrainFraction)
	}

	train, test := sc.Raw[:cut], sc.Raw[cut:]

	indices := make([]int, len(test))
	for i := range indices {
		indices[i] = cut + i
	}

	baselines := map[string]models.Forecaster{
		"smape_naive":        &models.Naive{},
		"smape_naive_drift":  &models.NaiveDrift{},
		"smape_naive_season": models.NewNaiveSeasonal(sc.Period),
		"smape_local_mean":   models.NewLocalMean(),
		"smape_local_median": models.NewLocalMedian(),
	}

	report := Report{}

	for name, model := range baselines {
		if err := model.Fit(train); err != nil {
			continue
		}

		forecast, err := model.Predict(indices)
		if err != nil {
			continue
		}

		report[name] = models.SMAPE(test, forecast)
	}

	return report, nil
}
