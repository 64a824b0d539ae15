package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "zero_config_passes", mutate: func(c *Config) {}},
		{
			name:    "negative_workers",
			mutate:  func(c *Config) { c.Run.Workers = -1 },
			wantErr: ErrInvalidWorkers,
		},
		{
			name:    "negative_max_nlags",
			mutate:  func(c *Config) { c.Run.MaxNLags = -5 },
			wantErr: ErrInvalidMaxNLags,
		},
		{
			name:    "one_ami_bin",
			mutate:  func(c *Config) { c.Run.AMIBins = 1 },
			wantErr: ErrInvalidAMIBins,
		},
		{
			name:    "absorption_rate_at_one",
			mutate:  func(c *Config) { c.Features.General.AbsorptionRate = 1 },
			wantErr: ErrInvalidRate,
		},
		{
			name:    "negative_decay_rate",
			mutate:  func(c *Config) { c.Features.General.DecayRate = -0.1 },
			wantErr: ErrInvalidRate,
		},
		{
			name:    "negative_max_dim",
			mutate:  func(c *Config) { c.Features.Embed.MaxDim = -1 },
			wantErr: ErrInvalidMaxDim,
		},
		{
			name:    "negative_rtol",
			mutate:  func(c *Config) { c.Features.Embed.RTol = -1 },
			wantErr: ErrInvalidTolerance,
		},
		{
			name:    "train_fraction_at_one",
			mutate:  func(c *Config) { c.Features.Model.TrainFraction = 1 },
			wantErr: ErrInvalidTrainFraction,
		},
		{
			name:    "prometheus_port_out_of_range",
			mutate:  func(c *Config) { c.Observability.PrometheusPort = 70000 },
			wantErr: ErrInvalidPrometheusPort,
		},
		{
			name: "populated_config_passes",
			mutate: func(c *Config) {
				c.Run.Workers = 8
				c.Run.AMIBins = 16
				c.Features.General.AbsorptionRate = 0.2
				c.Features.Embed.MaxDim = 12
				c.Features.Model.TrainFraction = 0.8
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var cfg Config

			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestApplyToFacts(t *testing.T) {
	t.Parallel()

	t.Run("zero_values_skipped", func(t *testing.T) {
		t.Parallel()

		var cfg Config

		facts := map[string]any{}
		cfg.ApplyToFacts(facts)

		assert.Empty(t, facts)
	})

	t.Run("set_values_applied", func(t *testing.T) {
		t.Parallel()

		cfg := Config{
			Features: FeaturesConfig{
				General:  GeneralConfig{WalkerStepSize: 0.3, NumBins: 20},
				Embed:    EmbedConfig{Lag: "ami", MaxDim: 8},
				Autocorr: AutocorrConfig{NLags: 7},
				Model:    ModelConfig{TrainFraction: 0.8},
			},
		}

		facts := map[string]any{}
		cfg.ApplyToFacts(facts)

		assert.Equal(t, map[string]any{
			"General.WalkerStepSize": 0.3,
			"General.NumBins":        20,
			"Embed.Lag":              "ami",
			"Embed.MaxDim":           8,
			"Autocorr.NLags":         7,
			"Model.TrainFraction":    0.8,
		}, facts)
	})
}
