package config

import "errors"

// Config is the top-level configuration struct for seriesfang.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Extractors    []string            `mapstructure:"extractors"`
	Run           RunConfig           `mapstructure:"run"`
	Features      FeaturesConfig      `mapstructure:"features"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// RunConfig holds execution-wide knobs shared by every extractor group.
type RunConfig struct {
	Workers  int `mapstructure:"workers"`
	MaxNLags int `mapstructure:"max_nlags"`
	AMIBins  int `mapstructure:"ami_bins"`
}

// FeaturesConfig holds per-group extractor settings.
type FeaturesConfig struct {
	General  GeneralConfig  `mapstructure:"general"`
	Embed    EmbedConfig    `mapstructure:"embed"`
	Autocorr AutocorrConfig `mapstructure:"autocorr"`
	Model    ModelConfig    `mapstructure:"model"`
}

// GeneralConfig holds general group settings.
type GeneralConfig struct {
	WalkerStepSize float64 `mapstructure:"walker_step_size"`
	AbsorptionRate float64 `mapstructure:"absorption_rate"`
	DecayRate      float64 `mapstructure:"decay_rate"`
	NumBins        int     `mapstructure:"num_bins"`
}

// EmbedConfig holds embedding group settings. Lag accepts a positive
// integer or a strategy name (acf, acf-nonsig, ami).
type EmbedConfig struct {
	Lag    string  `mapstructure:"lag"`
	MaxDim int     `mapstructure:"max_dim"`
	RTol   float64 `mapstructure:"rtol"`
	ATol   float64 `mapstructure:"atol"`
	CaoTol float64 `mapstructure:"cao_tol"`
}

// AutocorrConfig holds autocorrelation group settings.
type AutocorrConfig struct {
	NLags   int `mapstructure:"nlags"`
	AMIBins int `mapstructure:"ami_bins"`
}

// ModelConfig holds model group settings.
type ModelConfig struct {
	TrainFraction float64 `mapstructure:"train_fraction"`
}

// CacheConfig holds report cache settings.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// ObservabilityConfig holds metrics and tracing settings.
type ObservabilityConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Default configuration values.
const (
	DefaultRunWorkers  = 4
	DefaultRunMaxNLags = 0 // 0 means half the series length
	DefaultRunAMIBins  = 10

	DefaultCacheEnabled = false
	DefaultCacheDir     = ".seriesfang-cache"

	DefaultObservabilityEnabled = false
	DefaultPrometheusPort       = 9464
)

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWorkers indicates the workers value is negative.
	ErrInvalidWorkers = errors.New("run.workers must be non-negative")
	// ErrInvalidMaxNLags indicates a negative lag count.
	ErrInvalidMaxNLags = errors.New("run.max_nlags must be non-negative")
	// ErrInvalidAMIBins indicates a bin count below 2.
	ErrInvalidAMIBins = errors.New("run.ami_bins must be at least 2")
	// ErrInvalidRate indicates an absorption or decay rate outside (0, 1).
	ErrInvalidRate = errors.New("features.general rates must be in (0, 1)")
	// ErrInvalidMaxDim indicates a non-positive embedding dimension cap.
	ErrInvalidMaxDim = errors.New("features.embed.max_dim must be positive")
	// ErrInvalidTolerance indicates a non-positive FNN tolerance.
	ErrInvalidTolerance = errors.New("features.embed tolerances must be positive")
	// ErrInvalidTrainFraction indicates a train fraction outside (0, 1).
	ErrInvalidTrainFraction = errors.New("features.model.train_fraction must be in (0, 1)")
	// ErrInvalidPrometheusPort indicates a port outside the valid range.
	ErrInvalidPrometheusPort = errors.New("observability.prometheus_port must be in (0, 65536)")
)

const maxPort = 65535

// Validate checks cross-field constraints that viper cannot express.
// Zero values mean "use the extractor default" and pass validation.
func (c *Config) Validate() error {
	if err := c.validateRun(); err != nil {
		return err
	}

	if err := c.validateFeatures(); err != nil {
		return err
	}

	if c.Observability.PrometheusPort < 0 || c.Observability.PrometheusPort > maxPort {
		return ErrInvalidPrometheusPort
	}

	return nil
}

func (c *Config) validateRun() error {
	if c.Run.Workers < 0 {
		return ErrInvalidWorkers
	}

	if c.Run.MaxNLags < 0 {
		return ErrInvalidMaxNLags
	}

	if c.Run.AMIBins != 0 && c.Run.AMIBins < 2 {
		return ErrInvalidAMIBins
	}

	return nil
}

func (c *Config) validateFeatures() error {
	g := c.Features.General

	if g.AbsorptionRate < 0 || g.AbsorptionRate >= 1 || g.DecayRate < 0 || g.DecayRate >= 1 {
		return ErrInvalidRate
	}

	e := c.Features.Embed

	if e.MaxDim < 0 {
		return ErrInvalidMaxDim
	}

	if e.RTol < 0 || e.ATol < 0 {
		return ErrInvalidTolerance
	}

	m := c.Features.Model

	if m.TrainFraction < 0 || m.TrainFraction >= 1 {
		return ErrInvalidTrainFraction
	}

	return nil
}
