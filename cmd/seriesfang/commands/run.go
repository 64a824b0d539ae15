// Package commands implements CLI command handlers for seriesfang.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seriesfang/internal/cache"
	"github.com/Sumatoshi-tech/seriesfang/internal/config"
	"github.com/Sumatoshi-tech/seriesfang/internal/observability"
	"github.com/Sumatoshi-tech/seriesfang/pkg/features"
	"github.com/Sumatoshi-tech/seriesfang/pkg/report"
	"github.com/Sumatoshi-tech/seriesfang/pkg/version"
)

// Output format identifiers.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// ErrUnknownFormat indicates an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format")

// GlobalFlags carries the persistent root-command flags into the
// subcommand handlers.
type GlobalFlags struct {
	Verbose bool
	Quiet   bool
}

// RunCommand holds configuration and dependencies for the run command.
type RunCommand struct {
	globals    *GlobalFlags
	configPath string
	extractors []string
	format     string
	outputPath string
	column     string
	noColor    bool
	noCache    bool
	workers    int
}

// NewRunCommand creates the run subcommand.
func NewRunCommand(globals *GlobalFlags) *cobra.Command {
	rc := &RunCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "run <series.csv|->",
		Short: "Extract feature groups from a scalar time series",
		Long: `Run the registered extractor groups over a series loaded from CSV.

Examples:
  seriesfang run prices.csv
  seriesfang run -e embed,autocorr --format json prices.csv
  seriesfang run --column close --format yaml - < prices.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rc.run(cmd.Context(), args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&rc.configPath, "config", "", "path to config file (default: .seriesfang.yaml)")
	cmd.Flags().StringSliceVarP(&rc.extractors, "extractors", "e", nil, "extractor groups to run (default: all)")
	cmd.Flags().StringVarP(&rc.format, "format", "f", formatTable, "output format: table, json, yaml")
	cmd.Flags().StringVarP(&rc.outputPath, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringVar(&rc.column, "column", "", "CSV column to analyze (name or index; default: first)")
	cmd.Flags().BoolVar(&rc.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&rc.noCache, "no-cache", false, "bypass the report cache")
	cmd.Flags().IntVar(&rc.workers, "workers", 0, "max parallel extractor groups (default: from config)")

	return cmd
}

func (rc *RunCommand) run(ctx context.Context, inputPath string, stdout io.Writer) error {
	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return err
	}

	providers, err := rc.setupObservability(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = providers.Shutdown(ctx) }()

	metrics, err := observability.NewExtractionMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	name, ts, err := LoadSeries(inputPath, rc.column)
	if err != nil {
		return err
	}

	providers.Logger.Info("loaded series", "name", name, "length", len(ts))

	flags := rc.selectFlags(cfg)

	facts := make(map[string]any)
	cfg.ApplyToFacts(facts)

	doc, err := rc.extract(ctx, cfg, metrics, providers, name, ts, flags, facts)
	if err != nil {
		return err
	}

	return rc.write(doc, stdout)
}

// extract runs the groups, consulting the report cache first.
func (rc *RunCommand) extract(
	ctx context.Context,
	cfg *config.Config,
	metrics *observability.ExtractionMetrics,
	providers observability.Providers,
	name string,
	ts []float64,
	flags []string,
	facts map[string]any,
) (*report.Document, error) {
	digest := cache.Digest(ts, flags, facts)

	var store *cache.Store

	if cfg.Cache.Enabled && !rc.noCache {
		var err error

		store, err = cache.NewStore(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}

		if data, err := store.Get(digest); err == nil {
			metrics.RecordCache(ctx, true)
			providers.Logger.Debug("report cache hit", "digest", digest)

			return report.DecodeJSON(data)
		}

		metrics.RecordCache(ctx, false)
	}

	sc, err := features.NewContext(ts, cfg.Run.MaxNLags, cfg.Run.AMIBins)
	if err != nil {
		return nil, fmt.Errorf("prepare series: %w", err)
	}

	workers := rc.workers
	if workers <= 0 {
		workers = cfg.Run.Workers
	}

	started := time.Now()

	groups, err := features.RunAll(ctx, sc, flags, facts, workers)

	elapsed := time.Since(started)
	metrics.RecordGroup(ctx, "run", elapsed, err)

	if err != nil {
		return nil, err
	}

	metrics.RecordSeries(ctx)
	providers.Logger.Info("extraction complete",
		"groups", len(groups), "elapsed", elapsed)

	doc := report.NewDocument(name, len(ts), digest, groups)

	if store != nil {
		if err := rc.cachePut(store, digest, doc); err != nil {
			providers.Logger.Warn("cache write failed", "error", err)
		}
	}

	return doc, nil
}

func (rc *RunCommand) cachePut(store *cache.Store, digest string, doc *report.Document) error {
	data, err := doc.EncodeJSON()
	if err != nil {
		return err
	}

	return store.Put(digest, data)
}

// selectFlags picks the groups to run: CLI flag, then config, then all.
func (rc *RunCommand) selectFlags(cfg *config.Config) []string {
	if len(rc.extractors) > 0 {
		return slices.Clone(rc.extractors)
	}

	if len(cfg.Extractors) > 0 {
		return slices.Clone(cfg.Extractors)
	}

	return features.Flags()
}

func (rc *RunCommand) write(doc *report.Document, stdout io.Writer) error {
	var (
		data []byte
		err  error
	)

	switch rc.format {
	case formatJSON:
		data, err = doc.EncodeJSON()
		if err == nil {
			err = report.ValidateJSON(data)
		}
	case formatYAML:
		data, err = doc.EncodeYAML()
	case formatTable:
		formatter := report.NewFormatter(report.FormatConfig{
			ShowTables: true,
			NoColor:    rc.noColor,
		})
		data = []byte(formatter.Format(doc) + "\n")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, rc.format)
	}

	if err != nil {
		return err
	}

	if rc.outputPath == "" {
		_, writeErr := stdout.Write(data)

		return writeErr
	}

	return os.WriteFile(rc.outputPath, data, 0o644)
}

// setupObservability initializes telemetry and, when enabled, the
// Prometheus scrape endpoint.
func (rc *RunCommand) setupObservability(cfg *config.Config) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version

	if rc.globals != nil {
		if rc.globals.Verbose {
			obsCfg.LogLevel = slog.LevelDebug
		}

		if rc.globals.Quiet {
			obsCfg.LogLevel = slog.LevelWarn
		}
	}

	if cfg.Observability.Enabled {
		obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	if cfg.Observability.Enabled && cfg.Observability.PrometheusPort > 0 {
		handler, meter, promErr := observability.PrometheusHandler()
		if promErr != nil {
			return observability.Providers{}, promErr
		}

		// Route the run's instruments through the scrape-backed meter.
		providers.Meter = meter

		go func() {
			addr := fmt.Sprintf(":%d", cfg.Observability.PrometheusPort)

			mux := http.NewServeMux()
			mux.Handle("/metrics", handler)

			if serveErr := http.ListenAndServe(addr, mux); serveErr != nil {
				providers.Logger.Warn("metrics endpoint stopped", "error", serveErr)
			}
		}()
	}

	if rc.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	return providers, nil
}
