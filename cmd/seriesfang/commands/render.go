package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seriesfang/pkg/plot"
	"github.com/Sumatoshi-tech/seriesfang/pkg/report"
)

const renderFilePerm = 0o644

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "render <report.json>",
		Short: "Render a stored feature report as HTML charts",
		Long: `Render the FNN, Cao, ACF, PACF, and AMI profiles from a JSON report
produced by "seriesfang run --format json".

Examples:
  seriesfang render report.json -o report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRender(args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "report.html", "output HTML file")

	return cmd
}

func runRender(reportPath, outputPath string) error {
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	if err := report.ValidateJSON(data); err != nil {
		return err
	}

	doc, err := report.DecodeJSON(data)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, renderFilePerm)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() { _ = out.Close() }()

	return plot.Render(out, doc)
}
