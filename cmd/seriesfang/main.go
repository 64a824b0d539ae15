// Package main provides the entry point for the seriesfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/seriesfang/cmd/seriesfang/commands"
	"github.com/Sumatoshi-tech/seriesfang/pkg/version"
)

func main() {
	globals := &commands.GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "seriesfang",
		Short: "Seriesfang Time-Series Analysis - meta-feature extraction tool",
		Long: `Seriesfang extracts meta-features from scalar time series.

Commands:
  run       Extract feature groups from a series
  render    Render a stored feature report as HTML charts`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&globals.Quiet, "quiet", "q", false, "log warnings and errors only")

	rootCmd.AddCommand(commands.NewRunCommand(globals))
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "seriesfang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
