package main

import (
	"github.com/spf13/cobra"

	"github.com/tabled-dev/tabled/internal/api"
	"github.com/tabled-dev/tabled/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tabled",
	Short: "LLM-powered table transformation service",
	Long: `Tabled turns natural-language instructions into table transformations.

A request pairs an instruction ("categorize each name by likely
nationality") with a JSON table. The server classifies the intent, asks a
generative model to transform the data, and resiliently parses the reply
back into a table plus an explanation. The caller's data is never lost:
any failure returns the original table unchanged.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.tabled/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
