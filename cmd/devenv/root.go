package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"devenv/internal/version"
)

var (
	// verbosity counts -v flags
	verbosity int
	quiet     bool
	logFile   string
	// outputFormat is the --format flag value
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "devenv",
	Short: "devenv - development environments for Node.js projects",
	Long: `devenv inspects a Node.js/Express project (package.json, .env, .env.example and
the entry point) and generates a Dockerfile and docker-compose.yml with the backing
services the project needs. It never runs Docker or npm.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch OutputFormat(outputFormat) {
		case FormatJSON, FormatHuman:
			return nil
		default:
			return fmt.Errorf("unsupported format: %s", outputFormat)
		}
	},
}

func init() {
	rootCmd.SetVersionTemplate("devenv version {{.Version}}\n")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write debug logs to this file")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", string(FormatHuman), "Output format (json, human)")
}
