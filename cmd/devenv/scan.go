package main

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan a project directory",
	Long: `Classify a project: manifest presence, dependencies, language, environment
variables from .env and the services implied by .env.example.

Examples:
  devenv scan                 # Scan the current directory
  devenv scan ./api --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	catalog, err := s.catalog()
	if err != nil {
		return err
	}

	analysis, err := s.scan(commandContext(cmd), catalog)
	if err != nil {
		return err
	}
	return printResponse(cmd.OutOrStdout(), analysis)
}
