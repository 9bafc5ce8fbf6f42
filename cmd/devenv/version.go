package main

import (
	"github.com/spf13/cobra"

	"devenv/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResponse(cmd.OutOrStdout(), version.Build())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
