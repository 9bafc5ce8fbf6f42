package main

import (
	"github.com/spf13/cobra"

	"devenv/internal/express"
	"devenv/internal/frameworks"
)

var analyzeFrameworks bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Analyze an Express.js project",
	Long: `Report the Express version, entry point, listening port, middleware and
TypeScript usage of a project.

Examples:
  devenv analyze
  devenv analyze ./api --frameworks   # Also list other known frameworks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeFrameworks, "frameworks", false, "Also detect other known frameworks")
	rootCmd.AddCommand(analyzeCmd)
}

// AnalyzeResponseCLI is the output of the analyze command
type AnalyzeResponseCLI struct {
	Root       string                 `json:"projectRoot"`
	Express    *express.Info          `json:"express"`
	Frameworks []frameworks.Framework `json:"frameworks,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	info, err := express.NewAnalyzer(nil).Analyze(commandContext(cmd), s.root)
	if err != nil {
		return err
	}
	s.logger.Info("Express analysis complete", "detected", info.Detected, "port", info.Port)

	resp := &AnalyzeResponseCLI{Root: s.root, Express: info}
	if analyzeFrameworks {
		resp.Frameworks = frameworks.DetectProject(nil, s.root)
	}
	return printResponse(cmd.OutOrStdout(), resp)
}
