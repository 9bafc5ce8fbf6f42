package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"devenv/internal/config"
	"devenv/internal/errors"
	"devenv/internal/express"
)

var (
	configInitMode        string
	configInitPort        int
	configInitNodeVersion string
	configInitForce       bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage devenv configuration",
	Long:  "View and create the per-project .devenvrc settings file",
}

var configShowCmd = &cobra.Command{
	Use:   "show [dir]",
	Short: "Show the effective configuration",
	Long: `Display the configuration devenv uses for a project: .devenvrc values merged
over the defaults, with DEVENV_* environment overrides applied.

Examples:
  devenv config show
  devenv config show ./api --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a .devenvrc.json for the project",
	Long: `Create .devenvrc.json from the defaults, the detected port and the given flags.

Examples:
  devenv config init
  devenv config init --mode production --port 8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVar(&configInitMode, "mode", config.ModeDevelopment, "Environment mode (development, production)")
	configInitCmd.Flags().IntVar(&configInitPort, "port", 0, "Application port (default: detected)")
	configInitCmd.Flags().StringVar(&configInitNodeVersion, "node-version", "", "Node.js image tag (default: detect from package.json engines)")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing .devenvrc.json")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the response format for config show
type ConfigShowResponse struct {
	ConfigPath   string         `json:"configPath,omitempty"`
	UsedDefaults bool           `json:"usedDefaults"`
	Problems     []string       `json:"problems,omitempty"`
	Config       *config.Config `json:"config"`
}

// ConfigInitResponse is the response format for config init
type ConfigInitResponse struct {
	ConfigPath string         `json:"configPath"`
	Config     *config.Config `json:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	result, err := config.LoadConfigWithDetails(s.root)
	if err != nil {
		return err
	}

	resp := &ConfigShowResponse{
		ConfigPath:   result.ConfigPath,
		UsedDefaults: result.UsedDefaults,
		Config:       result.Config,
	}
	for _, p := range result.Config.Problems() {
		resp.Problems = append(resp.Problems, p.Error())
	}
	return printResponse(cmd.OutOrStdout(), resp)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	path := config.Path(s.root)
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.New(errors.FileExists, "configuration already exists", path, nil)
	}

	cfg := config.DefaultConfig()
	cfg.Mode = configInitMode
	cfg.NodeVersion = configInitNodeVersion
	cfg.Port = configInitPort
	if cfg.Port == 0 {
		cfg.Port = detectPort(commandContext(cmd), s.root)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(s.root); err != nil {
		return err
	}
	s.logger.Info("Configuration written", "path", path)
	return printResponse(cmd.OutOrStdout(), &ConfigInitResponse{ConfigPath: path, Config: cfg})
}

// detectPort returns the Express port of the project, or 0.
func detectPort(ctx context.Context, root string) int {
	info, err := express.NewAnalyzer(nil).Analyze(ctx, root)
	if err != nil {
		return 0
	}
	return info.Port
}
