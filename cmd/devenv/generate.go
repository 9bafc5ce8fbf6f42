package main

import (
	"github.com/spf13/cobra"

	"devenv/internal/config"
	"devenv/internal/errors"
	"devenv/internal/express"
	"devenv/internal/generate"
	"devenv/internal/manifest"
	"devenv/internal/project"
)

var (
	generateDev         bool
	generatePort        int
	generateNodeVersion string
	generateForce       bool
	generateDryRun      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Generate Dockerfile and docker-compose.yml",
	Long: `Generate Docker artifacts from the detected configuration.

Values are taken from flags first, then .devenvrc, then detection; the port
falls back to 3000.

Examples:
  devenv generate                    # Write files into the current project
  devenv generate --dev=false        # Production image
  devenv generate --port 8080 --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateDev, "dev", true, "Generate a development setup (false for production)")
	generateCmd.Flags().IntVar(&generatePort, "port", 0, "Application port (default: detected, then 3000)")
	generateCmd.Flags().StringVar(&generateNodeVersion, "node-version", "", "Node.js image tag (default: .devenvrc, package.json engines, then 18-alpine)")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "Overwrite existing files")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Print files instead of writing them")
	rootCmd.AddCommand(generateCmd)
}

// GenerateResponseCLI is the output of the generate command
type GenerateResponseCLI struct {
	Root        string          `json:"projectRoot"`
	Mode        string          `json:"mode"`
	Port        int             `json:"port"`
	NodeVersion string          `json:"nodeVersion"`
	Services    []string        `json:"services"`
	DryRun      bool            `json:"dryRun"`
	Written     []string        `json:"written,omitempty"`
	Files       []GeneratedFile `json:"files,omitempty"`
}

// GeneratedFile is a rendered file shown by --dry-run
type GeneratedFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	catalog, err := s.catalog()
	if err != nil {
		return err
	}

	analysis, err := s.scan(ctx, catalog)
	if err != nil {
		return err
	}
	if !analysis.HasManifest {
		return errors.New(errors.NotFound, "a package.json is required to generate Docker files", analysis.ProjectRoot, nil)
	}
	if analysis.ProjectType != project.TypeExpress {
		s.logger.Warn("Project does not depend on express, generating a generic Node.js setup")
	}

	info, err := express.NewAnalyzer(nil).Analyze(ctx, s.root)
	if err != nil {
		return err
	}
	m, err := manifest.Read(nil, s.root)
	if err != nil {
		return err
	}

	cfg := applyGenerateFlags(cmd, *s.cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := generate.OptionsFrom(analysis, m, info, &cfg)
	opts.Catalog = catalog

	files, err := generate.Render(opts)
	if err != nil {
		return errors.New(errors.InternalError, "failed to render Docker files", "", err)
	}

	resp := &GenerateResponseCLI{
		Root:        s.root,
		Mode:        cfg.Mode,
		Port:        opts.Port,
		NodeVersion: opts.NodeVersion,
		Services:    serviceNames(analysis),
		DryRun:      generateDryRun,
	}

	if generateDryRun {
		for _, f := range files {
			resp.Files = append(resp.Files, GeneratedFile{Name: f.Name, Content: string(f.Content)})
		}
		return printResponse(cmd.OutOrStdout(), resp)
	}

	written, err := generate.Write(s.root, files, generateForce)
	if err != nil {
		return err
	}
	resp.Written = written
	s.logger.Info("Docker files written", "count", len(written))
	return printResponse(cmd.OutOrStdout(), resp)
}

// applyGenerateFlags overlays explicitly set flags on cfg.
func applyGenerateFlags(cmd *cobra.Command, cfg config.Config) config.Config {
	flags := cmd.Flags()
	if flags.Changed("dev") {
		cfg.Mode = config.ModeProduction
		if generateDev {
			cfg.Mode = config.ModeDevelopment
		}
	}
	if flags.Changed("port") {
		cfg.Port = generatePort
	}
	if flags.Changed("node-version") {
		cfg.NodeVersion = generateNodeVersion
	}
	return cfg
}

func serviceNames(analysis *project.Analysis) []string {
	names := []string{}
	seen := map[string]bool{}
	for _, d := range analysis.Environment.Services {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	return names
}
