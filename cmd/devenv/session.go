package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"devenv/internal/config"
	"devenv/internal/environment"
	"devenv/internal/errors"
	"devenv/internal/project"
	"devenv/internal/services"
	"devenv/internal/slogutil"
)

// session holds what every project command needs: the resolved project root,
// its .devenvrc settings and a logger.
type session struct {
	root    string
	cfg     *config.Config
	logger  *slog.Logger
	factory *slogutil.LoggerFactory
}

// newSession resolves the project directory from args (default ".").
func newSession(cmd *cobra.Command, args []string) (*session, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to resolve project path", dir, err)
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.NotFound, "project directory not found", root, err)
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	factory := slogutil.NewLoggerFactory(slogutil.Options{
		Verbosity:   verbosity,
		Quiet:       quiet,
		ConfigLevel: cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		LogFile:     logFile,
	})
	logger, err := factory.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, errors.New(errors.WriteFailure, "failed to open log file", logFile, err)
	}

	return &session{root: root, cfg: cfg, logger: logger, factory: factory}, nil
}

// Close releases log files.
func (s *session) Close() error {
	return s.factory.Close()
}

// catalog loads the service catalog, including SERVICES.toml declarations.
func (s *session) catalog() (*services.Catalog, error) {
	catalog, err := services.LoadCatalog(s.root)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Service catalog loaded", "patterns", len(catalog.Patterns()))
	return catalog, nil
}

// scan runs the project scanner against the session root.
func (s *session) scan(ctx context.Context, catalog *services.Catalog) (*project.Analysis, error) {
	env := environment.NewAnalyzer(nil, services.NewEngine(catalog))
	return project.NewScanner(nil, env, s.logger).Scan(ctx, s.root)
}

// commandContext returns the command context, or Background when the command
// runs without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printResponse formats resp with the --format flag and writes it to w.
func printResponse(w io.Writer, resp interface{}) error {
	output, err := FormatResponse(resp, OutputFormat(outputFormat))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, output+"\n")
	return err
}
