package project

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"devenv/internal/environment"
	"devenv/internal/errors"
	"devenv/internal/fsprobe"
	"devenv/internal/manifest"
	"devenv/internal/slogutil"
)

// ProjectType is the classification of a scanned project.
type ProjectType string

const (
	// TypeExpress marks a project that declares express in dependencies.
	TypeExpress ProjectType = "express"
	// TypeUnknown is every other project.
	TypeUnknown ProjectType = "unknown"
)

// FrameworkPackage is the dependency that makes a project TypeExpress.
const FrameworkPackage = "express"

// Analysis is the result of a single scan.
type Analysis struct {
	ProjectType  ProjectType        `json:"projectType"`
	HasManifest  bool               `json:"hasPackageJson"`
	Dependencies manifest.Info      `json:"dependencies"`
	ProjectRoot  string             `json:"projectRoot"`
	Language     Language           `json:"language"`
	Environment  environment.Config `json:"environment"`
}

// EnvironmentAnalyzer produces the environment block of an Analysis.
type EnvironmentAnalyzer interface {
	Analyze(ctx context.Context, root string) (*environment.Config, error)
}

// Scanner classifies project directories.
type Scanner struct {
	fs     fsprobe.Reader
	env    EnvironmentAnalyzer
	logger *slog.Logger
}

// NewScanner creates a scanner. nil arguments select the OS reader, an
// environment analyzer with the built-in service catalog and a discard logger.
func NewScanner(fsys fsprobe.Reader, env EnvironmentAnalyzer, logger *slog.Logger) *Scanner {
	fsys = fsprobe.OrDefault(fsys)
	if env == nil {
		env = environment.NewAnalyzer(fsys, nil)
	}
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Scanner{fs: fsys, env: env, logger: logger}
}

// Scan analyzes the project at path. A manifest that cannot be read or parsed
// fails the scan; an environment analysis failure is logged and replaced by
// environment.Empty(). A canceled ctx fails the scan with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, path string) (*Analysis, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to resolve project path", path, err)
	}

	logger := s.logger.With("scan_id", uuid.NewString(), "root", root)
	logger.Debug("Scanning project")

	result := &Analysis{
		ProjectType:  TypeUnknown,
		ProjectRoot:  root,
		Dependencies: manifest.EmptyInfo(),
		Language:     LangUnknown,
	}
	result.HasManifest = s.fs.Exists(filepath.Join(root, manifest.FileName))

	var (
		m   *manifest.Manifest
		env environment.Config
	)

	// The environment analysis gets the caller's context: a failing manifest
	// read must not cancel it into a spurious warning.
	var g errgroup.Group
	if result.HasManifest {
		g.Go(func() error {
			var readErr error
			m, readErr = manifest.Read(s.fs, root)
			return readErr
		})
	}
	g.Go(func() error {
		var envErr error
		env, envErr = s.analyzeEnvironment(ctx, root, logger)
		return envErr
	})
	if err := g.Wait(); err != nil {
		logger.Debug("Scan failed", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Environment = env
	if m != nil {
		result.Dependencies = m.Info()
		result.Language = detectJSorTS(s.fs, root)
		if _, ok := m.Dependencies[FrameworkPackage]; ok {
			result.ProjectType = TypeExpress
		}
	}

	logger.Debug("Scan complete",
		"projectType", string(result.ProjectType),
		"hasManifest", result.HasManifest,
		"services", len(result.Environment.Services),
	)
	return result, nil
}

// analyzeEnvironment degrades analysis errors to environment.Empty(). Only
// cancellation of ctx is returned.
func (s *Scanner) analyzeEnvironment(ctx context.Context, root string, logger *slog.Logger) (environment.Config, error) {
	cfg, err := s.env.Analyze(ctx, root)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return environment.Config{}, ctxErr
		}
		logger.Warn("Environment analysis failed, using defaults", "error", err.Error())
		return environment.Empty(), nil
	}
	if cfg == nil {
		return environment.Empty(), nil
	}
	return *cfg, nil
}
