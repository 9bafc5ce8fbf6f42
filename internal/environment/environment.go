// Package environment analyzes a project's .env and .env.example files.
package environment

import (
	"context"
	"path/filepath"

	"devenv/internal/envfile"
	"devenv/internal/errors"
	"devenv/internal/fsprobe"
	"devenv/internal/services"
)

const (
	// PrimaryFile holds the variables used by the project.
	PrimaryFile = ".env"
	// ExampleFile is the template used for service inference.
	ExampleFile = ".env.example"
)

// Config is the environment configuration of a project. Variables come from
// PrimaryFile only; Services come from ExampleFile only.
type Config struct {
	Variables map[string]string     `json:"variables"`
	HasFile   bool                  `json:"hasEnvFile"`
	Services  []services.Descriptor `json:"services"`
}

// Empty returns the configuration used when nothing could be analyzed.
func Empty() Config {
	return Config{
		Variables: map[string]string{},
		HasFile:   false,
		Services:  []services.Descriptor{},
	}
}

// Analyzer reads environment files through a fsprobe.Reader.
type Analyzer struct {
	fs     fsprobe.Reader
	engine *services.Engine
}

// NewAnalyzer creates an analyzer. nil arguments select the OS reader and the
// built-in service catalog.
func NewAnalyzer(fsys fsprobe.Reader, engine *services.Engine) *Analyzer {
	if engine == nil {
		engine = services.NewEngine(nil)
	}
	return &Analyzer{
		fs:     fsprobe.OrDefault(fsys),
		engine: engine,
	}
}

// Analyze builds the environment configuration of the project at root.
// Absent files yield defaults; any other read failure is an ANALYSIS_FAILURE.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*Config, error) {
	result := Empty()

	vars, found, err := a.readVariables(filepath.Join(root, PrimaryFile))
	if err != nil {
		return nil, err
	}
	if found {
		result.Variables = vars.Map()
		result.HasFile = true
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	example, found, err := a.readVariables(filepath.Join(root, ExampleFile))
	if err != nil {
		return nil, err
	}
	if found {
		result.Services = a.engine.Infer(example)
	}

	return &result, nil
}

// readVariables parses path when it exists. A file that vanishes between the
// probe and the read counts as absent.
func (a *Analyzer) readVariables(path string) (*envfile.Variables, bool, error) {
	if !a.fs.Exists(path) {
		return nil, false, nil
	}
	content, err := a.fs.ReadText(path)
	if err != nil {
		if errors.CodeOf(err) == errors.NotFound {
			return nil, false, nil
		}
		return nil, false, errors.New(errors.AnalysisFailure,
			"environment analysis failed reading "+filepath.Base(path), path, err)
	}
	return envfile.Parse(content), true, nil
}
