// Package generate renders Docker artifacts for an analyzed project.
package generate

import (
	"path/filepath"
	"regexp"
	"strconv"

	"devenv/internal/config"
	"devenv/internal/environment"
	"devenv/internal/express"
	"devenv/internal/fsprobe"
	"devenv/internal/manifest"
	"devenv/internal/project"
	"devenv/internal/services"
)

// DefaultPort is used when neither configuration nor detection yields a port.
const DefaultPort = 3000

// Options drives Dockerfile and compose generation.
type Options struct {
	NodeVersion string
	Port        int
	TypeScript  bool
	Development bool

	// HasLockfile selects npm ci over npm install.
	HasLockfile bool
	// EnvFile adds env_file: .env to the app service.
	EnvFile bool

	// Declared package.json scripts select the build step and CMD.
	HasDevScript   bool
	HasStartScript bool
	HasBuildScript bool
	// MainFile is run with node when no start script is declared.
	MainFile string

	Volumes  []string
	Networks []string

	Services []services.Descriptor
	// Catalog resolves service names to images; nil means the built-in one.
	Catalog *services.Catalog
}

// OptionsFrom merges configuration and detection results. Precedence for the
// port is cfg.Port, then the detected Express port, then PORT from .env, then
// DefaultPort. The node version is cfg.NodeVersion, then the major version of
// engines.node, then config.DefaultNodeVersion. Every argument may be nil.
func OptionsFrom(analysis *project.Analysis, m *manifest.Manifest, info *express.Info, cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	opts := Options{
		NodeVersion: cfg.NodeVersion,
		Port:        cfg.Port,
		Development: cfg.IsDevelopment(),
		Volumes:     cfg.Volumes,
		Networks:    cfg.Networks,
		MainFile:    manifest.DefaultMainFile,
	}

	if m != nil {
		opts.HasDevScript = m.HasScript("dev")
		opts.HasStartScript = m.HasScript("start")
		opts.HasBuildScript = m.HasScript("build")
		opts.MainFile = m.MainFile()
		if opts.NodeVersion == "" {
			opts.NodeVersion = engineImage(m.Engines["node"])
		}
	}
	if opts.NodeVersion == "" {
		opts.NodeVersion = config.DefaultNodeVersion
	}

	if info != nil {
		opts.TypeScript = info.UsesTypeScript
		if opts.Port == 0 {
			opts.Port = info.Port
		}
	}

	if analysis != nil {
		opts.TypeScript = opts.TypeScript || analysis.Language == project.LangTypeScript
		opts.EnvFile = analysis.Environment.HasFile
		opts.Services = analysis.Environment.Services
		opts.HasLockfile = fsprobe.Default.Exists(filepath.Join(analysis.ProjectRoot, "package-lock.json"))
		if opts.Port == 0 {
			opts.Port = envPort(analysis.Environment)
		}
	}

	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	return opts
}

var engineMajor = regexp.MustCompile(`\d+`)

// engineImage turns an engines.node range such as ">=18" or "^20.11.0" into
// the alpine tag of its first major version, or "" when none is given.
func engineImage(constraint string) string {
	major := engineMajor.FindString(constraint)
	if major == "" {
		return ""
	}
	return major + "-alpine"
}

func envPort(env environment.Config) int {
	port, err := strconv.Atoi(env.Variables["PORT"])
	if err != nil || !express.ValidPort(port) {
		return 0
	}
	return port
}

func (o Options) catalog() *services.Catalog {
	if o.Catalog == nil {
		return services.DefaultCatalog()
	}
	return o.Catalog
}
