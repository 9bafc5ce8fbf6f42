// Package express inspects Express.js projects for framework-specific
// settings: declared version, entry point, listening port and middleware.
package express

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"

	"devenv/internal/environment"
	"devenv/internal/errors"
	"devenv/internal/fsprobe"
	"devenv/internal/manifest"
)

// KnownMiddleware lists the middleware packages reported by Analyze, in
// report order.
var KnownMiddleware = []string{
	"body-parser",
	"cors",
	"helmet",
	"morgan",
	"compression",
	"express-session",
	"cookie-parser",
	"express-rate-limit",
}

var (
	envPortPattern    = regexp.MustCompile(`(?m)^\s*PORT\s*=\s*(\d+)`)
	listenPattern     = regexp.MustCompile(`\.listen\(\s*(\d+)`)
	envDefaultPattern = regexp.MustCompile(`process\.env\.PORT\s*\|\|\s*(\d+)`)
)

// Info is the result of an Express analysis. Empty Version and zero Port mean
// absent.
type Info struct {
	Detected       bool     `json:"hasExpress"`
	Version        string   `json:"version,omitempty"`
	MainFile       string   `json:"mainFile"`
	Port           int      `json:"port,omitempty"`
	Middleware     []string `json:"middleware"`
	UsesTypeScript bool     `json:"hasTypeScript"`
}

// Analyzer performs Express analysis through a fsprobe.Reader.
type Analyzer struct {
	fs fsprobe.Reader
}

// NewAnalyzer creates an analyzer; nil selects the OS reader.
func NewAnalyzer(fsys fsprobe.Reader) *Analyzer {
	return &Analyzer{fs: fsprobe.OrDefault(fsys)}
}

// Analyze inspects the project at root. Only a manifest failure is an error;
// port and middleware detection degrade to absent values.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*Info, error) {
	m, err := manifest.Read(a.fs, root)
	if err != nil {
		return nil, errors.New(errors.AnalysisFailure, "express analysis failed", "", err)
	}

	deps := m.Combined()
	info := &Info{
		MainFile:   m.MainFile(),
		Middleware: detectMiddleware(deps),
	}
	if v, ok := deps["express"]; ok {
		info.Detected = true
		info.Version = v
	}
	_, info.UsesTypeScript = deps["typescript"]

	if ctx.Err() == nil {
		info.Port = a.detectPort(root, info.MainFile)
	}
	return info, nil
}

// detectPort checks .env first, then the main file. Read failures and
// out-of-range values are ignored.
func (a *Analyzer) detectPort(root, mainFile string) int {
	if content, err := a.fs.ReadText(filepath.Join(root, environment.PrimaryFile)); err == nil {
		if port, ok := matchPort(envPortPattern, content); ok {
			return port
		}
	}

	content, err := a.fs.ReadText(filepath.Join(root, mainFile))
	if err != nil {
		return 0
	}
	for _, re := range []*regexp.Regexp{listenPattern, envDefaultPattern} {
		if port, ok := matchPort(re, content); ok {
			return port
		}
	}
	return 0
}

func matchPort(re *regexp.Regexp, content string) (int, bool) {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return 0, false
	}
	port, err := strconv.Atoi(m[1])
	if err != nil || !ValidPort(port) {
		return 0, false
	}
	return port, true
}

// ValidPort reports whether port is a usable TCP port.
func ValidPort(port int) bool {
	return port >= 1 && port <= 65535
}

func detectMiddleware(deps map[string]string) []string {
	found := make([]string, 0, len(KnownMiddleware))
	for _, name := range KnownMiddleware {
		if _, ok := deps[name]; ok {
			found = append(found, name)
		}
	}
	return found
}
