// Package manifest reads and validates package.json.
package manifest

import (
	"encoding/json"
	"path/filepath"

	"devenv/internal/errors"
	"devenv/internal/fsprobe"
)

const (
	// FileName is the manifest file at the project root.
	FileName = "package.json"
	// DefaultMainFile is used when the manifest declares no "main".
	DefaultMainFile = "index.js"
)

// Info holds the declared dependency maps.
type Info struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// EmptyInfo returns Info with both maps empty.
func EmptyInfo() Info {
	return Info{
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
	}
}

// Manifest is the subset of package.json devenv understands. Every map is
// non-nil after Parse.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Main            string            `json:"main"`
	Scripts         map[string]string `json:"scripts"`
	Engines         map[string]string `json:"engines"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Parse decodes package.json content. Malformed JSON, or fields of the wrong
// type, is a PARSE_FAILURE.
func Parse(data []byte) (*Manifest, error) {
	return parse(data, "")
}

// Read loads root/package.json. Read failures keep their classification.
func Read(fsys fsprobe.Reader, root string) (*Manifest, error) {
	path := filepath.Join(root, FileName)
	content, err := fsprobe.OrDefault(fsys).ReadText(path)
	if err != nil {
		return nil, err
	}

	return parse([]byte(content), path)
}

func parse(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New(errors.ParseFailure, "failed to parse "+FileName, path, err)
	}
	m.applyDefaults()
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Scripts == nil {
		m.Scripts = map[string]string{}
	}
	if m.Engines == nil {
		m.Engines = map[string]string{}
	}
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	if m.DevDependencies == nil {
		m.DevDependencies = map[string]string{}
	}
}

// Info returns copies of the dependency maps.
func (m *Manifest) Info() Info {
	return Info{
		Dependencies:    copyMap(m.Dependencies),
		DevDependencies: copyMap(m.DevDependencies),
	}
}

// Combined merges devDependencies and dependencies into one map. When a
// package is declared in both, the dependencies entry wins.
func (m *Manifest) Combined() map[string]string {
	out := make(map[string]string, len(m.Dependencies)+len(m.DevDependencies))
	for k, v := range m.DevDependencies {
		out[k] = v
	}
	for k, v := range m.Dependencies {
		out[k] = v
	}
	return out
}

// MainFile returns the declared entry point or DefaultMainFile.
func (m *Manifest) MainFile() string {
	if m.Main == "" {
		return DefaultMainFile
	}
	return m.Main
}

// HasScript reports whether scripts declares name.
func (m *Manifest) HasScript(name string) bool {
	_, ok := m.Scripts[name]
	return ok
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
