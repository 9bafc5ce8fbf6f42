// Package frameworks reports which well-known Node.js frameworks a project
// declares.
package frameworks

import (
	"devenv/internal/fsprobe"
	"devenv/internal/manifest"
)

// Type classifies where a framework runs.
type Type string

const (
	Backend   Type = "backend"
	Frontend  Type = "frontend"
	Fullstack Type = "fullstack"
)

// Framework is a detected framework with its declared version.
type Framework struct {
	Package string `json:"package"`
	Name    string `json:"name"`
	Type    Type   `json:"type"`
	Version string `json:"version"`
}

type known struct {
	pkg  string
	name string
	typ  Type
}

// catalog is checked in order.
var catalog = []known{
	{"express", "Express", Backend},
	{"@nestjs/core", "NestJS", Backend},
	{"next", "Next.js", Fullstack},
	{"@angular/core", "Angular", Frontend},
	{"koa", "Koa", Backend},
	{"fastify", "Fastify", Backend},
}

// Detect returns the frameworks declared in m, in catalog order.
func Detect(m *manifest.Manifest) []Framework {
	deps := m.Combined()
	detected := []Framework{}
	for _, k := range catalog {
		if v, ok := deps[k.pkg]; ok {
			detected = append(detected, Framework{Package: k.pkg, Name: k.name, Type: k.typ, Version: v})
		}
	}
	return detected
}

// DetectProject reads root/package.json and detects its frameworks. A project
// whose manifest cannot be read or parsed has no frameworks.
func DetectProject(fsys fsprobe.Reader, root string) []Framework {
	m, err := manifest.Read(fsys, root)
	if err != nil {
		return []Framework{}
	}
	return Detect(m)
}
