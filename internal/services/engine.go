package services

import (
	"strings"

	"devenv/internal/envfile"
)

// Descriptor is a service a project depends on.
type Descriptor struct {
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	Required bool   `json:"required"`
}

// Engine maps environment variable names to service descriptors.
type Engine struct {
	catalog *Catalog
}

// NewEngine creates an engine over catalog; nil uses the built-in catalog.
func NewEngine(catalog *Catalog) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{catalog: catalog}
}

// Catalog returns the catalog the engine matches against.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Infer walks vars in key order and emits one descriptor per key that matches
// a catalog pattern. A key containing OPTIONAL yields a non-required service.
func (e *Engine) Infer(vars *envfile.Variables) []Descriptor {
	out := make([]Descriptor, 0)
	if vars == nil {
		return out
	}
	for _, key := range vars.Keys() {
		p, ok := e.catalog.Match(key)
		if !ok {
			continue
		}
		value, _ := vars.Lookup(key)
		out = append(out, Descriptor{
			Name:     p.Name,
			URL:      value,
			Required: !strings.Contains(key, "OPTIONAL"),
		})
	}
	return out
}
