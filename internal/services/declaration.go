package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	toml "github.com/pelletier/go-toml/v2"

	"devenv/internal/errors"
)

// DeclarationFile is the optional per-project catalog extension.
const DeclarationFile = "SERVICES.toml"

// ServiceDeclaration is one [[service]] table in SERVICES.toml.
type ServiceDeclaration struct {
	// Name is the service name reported in descriptors
	Name string `toml:"name"`

	// Pattern is a regular expression matched against variable names
	Pattern string `toml:"pattern"`

	// Kind classifies the service (database, cache, ...)
	Kind string `toml:"kind,omitempty"`

	// Image and Port configure the generated compose service
	Image string `toml:"image,omitempty"`
	Port  int    `toml:"port,omitempty"`
}

// DeclarationsFile is the root structure of SERVICES.toml.
type DeclarationsFile struct {
	Version  int                  `toml:"version"`
	Services []ServiceDeclaration `toml:"service"`
}

// ParseDeclarations decodes SERVICES.toml content.
func ParseDeclarations(data []byte) (*DeclarationsFile, error) {
	var file DeclarationsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Version < 1 {
		file.Version = 1
	}
	return &file, nil
}

// LoadCatalog returns the built-in catalog extended with the declarations in
// root/SERVICES.toml, if that file exists.
func LoadCatalog(root string) (*Catalog, error) {
	catalog := DefaultCatalog()
	path := filepath.Join(root, DeclarationFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return catalog, nil
	}
	if err != nil {
		return nil, errors.New(errors.ReadFailure, "failed to read "+DeclarationFile, path, err)
	}

	file, err := ParseDeclarations(data)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "failed to parse "+DeclarationFile, path, err)
	}

	patterns, err := toPatterns(file.Services)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, "invalid service declaration", path, err)
	}
	if err := catalog.Append(patterns...); err != nil {
		return nil, errors.New(errors.ConfigInvalid, "invalid service declaration", path, err)
	}
	return catalog, nil
}

func toPatterns(decls []ServiceDeclaration) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(decls))
	for i, d := range decls {
		if d.Pattern == "" {
			return nil, fmt.Errorf("service #%d (%s) is missing 'pattern'", i+1, d.Name)
		}
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", d.Name, err)
		}
		kind := Kind(d.Kind)
		if kind == "" {
			kind = KindOther
		}
		patterns = append(patterns, Pattern{
			Name:  d.Name,
			Kind:  kind,
			Match: re,
			Image: d.Image,
			Port:  d.Port,
		})
	}
	return patterns, nil
}
