// Package project classifies Node.js project directories.
package project

import (
	"path/filepath"

	"devenv/internal/fsprobe"
)

// Language represents the source language of a Node.js project.
type Language string

const (
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangUnknown    Language = "unknown"
)

// detectJSorTS checks if a project is TypeScript or JavaScript.
func detectJSorTS(fsys fsprobe.Reader, root string) Language {
	// Check for tsconfig.json
	if fsys.Exists(filepath.Join(root, "tsconfig.json")) {
		return LangTypeScript
	}
	// Check for .ts files
	if hasFileWithExt(fsys, root, ".ts") {
		return LangTypeScript
	}
	return LangJavaScript
}

// hasFileWithExt checks if a file with the given extension exists in the root
// or in src/. Directories that cannot be listed are skipped.
func hasFileWithExt(fsys fsprobe.Reader, root, ext string) bool {
	for _, dir := range []string{root, filepath.Join(root, "src")} {
		names, err := fsys.ListFiles(dir)
		if err != nil {
			continue
		}
		for _, name := range names {
			if filepath.Ext(name) == ext {
				return true
			}
		}
	}
	return false
}

// LanguageDisplayName returns a human-readable name for the language.
func LanguageDisplayName(lang Language) string {
	switch lang {
	case LangTypeScript:
		return "TypeScript"
	case LangJavaScript:
		return "JavaScript"
	default:
		return "Unknown"
	}
}
