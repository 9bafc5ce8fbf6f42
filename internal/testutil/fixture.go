// Package testutil provides helpers for building and loading sample projects
// in tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// WriteProject creates a temporary project directory containing files
// (relative path -> content) and returns its root.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to create file %s: %v", name, err)
		}
	}
	return dir
}

// LoadFixture returns the absolute path of a checked-in sample project under
// testdata/fixtures/, failing the test if it does not exist.
func LoadFixture(t *testing.T, name string) string {
	t.Helper()

	dir := filepath.Join(repoRoot(t), "testdata", "fixtures", name)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Fatalf("Fixture directory not found: %s", dir)
	}
	return dir
}

// repoRoot returns the module root, derived from this file's location.
func repoRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get caller information")
	}
	// internal/testutil/fixture.go -> module root
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}
