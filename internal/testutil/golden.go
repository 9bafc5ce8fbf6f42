package testutil

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// updateGolden controls whether golden files should be updated.
// Use: go test ./internal/generate -run TestGolden -update
var updateGolden = flag.Bool("update", false, "update golden files")

// GoldenPath returns the path of a golden file under testdata/golden/.
func GoldenPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(repoRoot(t), "testdata", "golden", name)
}

// CompareGolden compares got against testdata/golden/<name>, failing with a
// diff on mismatch. With -update the golden file is rewritten instead.
func CompareGolden(t *testing.T, name string, got []byte) {
	t.Helper()

	path := GoldenPath(t, name)
	if *updateGolden {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(path, got, 0o644); err != nil {
			t.Fatalf("Failed to write golden file: %v", err)
		}
		t.Logf("Updated golden: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("Golden file missing: %s\n\nGot:\n%s\n\nRun with -update to create:\n  go test ./... -run %s -update",
				path, string(got), t.Name())
		}
		t.Fatalf("Failed to read golden file: %v", err)
	}

	if !bytes.Equal(got, expected) {
		t.Fatalf("Golden mismatch for %s:\n%s\n\nRun with -update to refresh:\n  go test ./... -run %s -update",
			name, lineDiff(string(expected), string(got), path), t.Name())
	}
}

// lineDiff lists the lines that differ between expected and got.
func lineDiff(expected, got, path string) string {
	var buf bytes.Buffer

	expectedLines := strings.Split(expected, "\n")
	gotLines := strings.Split(got, "\n")

	fmt.Fprintf(&buf, "--- %s (expected)\n", path)
	fmt.Fprintf(&buf, "+++ %s (got)\n", path)

	n := len(expectedLines)
	if len(gotLines) > n {
		n = len(gotLines)
	}
	for i := 0; i < n; i++ {
		var exp, act string
		if i < len(expectedLines) {
			exp = expectedLines[i]
		}
		if i < len(gotLines) {
			act = gotLines[i]
		}
		if exp == act {
			continue
		}
		fmt.Fprintf(&buf, "@@ line %d @@\n", i+1)
		if i < len(expectedLines) {
			buf.WriteString("-" + exp + "\n")
		}
		if i < len(gotLines) {
			buf.WriteString("+" + act + "\n")
		}
	}
	return buf.String()
}
