package fsprobe

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"devenv/internal/errors"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "package.json")
	if err := os.WriteFile(file, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"existing directory", dir, true},
		{"missing file", filepath.Join(dir, ".env"), false},
		{"missing parent", filepath.Join(dir, "nope", "file"), false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (OS{}).Exists(tt.path); got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	if err := os.WriteFile(file, []byte("PORT=3000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := (OS{}).ReadText(file)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if got != "PORT=3000\n" {
		t.Errorf("ReadText() = %q", got)
	}

	_, err = (OS{}).ReadText(filepath.Join(dir, "missing"))
	if errors.CodeOf(err) != errors.NotFound {
		t.Errorf("missing file code = %v, want %v", errors.CodeOf(err), errors.NotFound)
	}

	// Reading a directory fails with neither ENOENT nor EACCES.
	_, err = (OS{}).ReadText(dir)
	if errors.CodeOf(err) != errors.ReadFailure {
		t.Errorf("directory read code = %v, want %v", errors.CodeOf(err), errors.ReadFailure)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"index.ts", "package.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "src.ts"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := (OS{}).ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles() error = %v", err)
	}
	if len(got) != 2 || got[0] != "index.ts" || got[1] != "package.json" {
		t.Errorf("ListFiles() = %v, want [index.ts package.json]", got)
	}

	_, err = (OS{}).ListFiles(filepath.Join(dir, "missing"))
	if errors.CodeOf(err) != errors.NotFound {
		t.Errorf("missing dir code = %v, want %v", errors.CodeOf(err), errors.NotFound)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"not exist", fs.ErrNotExist, errors.NotFound},
		{"path error not exist", &fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}, errors.NotFound},
		{"permission", fs.ErrPermission, errors.PermissionDenied},
		{"other", stderrors.New("i/o timeout"), errors.ReadFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("x", tt.err)
			if errors.CodeOf(got) != tt.want {
				t.Errorf("Classify() code = %v, want %v", errors.CodeOf(got), tt.want)
			}
			if !stderrors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) != Default {
		t.Error("OrDefault(nil) should return Default")
	}
	custom := OS{}
	if OrDefault(custom) != Reader(custom) {
		t.Error("OrDefault should keep a non-nil reader")
	}
}
