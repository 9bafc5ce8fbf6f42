package testutil

import (
	"path/filepath"

	"devenv/internal/fsprobe"
)

// FaultyReader wraps the OS reader and fails reads of selected files or
// directory listings. Keys of Fail are base names (".env", "src") or absolute
// paths.
type FaultyReader struct {
	Fail map[string]error
}

// Exists delegates to the OS reader.
func (r *FaultyReader) Exists(path string) bool {
	if r.failure(path) != nil {
		return true
	}
	return fsprobe.OS{}.Exists(path)
}

// ReadText returns the configured failure for path, or the real content.
func (r *FaultyReader) ReadText(path string) (string, error) {
	if err := r.failure(path); err != nil {
		return "", err
	}
	return fsprobe.OS{}.ReadText(path)
}

// ListFiles returns the configured failure for dir, or the real listing.
func (r *FaultyReader) ListFiles(dir string) ([]string, error) {
	if err := r.failure(dir); err != nil {
		return nil, err
	}
	return fsprobe.OS{}.ListFiles(dir)
}

func (r *FaultyReader) failure(path string) error {
	if err, ok := r.Fail[path]; ok {
		return err
	}
	return r.Fail[filepath.Base(path)]
}
