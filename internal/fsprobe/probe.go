// Package fsprobe provides existence and read primitives over the file system
// with classified failures.
package fsprobe

import (
	stderrors "errors"
	"io/fs"
	"os"

	"devenv/internal/errors"
)

// Reader is the read-only file capability the analyzers depend on.
type Reader interface {
	// Exists reports whether path can be stat'ed. It never fails.
	Exists(path string) bool
	// ReadText returns the file content or a classified *errors.DevenvError.
	ReadText(path string) (string, error)
	// ListFiles returns the names of the non-directory entries of dir, or a
	// classified *errors.DevenvError.
	ListFiles(dir string) ([]string, error)
}

// OS implements Reader against the local file system.
type OS struct{}

// Default is the Reader used when callers pass nil.
var Default Reader = OS{}

// Exists treats any stat failure as non-existence.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadText reads the whole file as text.
func (OS) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", Classify(path, err)
	}
	return string(data), nil
}

// ListFiles lists dir without recursing.
func (OS) ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, Classify(dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Classify maps an OS error to NOT_FOUND, PERMISSION_DENIED or READ_FAILURE.
func Classify(path string, err error) error {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.New(errors.NotFound, "file not found", path, err)
	case stderrors.Is(err, fs.ErrPermission):
		return errors.New(errors.PermissionDenied, "permission denied", path, err)
	default:
		return errors.New(errors.ReadFailure, "failed to read file", path, err)
	}
}

// OrDefault returns r, or Default when r is nil.
func OrDefault(r Reader) Reader {
	if r == nil {
		return Default
	}
	return r
}
