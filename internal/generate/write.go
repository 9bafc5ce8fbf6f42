package generate

import (
	"os"
	"path/filepath"

	"devenv/internal/errors"
)

// Output file names.
const (
	DockerfileName   = "Dockerfile"
	ComposeFileName  = "docker-compose.yml"
	DockerIgnoreName = ".dockerignore"
)

const dockerIgnore = `node_modules
npm-debug.log
.env
.git
`

// File is a generated artifact.
type File struct {
	Name    string
	Content []byte
}

// Render produces every artifact for opts.
func Render(opts Options) ([]File, error) {
	dockerfile, err := Dockerfile(opts)
	if err != nil {
		return nil, err
	}
	compose, err := Compose(opts)
	if err != nil {
		return nil, err
	}
	return []File{
		{Name: DockerfileName, Content: []byte(dockerfile)},
		{Name: ComposeFileName, Content: compose},
		{Name: DockerIgnoreName, Content: []byte(dockerIgnore)},
	}, nil
}

// Write stores files in dir and returns the written paths. Without force,
// nothing is written when any target already exists.
func Write(dir string, files []File, force bool) ([]string, error) {
	if !force {
		for _, f := range files {
			path := filepath.Join(dir, f.Name)
			if _, err := os.Stat(path); err == nil {
				return nil, errors.New(errors.FileExists, "refusing to overwrite "+f.Name, path, nil)
			}
		}
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return written, errors.New(errors.WriteFailure, "failed to write "+f.Name, path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
