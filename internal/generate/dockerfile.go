package generate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"devenv/internal/manifest"
)

const dockerfileTemplate = `FROM node:{{.NodeVersion}}
WORKDIR /app

# Install dependencies
COPY package*.json ./
RUN {{.Install}}

# Copy source code
COPY . .
{{if .Development}}
# Development setup
ENV NODE_ENV=development
{{- else}}
{{- if .Build}}
# Build TypeScript
RUN npm run build
RUN npm prune --omit=dev
{{end}}
# Production setup
ENV NODE_ENV=production
{{- end}}
ENV PORT={{.Port}}
EXPOSE {{.Port}}
CMD {{.Command}}
`

var dockerfileTmpl = template.Must(template.New("Dockerfile").Parse(dockerfileTemplate))

type dockerfileData struct {
	Options
	Install string
	Command string
	// Build runs the build script before pruning dev dependencies.
	Build bool
}

// Dockerfile renders the Dockerfile for opts.
func Dockerfile(opts Options) (string, error) {
	if opts.NodeVersion == "" {
		return "", fmt.Errorf("node version is required")
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return "", fmt.Errorf("invalid port %d", opts.Port)
	}

	data := dockerfileData{
		Options: opts,
		Install: "npm install",
		Command: command(opts),
		Build:   !opts.Development && opts.TypeScript && opts.HasBuildScript,
	}
	if opts.HasLockfile {
		data.Install = "npm ci"
	}

	var buf bytes.Buffer
	if err := dockerfileTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render Dockerfile: %w", err)
	}
	return buf.String(), nil
}

// command picks the container CMD from the declared scripts: dev in
// development, then start, then node on the main file.
func command(opts Options) string {
	switch {
	case opts.Development && opts.HasDevScript:
		return execForm("npm", "run", "dev")
	case opts.HasStartScript:
		return execForm("npm", "start")
	}
	entry := opts.MainFile
	if entry == "" {
		entry = manifest.DefaultMainFile
	}
	return execForm("node", entry)
}

// execForm renders args as a Dockerfile JSON array.
func execForm(args ...string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
