package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"devenv/internal/config"
	"devenv/internal/errors"
	"devenv/internal/testutil"
)

// execute runs the CLI with args and returns stdout. Flags are reset first
// because cobra commands and their flag variables are package globals.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func expressProject(t *testing.T) string {
	t.Helper()
	return testutil.WriteProject(t, map[string]string{
		"package.json": `{"name":"api","main":"app.js","dependencies":{"express":"^4.18.2","helmet":"^7.0.0"}}`,
		"app.js":       "const app = require('express')();\napp.listen(5000);\n",
		".env.example": "DATABASE_URL=postgres://localhost/app\nOPTIONAL_REDIS_URL=\n",
	})
}

func TestScanCommand_JSON(t *testing.T) {
	out, err := execute(t, "scan", testutil.LoadFixture(t, "express-app"), "--format", "json")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	var got struct {
		ProjectType string `json:"projectType"`
		HasManifest bool   `json:"hasPackageJson"`
		Language    string `json:"language"`
		Environment struct {
			Variables map[string]string `json:"variables"`
			Services  []struct {
				Name     string `json:"name"`
				Required bool   `json:"required"`
			} `json:"services"`
		} `json:"environment"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if got.ProjectType != "express" || !got.HasManifest {
		t.Errorf("projectType = %q, hasPackageJson = %v", got.ProjectType, got.HasManifest)
	}
	if got.Language != "typescript" {
		t.Errorf("language = %q, want typescript", got.Language)
	}
	if got.Environment.Variables["PORT"] != "4000" {
		t.Errorf("PORT = %q, want 4000", got.Environment.Variables["PORT"])
	}
	if len(got.Environment.Services) != 2 {
		t.Fatalf("services = %+v, want 2", got.Environment.Services)
	}
}

func TestScanCommand_MissingDirectory(t *testing.T) {
	_, err := execute(t, "scan", filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, errors.NotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestScanCommand_BrokenManifest(t *testing.T) {
	_, err := execute(t, "scan", testutil.LoadFixture(t, "broken-manifest"))
	if !errors.Is(err, errors.ParseFailure) {
		t.Fatalf("err = %v, want PARSE_FAILURE", err)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := execute(t, "analyze", testutil.LoadFixture(t, "express-app"), "--frameworks", "--format", "json")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	var got AnalyzeResponseCLI
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Express == nil || !got.Express.Detected {
		t.Fatalf("express not detected: %+v", got.Express)
	}
	if got.Express.Port != 4000 {
		t.Errorf("port = %d, want 4000", got.Express.Port)
	}
	if len(got.Frameworks) != 1 || got.Frameworks[0].Package != "express" {
		t.Errorf("frameworks = %+v, want only express", got.Frameworks)
	}
}

func TestGenerateCommand_WritesFiles(t *testing.T) {
	root := expressProject(t)

	out, err := execute(t, "generate", root)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "port 5000") {
		t.Errorf("expected detected port in output:\n%s", out)
	}

	dockerfile, err := os.ReadFile(filepath.Join(root, "Dockerfile"))
	if err != nil {
		t.Fatalf("Dockerfile not written: %v", err)
	}
	if !strings.Contains(string(dockerfile), "EXPOSE 5000") {
		t.Errorf("Dockerfile should expose 5000:\n%s", dockerfile)
	}

	compose, err := os.ReadFile(filepath.Join(root, "docker-compose.yml"))
	if err != nil {
		t.Fatalf("docker-compose.yml not written: %v", err)
	}
	if !strings.Contains(string(compose), "postgres:16") {
		t.Errorf("compose should include the database service:\n%s", compose)
	}
	if _, err := os.Stat(filepath.Join(root, ".dockerignore")); err != nil {
		t.Errorf(".dockerignore not written: %v", err)
	}
}

func TestGenerateCommand_RefusesOverwrite(t *testing.T) {
	root := expressProject(t)
	if err := os.WriteFile(filepath.Join(root, "Dockerfile"), []byte("FROM scratch\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "generate", root)
	if !errors.Is(err, errors.FileExists) {
		t.Fatalf("err = %v, want FILE_EXISTS", err)
	}
	data, _ := os.ReadFile(filepath.Join(root, "Dockerfile"))
	if string(data) != "FROM scratch\n" {
		t.Error("existing Dockerfile was modified")
	}
	if _, err := os.Stat(filepath.Join(root, "docker-compose.yml")); !os.IsNotExist(err) {
		t.Error("no file should be written when any target exists")
	}

	if _, err := execute(t, "generate", root, "--force"); err != nil {
		t.Fatalf("generate --force failed: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(root, "Dockerfile"))
	if !strings.HasPrefix(string(data), "FROM node:") {
		t.Errorf("Dockerfile not overwritten:\n%s", data)
	}
}

func TestGenerateCommand_FlagsOverrideConfig(t *testing.T) {
	root := expressProject(t)
	cfg := config.DefaultConfig()
	cfg.Port = 7000
	cfg.NodeVersion = "20-alpine"
	if err := cfg.Save(root); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "generate", root, "--dry-run", "--dev=false", "--port", "8080", "--format", "json")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	var got GenerateResponseCLI
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Mode != config.ModeProduction {
		t.Errorf("mode = %q, want production", got.Mode)
	}
	if got.Port != 8080 {
		t.Errorf("port = %d, want 8080 from flag", got.Port)
	}
	if got.NodeVersion != "20-alpine" {
		t.Errorf("nodeVersion = %q, want 20-alpine from .devenvrc", got.NodeVersion)
	}
	if !got.DryRun || len(got.Files) != 3 || len(got.Written) != 0 {
		t.Errorf("dry run should render 3 files and write none: %+v", got)
	}
	if _, err := os.Stat(filepath.Join(root, "Dockerfile")); !os.IsNotExist(err) {
		t.Error("dry run must not write files")
	}
}

func TestGenerateCommand_UsesManifestScriptsAndEngines(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"package.json": `{"main":"server.js","scripts":{"dev":"nodemon server.js"},"engines":{"node":">=20"},"dependencies":{"express":"^4.18.2"}}`,
		"server.js":    "require('express')().listen(3000);\n",
	})

	out, err := execute(t, "generate", root, "--dry-run")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	for _, want := range []string{"FROM node:20-alpine", `CMD ["npm", "run", "dev"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("dry run output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "generate", root, "--dry-run", "--dev=false")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, `CMD ["node", "server.js"]`) {
		t.Errorf("production without start script should run the main file:\n%s", out)
	}
}

func TestGenerateCommand_RequiresManifest(t *testing.T) {
	_, err := execute(t, "generate", testutil.LoadFixture(t, "no-manifest"), "--dry-run")
	if !errors.Is(err, errors.NotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestGenerateCommand_InvalidPort(t *testing.T) {
	_, err := execute(t, "generate", expressProject(t), "--dry-run", "--port", "70000")
	if !errors.Is(err, errors.ConfigInvalid) {
		t.Fatalf("err = %v, want CONFIG_INVALID", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	root := expressProject(t)

	if _, err := execute(t, "config", "init", root, "--mode", "production"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(config.Path(root)); err != nil {
		t.Fatalf(".devenvrc.json not written: %v", err)
	}

	_, err := execute(t, "config", "init", root)
	if !errors.Is(err, errors.FileExists) {
		t.Fatalf("second init err = %v, want FILE_EXISTS", err)
	}

	out, err := execute(t, "config", "show", root, "--format", "json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	var got ConfigShowResponse
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.UsedDefaults {
		t.Error("config show should report the written file")
	}
	if got.Config.Mode != config.ModeProduction {
		t.Errorf("mode = %q, want production", got.Config.Mode)
	}
	if got.Config.Port != 5000 {
		t.Errorf("port = %d, want detected 5000", got.Config.Port)
	}
}

func TestConfigShow_Defaults(t *testing.T) {
	out, err := execute(t, "config", "show", t.TempDir())
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "Source: defaults") {
		t.Errorf("expected defaults source:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, `"version"`) || !strings.Contains(out, `"goVersion"`) {
		t.Errorf("unexpected version output:\n%s", out)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := execute(t, "scan", t.TempDir(), "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("err = %v, want unsupported format", err)
	}
}
