package slogutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerFactory_EffectiveLevel(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want slog.Level
	}{
		{"default", Options{}, slog.LevelWarn},
		{"config level", Options{ConfigLevel: "debug"}, slog.LevelDebug},
		{"-v", Options{Verbosity: 1}, slog.LevelInfo},
		{"-vvv", Options{Verbosity: 3}, slog.LevelDebug},
		{"flag beats config", Options{Verbosity: 1, ConfigLevel: "debug"}, slog.LevelInfo},
		{"quiet beats everything", Options{Quiet: true, Verbosity: 2, ConfigLevel: "debug"}, Silent},
		{"unknown config level", Options{ConfigLevel: "verbose"}, slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewLoggerFactory(tt.opts).effectiveLevel(); got != tt.want {
				t.Errorf("effectiveLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoggerFactory_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerFactory(Options{Format: "json", Verbosity: 1}).Logger(&buf)
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}

	logger.Info("Scan complete", "services", 2)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if record["msg"] != "Scan complete" {
		t.Errorf("msg = %v", record["msg"])
	}
}

func TestLoggerFactory_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devenv.log")
	var console bytes.Buffer

	factory := NewLoggerFactory(Options{LogFile: path})
	logger, err := factory.Logger(&console)
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}

	logger.Debug("only in file")
	logger.Warn("everywhere")
	if err := factory.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if strings.Contains(console.String(), "only in file") {
		t.Error("console should not receive debug records by default")
	}
	if !strings.Contains(console.String(), "everywhere") {
		t.Error("console should receive warnings")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	for _, msg := range []string{"only in file", "everywhere"} {
		if !strings.Contains(string(data), msg) {
			t.Errorf("log file missing %q:\n%s", msg, data)
		}
	}
}

func TestLoggerFactory_LogFileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "devenv.log")
	if _, err := NewLoggerFactory(Options{LogFile: path}).Logger(&bytes.Buffer{}); err == nil {
		t.Error("Logger() should fail when the log directory does not exist")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"warning", 0, false},
		{"DEBUG", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.name)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("ParseLevel(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLoggerFactory_LogFileKeepsAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devenv.log")
	var console bytes.Buffer

	factory := NewLoggerFactory(Options{LogFile: path, Verbosity: 1})
	logger, err := factory.Logger(&console)
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}
	logger.With("scan_id", "abc").WithGroup("env").Info("Scan complete", "services", 2)
	if err := factory.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	for _, out := range []string{console.String(), string(data)} {
		if !strings.Contains(out, "scan_id=abc") || !strings.Contains(out, "env.services=2") {
			t.Errorf("record should carry attrs and group:\n%s", out)
		}
	}
}
