package manifest

import (
	"reflect"
	"strings"
	"testing"

	"devenv/internal/errors"
	"devenv/internal/testutil"
)

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`{
		"name": "api",
		"version": "1.2.0",
		"main": "server.js",
		"scripts": {"start": "node server.js", "dev": "nodemon server.js"},
		"engines": {"node": ">=18"},
		"dependencies": {"express": "^4.18.2", "cors": "^2.8.5"},
		"devDependencies": {"nodemon": "^3.0.0"}
	}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if m.Name != "api" || m.Version != "1.2.0" {
		t.Errorf("Name/Version = %q/%q", m.Name, m.Version)
	}
	if m.MainFile() != "server.js" {
		t.Errorf("MainFile() = %q, want server.js", m.MainFile())
	}
	if !m.HasScript("dev") || m.HasScript("build") {
		t.Errorf("HasScript: scripts = %v", m.Scripts)
	}
	if m.Engines["node"] != ">=18" {
		t.Errorf("Engines = %v", m.Engines)
	}
	info := m.Info()
	if info.Dependencies["express"] != "^4.18.2" || info.DevDependencies["nodemon"] != "^3.0.0" {
		t.Errorf("Info() = %+v", info)
	}
}

func TestParse_Defaults(t *testing.T) {
	for _, input := range []string{`{}`, `{"name": "bare"}`, `null`} {
		m, err := Parse([]byte(input))
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", input, err)
		}
		if m.Dependencies == nil || m.DevDependencies == nil || m.Scripts == nil || m.Engines == nil {
			t.Errorf("Parse(%s) left nil maps: %+v", input, m)
		}
		if m.MainFile() != DefaultMainFile {
			t.Errorf("MainFile() = %q, want %q", m.MainFile(), DefaultMainFile)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax error", `{"dependencies": {"express": "^4"`},
		{"trailing comma", `{"name": "x",}`},
		{"not an object", `["express"]`},
		{"wrong field type", `{"dependencies": ["express"]}`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.CodeOf(err) != errors.ParseFailure {
				t.Errorf("code = %v, want %v", errors.CodeOf(err), errors.ParseFailure)
			}
			if !strings.Contains(err.Error(), "failed to parse package.json") {
				t.Errorf("error %q should identify manifest parsing", err.Error())
			}
		})
	}
}

func TestRead(t *testing.T) {
	root := testutil.WriteProject(t, map[string]string{
		"package.json": `{"dependencies": {"express": "4.17.1"}}`,
	})

	m, err := Read(nil, root)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if m.Dependencies["express"] != "4.17.1" {
		t.Errorf("Dependencies = %v", m.Dependencies)
	}
}

func TestRead_Errors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := Read(nil, testutil.WriteProject(t, nil))
		if errors.CodeOf(err) != errors.NotFound {
			t.Errorf("code = %v, want %v", errors.CodeOf(err), errors.NotFound)
		}
	})

	t.Run("malformed names the path", func(t *testing.T) {
		root := testutil.WriteProject(t, map[string]string{"package.json": "{oops"})
		_, err := Read(nil, root)
		if errors.CodeOf(err) != errors.ParseFailure {
			t.Fatalf("code = %v, want %v", errors.CodeOf(err), errors.ParseFailure)
		}
		if !strings.Contains(err.Error(), root) {
			t.Errorf("error %q should contain the manifest path", err.Error())
		}
	})

	t.Run("permission", func(t *testing.T) {
		reader := &testutil.FaultyReader{Fail: map[string]error{
			FileName: errors.New(errors.PermissionDenied, "permission denied", FileName, nil),
		}}
		_, err := Read(reader, testutil.WriteProject(t, nil))
		if errors.CodeOf(err) != errors.PermissionDenied {
			t.Errorf("code = %v, want %v", errors.CodeOf(err), errors.PermissionDenied)
		}
	})
}

func TestCombined(t *testing.T) {
	m := &Manifest{
		Dependencies:    map[string]string{"express": "^4.18.0", "cors": "^2.8.5"},
		DevDependencies: map[string]string{"express": "^5.0.0", "typescript": "^5.4.0"},
	}

	got := m.Combined()
	want := map[string]string{"express": "^4.18.0", "cors": "^2.8.5", "typescript": "^5.4.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Combined() = %v, want %v", got, want)
	}
}

func TestInfo_ReturnsCopies(t *testing.T) {
	m, _ := Parse([]byte(`{"dependencies": {"express": "4"}}`))
	info := m.Info()
	info.Dependencies["express"] = "mutated"
	if m.Dependencies["express"] != "4" {
		t.Error("Info() must not alias the manifest maps")
	}
}
