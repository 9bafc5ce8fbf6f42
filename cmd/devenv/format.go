package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"devenv/internal/errors"
	"devenv/internal/project"
	"devenv/internal/version"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *project.Analysis:
		return formatAnalysisHuman(v), nil
	case *AnalyzeResponseCLI:
		return formatAnalyzeHuman(v), nil
	case *GenerateResponseCLI:
		return formatGenerateHuman(v), nil
	case *ConfigShowResponse:
		return formatConfigShowHuman(v), nil
	case *ConfigInitResponse:
		return fmt.Sprintf("Wrote %s", v.ConfigPath), nil
	case version.BuildInfo:
		return version.Full(), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

func formatAnalysisHuman(a *project.Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Project: %s\n", a.ProjectRoot))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("  Type:         %s\n", a.ProjectType))
	b.WriteString(fmt.Sprintf("  Language:     %s\n", project.LanguageDisplayName(a.Language)))
	if a.HasManifest {
		b.WriteString(fmt.Sprintf("  package.json: found (%d dependencies, %d devDependencies)\n",
			len(a.Dependencies.Dependencies), len(a.Dependencies.DevDependencies)))
	} else {
		b.WriteString("  package.json: not found\n")
	}
	if a.Environment.HasFile {
		b.WriteString(fmt.Sprintf("  .env:         found (%d variables)\n", len(a.Environment.Variables)))
	} else {
		b.WriteString("  .env:         not found\n")
	}

	if len(a.Dependencies.Dependencies) > 0 {
		b.WriteString("\nDependencies:\n")
		for _, name := range sortedKeys(a.Dependencies.Dependencies) {
			b.WriteString(fmt.Sprintf("  %-24s %s\n", name, a.Dependencies.Dependencies[name]))
		}
	}

	if len(a.Environment.Services) > 0 {
		b.WriteString("\nServices:\n")
		for _, s := range a.Environment.Services {
			req := "required"
			if !s.Required {
				req = "optional"
			}
			b.WriteString(fmt.Sprintf("  - %s (%s)\n", s.Name, req))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatAnalyzeHuman(r *AnalyzeResponseCLI) string {
	var b strings.Builder
	info := r.Express

	b.WriteString(fmt.Sprintf("Express analysis: %s\n", r.Root))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if info.Detected {
		b.WriteString(fmt.Sprintf("  Express:    %s\n", info.Version))
	} else {
		b.WriteString("  Express:    not detected\n")
	}
	b.WriteString(fmt.Sprintf("  Main file:  %s\n", info.MainFile))
	if info.Port > 0 {
		b.WriteString(fmt.Sprintf("  Port:       %d\n", info.Port))
	} else {
		b.WriteString("  Port:       not detected\n")
	}
	b.WriteString(fmt.Sprintf("  TypeScript: %s\n", yesNo(info.UsesTypeScript)))
	if len(info.Middleware) > 0 {
		b.WriteString(fmt.Sprintf("  Middleware: %s\n", strings.Join(info.Middleware, ", ")))
	} else {
		b.WriteString("  Middleware: none\n")
	}

	if r.Frameworks != nil {
		b.WriteString("\nFrameworks:\n")
		if len(r.Frameworks) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, f := range r.Frameworks {
			b.WriteString(fmt.Sprintf("  - %s %s (%s)\n", f.Name, f.Version, f.Type))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatGenerateHuman(r *GenerateResponseCLI) string {
	var b strings.Builder

	if r.DryRun {
		for _, f := range r.Files {
			b.WriteString(fmt.Sprintf("# --- %s ---\n", f.Name))
			b.WriteString(f.Content)
			if !strings.HasSuffix(f.Content, "\n") {
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(fmt.Sprintf("Mode: %s, port %d, node:%s\n", r.Mode, r.Port, r.NodeVersion))
	if len(r.Services) > 0 {
		b.WriteString(fmt.Sprintf("Services: %s\n", strings.Join(r.Services, ", ")))
	}
	for _, path := range r.Written {
		b.WriteString(fmt.Sprintf("  wrote %s\n", path))
	}
	if r.DryRun {
		b.WriteString("(dry run, nothing written)\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatConfigShowHuman(r *ConfigShowResponse) string {
	var b strings.Builder

	b.WriteString("devenv Configuration\n")
	b.WriteString(strings.Repeat("─", 50) + "\n")
	if r.UsedDefaults {
		b.WriteString("Source: defaults (no .devenvrc found)\n\n")
	} else {
		b.WriteString(fmt.Sprintf("Source: %s\n\n", r.ConfigPath))
	}

	c := r.Config
	port := "detect"
	if c.Port != 0 {
		port = fmt.Sprint(c.Port)
	}
	b.WriteString(fmt.Sprintf("  mode:        %s\n", c.Mode))
	b.WriteString(fmt.Sprintf("  port:        %s\n", port))
	nodeVersion := "detect"
	if c.NodeVersion != "" {
		nodeVersion = c.NodeVersion
	}
	b.WriteString(fmt.Sprintf("  nodeVersion: %s\n", nodeVersion))
	b.WriteString(fmt.Sprintf("  volumes:     %s\n", listOrNone(c.Volumes)))
	b.WriteString(fmt.Sprintf("  networks:    %s\n", listOrNone(c.Networks)))

	if len(r.Problems) > 0 {
		b.WriteString("\nProblems:\n")
		for _, p := range r.Problems {
			b.WriteString(fmt.Sprintf("  ! %s\n", p))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// printError writes err and the suggested fixes for its code to w.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	fixes := errors.GetSuggestedFixes(errors.CodeOf(err))
	if len(fixes) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSuggested fixes:")
	for _, fix := range fixes {
		fmt.Fprintf(w, "  - %s\n", fix.Description)
		if fix.Command != "" {
			fmt.Fprintf(w, "    $ %s\n", fix.Command)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
