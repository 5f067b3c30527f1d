// main_test.go tests the sharedstate CLI commands.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kolkov/sharedstate/internal/host"
	"github.com/kolkov/sharedstate/internal/report"
	"github.com/kolkov/sharedstate/internal/shared/state"
	"github.com/kolkov/sharedstate/internal/shared/symbol"
)

func newState(t *testing.T) *state.State {
	t.Helper()
	s := state.New(zerolog.Nop())
	host.Populate(s)
	return s
}

// TestParseProbeArgs_Defaults tests parsing with no flags.
func TestParseProbeArgs_Defaults(t *testing.T) {
	cfg, err := parseProbeArgs(nil)
	if err != nil {
		t.Fatalf("parseProbeArgs() error: %v", err)
	}
	if cfg.format != report.FormatText {
		t.Errorf("Expected text format, got %q", cfg.format)
	}
	if cfg.dir != "" {
		t.Errorf("Expected no dir, got %q", cfg.dir)
	}
	if len(cfg.sections) != len(report.Sections) {
		t.Errorf("Expected all sections, got %v", cfg.sections)
	}
}

// TestParseProbeArgs_FlagsOverrideConfig tests flag precedence over the file.
func TestParseProbeArgs_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sharedstate.toml")
	body := "format = \"yaml\"\nproject_dir = \"/from/config\"\nprobes = [\"values\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := parseProbeArgs([]string{"-config", path, "-format", "json", "-dir", dir})
	if err != nil {
		t.Fatalf("parseProbeArgs() error: %v", err)
	}
	if cfg.format != report.FormatJSON {
		t.Errorf("Expected json format, got %q", cfg.format)
	}
	if cfg.dir != dir {
		t.Errorf("Expected dir %q, got %q", dir, cfg.dir)
	}
	if len(cfg.sections) != 1 || cfg.sections[0] != report.SectionValues {
		t.Errorf("Expected [values], got %v", cfg.sections)
	}
}

// TestParseProbeArgs_Errors tests invalid invocations.
func TestParseProbeArgs_Errors(t *testing.T) {
	tests := [][]string{
		{"-format", "xml"},
		{"-config", filepath.Join(t.TempDir(), "missing.toml")},
		{"extra"},
		{"-unknown"},
	}
	for _, args := range tests {
		if _, err := parseProbeArgs(args); err == nil {
			t.Errorf("parseProbeArgs(%v) succeeded", args)
		}
	}
}

// TestRunProbe_ProjectDir tests that -dir drives the project probes.
func TestRunProbe_ProjectDir(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/demo\n\ngo 1.24\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "pkg", "inner")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	s := newState(t)
	var buf bytes.Buffer
	cfg := &probeConfig{format: report.FormatJSON, dir: nested, sections: []string{report.SectionValues}}
	if err := runProbe(s, cfg, &buf); err != nil {
		t.Fatalf("runProbe() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"projectModule": "example.com/demo"`) {
		t.Errorf("Expected project module in output, got:\n%s", out)
	}
	if s.ProjectRoot() != root {
		t.Errorf("Expected project root %q, got %q", root, s.ProjectRoot())
	}
}

// TestRunProbe_Text tests the default text rendering.
func TestRunProbe_Text(t *testing.T) {
	s := newState(t)
	var buf bytes.Buffer
	cfg := &probeConfig{format: report.FormatText, sections: report.Sections}
	if err := runProbe(s, cfg, &buf); err != nil {
		t.Fatalf("runProbe() error: %v", err)
	}

	for _, want := range []string{"[support]", "[fastPath]", "[utilBinding]", "[values]", "[symbols]"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected section %s in output", want)
		}
	}
}

// TestWriteSymbols tests the symbol table listing.
func TestWriteSymbols(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSymbols(&buf, symbol.NewSet()); err != nil {
		t.Fatalf("writeSymbols() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("Expected 8 symbols, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Compile") || !strings.HasSuffix(lines[0], "sharedstate:module._compile") {
		t.Errorf("Unexpected first line: %q", lines[0])
	}
}
