package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kolkov/sharedstate/internal/report"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sharedstate.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Format != report.FormatText {
		t.Fatalf("unexpected format: %q", cfg.Format)
	}
	if len(cfg.Probes) != len(report.Sections) {
		t.Fatalf("unexpected probes: %v", cfg.Probes)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
format = "yaml"
project_dir = " /srv/app "
probes = ["support", " values ", "support", ""]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
	if cfg.Format != report.FormatYAML {
		t.Fatalf("unexpected format: %q", cfg.Format)
	}
	if cfg.ProjectDir != "/srv/app" {
		t.Fatalf("unexpected project dir: %q", cfg.ProjectDir)
	}
	if strings.Join(cfg.Probes, ",") != "support,values" {
		t.Fatalf("unexpected probes: %v", cfg.Probes)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `format = "json"`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
	if len(cfg.Probes) != len(report.Sections) {
		t.Fatalf("unexpected probes: %v", cfg.Probes)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", `format = `, "load config"},
		{"unknown key", `colour = "red"`, "unknown key"},
		{"bad format", `format = "xml"`, "parse format"},
		{"bad level", `log_level = "loud"`, "invalid log_level"},
		{"bad section", `probes = ["support", "heap"]`, "probes[1] invalid"},
		{"empty probes", `probes = []`, "at least one section"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
