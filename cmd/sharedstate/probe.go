// probe.go implements the 'sharedstate probe' command.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kolkov/sharedstate/internal/config"
	"github.com/kolkov/sharedstate/internal/logging"
	"github.com/kolkov/sharedstate/internal/report"
	"github.com/kolkov/sharedstate/internal/shared/collab"
	"github.com/kolkov/sharedstate/internal/shared/state"
	"github.com/kolkov/sharedstate/shared"
)

// probeConfig holds the resolved probe command options.
type probeConfig struct {
	format   report.Format
	dir      string
	sections []string
	logLevel string
}

// probeCommand implements the 'sharedstate probe' command.
//
// Flags override the config file, which overrides the defaults.
//
// Example:
//
//	sharedstate probe -config sharedstate.toml -format yaml
func probeCommand(args []string) {
	cfg, err := parseProbeArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	applyLogLevel(cfg.logLevel)

	s := shared.Get()
	if err := runProbe(s, cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseProbeArgs merges defaults, the optional config file and flags.
func parseProbeArgs(args []string) (*probeConfig, error) {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	format := fs.String("format", "", "output format: text, json, yaml, msgpack")
	configPath := fs.String("config", "", "TOML configuration file")
	dir := fs.String("dir", "", "working directory for project probes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	base := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return nil, err
		}
		base = loaded
	}

	cfg := &probeConfig{
		format:   base.Format,
		dir:      base.ProjectDir,
		sections: base.Probes,
		logLevel: base.LogLevel,
	}
	if *format != "" {
		f, err := report.ParseFormat(*format)
		if err != nil {
			return nil, err
		}
		cfg.format = f
	}
	if *dir != "" {
		cfg.dir = *dir
	}
	if cfg.dir != "" {
		abs, err := filepath.Abs(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("resolve -dir: %w", err)
		}
		cfg.dir = abs
	}
	return cfg, nil
}

// applyLogLevel sets the configured level unless the environment already
// chose one.
func applyLogLevel(raw string) {
	if os.Getenv(logging.EnvLogLevel) != "" {
		return
	}
	if lvl, ok := logging.ParseLevel(raw); ok {
		logging.SetLevel(lvl)
	}
}

// runProbe resolves the selected sections of s and writes the report to w.
func runProbe(s *state.State, cfg *probeConfig, w io.Writer) error {
	if cfg.dir != "" {
		overrideCwd(s, cfg.dir)
	}
	r := report.Build(s, cfg.sections...)
	if err := report.Encode(w, r, cfg.format); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// overrideCwd points the process collaborator at dir. It only affects
// probes that have not resolved yet.
func overrideCwd(s *state.State, dir string) {
	version := ""
	if s.Module.Process != nil {
		version = s.Module.Process.Version
	}
	s.Module.Process = &collab.Process{
		Cwd:     func() (string, error) { return dir, nil },
		Version: version,
	}
}
