// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the sharedstate command configuration from TOML.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/kolkov/sharedstate/internal/logging"
	"github.com/kolkov/sharedstate/internal/report"
)

// Config is the resolved command configuration.
type Config struct {
	LogLevel   string
	Format     report.Format
	ProjectDir string
	Probes     []string
}

type fileConfig struct {
	LogLevel   string   `toml:"log_level"`
	Format     string   `toml:"format"`
	ProjectDir string   `toml:"project_dir"`
	Probes     []string `toml:"probes"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Format:   report.FormatText,
		Probes:   slices.Clone(report.Sections),
	}
}

// Load reads path on top of Default. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("format") {
		f, err := report.ParseFormat(raw.Format)
		if err != nil {
			return Config{}, fmt.Errorf("parse format: %w", err)
		}
		cfg.Format = f
	}
	if meta.IsDefined("project_dir") {
		cfg.ProjectDir = strings.TrimSpace(raw.ProjectDir)
	}
	if meta.IsDefined("probes") {
		cfg.Probes = normalizeProbes(raw.Probes)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg for unknown names.
func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	if !slices.Contains(report.Formats, cfg.Format) {
		return fmt.Errorf("invalid format %q", cfg.Format)
	}
	if len(cfg.Probes) == 0 {
		return fmt.Errorf("probes must name at least one section")
	}
	for i, p := range cfg.Probes {
		if !slices.Contains(report.Sections, p) {
			return fmt.Errorf("probes[%d] invalid: unknown section %q", i, p)
		}
	}
	return nil
}

func normalizeProbes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		v := strings.TrimSpace(p)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
