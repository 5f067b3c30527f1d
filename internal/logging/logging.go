// Copyright 2025 The sharedstate Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging configures the process logger shared by every copy of the
// library and the sharedstate command.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Environment variables that override the profile defaults.
const (
	// EnvLogLevel selects the level (trace, debug, info, warn, error, off).
	EnvLogLevel = "SHAREDSTATE_LOG_LEVEL"
	// EnvLogTimestamp toggles timestamps.
	EnvLogTimestamp = "SHAREDSTATE_LOG_TIMESTAMP"
	// EnvLogNoColor disables colored console output.
	EnvLogNoColor = "SHAREDSTATE_LOG_NOCOLOR"
)

// Profile selects the default logger settings.
type Profile int

const (
	// ProfileRuntime logs warnings and above with timestamps.
	ProfileRuntime Profile = iota
	// ProfileTest logs debug and above without timestamps.
	ProfileTest
)

// Config describes the logger before it is built.
type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	Out       io.Writer
}

var (
	configureOnce sync.Once
	logger        = zerolog.Nop()
	mu            sync.RWMutex
)

// ConfigureRuntime configures the process logger with ProfileRuntime.
func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

// ConfigureTests configures the process logger with ProfileTest.
func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure builds the process logger for profile. Only the first call
// takes effect.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := DefaultConfig(profile)
		ApplyEnvOverrides(&cfg, os.Getenv)
		set(New(cfg))
	})
}

// SetLevel changes the level of the process logger, e.g. from a config file
// loaded after Configure.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(level)
}

// Logger returns the process logger. Before Configure it discards
// everything.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func set(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// DefaultConfig returns the settings for profile before env overrides.
func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zerolog.DebugLevel, Timestamp: false, Out: os.Stderr}
	default:
		return Config{Level: zerolog.WarnLevel, Timestamp: true, Out: os.Stderr}
	}
}

// ApplyEnvOverrides updates cfg from the SHAREDSTATE_LOG_* variables read
// through getenv. Unparseable values are ignored.
func ApplyEnvOverrides(cfg *Config, getenv func(string) string) {
	if lvl, ok := ParseLevel(getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// New builds a console logger from cfg.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	w := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		w.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	ctx := zerolog.New(w).Level(cfg.Level).With().Str("component", "sharedstate")
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// ParseLevel maps a level name onto a zerolog level.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
