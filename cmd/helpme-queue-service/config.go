// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ServiceConfig is the daemon's own configuration, read from a YAML
// file at startup. Queue configurations are separate: they arrive over
// the socket (set-config) and live in the journal.
type ServiceConfig struct {
	// SocketPath is where the Unix socket listens.
	SocketPath string `yaml:"socket_path"`

	// DatabasePath is the SQLite journal file.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`
}

// DefaultServiceConfig returns the configuration used when no file is
// given.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		SocketPath:   "/run/helpme/queue.sock",
		DatabasePath: "/var/lib/helpme/queue.db",
		LogLevel:     "info",
	}
}

// LoadServiceConfig reads a YAML configuration file. Fields absent
// from the file keep their defaults.
func LoadServiceConfig(path string) (ServiceConfig, error) {
	config := DefaultServiceConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if _, err := config.SlogLevel(); err != nil {
		return config, err
	}
	return config, nil
}

// SlogLevel maps the configured level name to a slog level.
func (c ServiceConfig) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}
