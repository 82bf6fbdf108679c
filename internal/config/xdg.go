// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultSetsDir is the question-set root, relative to the working directory.
func DefaultSetsDir() string {
	return "sets"
}

// DefaultProgressPath is the JSON progress file, relative to the working directory.
func DefaultProgressPath() string {
	return "user.json"
}

// DefaultDBPath returns the default path for the SQLite progress database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), "drill", "drill.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "drill", "config.toml")
}
