// Package config loads the jot configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is the default location of the configuration file.
	DefaultPath = "~/.config/jot/config.yaml"
	// DefaultNotebookPath is the default location of the notebook database.
	DefaultNotebookPath = "~/.local/share/jot/notebook.db"
)

// Config represents the jot configuration.
type Config struct {
	// NotebookPath is the path to the notebook database file.
	NotebookPath string
	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration
	// LogLevel is the logging level.
	LogLevel string
	// Secure encrypts note bodies with a key held in the OS secret store.
	Secure bool
}

// fileConfig is the on-disk shape. Durations are strings ("5s") because
// yaml.v3 does not decode time.Duration from them.
type fileConfig struct {
	NotebookPath string `yaml:"notebook_path"`
	BusyTimeout  string `yaml:"busy_timeout"`
	LogLevel     string `yaml:"log_level"`
	Secure       *bool  `yaml:"secure"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		NotebookPath: ExpandPath(DefaultNotebookPath),
		BusyTimeout:  5 * time.Second,
		LogLevel:     "info",
		Secure:       false,
	}
}

// Load reads the configuration at path, falling back to defaults for any
// field the file omits. A missing file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if fc.NotebookPath != "" {
		cfg.NotebookPath = ExpandPath(fc.NotebookPath)
	}
	if fc.BusyTimeout != "" {
		d, err := time.ParseDuration(fc.BusyTimeout)
		if err != nil {
			return cfg, fmt.Errorf("parse busy_timeout: %w", err)
		}
		cfg.BusyTimeout = d
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.Secure != nil {
		cfg.Secure = *fc.Secure
	}

	return cfg, nil
}

// ExpandPath expands the ~ in a path to the user's home directory.
func ExpandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
