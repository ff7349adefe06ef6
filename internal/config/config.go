// Package config loads tuning knobs from ~/.config/quill/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the user-tunable settings. Every field has a default; a
// missing file means defaults throughout.
type Config struct {
	WatchDebounce    time.Duration `yaml:"watch_debounce"`
	GitPollInterval  time.Duration `yaml:"git_poll_interval"`
	GitEditDebounce  time.Duration `yaml:"git_edit_debounce"`
	SearchDebounce   time.Duration `yaml:"search_debounce"`
	SearchMaxResults int           `yaml:"search_max_results"`
	RecentMax        int           `yaml:"recent_max"`
	RecursiveWatch   bool          `yaml:"recursive_watch"`
	WatchMaxDirs     int           `yaml:"watch_max_dirs"`
	RestoreSession   bool          `yaml:"restore_session"`
	Theme            string        `yaml:"theme"`
	Debug            bool          `yaml:"debug"`
	Shell            string        `yaml:"shell"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		WatchDebounce:    500 * time.Millisecond,
		GitPollInterval:  2 * time.Second,
		GitEditDebounce:  300 * time.Millisecond,
		SearchDebounce:   150 * time.Millisecond,
		SearchMaxResults: 100,
		RecentMax:        10,
		RecursiveWatch:   false,
		WatchMaxDirs:     2048,
		RestoreSession:   true,
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quill", "config.yaml"), nil
}

// Load reads the config at the default location.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the config at path over the defaults. A missing file is
// not an error. A malformed file returns the defaults along with the error so
// the caller can report it and carry on.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Validate()
	return cfg, nil
}

// Validate replaces out-of-range values with their defaults.
func (c *Config) Validate() {
	def := Default()
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = def.WatchDebounce
	}
	if c.GitPollInterval <= 0 {
		c.GitPollInterval = def.GitPollInterval
	}
	if c.GitEditDebounce <= 0 {
		c.GitEditDebounce = def.GitEditDebounce
	}
	if c.SearchDebounce <= 0 {
		c.SearchDebounce = def.SearchDebounce
	}
	if c.SearchMaxResults <= 0 {
		c.SearchMaxResults = def.SearchMaxResults
	}
	if c.RecentMax <= 0 {
		c.RecentMax = def.RecentMax
	}
	if c.WatchMaxDirs < 0 {
		c.WatchMaxDirs = def.WatchMaxDirs
	}
}

// ShellCommand returns the shell for the terminal panel: the configured
// one, then $SHELL, then /bin/sh.
func (c *Config) ShellCommand() string {
	if c.Shell != "" {
		return c.Shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}
