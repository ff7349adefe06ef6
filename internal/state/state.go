// Package state persists UI state between runs: panel layout, theme, the
// last open folder and the recent-folders list.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/avitaltamir/quill/internal/debug"
	"github.com/avitaltamir/quill/internal/layout"
)

const (
	configDirName = ".config"
	appDirName    = "quill"
	stateFileName = "state.yaml"
)

// ErrNoHome is returned when the user's home or cache directory cannot be
// determined.
var ErrNoHome = errors.New("cannot determine user directory")

// State is what the UI restores on the next start.
type State struct {
	ThemeIndex       int    `yaml:"theme_index"`
	LeftPanelPercent int    `yaml:"left_panel_percent,omitempty"`
	TerminalVisible  bool   `yaml:"terminal_visible,omitempty"`
	LastFolder       string `yaml:"last_folder,omitempty"`
}

// DefaultState returns the first-run state.
func DefaultState() State {
	return State{LeftPanelPercent: layout.DefaultLeftPanelPercent}
}

// ConfigDir returns ~/.config/quill.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w: %v", ErrNoHome, err)
	}
	return filepath.Join(home, configDirName, appDirName), nil
}

func statePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFileName), nil
}

// Load reads the saved state. Anything unreadable yields the defaults; keys
// missing from the file keep their default values.
func Load() State {
	path, err := statePath()
	if err != nil {
		return DefaultState()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			debug.Warn(debug.STORE, "state not read", err, "path", path)
		}
		return DefaultState()
	}

	s := DefaultState()
	if err := yaml.Unmarshal(data, &s); err != nil {
		debug.Warn(debug.STORE, "state file malformed", err, "path", path)
		return DefaultState()
	}
	s.LeftPanelPercent = layout.ClampLeftPercent(s.LeftPanelPercent)
	return s
}

// Save writes s, replacing the previous file in one step.
func Save(s State) error {
	path, err := statePath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	debug.Log(debug.STORE, "state saved", "path", path)
	return nil
}

// writeFile writes data next to path and renames it into place so readers
// never see a partial file.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
