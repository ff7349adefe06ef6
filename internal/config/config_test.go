package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 500*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, 2*time.Second, cfg.GitPollInterval)
	assert.Equal(t, 300*time.Millisecond, cfg.GitEditDebounce)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 100, cfg.SearchMaxResults)
	assert.Equal(t, 10, cfg.RecentMax)
	assert.False(t, cfg.RecursiveWatch)
	assert.Equal(t, 2048, cfg.WatchMaxDirs)
	assert.True(t, cfg.RestoreSession)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromPathOverrides(t *testing.T) {
	path := writeConfig(t, `
watch_debounce: 1s
git_poll_interval: 5s
search_max_results: 20
recursive_watch: true
watch_max_dirs: 64
theme: nord
shell: /bin/zsh
`)
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.WatchDebounce)
	assert.Equal(t, 5*time.Second, cfg.GitPollInterval)
	assert.Equal(t, 300*time.Millisecond, cfg.GitEditDebounce, "unset keys keep defaults")
	assert.Equal(t, 20, cfg.SearchMaxResults)
	assert.True(t, cfg.RecursiveWatch)
	assert.Equal(t, 64, cfg.WatchMaxDirs)
	assert.True(t, cfg.RestoreSession)
	assert.Equal(t, "nord", cfg.Theme)
	assert.Equal(t, "/bin/zsh", cfg.ShellCommand())
}

func TestLoadFromPathInvalidYAML(t *testing.T) {
	path := writeConfig(t, "watch_debounce: [not a duration")
	cfg, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateReplacesNonPositive(t *testing.T) {
	path := writeConfig(t, "git_poll_interval: -1s\nsearch_max_results: 0\nrecent_max: -3\nwatch_max_dirs: -1\n")
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.GitPollInterval)
	assert.Equal(t, 100, cfg.SearchMaxResults)
	assert.Equal(t, 10, cfg.RecentMax)
	assert.Equal(t, 2048, cfg.WatchMaxDirs)
}

func TestShellCommandFallbacks(t *testing.T) {
	cfg := Default()

	t.Setenv("SHELL", "/usr/bin/fish")
	assert.Equal(t, "/usr/bin/fish", cfg.ShellCommand())

	t.Setenv("SHELL", "")
	assert.Equal(t, "/bin/sh", cfg.ShellCommand())
}

func TestLoadUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "quill")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("debug: true\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}
