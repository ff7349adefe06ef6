package state

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultState(t *testing.T) {
	s := DefaultState()

	assert.Equal(t, 0, s.ThemeIndex, "default theme index should be 0")
	assert.Equal(t, 25, s.LeftPanelPercent)
	assert.False(t, s.TerminalVisible)
	assert.Empty(t, s.LastFolder)
}

func TestConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "quill"), dir)

	path, err := statePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "quill", "state.yaml"), path)
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s := State{ThemeIndex: 2, LeftPanelPercent: 40, TerminalVisible: true, LastFolder: "/src/proj"}
	require.NoError(t, Save(s))
	assert.Equal(t, s, Load())
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		assert.Equal(t, DefaultState(), Load())
	})

	t.Run("malformed file", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, ".config", "quill")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "state.yaml"), []byte("theme_index: [nope"), 0o644))
		assert.Equal(t, DefaultState(), Load())
	})

	t.Run("partial file keeps defaults for missing keys", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, ".config", "quill")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "state.yaml"), []byte("theme_index: 3\n"), 0o644))

		s := Load()
		assert.Equal(t, 3, s.ThemeIndex)
		assert.Equal(t, 25, s.LeftPanelPercent)
	})

	t.Run("out of range width is clamped", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, ".config", "quill")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "state.yaml"), []byte("left_panel_percent: 95\n"), 0o644))
		assert.Equal(t, 60, Load().LeftPanelPercent)
	})
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, Save(DefaultState()))
	require.NoError(t, Save(State{ThemeIndex: 1, LeftPanelPercent: 30}))

	entries, err := os.ReadDir(filepath.Join(home, ".config", "quill"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.yaml", entries[0].Name())
}

func TestRecentFolders(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	assert.Empty(t, LoadRecent(), "missing file is an empty list")

	_, err := AddRecent("/a", 10)
	require.NoError(t, err)
	_, err = AddRecent("/b", 10)
	require.NoError(t, err)
	list, err := AddRecent("/a", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/b"}, list, "most recent first, no duplicates")
	assert.Equal(t, list, LoadRecent())
}

func TestRecentFoldersCapped(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	for i := 0; i < 15; i++ {
		_, err := AddRecent(fmt.Sprintf("/p%d", i), DefaultRecentMax)
		require.NoError(t, err)
	}

	list := LoadRecent()
	require.Len(t, list, DefaultRecentMax)
	assert.Equal(t, "/p14", list[0])
	assert.Equal(t, "/p5", list[9])
}
