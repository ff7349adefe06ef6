package fsscan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkfiles(t *testing.T, root string, dirs, files []string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644))
	}
}

func TestScanOrdersFoldersThenFilesCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	mkfiles(t, root,
		[]string{"beta", "Alpha", "gamma"},
		[]string{"zeta.txt", "Main.go", "apple.md"},
	)

	got := New().Scan(root)

	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, got.Dirs)
	assert.Equal(t, []string{"apple.md", "Main.go", "zeta.txt"}, got.Files)
}

func TestScanSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	mkfiles(t, root, []string{".git", "src"}, []string{".env", "README"})

	got := New().Scan(root)
	assert.Equal(t, []string{"src"}, got.Dirs)
	assert.Equal(t, []string{"README"}, got.Files)

	withHidden := New(WithHidden(true)).Scan(root)
	assert.Equal(t, []string{".git", "src"}, withHidden.Dirs)
	assert.Equal(t, []string{".env", "README"}, withHidden.Files)
}

func TestScanMissingDirectoryIsEmpty(t *testing.T) {
	got := New().Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.True(t, got.Empty())
}

func TestScanFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	mkfiles(t, root, []string{"real"}, []string{"file.txt"})
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")))
	// Dangling links fail stat and are dropped.
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken")))

	got := New().Scan(root)
	assert.Equal(t, []string{"link", "real"}, got.Dirs)
	assert.Equal(t, []string{"file.txt"}, got.Files)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden(".git"))
	assert.False(t, IsHidden("git"))
	assert.False(t, IsHidden(""))
}
