package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avitaltamir/quill/internal/git"
	"github.com/avitaltamir/quill/internal/git/gitmock"
	"github.com/avitaltamir/quill/internal/theme"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loaded(t *testing.T, dir, path string) Model {
	t.Helper()
	m := New().SetRoot(dir).SetSize(80, 20).Focus()
	msg := LoadFile(path)()
	lm, ok := msg.(FileLoadedMsg)
	require.True(t, ok)
	require.NoError(t, lm.Err)
	m, _ = m.Update(lm)
	return m
}

func typeRunes(t *testing.T, m Model, s string) (Model, []ChangedMsg) {
	t.Helper()
	var changes []ChangedMsg
	for _, r := range s {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		changes = append(changes, collectChanges(cmd)...)
	}
	return m, changes
}

func collectChanges(cmd tea.Cmd) []ChangedMsg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case ChangedMsg:
		return []ChangedMsg{msg}
	case tea.BatchMsg:
		var out []ChangedMsg
		for _, c := range msg {
			out = append(out, collectChanges(c)...)
		}
		return out
	}
	return nil
}

func TestLoadFileClean(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.go", "package main\n")

	m := loaded(t, dir, path)
	assert.Equal(t, path, m.Path())
	assert.False(t, m.IsModified())
	assert.Equal(t, "package main\n", m.Content())
	assert.Equal(t, ModeEdit, m.Mode())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	msg := LoadFile(filepath.Join(dir, "missing.txt"))().(FileLoadedMsg)
	assert.Error(t, msg.Err)

	bin := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(bin, []byte{'a', 0, 'b'}, 0o644))
	msg = LoadFile(bin)().(FileLoadedMsg)
	assert.True(t, errors.Is(msg.Err, ErrBinaryFile))

	msg = LoadFile(dir)().(FileLoadedMsg)
	assert.Error(t, msg.Err)

	// A failed load leaves the editor as it was.
	m := New()
	m, _ = m.Update(msg)
	assert.Empty(t, m.Path())
}

func TestEditFlipsModified(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "hello\n")
	m := loaded(t, dir, path)

	m, changes := typeRunes(t, m, "ab")
	require.Len(t, changes, 2)
	assert.True(t, changes[0].Flipped)
	assert.True(t, changes[0].Modified)
	assert.False(t, changes[1].Flipped)
	assert.True(t, m.IsModified())

	var cmd tea.Cmd
	for range 2 {
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
		changes = collectChanges(cmd)
	}
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Flipped)
	assert.False(t, changes[0].Modified)
	assert.False(t, m.IsModified())
}

func TestKeysNeedFocus(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "x\n")
	m := loaded(t, dir, path).Blur()

	m, changes := typeRunes(t, m, "zz")
	assert.Empty(t, changes)
	assert.False(t, m.IsModified())
}

func TestSaveWritesBuffer(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\n")
	m := loaded(t, dir, path)
	m, _ = typeRunes(t, m, "0")

	msg := m.Save()().(FileSavedMsg)
	require.NoError(t, msg.Err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0one\n", string(data))

	m, cmd := m.Update(msg)
	changes := collectChanges(cmd)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Flipped)
	assert.False(t, m.IsModified())
}

func TestSaveAsMovesToNewPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\n")
	m := loaded(t, dir, path)
	m, _ = typeRunes(t, m, "0")

	target := filepath.Join(dir, "b.txt")
	msg := m.SaveAs(target)().(FileSavedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, path, msg.From)
	assert.Equal(t, target, msg.Path)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "0one\n", string(data))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(data), "original untouched")

	m, _ = m.Update(msg)
	assert.Equal(t, target, m.Path())
	assert.False(t, m.IsModified())
}

func TestSaveAsRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\n")
	m := loaded(t, dir, path)

	msg := m.SaveAs(dir)().(FileSavedMsg)
	require.Error(t, msg.Err)
	m, _ = m.Update(msg)
	assert.Equal(t, path, m.Path())
}

func TestSaveWithoutFile(t *testing.T) {
	msg := New().Save()().(FileSavedMsg)
	assert.ErrorIs(t, msg.Err, ErrNoFile)
}

func TestSaveFailureKeepsModified(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	path := writeFile(t, sub, "a.txt", "one\n")
	m := loaded(t, dir, path)
	m, _ = typeRunes(t, m, "x")

	require.NoError(t, os.RemoveAll(sub))
	msg := m.Save()().(FileSavedMsg)
	require.Error(t, msg.Err)
	m, _ = m.Update(msg)
	assert.True(t, m.IsModified())
}

func TestTabsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := "func f() {\n\tif x {\n\t\treturn\n\t}\n}\n"
	path := writeFile(t, dir, "f.go", src)

	m := loaded(t, dir, path)
	assert.NotContains(t, m.area.Value(), "\t")
	assert.Equal(t, src, m.Content())
	assert.False(t, m.IsModified())
}

func TestEditorconfigIndent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".editorconfig", "root = true\n\n[*.py]\nindent_style = space\nindent_size = 2\n")
	path := writeFile(t, dir, "a.py", "x = 1\n")

	m := loaded(t, dir, path)
	assert.Equal(t, 2, m.TabWidth())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Len(t, collectChanges(cmd), 1)
	assert.True(t, strings.HasPrefix(m.Content(), "  x = 1"))
}

func TestUnsavedDiff(t *testing.T) {
	diff, err := UnsavedDiff("/p/a.txt", "one\ntwo\n", "one\n2\n")
	require.NoError(t, err)
	assert.Contains(t, diff, "--- a.txt (saved)")
	assert.Contains(t, diff, "+++ a.txt (buffer)")
	assert.Contains(t, diff, "-two")
	assert.Contains(t, diff, "+2")

	diff, err = UnsavedDiff("/p/a.txt", "same", "same")
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestModeToggles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\n")
	m := loaded(t, dir, path)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, ModePreview, m.Mode())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, ModeDiff, m.Mode())
	assert.Contains(t, m.View(), "no unsaved changes")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Equal(t, ModeEdit, m.Mode())

	// Typing in preview does not edit.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	m, changes := typeRunes(t, m, "q")
	assert.Empty(t, changes)
	assert.False(t, m.IsModified())
}

func TestGutter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\ntwo\nthree\n")
	m := loaded(t, dir, path)

	ctrl := gomock.NewController(t)
	provider := gitmock.NewMockProvider(ctrl)
	provider.EXPECT().Diff(gomock.Any(), dir, path).Return([]git.Hunk{
		{OldStart: 1, OldCount: 0, NewStart: 2, NewCount: 1},
	}, nil)

	msg := LoadGutter(provider, dir, path)().(GutterMsg)
	require.NoError(t, msg.Err)
	m, _ = m.Update(msg)
	assert.Equal(t, git.MarkAdded, m.Marks()[2])

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Contains(t, m.View(), theme.GutterAdded)

	// Marks for another file are ignored; errors clear them.
	m, _ = m.Update(GutterMsg{Path: "/elsewhere", Marks: map[int]git.LineMark{1: git.MarkDeleted}})
	assert.Equal(t, git.MarkAdded, m.Marks()[2])
	m, _ = m.Update(GutterMsg{Path: path, Err: errors.New("boom")})
	assert.Empty(t, m.Marks())
}

func TestLoadGutterNeedsRoot(t *testing.T) {
	assert.Nil(t, LoadGutter(nil, "/r", "/r/a"))
	ctrl := gomock.NewController(t)
	assert.Nil(t, LoadGutter(gitmock.NewMockProvider(ctrl), "", "/r/a"))
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "a   b", ExpandTabs("a\tb", 4))
	assert.Equal(t, "ab  c\n    y", ExpandTabs("ab\tc\n\ty", 4))
	assert.Equal(t, "  y", ExpandTabs("\ty", 2))
	assert.Equal(t, "no tabs", ExpandTabs("no tabs", 4))
}

func TestHighlightKeepsLineCount(t *testing.T) {
	src := "package main\n\nfunc main() {}\n"
	lines := Highlight("main.go", src, "monokai", 4)
	assert.Len(t, lines, 4)
	assert.Equal(t, "Go", Language("main.go", ""))
	assert.Empty(t, Language("", ""))
}

func TestClose(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "one\n")
	m := loaded(t, dir, path).Close()
	assert.Empty(t, m.Path())
	assert.False(t, m.IsModified())
	assert.Contains(t, m.View(), "No file open")
}
