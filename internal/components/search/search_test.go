package search

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var files = []string{
	"/w/README.md",
	"/w/cmd/main.go",
	"/w/internal/Tree/model.go",
	"/w/internal/tree/node.go",
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"empty matches all", "", 0, files},
		{"case insensitive", "TREE", 0, files[2:]},
		{"substring of path", "cmd/ma", 0, files[1:2]},
		{"keeps list order", "o", 0, files[1:]},
		{"capped", "", 2, files[:2]},
		{"no match", "zzz", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(files, tt.query, tt.limit))
		})
	}
}

func typeQuery(m Model, s string) (Model, []tea.Cmd) {
	var cmds []tea.Cmd
	for _, r := range s {
		var cmd tea.Cmd
		m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, cmd)
	}
	return m, cmds
}

// dueMsgs runs cmds and returns the filter ticks among their results.
func dueMsgs(cmds []tea.Cmd) []filterDueMsg {
	var out []filterDueMsg
	var walk func(tea.Cmd)
	walk = func(c tea.Cmd) {
		if c == nil {
			return
		}
		switch msg := c().(type) {
		case filterDueMsg:
			out = append(out, msg)
		case tea.BatchMsg:
			for _, inner := range msg {
				walk(inner)
			}
		}
	}
	for _, c := range cmds {
		walk(c)
	}
	return out
}

func TestDebouncedFiltering(t *testing.T) {
	m := New(time.Millisecond, 100).SetSize(60, 20)
	m, _ = m.Open("/w", files)
	require.True(t, m.Visible())
	assert.Len(t, m.Results(), len(files))

	m, cmds := typeQuery(m, "node")
	// Nothing filters until a tick lands.
	assert.Len(t, m.Results(), len(files))

	due := dueMsgs(cmds)
	require.Len(t, due, 4)
	// Stale ticks do nothing.
	m, _ = m.Update(due[0])
	assert.Len(t, m.Results(), len(files))

	m, _ = m.Update(due[3])
	assert.Equal(t, []string{"/w/internal/tree/node.go"}, m.Results())
}

func TestSelectAndCancel(t *testing.T) {
	m := New(time.Millisecond, 100).SetSize(60, 20)
	m, _ = m.Open("/w", files)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.Cursor())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SelectedMsg{Path: "/w/cmd/main.go"}, cmd())
	assert.False(t, m.Visible())

	m, _ = m.Open("/w", files)
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, ClosedMsg{}, cmd())
	assert.False(t, m.Visible())
}

func TestEnterWithoutResults(t *testing.T) {
	m := New(time.Millisecond, 100)
	m, _ = m.Open("/w", nil)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.Visible())
	assert.Contains(t, m.SetSize(40, 10).View(), "No matching files")
}

func TestClosedIgnoresInput(t *testing.T) {
	m := New(time.Millisecond, 100)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, m.View())
}

func TestSetFilesWhileOpen(t *testing.T) {
	m := New(time.Millisecond, 100)
	m, _ = m.Open("/w", files[:1])
	m = m.SetFiles(files)
	assert.Len(t, m.Results(), len(files))
}

func TestViewShowsRelativePaths(t *testing.T) {
	m := New(time.Millisecond, 100).SetSize(60, 20)
	m, _ = m.Open("/w", files)
	view := m.View()
	assert.Contains(t, view, "Go to file")
	assert.Contains(t, view, "main.go")
	assert.NotContains(t, view, "/w/cmd")
}
