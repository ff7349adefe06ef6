// Package search is the go-to-file popup. It filters the file list of the
// open folder by substring as the user types.
package search

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/quill/internal/components"
	"github.com/avitaltamir/quill/internal/theme"
)

// SelectedMsg is sent when the user picks a file.
type SelectedMsg struct {
	Path string
}

// ClosedMsg is sent when the popup closes without a pick.
type ClosedMsg struct{}

type filterDueMsg struct {
	seq int
}

// Filter returns the paths of files whose lowercased path contains the
// lowercased query, in list order, at most limit of them. An empty query
// matches everything. A limit of zero or less means no limit.
func Filter(files []string, query string, limit int) []string {
	q := strings.ToLower(query)
	var out []string
	for _, f := range files {
		if limit > 0 && len(out) >= limit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(f), q) {
			out = append(out, f)
		}
	}
	return out
}

// KeyMap defines the key bindings for the popup.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+k")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+j")),
		Open:   key.NewBinding(key.WithKeys("enter")),
		Cancel: key.NewBinding(key.WithKeys("esc")),
	}
}

// Model is the search popup.
type Model struct {
	components.Base

	input    textinput.Model
	root     string
	files    []string
	results  []string
	cursor   int
	query    string
	seq      int
	debounce time.Duration
	limit    int
	visible  bool
	keys     KeyMap
}

// New creates a closed popup.
func New(debounce time.Duration, limit int) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "Search files by name"
	ti.CharLimit = 256

	return Model{
		input:    ti,
		debounce: debounce,
		limit:    limit,
		keys:     DefaultKeyMap(),
	}
}

// Visible reports whether the popup is open.
func (m Model) Visible() bool { return m.visible }

// Results returns the current matches.
func (m Model) Results() []string { return m.results }

// Cursor returns the index of the highlighted match.
func (m Model) Cursor() int { return m.cursor }

// Open shows the popup over files, which are absolute paths under root.
func (m Model) Open(root string, files []string) (Model, tea.Cmd) {
	m.visible = true
	m.root = root
	m.files = files
	m.query = ""
	m.input.SetValue("")
	m.seq++
	m.refilter()
	m.Base.Focus()
	cmd := m.input.Focus()
	return m, cmd
}

// SetFiles replaces the file list, keeping the query.
func (m Model) SetFiles(files []string) Model {
	m.files = files
	if m.visible {
		m.refilter()
	}
	return m
}

// Close hides the popup.
func (m Model) Close() Model {
	m.visible = false
	m.seq++
	m.files = nil
	m.results = nil
	m.input.Blur()
	m.Base.Blur()
	return m
}

// SetSize sets the popup's outer size.
func (m Model) SetSize(width, height int) Model {
	m.Base.SetSize(width, height)
	w, _ := m.Inner()
	m.input.Width = max(w-4, 1)
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case filterDueMsg:
		if msg.seq == m.seq {
			m.refilter()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m = m.Close()
			return m, func() tea.Msg { return ClosedMsg{} }
		case key.Matches(msg, m.keys.Open):
			if m.cursor >= len(m.results) {
				return m, nil
			}
			path := m.results[m.cursor]
			m = m.Close()
			return m, func() tea.Msg { return SelectedMsg{Path: path} }
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == m.query {
			return m, cmd
		}
		m.query = m.input.Value()
		m.seq++
		seq := m.seq
		due := tea.Tick(m.debounce, func(time.Time) tea.Msg { return filterDueMsg{seq: seq} })
		return m, tea.Batch(cmd, due)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) refilter() {
	m.results = Filter(m.files, m.query, m.limit)
	m.cursor = 0
}

// View renders the popup.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	w, h := m.Size()
	inner := max(w-4, 1)
	rows := max(h-5, 1)

	lines := []string{theme.PopupTitle.Render("Go to file"), m.input.View(), ""}

	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.results))
	for i := start; i < end; i++ {
		lines = append(lines, m.renderResult(m.results[i], inner, i == m.cursor))
	}
	if len(m.results) == 0 {
		lines = append(lines, theme.TextMuted.Render("No matching files"))
	}

	return theme.Popup.Width(max(w-2, 1)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderResult(path string, width int, selected bool) string {
	rel := path
	if r, err := filepath.Rel(m.root, path); err == nil && !strings.HasPrefix(r, "..") {
		rel = r
	}
	dir, name := filepath.Split(rel)
	line := theme.SearchMatch.Render(name)
	if dir != "" {
		line += " " + theme.SearchMatchPath.Render(strings.TrimSuffix(dir, string(filepath.Separator)))
	}
	line = ansi.Truncate(line, width, "…")
	if selected {
		pad := max(width-ansi.StringWidth(line), 0)
		line = theme.TreeSelected.Render(line + strings.Repeat(" ", pad))
	}
	return line
}
