// Package prompt is a one-line input popup with history and directory
// completion, used to ask for a folder to open.
package prompt

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/quill/internal/components"
	"github.com/avitaltamir/quill/internal/theme"
)

// SubmittedMsg is sent when the user presses Enter on a non-empty value.
type SubmittedMsg struct {
	Value string
}

// CancelledMsg is sent when the user presses Esc.
type CancelledMsg struct{}

// Model is the prompt popup.
type Model struct {
	components.Base

	input   textinput.Model
	title   string
	history []string
	histIdx int
	visible bool
}

// New creates a hidden prompt.
func New() Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.CharLimit = 1024
	ti.Width = 60

	return Model{
		input:   ti,
		histIdx: -1,
	}
}

// SetHistory seeds the entries reachable with up/down, most recent first.
func (m Model) SetHistory(entries []string) Model {
	m.history = make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		m.history = append(m.history, entries[i])
	}
	m.histIdx = len(m.history)
	return m
}

// Visible reports whether the prompt is shown.
func (m Model) Visible() bool { return m.visible }

// Value returns the current input.
func (m Model) Value() string { return m.input.Value() }

// Open shows the prompt with title and an initial value.
func (m Model) Open(title, initial string) (Model, tea.Cmd) {
	m.visible = true
	m.title = title
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.histIdx = len(m.history)
	m.Base.Focus()
	cmd := m.input.Focus()
	return m, cmd
}

// Close hides the prompt.
func (m Model) Close() Model {
	m.visible = false
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

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				return m, nil
			}
			m.history = append(m.history, value)
			m = m.Close()
			return m, func() tea.Msg { return SubmittedMsg{Value: value} }

		case tea.KeyEsc:
			m = m.Close()
			return m, func() tea.Msg { return CancelledMsg{} }

		case tea.KeyUp:
			if len(m.history) > 0 && m.histIdx > 0 {
				m.histIdx--
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case tea.KeyDown:
			if m.histIdx < len(m.history)-1 {
				m.histIdx++
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			} else if m.histIdx == len(m.history)-1 {
				m.histIdx = len(m.history)
				m.input.SetValue("")
			}
			return m, nil

		case tea.KeyTab:
			if done := CompleteDir(m.input.Value()); done != m.input.Value() {
				m.input.SetValue(done)
				m.input.CursorEnd()
			}
			return m, nil

		case tea.KeyCtrlU:
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// CompleteDir extends value to the longest common prefix of the
// directories it could name. A leading ~ stands for the home directory.
func CompleteDir(value string) string {
	if value == "~" {
		return "~" + string(filepath.Separator)
	}
	expanded := ExpandHome(value)
	dir, base := filepath.Split(expanded)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return value
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), base) {
			continue
		}
		if strings.HasPrefix(e.Name(), ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return value
	}
	sort.Strings(names)

	common := names[0]
	for _, n := range names[1:] {
		for !strings.HasPrefix(n, common) {
			common = common[:len(common)-1]
		}
	}
	completed := value[:len(value)-len(base)] + common
	if len(names) == 1 {
		completed += string(filepath.Separator)
	}
	return completed
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// View renders the popup.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	w, _ := m.Size()
	body := theme.PopupTitle.Render(m.title) + "\n" + m.input.View() + "\n" +
		theme.TextDim.Render("tab complete · ↑↓ history · esc cancel")
	return theme.Popup.Width(max(w-2, 1)).Render(body)
}
