// Package sidebar is the folder tree panel. It hosts the incremental
// population, the filesystem watcher, the git annotator and the
// current-file tracker on the bubbletea event loop.
package sidebar

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/quill/internal/components"
	"github.com/avitaltamir/quill/internal/debug"
	"github.com/avitaltamir/quill/internal/theme"
	"github.com/avitaltamir/quill/internal/tree"
)

// KeyMap defines the key bindings for the sidebar.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Enter       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Home        key.Binding
	End         key.Binding
	CollapseAll key.Binding
	CopyPath    key.Binding
	Reload      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k")),
		Down:        key.NewBinding(key.WithKeys("down", "j")),
		Left:        key.NewBinding(key.WithKeys("left", "h")),
		Right:       key.NewBinding(key.WithKeys("right", "l")),
		Enter:       key.NewBinding(key.WithKeys("enter")),
		PageUp:      key.NewBinding(key.WithKeys("pgup")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown")),
		Home:        key.NewBinding(key.WithKeys("home", "g")),
		End:         key.NewBinding(key.WithKeys("end", "G")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse")),
		CopyPath:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}

// Model is the sidebar component.
type Model struct {
	components.Base

	state *State

	rows       []tree.Row
	cursor     int
	offset     int
	cursorPath string

	spinner  spinner.Model
	spinning bool

	keys KeyMap

	writeClipboard func(string) error
}

// New creates a sidebar with no folder open.
func New(opts Options) Model {
	return Model{
		state: NewState(opts),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.SpinnerStyle),
		),
		keys:           DefaultKeyMap(),
		writeClipboard: clipboard.WriteAll,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// State exposes the sidebar state to the application.
func (m Model) State() *State {
	return m.state
}

// Focus gives the sidebar keyboard focus.
func (m Model) Focus() Model {
	m.Base.Focus()
	return m
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.Base.Blur()
	return m
}

// SetSize updates the panel dimensions.
func (m Model) SetSize(width, height int) Model {
	m.Base.SetSize(width, height)
	m.ensureVisible()
	return m
}

// OpenFolder opens path in the sidebar.
func (m Model) OpenFolder(path string) (Model, tea.Cmd) {
	cmd := m.state.OpenFolder(path)
	m.cursor, m.offset, m.cursorPath = 0, 0, ""
	m.refreshRows()
	return m, tea.Batch(cmd, m.startSpinner())
}

// CloseFolder closes the open folder.
func (m Model) CloseFolder() (Model, tea.Cmd) {
	cmd := m.state.CloseFolder()
	m.cursor, m.offset, m.cursorPath = 0, 0, ""
	m.refreshRows()
	return m, cmd
}

// Reload rebuilds the tree from disk.
func (m Model) Reload() (Model, tea.Cmd) {
	cmd := m.state.Reload()
	m.refreshRows()
	if cmd == nil {
		return m, nil
	}
	return m, tea.Batch(cmd, m.startSpinner())
}

// Select makes path the current file and moves the cursor to it, now or
// once the running population reaches it.
func (m Model) Select(path string) (Model, tea.Cmd) {
	cmd := m.state.Select(path)
	m.refreshRows()
	m.revealCurrent()
	return m, cmd
}

// MarkUnsaved updates the unsaved marker of the current file.
func (m Model) MarkUnsaved(path string, unsaved bool) Model {
	m.state.MarkUnsaved(path, unsaved)
	m.refreshRows()
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.state.Populating() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.Focused() {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if cmd, ok := m.state.handle(msg); ok {
		m.refreshRows()
		m.revealCurrent()
		if _, reload := msg.(watchEventMsg); reload {
			cmd = tea.Batch(cmd, m.startSpinner())
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning || !m.state.Populating() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	_, h := m.Inner()
	t := m.state.Tree()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-max(h-1, 1))

	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(max(h-1, 1))

	case key.Matches(msg, m.keys.Home):
		m.setCursor(0)

	case key.Matches(msg, m.keys.End):
		m.setCursor(len(m.rows) - 1)

	case key.Matches(msg, m.keys.Enter):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		n, _ := t.Node(id)
		if n.IsDir() {
			t.Toggle(id)
			m.refreshRows()
			return m, nil
		}
		return m, openFile(n.Path)

	case key.Matches(msg, m.keys.Right):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		n, _ := t.Node(id)
		if !n.IsDir() {
			return m, openFile(n.Path)
		}
		if !n.Expanded {
			t.Expand(id)
			m.refreshRows()
		} else if len(n.Children) > 0 {
			m.moveCursor(1)
		}

	case key.Matches(msg, m.keys.Left):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		if t.IsExpanded(id) {
			t.Collapse(id)
			m.refreshRows()
		} else if p := t.Parent(id); p != tree.Root {
			m.moveTo(p)
		}

	case key.Matches(msg, m.keys.CollapseAll):
		t.CollapseAll()
		m.refreshRows()

	case key.Matches(msg, m.keys.CopyPath):
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.copyPath(t.Path(id))

	case key.Matches(msg, m.keys.Reload):
		return m.Reload()
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-3)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scroll(3)
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	_, y, ok := m.InnerPoint(msg.X, msg.Y)
	row := y + m.offset
	if !ok || row >= len(m.rows) {
		return m, nil
	}
	m.setCursor(row)

	t := m.state.Tree()
	id := m.rows[row].ID
	n, _ := t.Node(id)
	if n.IsDir() {
		t.Toggle(id)
		m.refreshRows()
		return m, nil
	}
	return m, openFile(n.Path)
}

func openFile(path string) tea.Cmd {
	return func() tea.Msg { return OpenFileMsg{Path: path} }
}

func (m Model) copyPath(path string) tea.Cmd {
	write := m.writeClipboard
	return func() tea.Msg {
		if err := write(path); err != nil {
			debug.Warn(debug.APP, "clipboard", err)
			return NoticeMsg{Text: "Copy failed: " + err.Error()}
		}
		return NoticeMsg{Text: "Copied " + path}
	}
}

// refreshRows recomputes the visible rows and keeps the cursor on the same
// path when it still exists. While a run is rebuilding the tree the path is
// kept even if its row is not back yet.
func (m *Model) refreshRows() {
	t := m.state.Tree()
	m.rows = t.Visible()
	if m.cursorPath != "" {
		for i, r := range m.rows {
			if t.Path(r.ID) == m.cursorPath {
				m.setCursor(i)
				return
			}
		}
		if m.state.Populating() {
			m.cursor = min(max(m.cursor, 0), max(len(m.rows)-1, 0))
			m.ensureVisible()
			return
		}
	}
	m.setCursor(m.cursor)
}

func (m *Model) revealCurrent() {
	if id, ok := m.state.takeReveal(); ok {
		m.moveTo(id)
	}
}

func (m *Model) selected() (tree.NodeID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return tree.Root, false
	}
	return m.rows[m.cursor].ID, true
}

func (m *Model) moveTo(id tree.NodeID) {
	for i, r := range m.rows {
		if r.ID == id {
			m.setCursor(i)
			return
		}
	}
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

func (m *Model) setCursor(i int) {
	if len(m.rows) == 0 {
		m.cursor, m.offset, m.cursorPath = 0, 0, ""
		return
	}
	m.cursor = min(max(i, 0), len(m.rows)-1)
	m.cursorPath = m.state.Tree().Path(m.rows[m.cursor].ID)
	m.ensureVisible()
}

func (m *Model) scroll(delta int) {
	_, h := m.Inner()
	m.offset = min(max(m.offset+delta, 0), max(len(m.rows)-h, 0))
}

func (m *Model) ensureVisible() {
	_, h := m.Inner()
	if h <= 0 {
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}
