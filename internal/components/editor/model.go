// Package editor is the text panel: it loads and saves one file, tracks
// whether the buffer differs from what is on disk, and offers a
// highlighted preview with a git gutter and an unsaved-changes diff.
package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/quill/internal/components"
	"github.com/avitaltamir/quill/internal/debug"
	"github.com/avitaltamir/quill/internal/editorconfig"
	"github.com/avitaltamir/quill/internal/git"
	"github.com/avitaltamir/quill/internal/theme"
)

// MaxFileSize is the largest file the editor opens.
const MaxFileSize = 4 << 20

var (
	ErrNoFile     = errors.New("no file open")
	ErrBinaryFile = errors.New("binary file")
	ErrTooLarge   = errors.New("file too large")
)

// Mode selects what the panel shows.
type Mode int

const (
	ModeEdit Mode = iota
	ModePreview
	ModeDiff
)

func (m Mode) String() string {
	switch m {
	case ModePreview:
		return "preview"
	case ModeDiff:
		return "diff"
	}
	return "edit"
}

// FileLoadedMsg carries the result of LoadFile.
type FileLoadedMsg struct {
	Path    string
	Content string
	Err     error
}

// FileSavedMsg carries the result of Save or SaveAs. From is the path the
// buffer had when the save was issued; it differs from Path after SaveAs.
type FileSavedMsg struct {
	Path    string
	From    string
	Content string
	Err     error
}

// ChangedMsg is emitted after an edit changed the buffer. Flipped is set
// when the edit moved the buffer between clean and modified.
type ChangedMsg struct {
	Path     string
	Modified bool
	Flipped  bool
}

// GutterMsg carries the changed lines of Path against HEAD.
type GutterMsg struct {
	Path  string
	Marks map[int]git.LineMark
	Err   error
}

// KeyMap defines the key bindings for the editor.
type KeyMap struct {
	Preview key.Binding
	Diff    key.Binding
	Indent  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Preview: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("^E", "preview")),
		Diff:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("^D", "diff")),
		Indent:  key.NewBinding(key.WithKeys("tab")),
	}
}

// Model is the editor component.
type Model struct {
	components.Base

	root string
	path string

	// saved is the file content as last read or written. baseline is the
	// buffer text right after that, which is what edits are compared to.
	saved    string
	baseline string
	modified bool
	useTabs  bool

	props editorconfig.Properties
	marks map[int]git.LineMark
	mode  Mode

	area textarea.Model
	view viewport.Model
	keys KeyMap
}

// New creates an empty editor.
func New() Model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0

	m := Model{
		area: ta,
		view: viewport.New(0, 0),
		keys: DefaultKeyMap(),
	}
	return m.Restyle()
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Restyle picks up the current theme.
func (m Model) Restyle() Model {
	m.area.FocusedStyle.LineNumber = theme.LineNumber
	m.area.FocusedStyle.CursorLineNumber = theme.LineNumberCur
	m.area.FocusedStyle.Text = theme.TextBody
	m.area.BlurredStyle.LineNumber = theme.LineNumber
	m.area.BlurredStyle.CursorLineNumber = theme.LineNumber
	m.area.BlurredStyle.Text = theme.TextBody
	m.refreshView()
	return m
}

// SetRoot sets the folder that bounds the .editorconfig lookup.
func (m Model) SetRoot(root string) Model {
	m.root = root
	return m
}

// Path returns the open file, or "".
func (m Model) Path() string { return m.path }

// Mode returns the current display mode.
func (m Model) Mode() Mode { return m.mode }

// Marks returns the gutter marks of the open file.
func (m Model) Marks() map[int]git.LineMark { return m.marks }

// TabWidth returns the tab width in effect for the open file.
func (m Model) TabWidth() int { return m.props.EffectiveTabWidth() }

// IsModified reports whether the buffer differs from the saved content.
func (m Model) IsModified() bool {
	return m.path != "" && m.area.Value() != m.baseline
}

// Content returns the buffer as it would be written to disk.
func (m Model) Content() string {
	if m.path == "" {
		return ""
	}
	return m.fromBuffer(m.area.Value())
}

// Focus gives the buffer the keyboard.
func (m Model) Focus() Model {
	m.Base.Focus()
	m.area.Focus()
	return m
}

// Blur releases the keyboard.
func (m Model) Blur() Model {
	m.Base.Blur()
	m.area.Blur()
	return m
}

// SetSize resizes the panel.
func (m Model) SetSize(width, height int) Model {
	m.Base.SetSize(width, height)
	w, h := m.Inner()
	m.area.SetWidth(w)
	m.area.SetHeight(h)
	m.view.Width = w
	m.view.Height = h
	m.refreshView()
	return m
}

// Close drops the open file.
func (m Model) Close() Model {
	m.path = ""
	m.saved, m.baseline = "", ""
	m.modified = false
	m.marks = nil
	m.mode = ModeEdit
	m.area.Reset()
	m.refreshView()
	return m
}

// LoadFile reads path off the event loop.
func LoadFile(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := readFile(path)
		if err != nil {
			debug.Warn(debug.EDITOR, "load failed", err, "path", path)
		} else {
			debug.Log(debug.EDITOR, "loaded", "path", path, "bytes", len(content))
		}
		return FileLoadedMsg{Path: path, Content: content, Err: err}
	}
}

func readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: is a directory", filepath.Base(path))
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(data[:min(len(data), 8000)], 0) >= 0 {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrBinaryFile)
	}
	return string(data), nil
}

// Save writes the buffer off the event loop.
func (m Model) Save() tea.Cmd {
	return m.SaveAs(m.path)
}

// SaveAs writes the buffer to path off the event loop. Once written the
// editor continues on path. An existing file keeps its permissions.
func (m Model) SaveAs(path string) tea.Cmd {
	from := m.path
	if from == "" || path == "" {
		return func() tea.Msg { return FileSavedMsg{Err: ErrNoFile} }
	}
	content := m.Content()
	return func() tea.Msg {
		perm := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			if info.IsDir() {
				err := fmt.Errorf("%s: is a directory", filepath.Base(path))
				return FileSavedMsg{Path: path, From: from, Err: err}
			}
			perm = info.Mode().Perm()
		} else if from != path {
			if info, err := os.Stat(from); err == nil {
				perm = info.Mode().Perm()
			}
		}
		if err := os.WriteFile(path, []byte(content), perm); err != nil {
			debug.Warn(debug.EDITOR, "save failed", err, "path", path)
			return FileSavedMsg{Path: path, From: from, Err: err}
		}
		debug.Log(debug.EDITOR, "saved", "path", path, "from", from, "bytes", len(content))
		return FileSavedMsg{Path: path, From: from, Content: content}
	}
}

// Update handles messages for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FileLoadedMsg:
		if msg.Err == nil {
			m.load(msg.Path, msg.Content)
		}
		return m, nil

	case FileSavedMsg:
		if msg.Err != nil || msg.From != m.path {
			return m, nil
		}
		if msg.Path != m.path {
			// The buffer keeps the indentation settings it was loaded with.
			m.path = msg.Path
			m.marks = nil
		}
		m.saved = msg.Content
		m.baseline = m.toBuffer(msg.Content)
		return m, m.noteChange()

	case GutterMsg:
		if msg.Path != m.path {
			return m, nil
		}
		m.marks = msg.Marks
		if msg.Err != nil {
			m.marks = nil
		}
		m.refreshView()
		return m, nil

	case tea.KeyMsg:
		if !m.Focused() || m.path == "" {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.path == "" || m.mode == ModeEdit {
			return m, nil
		}
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}

	if m.mode == ModeEdit {
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Preview):
		m.toggle(ModePreview)
		return m, nil
	case key.Matches(msg, m.keys.Diff):
		m.toggle(ModeDiff)
		return m, nil
	}

	if m.mode != ModeEdit {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}

	before := m.area.Value()
	var cmd tea.Cmd
	if key.Matches(msg, m.keys.Indent) {
		m.area.InsertString(m.indentUnit())
	} else {
		m.area, cmd = m.area.Update(msg)
	}
	if m.area.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.noteChange())
}

// noteChange recomputes the modified flag and reports the change.
func (m *Model) noteChange() tea.Cmd {
	modified := m.IsModified()
	flipped := modified != m.modified
	m.modified = modified
	ev := ChangedMsg{Path: m.path, Modified: modified, Flipped: flipped}
	return func() tea.Msg { return ev }
}

func (m *Model) load(path, content string) {
	m.path = path
	m.props = editorconfig.Resolve(path, m.root)
	m.useTabs = m.props.IndentStyle == "tab" ||
		(m.props.IndentStyle == "" && strings.Contains(content, "\n\t"))
	m.saved = content
	m.area.SetValue(m.toBuffer(content))
	for m.area.Line() > 0 {
		m.area.CursorUp()
	}
	m.area.CursorStart()
	m.baseline = m.area.Value()
	m.modified = false
	m.marks = nil
	m.mode = ModeEdit
	m.refreshView()
}

func (m *Model) toggle(mode Mode) {
	if m.mode == mode {
		m.mode = ModeEdit
	} else {
		m.mode = mode
	}
	m.refreshView()
	m.view.GotoTop()
}

// The buffer holds tabs as spaces; useTabs turns leading runs back into
// tabs when writing.
func (m Model) toBuffer(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", m.TabWidth()))
}

func (m Model) fromBuffer(s string) string {
	if !m.useTabs {
		return s
	}
	unit := strings.Repeat(" ", m.TabWidth())
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		n := 0
		for strings.HasPrefix(line[n*len(unit):], unit) {
			n++
		}
		if n > 0 {
			lines[i] = strings.Repeat("\t", n) + line[n*len(unit):]
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) indentUnit() string {
	if m.props.IndentSize > 0 && m.props.IndentStyle != "tab" {
		return strings.Repeat(" ", m.props.IndentSize)
	}
	return strings.Repeat(" ", m.TabWidth())
}

func (m *Model) refreshView() {
	switch m.mode {
	case ModePreview:
		m.view.SetContent(m.renderPreview())
	case ModeDiff:
		diff, err := UnsavedDiff(m.path, m.saved, m.Content())
		if err != nil {
			m.view.SetContent(theme.TextError.Render(err.Error()))
			return
		}
		m.view.SetContent(renderDiff(diff))
	}
}

func (m Model) renderPreview() string {
	content := m.Content()
	lines := Highlight(m.path, content, theme.CurrentTheme().ChromaStyle, m.TabWidth())
	numWidth := len(fmt.Sprint(len(lines)))
	textWidth := max(m.view.Width-numWidth-3, 0)

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		n := i + 1
		b.WriteString(theme.LineNumber.Width(numWidth).Render(fmt.Sprint(n)))
		b.WriteString(gutterCell(m.marks[n]))
		b.WriteByte(' ')
		b.WriteString(ansi.Truncate(line, textWidth, ""))
	}
	return b.String()
}

// View renders the panel.
func (m Model) View() string {
	w, h := m.Size()
	if m.path == "" {
		return theme.RenderPanel(theme.EditorMessage.Render("No file open"), theme.PanelOptions{Title: "EDITOR"}, w, h, m.Focused())
	}

	opts := theme.PanelOptions{Title: filepath.Base(m.path)}
	if m.modified {
		opts.Title += theme.UnsavedSuffix
	}
	parts := []string{}
	if lang := Language(m.path, ""); lang != "" {
		parts = append(parts, lang)
	}
	if m.mode != ModeEdit {
		parts = append(parts, m.mode.String())
	}
	opts.Subtitle = strings.Join(parts, " · ")
	if m.Focused() {
		opts.Hints = "^S save  ^E preview  ^D diff"
	}

	var body string
	if m.mode == ModeEdit {
		body = m.area.View()
	} else {
		body = m.view.View()
		opts.ScrollPercent = m.view.ScrollPercent() * 100
	}
	return theme.RenderPanel(body, opts, w, h, m.Focused())
}
