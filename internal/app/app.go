// Package app is the root bubbletea model. It owns the panels, routes
// their messages to each other, keeps focus and layout, and persists UI
// state on quit.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/quill/internal/components/editor"
	"github.com/avitaltamir/quill/internal/components/prompt"
	"github.com/avitaltamir/quill/internal/components/search"
	"github.com/avitaltamir/quill/internal/components/sidebar"
	"github.com/avitaltamir/quill/internal/components/terminal"
	"github.com/avitaltamir/quill/internal/config"
	"github.com/avitaltamir/quill/internal/debug"
	"github.com/avitaltamir/quill/internal/git"
	"github.com/avitaltamir/quill/internal/layout"
	"github.com/avitaltamir/quill/internal/state"
	"github.com/avitaltamir/quill/internal/theme"
)

// Version is the application version, set at build time via ldflags.
var Version = "dev"

// lastFiler is implemented by session stores that remember the last file
// opened per folder.
type lastFiler interface {
	LastFile(ctx context.Context, root string) (string, error)
}

// Options configures New.
type Options struct {
	Config  *config.Config
	State   state.State
	Session sidebar.Session
	Git     git.Provider
	Sidebar sidebar.Options
	// Folder is opened at startup when set.
	Folder string
	// Recent seeds the welcome screen, most recent first.
	Recent []string
	// SaveState persists UI state on quit. Defaults to state.Save.
	SaveState func(state.State) error
}

// Model is the root application model.
type Model struct {
	cfg *config.Config
	git git.Provider

	sidebar sidebar.Model
	editor  editor.Model
	term    terminal.Model
	search  search.Model
	prompt  prompt.Model

	session   sidebar.Session
	saveState func(state.State) error

	// Focus state
	focus       PanelID
	prevFocus   PanelID
	termVisible bool
	sideHidden  bool
	showHelp    bool
	showQuit    bool
	lastQuit    time.Time

	// Layout
	layout      layout.Layout
	leftPercent int
	resizing    bool
	keys        KeyMap

	width  int
	height int
	ready  bool

	status    string
	statusErr bool
	recent    []string
	// pendingOpen is a file whose open was held back because the buffer
	// has unsaved changes. Asking for it again discards them.
	pendingOpen string
	promptFor   promptPurpose

	initCmds []tea.Cmd
}

// New creates the application model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	provider := opts.Git
	if provider == nil {
		provider = git.NewShellProvider()
	}
	save := opts.SaveState
	if save == nil {
		save = state.Save
	}

	sbOpts := opts.Sidebar
	sbOpts.Config = cfg
	sbOpts.Git = provider
	if sbOpts.Session == nil {
		sbOpts.Session = opts.Session
	}

	if !theme.SetThemeByName(cfg.Theme) {
		theme.SetThemeIndex(opts.State.ThemeIndex)
	}

	m := Model{
		cfg:         cfg,
		git:         provider,
		sidebar:     sidebar.New(sbOpts),
		editor:      editor.New(),
		term:        terminal.New(),
		search:      search.New(cfg.SearchDebounce, cfg.SearchMaxResults),
		prompt:      prompt.New().SetHistory(opts.Recent),
		session:     sbOpts.Session,
		saveState:   save,
		focus:       PanelSidebar,
		termVisible: opts.State.TerminalVisible,
		leftPercent: layout.ClampLeftPercent(opts.State.LeftPanelPercent),
		keys:        DefaultKeyMap(),
		recent:      opts.Recent,
	}
	if opts.State.LeftPanelPercent == 0 {
		m.leftPercent = layout.DefaultLeftPanelPercent
	}
	m.sidebar = m.sidebar.Focus()

	folder := opts.Folder
	if folder == "" && cfg.RestoreSession {
		folder = opts.State.LastFolder
	}
	if folder != "" {
		if info, err := os.Stat(folder); err == nil && info.IsDir() {
			var cmd tea.Cmd
			m.sidebar, cmd = m.sidebar.OpenFolder(folder)
			m.initCmds = append(m.initCmds, cmd)
		} else {
			m.status, m.statusErr = "Not a folder: "+folder, true
		}
	}
	return m
}

// Init starts the startup work queued by New.
func (m Model) Init() tea.Cmd {
	return tea.Batch(append(m.initCmds, m.editor.Init())...)
}

// promptPurpose is what the path prompt's answer is used for.
type promptPurpose int

const (
	promptOpenFolder promptPurpose = iota
	promptSaveAs
)

// Focus returns the focused panel.
func (m Model) Focus() PanelID { return m.focus }

// TerminalVisible reports whether the terminal panel is shown.
func (m Model) TerminalVisible() bool { return m.termVisible }

// SidebarVisible reports whether the folder panel is shown.
func (m Model) SidebarVisible() bool { return !m.sideHidden }

// Status returns the status bar message.
func (m Model) Status() string { return m.status }

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m = m.relayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case StatusMsg:
		m.status, m.statusErr = msg.Text, msg.Error
		return m, nil

	// Sidebar events
	case sidebar.OpenFileMsg:
		return m.openFile(msg.Path)

	case sidebar.FolderOpenedMsg:
		return m.folderOpened(msg)

	case sidebar.FolderClosedMsg:
		m.editor = m.editor.Close().SetRoot("")
		m.term = m.term.Stop()
		m.search = m.search.Close()
		m.pendingOpen = ""
		m.recent = state.LoadRecent()
		m.status, m.statusErr = "Folder closed", false
		if m.focus != PanelTerminal {
			m = m.setFocus(PanelSidebar)
		}
		return m, nil

	case sidebar.PopulatedMsg:
		m.search = m.search.SetFiles(msg.Files)
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd

	case sidebar.NoticeMsg:
		m.status, m.statusErr = msg.Text, false
		return m, nil

	// Editor events
	case editor.FileLoadedMsg:
		return m.fileLoaded(msg)

	case editor.FileSavedMsg:
		return m.fileSaved(msg)

	case editor.ChangedMsg:
		if msg.Path != m.editor.Path() {
			return m, nil
		}
		if msg.Flipped {
			m.sidebar = m.sidebar.MarkUnsaved(msg.Path, msg.Modified)
		}
		return m, m.sidebar.State().NotifyEdited()

	case editor.GutterMsg:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd

	// Popups
	case search.SelectedMsg:
		m = m.setFocus(m.prevFocus)
		return m.openFile(msg.Path)

	case search.ClosedMsg, prompt.CancelledMsg:
		m = m.setFocus(m.prevFocus)
		return m, nil

	case prompt.SubmittedMsg:
		m = m.setFocus(m.prevFocus)
		if m.promptFor == promptSaveAs {
			m.prompt = m.prompt.SetHistory(m.recent)
			return m.saveAs(msg.Value)
		}
		return m.openFolder(msg.Value)

	case lastFileMsg:
		if msg.root != m.sidebar.State().Root() || m.editor.Path() != "" {
			return m, nil
		}
		return m, editor.LoadFile(msg.path)

	case terminal.ExitMsg:
		if msg.Err != nil {
			m.status, m.statusErr = "Shell exited: "+msg.Err.Error(), true
		} else {
			m.status, m.statusErr = "Shell exited", false
		}
		return m, nil
	}

	return m, m.broadcast(msg)
}

// broadcast hands a message no one claimed to every panel. Each panel
// recognizes its own timers and async results and ignores the rest.
func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.sidebar, cmd = m.sidebar.Update(msg)
	cmds = append(cmds, cmd)
	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)
	m.term, cmd = m.term.Update(msg)
	cmds = append(cmds, cmd)
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	m.prompt, cmd = m.prompt.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showQuit {
		switch msg.String() {
		case "y", "Y", "enter", "ctrl+q":
			return m.quit()
		case "n", "N", "esc":
			m.showQuit = false
		}
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.prompt.Visible() {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	if m.search.Visible() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		now := time.Now()
		if now.Sub(m.lastQuit) < 400*time.Millisecond {
			return m.quit()
		}
		m.lastQuit = now
		m.showQuit = true
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if m.editor.Path() == "" {
			m.status, m.statusErr = "No file open", true
			return m, nil
		}
		return m, m.editor.Save()

	case key.Matches(msg, m.keys.SaveAs):
		path := m.editor.Path()
		if path == "" {
			m.status, m.statusErr = "No file open", true
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Open("Save as", path)
		m.promptFor = promptSaveAs
		m = m.blurAll()
		return m, cmd

	case key.Matches(msg, m.keys.Reload):
		if m.sidebar.State().Root() == "" {
			m.status, m.statusErr = "Open a folder first (ctrl+o)", true
			return m, nil
		}
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Reload()
		m.status, m.statusErr = "Reloading "+filepath.Base(m.sidebar.State().Root()), false
		return m, cmd

	case key.Matches(msg, m.keys.ToggleSidebar):
		return m.toggleSidebar(), nil

	case key.Matches(msg, m.keys.Search):
		root := m.sidebar.State().Root()
		if root == "" {
			m.status, m.statusErr = "Open a folder first (ctrl+o)", true
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Open(root, m.sidebar.State().Files())
		m = m.blurAll()
		return m, cmd

	case key.Matches(msg, m.keys.OpenFolder):
		initial := m.sidebar.State().Root()
		if initial == "" {
			initial, _ = os.Getwd()
		}
		if initial != "" {
			initial += string(filepath.Separator)
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Open("Open folder", initial)
		m.promptFor = promptOpenFolder
		m = m.blurAll()
		return m, cmd

	case key.Matches(msg, m.keys.CloseFolder):
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.CloseFolder()
		return m, cmd

	case key.Matches(msg, m.keys.ToggleTerminal):
		return m.toggleTerminal()

	case key.Matches(msg, m.keys.FocusSidebar):
		if m.sideHidden {
			m = m.toggleSidebar()
		}
		return m.setFocus(PanelSidebar), nil

	case key.Matches(msg, m.keys.FocusEditor):
		return m.setFocus(PanelEditor), nil

	case key.Matches(msg, m.keys.FocusTerminal):
		if !m.termVisible {
			return m.toggleTerminal()
		}
		return m.setFocus(PanelTerminal), nil

	case key.Matches(msg, m.keys.ShrinkSidebar):
		return m.resizeSidebar(m.leftPercent - 5), nil

	case key.Matches(msg, m.keys.GrowSidebar):
		return m.resizeSidebar(m.leftPercent + 5), nil

	case key.Matches(msg, m.keys.CycleTheme):
		t := theme.NextTheme()
		m.editor = m.editor.Restyle()
		m.status, m.statusErr = "Theme: "+t.Name, false
		return m, nil
	}

	// Welcome screen: digits open a recent folder.
	if m.sidebar.State().Root() == "" && m.focus != PanelTerminal && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if r := msg.Runes[0]; r >= '1' && r <= '9' {
			if i := int(r - '1'); i < len(m.recent) {
				return m.openFolder(m.recent[i])
			}
			return m, nil
		}
	}

	if m.focus == PanelSidebar && key.Matches(msg, m.keys.NextFromTree) {
		return m.setFocus(PanelEditor), nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case PanelSidebar:
		m.sidebar, cmd = m.sidebar.Update(msg)
	case PanelEditor:
		m.editor, cmd = m.editor.Update(msg)
	case PanelTerminal:
		m.term, cmd = m.term.Update(msg)
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showQuit || m.showHelp || m.prompt.Visible() || m.search.Visible() {
		return m, nil
	}

	// Dragging the sidebar's right border resizes it.
	border := m.layout.LeftWidth - 1
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
		msg.X == border && msg.Y < m.layout.MainHeight:
		m.resizing = true
		return m, nil
	case m.resizing && msg.Action == tea.MouseActionMotion:
		if m.width > 0 {
			return m.resizeSidebar((msg.X + 1) * 100 / m.width), nil
		}
		return m, nil
	case m.resizing && msg.Action == tea.MouseActionRelease:
		m.resizing = false
		return m, nil
	}

	target := m.panelAt(msg.X, msg.Y)
	if target == PanelNone {
		return m, nil
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && target != m.focus {
		m = m.setFocus(target)
	}

	var cmd tea.Cmd
	switch target {
	case PanelSidebar:
		x, y, _, _ := m.layout.SidebarBounds()
		msg.X, msg.Y = msg.X-x, msg.Y-y
		m.sidebar, cmd = m.sidebar.Update(msg)
	case PanelEditor:
		x, y, _, _ := m.layout.EditorBounds()
		msg.X, msg.Y = msg.X-x, msg.Y-y
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m Model) panelAt(x, y int) PanelID {
	in := func(bx, by, bw, bh int) bool {
		return x >= bx && x < bx+bw && y >= by && y < by+bh
	}
	switch {
	case in(m.layout.SidebarBounds()):
		return PanelSidebar
	case in(m.layout.EditorBounds()):
		return PanelEditor
	case in(m.layout.TerminalBounds()):
		return PanelTerminal
	}
	return PanelNone
}

func (m Model) openFile(path string) (tea.Model, tea.Cmd) {
	if m.editor.IsModified() && path != m.editor.Path() && path != m.pendingOpen {
		m.pendingOpen = path
		m.status, m.statusErr = fmt.Sprintf("%s has unsaved changes: save with ctrl+s, or open %s again to discard them",
			filepath.Base(m.editor.Path()), filepath.Base(path)), true
		return m, nil
	}
	m.pendingOpen = ""
	return m, editor.LoadFile(path)
}

func (m Model) fileLoaded(msg editor.FileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status, m.statusErr = "Could not open "+filepath.Base(msg.Path)+": "+msg.Err.Error(), true
		return m, nil
	}
	var cmd, sel tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.sidebar, sel = m.sidebar.Select(msg.Path)
	m.status, m.statusErr = "", false
	m = m.setFocus(PanelEditor)
	root := m.sidebar.State().Root()
	return m, tea.Batch(cmd, sel, editor.LoadGutter(m.git, root, msg.Path))
}

func (m Model) fileSaved(msg editor.FileSavedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status, m.statusErr = "Save failed: "+msg.Err.Error(), true
		return m, nil
	}
	if msg.From != m.editor.Path() {
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	root := m.sidebar.State().Root()
	cmds := []tea.Cmd{cmd, m.sidebar.State().RefreshGit(), editor.LoadGutter(m.git, root, msg.Path)}

	if msg.Path == msg.From {
		m.status, m.statusErr = "File saved successfully", false
		return m, tea.Batch(cmds...)
	}

	// Saved under a new name: the new file becomes current and shows up
	// in the tree once the reload reaches it.
	if root != "" && isWithin(root, msg.Path) {
		var reload tea.Cmd
		m.sidebar, reload = m.sidebar.Reload()
		cmds = append(cmds, reload)
	}
	var sel tea.Cmd
	m.sidebar, sel = m.sidebar.Select(msg.Path)
	m.status, m.statusErr = "Saved as "+filepath.Base(msg.Path), false
	return m, tea.Batch(append(cmds, sel)...)
}

func (m Model) saveAs(value string) (tea.Model, tea.Cmd) {
	path := prompt.ExpandHome(value)
	if !filepath.IsAbs(path) {
		base := m.sidebar.State().Root()
		if base == "" {
			base = filepath.Dir(m.editor.Path())
		}
		path = filepath.Join(base, path)
	}
	path = filepath.Clean(path)
	if path == m.editor.Path() {
		return m, m.editor.Save()
	}
	return m, m.editor.SaveAs(path)
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (m Model) openFolder(path string) (tea.Model, tea.Cmd) {
	path = prompt.ExpandHome(path)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		m.status, m.statusErr = "Not a folder: "+path, true
		return m, nil
	}
	var cmd tea.Cmd
	m.sidebar, cmd = m.sidebar.OpenFolder(path)
	return m, cmd
}

func (m Model) folderOpened(msg sidebar.FolderOpenedMsg) (tea.Model, tea.Cmd) {
	debug.Log(debug.APP, "folder opened", "root", msg.Root, "repo", msg.IsRepo)
	if len(msg.Recent) > 0 {
		m.recent = msg.Recent
		m.prompt = m.prompt.SetHistory(msg.Recent)
	}
	m.editor = m.editor.Close().SetRoot(msg.Root)
	m.pendingOpen = ""
	m.status, m.statusErr = "Opened "+msg.Root, false
	m = m.setFocus(PanelSidebar)

	var cmds []tea.Cmd
	if m.termVisible || m.term.Running() {
		var cmd tea.Cmd
		m.term, cmd = m.term.Start(msg.Root, m.cfg.ShellCommand())
		cmds = append(cmds, cmd)
	}
	if cmd := m.restoreLastFile(msg.Root); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// restoreLastFile looks up the file last edited under root off the event
// loop. The answer is dropped if the folder or the open file changed in
// the meantime.
func (m Model) restoreLastFile(root string) tea.Cmd {
	lf, ok := m.session.(lastFiler)
	if !ok || !m.cfg.RestoreSession {
		return nil
	}
	return func() tea.Msg {
		path, err := lf.LastFile(context.Background(), root)
		if err != nil {
			debug.Warn(debug.STORE, "last file not loaded", err, "root", root)
			return nil
		}
		if path == "" {
			return nil
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return nil
		}
		return lastFileMsg{root: root, path: path}
	}
}

func (m Model) toggleTerminal() (tea.Model, tea.Cmd) {
	if m.termVisible && m.focus != PanelTerminal {
		return m.setFocus(PanelTerminal), nil
	}
	m.termVisible = !m.termVisible
	m = m.relayout()
	if !m.termVisible {
		return m.setFocus(m.prevFocus), nil
	}

	m = m.setFocus(PanelTerminal)
	if m.term.Running() {
		return m, nil
	}
	dir := m.sidebar.State().Root()
	if dir == "" {
		dir, _ = os.Getwd()
	}
	var cmd tea.Cmd
	m.term, cmd = m.term.Start(dir, m.cfg.ShellCommand())
	return m, cmd
}

func (m Model) toggleSidebar() Model {
	m.sideHidden = !m.sideHidden
	m = m.relayout()
	if m.sideHidden && m.focus == PanelSidebar {
		m = m.setFocus(PanelEditor)
	}
	return m
}

func (m Model) resizeSidebar(percent int) Model {
	m.leftPercent = layout.ClampLeftPercent(percent)
	return m.relayout()
}

func (m Model) relayout() Model {
	m.layout = layout.Calculate(m.width, m.height, !m.sideHidden, m.termVisible, m.leftPercent)

	_, _, w, h := m.layout.SidebarBounds()
	m.sidebar = m.sidebar.SetSize(w, h)
	_, _, w, h = m.layout.EditorBounds()
	m.editor = m.editor.SetSize(w, h)
	if m.termVisible {
		_, _, w, h = m.layout.TerminalBounds()
		m.term = m.term.SetSize(w, h)
	}
	w, h = m.layout.PopupSize(90)
	m.search = m.search.SetSize(w, h)
	m.prompt = m.prompt.SetSize(w, 5)
	return m
}

func (m Model) blurAll() Model {
	if m.focus != PanelNone {
		m = m.setFocus(PanelNone)
	}
	return m
}

func (m Model) setFocus(target PanelID) Model {
	if target == PanelTerminal && !m.termVisible {
		target = PanelEditor
	}
	if target == PanelSidebar && m.sideHidden {
		target = PanelEditor
	}
	if target == m.focus {
		return m
	}

	switch m.focus {
	case PanelSidebar:
		m.sidebar = m.sidebar.Blur()
	case PanelEditor:
		m.editor = m.editor.Blur()
	case PanelTerminal:
		m.term = m.term.Blur()
	}

	if m.focus != PanelNone {
		m.prevFocus = m.focus
	}
	m.focus = target

	switch target {
	case PanelSidebar:
		m.sidebar = m.sidebar.Focus()
	case PanelEditor:
		m.editor = m.editor.Focus()
	case PanelTerminal:
		m.term = m.term.Focus()
	}
	return m
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	st := m.sidebar.State()
	s := state.State{
		ThemeIndex:       theme.CurrentThemeIndex(),
		LeftPanelPercent: m.leftPercent,
		TerminalVisible:  m.termVisible,
		LastFolder:       st.Root(),
	}
	st.Shutdown()
	m.term = m.term.Stop()
	if err := m.saveState(s); err != nil {
		debug.Warn(debug.STORE, "state not saved", err)
	}
	debug.Log(debug.APP, "quit", "root", s.LastFolder)
	return m, tea.Quit
}
