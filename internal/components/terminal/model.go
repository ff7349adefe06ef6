// Package terminal is the embedded shell panel: a process under a pty whose
// output is interpreted by a vt10x screen.
package terminal

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"
	"github.com/hinshun/vt10x"

	"github.com/avitaltamir/quill/internal/components"
	"github.com/avitaltamir/quill/internal/debug"
	"github.com/avitaltamir/quill/internal/theme"
)

// ExitMsg is sent when the shell exits.
type ExitMsg struct {
	Err error
}

type outputMsg struct {
	id   int
	data []byte
}

type exitMsg struct {
	id  int
	err error
}

// session is one running process. Messages carry its id so output of a
// replaced session is dropped.
type session struct {
	id   int
	argv []string
	dir  string
	cmd  *exec.Cmd
	pty  *os.File
	vt   vt10x.Terminal
}

func (s *session) close() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	if s.pty != nil {
		_ = s.pty.Close()
	}
}

// Model is the terminal component.
type Model struct {
	components.Base

	sess     *session
	lastID   int
	exitErr  error
	startErr error
}

// New creates a terminal with no process.
func New() Model {
	return Model{}
}

// Running reports whether a process is attached.
func (m Model) Running() bool { return m.sess != nil }

// Dir returns the working directory of the running process.
func (m Model) Dir() string {
	if m.sess == nil {
		return ""
	}
	return m.sess.dir
}

// Start runs argv in dir, replacing any running process.
func (m Model) Start(dir string, argv ...string) (Model, tea.Cmd) {
	m = m.Stop()
	if len(argv) == 0 {
		m.startErr = errors.New("no command")
		return m, nil
	}

	cols, rows := m.screenSize()
	m.lastID++
	s := &session{id: m.lastID, argv: argv, dir: dir}
	s.cmd = exec.Command(argv[0], argv[1:]...)
	s.cmd.Dir = dir
	s.cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(s.cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		debug.Warn(debug.TERM, "start failed", err, "argv", argv, "dir", dir)
		m.startErr = err
		return m, nil
	}
	s.pty = ptmx
	s.vt = vt10x.New(vt10x.WithSize(cols, rows), vt10x.WithWriter(ptmx))
	m.sess = s
	m.exitErr, m.startErr = nil, nil
	debug.Log(debug.TERM, "started", "argv", argv, "dir", dir, "cols", cols, "rows", rows)
	return m, readOutput(s)
}

// Stop kills the running process.
func (m Model) Stop() Model {
	if m.sess != nil {
		debug.Log(debug.TERM, "stopping", "id", m.sess.id)
		m.sess.close()
		m.sess = nil
	}
	return m
}

func readOutput(s *session) tea.Cmd {
	return func() tea.Msg {
		buf := make([]byte, 32*1024)
		n, err := s.pty.Read(buf)
		if n > 0 {
			return outputMsg{id: s.id, data: buf[:n]}
		}
		if err == nil {
			return outputMsg{id: s.id}
		}
		// Linux reports EIO rather than EOF once the child is gone.
		if !errors.Is(err, io.EOF) {
			debug.Log(debug.TERM, "read ended", "id", s.id, "err", err)
		}
		return exitMsg{id: s.id, err: s.cmd.Wait()}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outputMsg:
		if m.sess == nil || msg.id != m.sess.id {
			return m, nil
		}
		if len(msg.data) > 0 {
			_, _ = m.sess.vt.Write(msg.data)
		}
		return m, readOutput(m.sess)

	case exitMsg:
		if m.sess == nil || msg.id != m.sess.id {
			return m, nil
		}
		debug.Log(debug.TERM, "exited", "id", msg.id, "err", msg.err)
		m.sess.close()
		m.sess = nil
		m.exitErr = msg.err
		err := msg.err
		return m, func() tea.Msg { return ExitMsg{Err: err} }

	case tea.KeyMsg:
		if !m.Focused() || m.sess == nil {
			return m, nil
		}
		if input := keyBytes(msg); len(input) > 0 {
			if _, err := m.sess.pty.Write(input); err != nil {
				debug.Warn(debug.TERM, "write failed", err)
			}
		}
	}
	return m, nil
}

// Focus gives focus to this component.
func (m Model) Focus() Model {
	m.Base.Focus()
	return m
}

// Blur removes focus from this component.
func (m Model) Blur() Model {
	m.Base.Blur()
	return m
}

// SetSize resizes the panel and the running screen.
func (m Model) SetSize(width, height int) Model {
	if !m.Base.SetSize(width, height) || m.sess == nil {
		return m
	}
	cols, rows := m.screenSize()
	m.sess.vt.Resize(cols, rows)
	if err := pty.Setsize(m.sess.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		debug.Warn(debug.TERM, "resize failed", err)
	}
	return m
}

func (m Model) screenSize() (cols, rows int) {
	cols, rows = m.Inner()
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	return cols, rows
}

// View renders the panel.
func (m Model) View() string {
	w, h := m.Size()
	opts := theme.PanelOptions{Title: "TERMINAL"}

	var body string
	switch {
	case m.sess != nil:
		opts.Subtitle = filepath.Base(m.sess.argv[0])
		body = renderScreen(m.sess.vt, m.Focused())
	case m.startErr != nil:
		body = theme.TextError.Render("Could not start shell: " + m.startErr.Error())
	case m.lastID == 0:
		body = theme.TextMuted.Render("No shell running")
	case m.exitErr != nil:
		opts.Subtitle = "exited"
		body = theme.TextMuted.Render("Shell exited: " + m.exitErr.Error())
	default:
		opts.Subtitle = "exited"
		body = theme.TextMuted.Render("Shell exited")
	}
	return theme.RenderPanel(body, opts, w, h, m.Focused())
}
