package sidebar

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/quill/internal/debug"
)

// sessionStore runs Session reads and writes as commands, off the event
// loop. Writes for one root carry the sequence they were issued with and a
// write older than the last one applied is dropped, so a slow command
// cannot overwrite newer state.
type sessionStore struct {
	session Session

	// seq is only advanced on the event loop.
	seq uint64

	mu       sync.Mutex
	expanded map[string]uint64
	last     map[string]uint64
}

func newSessionStore(session Session) *sessionStore {
	return &sessionStore{
		session:  session,
		expanded: map[string]uint64{},
		last:     map[string]uint64{},
	}
}

func (s *sessionStore) enabled() bool { return s.session != nil }

// saveExpanded returns a command storing the expanded folders of root.
func (s *sessionStore) saveExpanded(root string, paths []string) tea.Cmd {
	if !s.enabled() || root == "" {
		return nil
	}
	s.seq++
	seq := s.seq
	return func() tea.Msg {
		s.mu.Lock()
		defer s.mu.Unlock()
		if seq < s.expanded[root] {
			return nil
		}
		s.expanded[root] = seq
		if err := s.session.SaveExpanded(context.Background(), root, paths); err != nil {
			debug.Warn(debug.STORE, "expanded folders not saved", err, "root", root)
		}
		return nil
	}
}

// setLastFile returns a command recording file as the last one edited
// under root.
func (s *sessionStore) setLastFile(root, file string) tea.Cmd {
	if !s.enabled() || root == "" {
		return nil
	}
	s.seq++
	seq := s.seq
	return func() tea.Msg {
		s.mu.Lock()
		defer s.mu.Unlock()
		if seq < s.last[root] {
			return nil
		}
		s.last[root] = seq
		if err := s.session.SetLastFile(context.Background(), root, file); err != nil {
			debug.Warn(debug.STORE, "last file not saved", err, "root", root)
		}
		return nil
	}
}

// loadExpanded returns a command reading the stored snapshot of root. It
// waits for writes already running so a reopen sees what was just saved.
func (s *sessionStore) loadExpanded(seq uint64, root string) tea.Cmd {
	if !s.enabled() {
		return nil
	}
	return func() tea.Msg {
		s.mu.Lock()
		defer s.mu.Unlock()
		paths, err := s.session.Expanded(context.Background(), root)
		return sessionLoadedMsg{seq: seq, root: root, paths: paths, err: err}
	}
}
