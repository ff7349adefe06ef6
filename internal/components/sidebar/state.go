package sidebar

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avitaltamir/quill/internal/config"
	"github.com/avitaltamir/quill/internal/debug"
	"github.com/avitaltamir/quill/internal/fsscan"
	"github.com/avitaltamir/quill/internal/git"
	"github.com/avitaltamir/quill/internal/index"
	"github.com/avitaltamir/quill/internal/state"
	"github.com/avitaltamir/quill/internal/theme"
	"github.com/avitaltamir/quill/internal/tree"
	"github.com/avitaltamir/quill/internal/watch"
)

// Session persists per-folder sidebar state between runs.
type Session interface {
	SaveExpanded(ctx context.Context, root string, paths []string) error
	Expanded(ctx context.Context, root string) ([]string, error)
	SetLastFile(ctx context.Context, root, file string) error
}

// WatchFunc starts a filesystem watcher on root.
type WatchFunc func(root string, opts watch.Options) (*watch.Watcher, error)

// Options wires the sidebar to its collaborators. Nil fields get defaults,
// except Session, which stays disabled when nil.
type Options struct {
	Config    *config.Config
	Lister    index.Lister
	Git       git.Provider
	Session   Session
	Watch     WatchFunc
	AddRecent func(folder string, max int) ([]string, error)
}

// State is everything the sidebar owns for the open folder: the tree, the
// population run, the file list, the git status map, the expansion
// snapshot waiting to be restored and the reference to the current file.
// It is only touched from the event loop.
type State struct {
	opts Options
	cfg  *config.Config

	tree       *tree.Model
	pop        *index.Population
	populating bool
	root       string

	repo   git.RepoInfo
	isRepo bool
	status git.StatusMap

	pending tree.PathSet

	current       tree.Ref
	currentPath   string
	unsaved       bool
	selectPending bool
	reveal        bool

	watcher *watch.Watcher
	session *sessionStore

	openSeq    uint64
	pollSeq    uint64
	editSeq    uint64
	gitGen     uint64
	gitApplied uint64
}

// NewState creates an empty sidebar state with no folder open.
func NewState(opts Options) *State {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Lister == nil {
		opts.Lister = fsscan.New()
	}
	if opts.Git == nil {
		opts.Git = git.NewShellProvider()
	}
	if opts.Watch == nil {
		opts.Watch = watch.New
	}
	if opts.AddRecent == nil {
		opts.AddRecent = state.AddRecent
	}
	return &State{
		opts: opts,
		cfg:  opts.Config,
		tree:    tree.New(),
		pop:     index.New(opts.Lister),
		session: newSessionStore(opts.Session),
	}
}

// Root returns the open folder, or "" when none is open.
func (s *State) Root() string { return s.root }

// Tree returns the tree model.
func (s *State) Tree() *tree.Model { return s.tree }

// Files returns every file discovered so far.
func (s *State) Files() []string { return s.pop.Files() }

// Populating reports whether a population run is in progress.
func (s *State) Populating() bool { return s.populating }

// Progress returns the number of directories scanned and still queued.
func (s *State) Progress() (scanned, pending int) {
	return s.pop.Scanned(), s.pop.Pending()
}

// Repo returns the repository info of the open folder.
func (s *State) Repo() (git.RepoInfo, bool) { return s.repo, s.isRepo }

// CurrentPath returns the path of the file last selected for editing.
func (s *State) CurrentPath() string { return s.currentPath }

// Current returns the row of the current file, if it is in the tree.
func (s *State) Current() (tree.NodeID, bool) { return s.tree.Resolve(s.current) }

// StatusOf returns the git classification of path.
func (s *State) StatusOf(path string) git.Flag {
	return git.Classify(s.status[path])
}

// OpenFolder makes path the root: the active run is cancelled and drained,
// the tree and file list are cleared, a new population starts and the
// watcher and stored session are brought up by commands. Missing or
// unreadable folders yield an empty tree.
func (s *State) OpenFolder(path string) tea.Cmd {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.Clean(path)

	var pending tree.PathSet
	if path == s.root {
		pending = s.expandedNow()
	}
	persist := s.persistExpanded()
	s.pop.Cancel()
	s.closeWatcher()
	s.tree.Clear()

	s.root = path
	s.current = tree.Ref{}
	s.currentPath = ""
	s.unsaved = false
	s.selectPending = false
	s.reveal = false
	s.status = nil
	s.pending = pending

	repo, err := s.opts.Git.Repo(path)
	s.repo, s.isRepo = repo, err == nil
	if err != nil {
		debug.Log(debug.GIT, "no repository", "root", path, "err", err)
	}

	s.openSeq++
	s.pollSeq++
	s.editSeq++
	s.pop.Start(s.tree, path)
	s.populating = true

	debug.Log(debug.APP, "folder opened", "root", path, "repo", s.isRepo, "branch", repo.Branch)

	return tea.Batch(
		persist,
		s.nextTick(),
		s.loadSession(),
		s.installWatcher(),
		s.armPoll(),
		s.opened(),
	)
}

// opened records the folder in the recent list and reports it.
func (s *State) opened() tea.Cmd {
	msg := FolderOpenedMsg{Root: s.root, Repo: s.repo, IsRepo: s.isRepo}
	addRecent, limit := s.opts.AddRecent, s.cfg.RecentMax
	return func() tea.Msg {
		recent, err := addRecent(msg.Root, limit)
		if err != nil {
			debug.Warn(debug.APP, "recent folders not saved", err)
		}
		msg.Recent = recent
		return msg
	}
}

// CloseFolder drops the open folder. Without one it does nothing.
func (s *State) CloseFolder() tea.Cmd {
	if s.root == "" {
		return nil
	}
	persist := s.persistExpanded()

	s.pop.Reset()
	s.populating = false
	s.tree.Clear()
	s.closeWatcher()

	debug.Log(debug.APP, "folder closed", "root", s.root)

	s.root = ""
	s.current = tree.Ref{}
	s.currentPath = ""
	s.unsaved = false
	s.selectPending = false
	s.reveal = false
	s.status = nil
	s.pending = nil
	s.repo, s.isRepo = git.RepoInfo{}, false
	s.openSeq++
	s.pollSeq++
	s.editSeq++

	return tea.Batch(persist, func() tea.Msg { return FolderClosedMsg{} })
}

// Reload rebuilds the tree from disk, restoring the folders that were
// expanded. Without an open folder it does nothing.
func (s *State) Reload() tea.Cmd {
	if s.root == "" {
		return nil
	}
	snap := s.expandedNow()
	save := s.session.saveExpanded(s.root, snap.Sorted())

	s.pop.Cancel()
	s.tree.Clear()
	s.pending = snap
	s.pop.Start(s.tree, s.root)
	s.populating = true

	debug.Log(debug.INDEX, "reload", "root", s.root, "expanded", len(snap))
	return tea.Batch(save, s.nextTick())
}

// Select makes path the current file: its ancestors are expanded and it
// is recorded as the folder's last file. A path the running population has
// not reached yet is revealed when the run completes. The previous file's
// row loses its unsaved marker.
func (s *State) Select(path string) tea.Cmd {
	if id, ok := s.tree.Resolve(s.current); ok && s.unsaved {
		n, _ := s.tree.Node(id)
		s.tree.SetLabel(id, n.BaseName())
	}
	s.currentPath = path
	s.current = tree.Ref{}
	s.unsaved = false
	s.selectPending = false

	id, ok := s.tree.Find(path)
	if !ok {
		if s.populating {
			s.selectPending = true
		}
		return nil
	}
	return s.revealCurrent(id)
}

func (s *State) revealCurrent(id tree.NodeID) tea.Cmd {
	s.tree.ExpandTo(id)
	s.current = s.tree.Ref(id)
	s.reveal = true
	return s.session.setLastFile(s.root, s.currentPath)
}

// takeReveal returns the row the cursor should move to after a select,
// once.
func (s *State) takeReveal() (tree.NodeID, bool) {
	if !s.reveal {
		return tree.Root, false
	}
	s.reveal = false
	return s.Current()
}

// MarkUnsaved adds or removes the unsaved suffix on the current file's row.
// Paths other than the current file are ignored, and nothing happens once
// the row is gone.
func (s *State) MarkUnsaved(path string, unsaved bool) {
	if path == "" || path != s.currentPath {
		return
	}
	s.unsaved = unsaved
	id, ok := s.tree.Resolve(s.current)
	if !ok {
		return
	}
	n, _ := s.tree.Node(id)
	label := n.BaseName()
	if unsaved {
		label += theme.UnsavedSuffix
	}
	s.tree.SetLabel(id, label)
	debug.Log(debug.EDITOR, "mark unsaved", "path", path, "unsaved", unsaved)
}

// NotifyEdited re-arms the post-edit git timer.
func (s *State) NotifyEdited() tea.Cmd {
	if s.root == "" || s.currentPath == "" {
		return nil
	}
	s.editSeq++
	seq := s.editSeq
	return tea.Tick(s.cfg.GitEditDebounce, func(time.Time) tea.Msg {
		return gitEditDueMsg{seq: seq}
	})
}

// RefreshGit starts a status pass for the open folder. Outside a
// repository it clears decorations without running git.
func (s *State) RefreshGit() tea.Cmd {
	if s.root == "" {
		return nil
	}
	if !s.isRepo {
		s.status = nil
		git.ClearDecorations(s.tree)
		return nil
	}
	s.gitGen++
	gen, root, provider := s.gitGen, s.root, s.opts.Git
	return func() tea.Msg {
		st, err := provider.Status(context.Background(), root)
		return gitStatusMsg{gen: gen, root: root, status: st, err: err}
	}
}

// Shutdown stops background work and persists the session. The write runs
// inline since the loop is going away.
func (s *State) Shutdown() {
	if persist := s.persistExpanded(); persist != nil {
		persist()
	}
	s.openSeq++
	s.pop.Cancel()
	s.populating = false
	s.closeWatcher()
	s.pollSeq++
	s.editSeq++
}

// handle processes internal events. ok is false for messages the state
// does not own.
func (s *State) handle(msg tea.Msg) (cmd tea.Cmd, ok bool) {
	switch msg := msg.(type) {
	case populateTickMsg:
		if !s.pop.Apply(msg.result) {
			return nil, true
		}
		if s.pop.Active() {
			return s.nextTick(), true
		}
		return s.complete(), true

	case watcherReadyMsg:
		return s.watcherReady(msg), true

	case sessionLoadedMsg:
		s.sessionLoaded(msg)
		return nil, true

	case watchEventMsg:
		if msg.w == nil || msg.w != s.watcher || s.root == "" {
			return nil, true
		}
		debug.Log(debug.WATCH, "change", "root", msg.change.Root, "events", msg.change.Events, "last", msg.change.Last)
		return tea.Batch(s.Reload(), waitForChange(msg.w)), true

	case gitPollMsg:
		if msg.seq != s.pollSeq || s.root == "" {
			return nil, true
		}
		return tea.Batch(s.RefreshGit(), s.armPoll()), true

	case gitEditDueMsg:
		if msg.seq != s.editSeq {
			return nil, true
		}
		return s.RefreshGit(), true

	case gitStatusMsg:
		s.applyStatus(msg)
		return nil, true
	}
	return nil, false
}

func (s *State) nextTick() tea.Cmd {
	job, ok := s.pop.Pop()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		if job.Token.Cancelled() {
			return nil
		}
		return populateTickMsg{result: job.Run()}
	}
}

func (s *State) complete() tea.Cmd {
	s.populating = false
	restored := s.tree.RestoreExpanded(s.pending)
	s.pending = nil

	var save tea.Cmd
	if s.currentPath != "" {
		if id, ok := s.tree.Find(s.currentPath); ok {
			if s.selectPending {
				save = s.revealCurrent(id)
			}
			s.current = s.tree.Ref(id)
			s.MarkUnsaved(s.currentPath, s.unsaved)
		}
	}
	s.selectPending = false

	files := s.pop.Files()
	done := PopulatedMsg{Root: s.root, Files: files, Dirs: s.pop.Scanned()}
	debug.Log(debug.INDEX, "population complete", "root", s.root, "dirs", done.Dirs, "files", len(files), "restored", restored)

	return tea.Batch(save, s.RefreshGit(), func() tea.Msg { return done })
}

func (s *State) applyStatus(msg gitStatusMsg) {
	if msg.root != s.root || msg.gen < s.gitApplied {
		return
	}
	s.gitApplied = msg.gen
	if msg.err != nil {
		debug.Warn(debug.GIT, "status failed", msg.err, "root", msg.root)
		s.status = nil
		git.ClearDecorations(s.tree)
		return
	}
	s.status = msg.status
	flags := git.Annotate(s.tree, msg.status)
	debug.Log(debug.GIT, "annotated", "entries", len(msg.status), "flags", flags)
}

func (s *State) armPoll() tea.Cmd {
	seq := s.pollSeq
	return tea.Tick(s.cfg.GitPollInterval, func(time.Time) tea.Msg {
		return gitPollMsg{seq: seq}
	})
}

// installWatcher starts the watcher off the event loop; registering a large
// tree with the kernel takes a while.
func (s *State) installWatcher() tea.Cmd {
	seq, root, start := s.openSeq, s.root, s.opts.Watch
	opts := watch.Options{
		Debounce:  s.cfg.WatchDebounce,
		Recursive: s.cfg.RecursiveWatch,
		MaxDirs:   s.cfg.WatchMaxDirs,
	}
	return func() tea.Msg {
		w, err := start(root, opts)
		return watcherReadyMsg{seq: seq, root: root, w: w, err: err}
	}
}

func (s *State) watcherReady(msg watcherReadyMsg) tea.Cmd {
	if msg.err != nil {
		debug.Warn(debug.WATCH, "watch failed", msg.err, "root", msg.root)
		return nil
	}
	if msg.seq != s.openSeq || msg.root != s.root {
		if err := msg.w.Close(); err != nil {
			debug.Warn(debug.WATCH, "close stale watcher", err)
		}
		return nil
	}
	s.closeWatcher()
	s.watcher = msg.w
	return waitForChange(msg.w)
}

func (s *State) closeWatcher() {
	if s.watcher == nil {
		return
	}
	if err := s.watcher.Close(); err != nil {
		debug.Warn(debug.WATCH, "close watcher", err)
	}
	s.watcher = nil
}

func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-w.C()
		if !ok {
			return nil
		}
		return watchEventMsg{w: w, change: change}
	}
}

// expandedNow snapshots the expanded folders, keeping any snapshot still
// waiting for an unfinished run.
func (s *State) expandedNow() tree.PathSet {
	snap := s.tree.SnapshotExpanded()
	if s.populating {
		for p := range s.pending {
			snap[p] = struct{}{}
		}
	}
	return snap
}

func (s *State) persistExpanded() tea.Cmd {
	if s.root == "" {
		return nil
	}
	return s.session.saveExpanded(s.root, s.expandedNow().Sorted())
}

func (s *State) loadSession() tea.Cmd {
	if !s.cfg.RestoreSession {
		return nil
	}
	return s.session.loadExpanded(s.openSeq, s.root)
}

// sessionLoaded merges the stored snapshot into the one waiting for the
// running population, or applies it directly once the run is over.
func (s *State) sessionLoaded(msg sessionLoadedMsg) {
	if msg.seq != s.openSeq || msg.root != s.root {
		return
	}
	if msg.err != nil {
		debug.Warn(debug.STORE, "expanded folders not loaded", msg.err, "root", msg.root)
		return
	}
	if !s.populating {
		restored := s.tree.RestoreExpanded(tree.NewPathSet(msg.paths...))
		debug.Log(debug.STORE, "session restored late", "root", msg.root, "restored", restored)
		return
	}
	if s.pending == nil {
		s.pending = tree.NewPathSet(msg.paths...)
		return
	}
	for _, p := range msg.paths {
		s.pending[p] = struct{}{}
	}
}
