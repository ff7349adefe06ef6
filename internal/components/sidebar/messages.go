package sidebar

import (
	"github.com/avitaltamir/quill/internal/git"
	"github.com/avitaltamir/quill/internal/index"
	"github.com/avitaltamir/quill/internal/watch"
)

// Internal events. Every asynchronous result re-enters the sidebar as one
// of these and is handled in Update.
type (
	// populateTickMsg carries the listing of one directory scanned off the
	// event loop. It is applied only if its token is still current.
	populateTickMsg struct {
		result index.Result
	}

	// watcherReadyMsg is a watcher started off the event loop for root.
	// A stale seq means the folder changed in between.
	watcherReadyMsg struct {
		seq  uint64
		root string
		w    *watch.Watcher
		err  error
	}

	// sessionLoadedMsg carries the stored expansion snapshot of root.
	sessionLoadedMsg struct {
		seq   uint64
		root  string
		paths []string
		err   error
	}

	// watchEventMsg is a debounced burst of filesystem changes.
	watchEventMsg struct {
		w      *watch.Watcher
		change watch.Change
	}

	// gitPollMsg is the periodic status timer. seq identifies the open
	// folder that armed it; a stale seq ends the chain.
	gitPollMsg struct {
		seq uint64
	}

	// gitEditDueMsg fires after the post-edit quiet period.
	gitEditDueMsg struct {
		seq uint64
	}

	// gitStatusMsg is the result of one status invocation.
	gitStatusMsg struct {
		gen    uint64
		root   string
		status git.StatusMap
		err    error
	}
)

// Messages for the surrounding application.
type (
	// OpenFileMsg asks the editor to open Path.
	OpenFileMsg struct {
		Path string
	}

	// FolderOpenedMsg is sent when a folder becomes the sidebar root.
	FolderOpenedMsg struct {
		Root   string
		Repo   git.RepoInfo
		IsRepo bool
		Recent []string
	}

	// FolderClosedMsg is sent when the sidebar has no root anymore.
	FolderClosedMsg struct{}

	// PopulatedMsg is sent when a population run completes.
	PopulatedMsg struct {
		Root  string
		Files []string
		Dirs  int
	}

	// NoticeMsg is a short status line message.
	NoticeMsg struct {
		Text string
	}
)
