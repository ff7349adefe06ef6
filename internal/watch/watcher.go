// Package watch reports debounced structural changes under an opened folder.
package watch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/avitaltamir/quill/internal/debug"
	"github.com/avitaltamir/quill/internal/fsscan"
	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before a change
// is reported.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// Recursive also watches every non-hidden subdirectory. Without it only
	// changes directly under the root are seen.
	Recursive bool
	// MaxDirs caps the number of directories subscribed; zero means no
	// limit. Past the cap deeper changes go unnoticed until a reload.
	MaxDirs int
}

var errLimit = errors.New("watch limit reached")

// Change is one debounced burst of events.
type Change struct {
	Root   string
	Events int    // number of qualifying events collapsed into this change
	Last   string // path of the last event in the burst
}

// Watcher subscribes to create, remove and rename notifications under a
// root. Bursts of events restart a single timer; when it fires one Change
// is delivered on C.
type Watcher struct {
	root     string
	opts     Options
	fw       *fsnotify.Watcher
	changes  chan Change
	done     chan struct{}
	stopped  chan struct{}
	mu       sync.Mutex
	watching map[string]bool
	once     sync.Once
}

// New starts watching root.
func New(root string, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     root,
		opts:     opts,
		fw:       fw,
		changes:  make(chan Change, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		watching: make(map[string]bool),
	}

	if err := w.add(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if opts.Recursive {
		w.addTree(root)
	}

	go w.run()
	debug.Log(debug.WATCH, "watching", "root", root, "recursive", opts.Recursive, "dirs", w.Watched())
	return w, nil
}

// Root returns the watched folder.
func (w *Watcher) Root() string {
	return w.root
}

// C delivers debounced changes. It is closed by Close.
func (w *Watcher) C() <-chan Change {
	return w.changes
}

// Watched returns the number of directories subscribed.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watching)
}

// Close stops the watcher and its debounce timer. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fw.Close()
		<-w.stopped
		debug.Log(debug.WATCH, "stopped", "root", w.root)
	})
	return err
}

func (w *Watcher) add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watching[dir] {
		return nil
	}
	if w.opts.MaxDirs > 0 && len(w.watching) >= w.opts.MaxDirs {
		return errLimit
	}
	if err := w.fw.Add(dir); err != nil {
		return err
	}
	w.watching[dir] = true
	return nil
}

// addTree subscribes every non-hidden directory below dir until the cap is
// reached. Symlinked directories are not followed.
func (w *Watcher) addTree(dir string) {
	conf := &fastwalk.Config{Follow: false}
	err := fastwalk.Walk(conf, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fsscan.IsHidden(d.Name()) {
			return fastwalk.SkipDir
		}
		if err := w.add(path); err != nil {
			if errors.Is(err, errLimit) {
				return err
			}
			debug.Log(debug.WATCH, "add failed", "dir", path, "err", err)
		}
		return nil
	})
	if errors.Is(err, errLimit) {
		debug.Log(debug.WATCH, "watch limit reached", "dir", dir, "max", w.opts.MaxDirs)
		return
	}
	if err != nil {
		debug.Log(debug.WATCH, "walk failed", "dir", dir, "err", err)
	}
}

// qualifies reports whether ev changes the shape of the tree.
func qualifies(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return !fsscan.IsHidden(filepath.Base(ev.Name))
}

func (w *Watcher) run() {
	defer close(w.stopped)
	defer close(w.changes)

	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending Change
	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !qualifies(ev) {
				continue
			}
			if w.opts.Recursive && ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addTree(ev.Name)
				}
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				w.forget(ev.Name)
			}

			pending.Events++
			pending.Last = ev.Name
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				debug.Log(debug.WATCH, "error", "err", err)
				continue
			}
			// Events were lost; report a change so the tree is rebuilt.
			pending.Events++
			timer.Reset(w.opts.Debounce)

		case <-timer.C:
			if pending.Events == 0 {
				continue
			}
			pending.Root = w.root
			debug.Log(debug.WATCH, "change", "root", w.root, "events", pending.Events, "last", pending.Last)
			select {
			case w.changes <- pending:
			default:
				// A change is already waiting; it covers this one too.
			}
			pending = Change{}
		}
	}
}

// forget drops bookkeeping for a removed directory. fsnotify removes the
// kernel watch itself.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	delete(w.watching, path)
	w.mu.Unlock()
}
