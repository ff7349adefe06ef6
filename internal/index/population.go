// Package index populates a tree.Model incrementally, one directory per
// step, and keeps the flat list of discovered files.
package index

import (
	"path/filepath"
	"sync/atomic"

	"github.com/avitaltamir/quill/internal/debug"
	"github.com/avitaltamir/quill/internal/fsscan"
	"github.com/avitaltamir/quill/internal/tree"
)

// Lister lists one directory.
type Lister interface {
	Scan(dir string) fsscan.Listing
}

// DirTask is one directory waiting to be scanned. Parent is the node that
// will own the discovered children, tree.Root for the opened folder itself.
type DirTask struct {
	Dir    string
	Parent tree.NodeID
}

// Token identifies one population run. Work issued under a token must check
// Cancelled before touching the model.
type Token struct {
	gen       uint64
	cancelled *atomic.Bool
}

// Cancelled reports whether the run was superseded or stopped. The zero
// Token is always cancelled.
func (t Token) Cancelled() bool {
	return t.cancelled == nil || t.cancelled.Load()
}

// Gen returns the run's generation number.
func (t Token) Gen() uint64 {
	return t.gen
}

// Population is the in-flight population of one folder. At most one run is
// alive at a time: Start cancels and drains the previous one first.
type Population struct {
	lister Lister
	model  *tree.Model
	root   string
	queue  []DirTask
	files  []string
	token  Token
	gen    uint64
	dirs   int
}

// New creates an idle population that scans with lister.
func New(lister Lister) *Population {
	return &Population{lister: lister}
}

// Start begins populating model from root. Any active run is cancelled and
// drained, and the file list is reset. The caller is expected to have
// cleared model already.
func (p *Population) Start(model *tree.Model, root string) Token {
	p.Cancel()

	p.gen++
	p.token = Token{gen: p.gen, cancelled: new(atomic.Bool)}
	p.model = model
	p.root = root
	p.files = nil
	p.dirs = 0
	p.queue = append(p.queue[:0], DirTask{Dir: root, Parent: tree.Root})

	debug.Log(debug.INDEX, "population started", "root", root, "gen", p.gen)
	return p.token
}

// Token returns the token of the current run.
func (p *Population) Token() Token {
	return p.token
}

// Root returns the folder being populated.
func (p *Population) Root() string {
	return p.root
}

// Active reports whether work is still queued for the current run.
func (p *Population) Active() bool {
	return !p.token.Cancelled() && len(p.queue) > 0
}

// Pending returns the number of queued directories.
func (p *Population) Pending() int {
	return len(p.queue)
}

// Scanned returns how many directories the current run has applied.
func (p *Population) Scanned() int {
	return p.dirs
}

// Cancel stops the current run: the token is flagged and every queued task
// is discarded without touching the model.
func (p *Population) Cancel() {
	if p.token.cancelled != nil && !p.token.cancelled.Load() {
		p.token.cancelled.Store(true)
		debug.Log(debug.INDEX, "population cancelled", "root", p.root, "gen", p.token.gen, "drained", len(p.queue))
	}
	for len(p.queue) > 0 {
		p.queue[0] = DirTask{}
		p.queue = p.queue[1:]
	}
	p.queue = nil
}

// Reset cancels the run and forgets the root and file list.
func (p *Population) Reset() {
	p.Cancel()
	p.root = ""
	p.files = nil
	p.model = nil
	p.dirs = 0
}

// Job is one popped task, bound to the run that issued it.
type Job struct {
	Token  Token
	Task   DirTask
	lister Lister
}

// Result is the listing of a job's directory.
type Result struct {
	Token   Token
	Task    DirTask
	Listing fsscan.Listing
}

// Run scans the job's directory. It touches no shared state and may run off
// the event loop.
func (j Job) Run() Result {
	return Result{Token: j.Token, Task: j.Task, Listing: j.lister.Scan(j.Task.Dir)}
}

// Pop removes the next task in FIFO order.
func (p *Population) Pop() (Job, bool) {
	if !p.Active() {
		return Job{}, false
	}
	task := p.queue[0]
	p.queue[0] = DirTask{}
	p.queue = p.queue[1:]
	return Job{Token: p.token, Task: task, lister: p.lister}, true
}

// Apply inserts the listing under the task's parent, enqueues discovered
// subdirectories and records discovered files. Results carrying a stale or
// cancelled token are dropped and Apply returns false.
func (p *Population) Apply(r Result) bool {
	if r.Token.Cancelled() || r.Token.gen != p.token.gen || p.model == nil {
		debug.Log(debug.INDEX, "stale scan dropped", "dir", r.Task.Dir, "gen", r.Token.gen)
		return false
	}

	for _, name := range r.Listing.Dirs {
		path := filepath.Join(r.Task.Dir, name)
		id := p.model.Append(r.Task.Parent, tree.KindFolder, name, path)
		p.queue = append(p.queue, DirTask{Dir: path, Parent: id})
	}
	for _, name := range r.Listing.Files {
		path := filepath.Join(r.Task.Dir, name)
		p.model.Append(r.Task.Parent, tree.KindFile, name, path)
		p.files = append(p.files, path)
	}
	p.dirs++
	return true
}

// Files returns every regular file found so far, in discovery order.
func (p *Population) Files() []string {
	return p.files[:len(p.files):len(p.files)]
}
