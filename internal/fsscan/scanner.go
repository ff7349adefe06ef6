// Package fsscan lists a single directory for the sidebar.
package fsscan

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/avitaltamir/quill/internal/debug"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Listing is the result of scanning one directory.
// Both slices hold bare names, already ordered.
type Listing struct {
	Dirs  []string
	Files []string
}

// Empty reports whether the listing has no entries.
func (l Listing) Empty() bool {
	return len(l.Dirs) == 0 && len(l.Files) == 0
}

// Scanner lists directories one at a time. It is safe for concurrent use.
type Scanner struct {
	mu         sync.Mutex
	collator   *collate.Collator
	showHidden bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithHidden makes the scanner keep dot entries.
func WithHidden(show bool) Option {
	return func(s *Scanner) { s.showHidden = show }
}

// WithLanguage orders names using the collation rules of tag.
func WithLanguage(tag language.Tag) Option {
	return func(s *Scanner) { s.collator = collate.New(tag, collate.IgnoreCase) }
}

// New creates a scanner using root-locale, case-insensitive ordering.
func New(opts ...Option) *Scanner {
	s := &Scanner{collator: collate.New(language.Und, collate.IgnoreCase)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan lists dir. A directory that cannot be opened yields an empty
// listing; entries that cannot be stat'ed are skipped. Symlinks are
// classified by their target.
func (s *Scanner) Scan(dir string) Listing {
	entries, err := os.ReadDir(dir)
	if err != nil {
		debug.Log(debug.FS, "scan failed", "dir", dir, "err", err)
		return Listing{}
	}

	var out Listing
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		if !s.showHidden && IsHidden(name) {
			continue
		}

		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if info.IsDir() {
			out.Dirs = append(out.Dirs, name)
		} else {
			out.Files = append(out.Files, name)
		}
	}

	s.sortNames(out.Dirs)
	s.sortNames(out.Files)
	return out
}

func (s *Scanner) sortNames(names []string) {
	if len(names) < 2 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.SliceStable(names, func(i, j int) bool {
		if c := s.collator.CompareString(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})
}

// IsHidden reports whether name follows the dot-file convention.
func IsHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
