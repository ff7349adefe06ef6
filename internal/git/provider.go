// Package git reads working-tree status for sidebar decoration and per-file
// hunks for the editor gutter.
package git

import (
	"context"
	"errors"
	"strings"
)

// ErrNotRepository is returned when the folder is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

//go:generate mockgen -package=gitmock -destination=gitmock/mock_provider.go github.com/avitaltamir/quill/internal/git Provider

// Provider defines the version-control queries used by the UI.
type Provider interface {
	// Status returns the porcelain status of every changed path under root,
	// keyed by absolute path.
	Status(ctx context.Context, root string) (StatusMap, error)

	// Diff returns the zero-context hunks of path against HEAD.
	Diff(ctx context.Context, root, path string) ([]Hunk, error)

	// Repo describes the repository containing root.
	Repo(root string) (RepoInfo, error)
}

// StatusCode represents a single porcelain status character.
type StatusCode rune

const (
	StatusUnmodified StatusCode = ' '
	StatusModified   StatusCode = 'M'
	StatusAdded      StatusCode = 'A'
	StatusDeleted    StatusCode = 'D'
	StatusRenamed    StatusCode = 'R'
	StatusCopied     StatusCode = 'C'
	StatusUnmerged   StatusCode = 'U'
	StatusUntracked  StatusCode = '?'
	StatusIgnored    StatusCode = '!'
)

// String returns the single-character representation.
func (s StatusCode) String() string {
	return string(s)
}

// Code is the two-character porcelain code of one path: index status
// followed by work-tree status.
type Code string

// Staging returns the index status.
func (c Code) Staging() StatusCode {
	if len(c) < 1 {
		return StatusUnmodified
	}
	return StatusCode(c[0])
}

// Worktree returns the work-tree status.
func (c Code) Worktree() StatusCode {
	if len(c) < 2 {
		return StatusUnmodified
	}
	return StatusCode(c[1])
}

// Has reports whether either column carries s.
func (c Code) Has(s StatusCode) bool {
	return strings.ContainsRune(string(c), rune(s))
}

// StatusMap maps absolute paths to porcelain codes. Each scan produces a
// fresh map that replaces the previous one.
type StatusMap map[string]Code

// RepoInfo describes the repository containing an opened folder.
type RepoInfo struct {
	Toplevel string // work-tree root
	Branch   string // short branch name, or short hash when detached
}
