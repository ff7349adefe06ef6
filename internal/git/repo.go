package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// OpenRepo finds the repository containing path, walking up to the nearest
// .git, and reads its work-tree root and current branch.
func OpenRepo(path string) (RepoInfo, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return RepoInfo{}, ErrNotRepository
		}
		return RepoInfo{}, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no work tree to decorate.
		return RepoInfo{}, ErrNotRepository
	}

	return RepoInfo{
		Toplevel: wt.Filesystem.Root(),
		Branch:   branchName(repo),
	}, nil
}

func branchName(repo *gogit.Repository) string {
	head, err := repo.Head()
	if err == nil {
		if head.Name().IsBranch() {
			return head.Name().Short()
		}
		// Detached HEAD
		return head.Hash().String()[:7]
	}

	// Unborn branch: HEAD is symbolic but the target does not exist yet.
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return ""
	}
	return ref.Target().Short()
}
