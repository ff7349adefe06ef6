package git

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/avitaltamir/quill/internal/debug"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// ShellProvider implements Provider by running the git executable.
// Overlapping status requests for the same root share one subprocess, and
// bursts of requests are paced by a limiter.
type ShellProvider struct {
	bin     string
	group   singleflight.Group
	limiter *rate.Limiter
	open    func(path string) (RepoInfo, error)
}

// NewShellProvider creates a provider that runs "git" from PATH.
func NewShellProvider() *ShellProvider {
	return &ShellProvider{
		bin:     "git",
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 2),
		open:    OpenRepo,
	}
}

// Repo describes the repository containing root.
func (p *ShellProvider) Repo(root string) (RepoInfo, error) {
	return p.open(root)
}

// Status runs `git status --porcelain -u` in root and parses its output as
// it streams in. Paths are joined with the work-tree root, which is where
// porcelain paths are relative to.
func (p *ShellProvider) Status(ctx context.Context, root string) (StatusMap, error) {
	v, err, shared := p.group.Do("status\x00"+root, func() (any, error) {
		return p.status(ctx, root)
	})
	if shared {
		debug.Log(debug.GIT, "status shared", "root", root)
	}
	if err != nil {
		return nil, err
	}
	return v.(StatusMap), nil
}

func (p *ShellProvider) status(ctx context.Context, root string) (StatusMap, error) {
	info, err := p.open(root)
	if err != nil {
		return nil, err
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, p.bin, "-C", root, "--no-optional-locks", "status", "--porcelain", "-u")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("git status: %w", err)
	}

	status, parseErr := ParsePorcelain(info.Toplevel, stdout)
	_, _ = io.Copy(io.Discard, stdout)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("git status: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	if parseErr != nil {
		return nil, fmt.Errorf("read git status: %w", parseErr)
	}

	debug.Log(debug.GIT, "status", "root", root, "entries", len(status), "took", time.Since(start))
	return status, nil
}

// Diff runs `git diff -U0 HEAD -- path` and returns its hunks.
func (p *ShellProvider) Diff(ctx context.Context, root, path string) ([]Hunk, error) {
	cmd := exec.CommandContext(ctx, p.bin, "-C", root, "--no-optional-locks", "diff", "-U0", "HEAD", "--", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git diff: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return ParseHunks(&stdout)
}
