package editor

import (
	"context"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/avitaltamir/quill/internal/git"
	"github.com/avitaltamir/quill/internal/theme"
)

// UnsavedDiff returns the unified diff from the last saved content to the
// buffer, or "" when they are equal.
func UnsavedDiff(path, saved, buffer string) (string, error) {
	if saved == buffer {
		return "", nil
	}
	name := filepath.Base(path)
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(saved),
		B:        difflib.SplitLines(buffer),
		FromFile: name + " (saved)",
		ToFile:   name + " (buffer)",
		Context:  3,
	})
}

func renderDiff(diff string) string {
	if diff == "" {
		return theme.EditorMessage.Render("(no unsaved changes)")
	}
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = theme.DiffHunkHeader.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = theme.DiffAddedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = theme.DiffRemoved.Render(line)
		default:
			lines[i] = theme.DiffContext.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// LoadGutter asks provider for the HEAD diff of path and reports the
// changed lines.
func LoadGutter(provider git.Provider, root, path string) tea.Cmd {
	if provider == nil || root == "" || path == "" {
		return nil
	}
	return func() tea.Msg {
		hunks, err := provider.Diff(context.Background(), root, path)
		if err != nil {
			return GutterMsg{Path: path, Err: err}
		}
		return GutterMsg{Path: path, Marks: git.LineMarks(hunks)}
	}
}

func gutterCell(mark git.LineMark) string {
	switch mark {
	case git.MarkAdded:
		return theme.GutterAddStyle.Render(theme.GutterAdded)
	case git.MarkModified:
		return theme.GutterModStyle.Render(theme.GutterModified)
	case git.MarkDeleted:
		return theme.GutterDelStyle.Render(theme.GutterDeleted)
	}
	return " "
}
