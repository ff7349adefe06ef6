package sidebar

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/avitaltamir/quill/internal/theme"
	"github.com/avitaltamir/quill/internal/tree"
)

const indentWidth = 2

// View renders the panel.
func (m Model) View() string {
	w, h := m.Size()
	opts := theme.PanelOptions{Title: "FOLDERS"}

	s := m.state
	if root := s.Root(); root != "" {
		opts.Title = strings.ToUpper(filepath.Base(root))
		if repo, ok := s.Repo(); ok && repo.Branch != "" {
			opts.Subtitle = theme.GitBranchIcon + " " + repo.Branch
		}
		if s.Populating() {
			scanned, pending := s.Progress()
			opts.Subtitle = strings.TrimSpace(fmt.Sprintf("%s %s %d/%d", opts.Subtitle, m.spinner.View(), scanned, scanned+pending))
		}
		if m.Focused() {
			opts.Hints = "C:collapse  y:copy  r:reload"
		}
		if len(m.rows) > h-2 && h > 2 {
			opts.ScrollPercent = float64(m.offset) / float64(len(m.rows)-(h-2)) * 100
		}
	}

	return theme.RenderPanel(m.renderRows(), opts, w, h, m.Focused())
}

func (m Model) renderRows() string {
	w, h := m.Inner()
	if w <= 0 || h <= 0 {
		return ""
	}

	s := m.state
	if s.Root() == "" {
		return theme.TextMuted.Render("No folder open")
	}
	if len(m.rows) == 0 {
		if s.Populating() {
			return theme.TextMuted.Render(m.spinner.View() + " Indexing…")
		}
		return theme.TextMuted.Render("(empty)")
	}

	t := s.Tree()
	th := theme.CurrentTheme()
	current, hasCurrent := t.Resolve(s.current)

	end := min(m.offset+h, len(m.rows))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		n, _ := t.Node(r.ID)
		lines = append(lines, renderRow(th, n, r, w, i == m.cursor && m.Focused(), hasCurrent && r.ID == current))
	}
	return strings.Join(lines, "\n")
}

func renderRow(th *theme.Theme, n tree.Node, r tree.Row, width int, selected, current bool) string {
	indent := strings.Repeat(" ", r.Depth*indentWidth)

	var icon string
	style := theme.TreeFile
	if n.IsDir() {
		icon = th.DirIcon(n.BaseName(), n.Expanded)
		style = theme.TreeDir
	} else {
		icon = th.FileIcon(n.BaseName(), n.Extension())
	}
	if n.Deco.Color != "" {
		style = theme.DecorationStyle(n.Deco.Color).Bold(n.IsDir())
	}
	if current {
		style = style.Inherit(theme.TreeCurrent)
	}

	letter := n.Deco.Letter
	labelWidth := width - ansi.StringWidth(letter) - 1
	label := indent + icon + " " + n.Name
	label = ansi.Truncate(label, max(labelWidth, 0), "…")

	line := style.Render(label)
	if letter != "" {
		gap := max(width-ansi.StringWidth(label)-ansi.StringWidth(letter), 1)
		line += strings.Repeat(" ", gap) + lipgloss.NewStyle().Foreground(lipgloss.Color(n.Deco.Color)).Render(letter)
	}
	if selected {
		pad := max(width-ansi.StringWidth(line), 0)
		line = theme.TreeSelected.Render(line + strings.Repeat(" ", pad))
	}
	return line
}
