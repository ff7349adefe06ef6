package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/avitaltamir/quill/internal/theme"
)

// View renders the application.
func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	var view string
	if m.showHelp {
		view = m.renderHelp()
	} else if m.showQuit {
		view = m.renderQuitDialog()
	} else {
		main := m.renderEditorArea()
		if m.termVisible {
			main = lipgloss.JoinVertical(lipgloss.Left, main, m.term.View())
		}
		if !m.sideHidden {
			main = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), main)
		}
		view = lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
	}
	return view
}

// renderEditorArea draws the editor, the welcome screen, or a popup in the
// editor's place.
func (m Model) renderEditorArea() string {
	_, _, w, h := m.layout.EditorBounds()
	switch {
	case m.prompt.Visible():
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Top, m.prompt.View())
	case m.search.Visible():
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Top, m.search.View())
	case m.sidebar.State().Root() == "":
		return theme.RenderPanel(m.renderWelcome(), theme.PanelOptions{Title: "WELCOME"}, w, h, m.focus == PanelEditor)
	}
	return m.editor.View()
}

func (m Model) renderWelcome() string {
	lines := []string{
		theme.TextTitle.Render("quill"),
		theme.TextDim.Render(Version),
		"",
		theme.TextBody.Render("ctrl+o  open a folder"),
		theme.TextBody.Render("ctrl+h  help"),
		"",
	}
	if len(m.recent) == 0 {
		lines = append(lines, theme.TextMuted.Render("No recent folders"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, theme.TextAccent.Render("Recent folders"))
	home, _ := os.UserHomeDir()
	for i, p := range m.recent {
		if i >= 9 {
			break
		}
		shown := p
		if home != "" && strings.HasPrefix(p, home+string(filepath.Separator)) {
			shown = "~" + p[len(home):]
		}
		lines = append(lines, fmt.Sprintf("%s  %s",
			theme.StatusHighlight.Render(fmt.Sprint(i+1)), theme.TextBody.Render(shown)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	st := m.sidebar.State()
	var left []string

	if repo, ok := st.Repo(); ok && repo.Branch != "" {
		left = append(left, theme.StatusHighlight.Render(theme.GitBranchIcon+" "+repo.Branch))
	}

	if path := m.editor.Path(); path != "" {
		name := filepath.Base(path)
		if root := st.Root(); root != "" {
			if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
				name = rel
			}
		}
		file := theme.TextBody.Render(name)
		if flag := st.StatusOf(path); flag != 0 {
			file += " " + theme.DecorationStyle(flag.Color()).Render(flag.Letter())
		}
		if m.editor.IsModified() {
			file += theme.StatusUnsaved.Render(" " + theme.StatusDirty)
		} else {
			file += theme.TextDim.Render(" " + theme.StatusClean)
		}
		left = append(left, file)
	}

	if m.status != "" {
		style := theme.TextMuted
		if m.statusErr {
			style = theme.TextError
		}
		left = append(left, style.Render(m.status))
	}

	right := theme.TextDim.Render(m.focus.String()+" │ ^H help │ ") +
		theme.TextAccent.Render(theme.CurrentTheme().Name) +
		theme.TextDim.Render(" │ "+Version)

	leftStr := strings.Join(left, theme.TextDim.Render(" │ "))
	width := m.layout.TotalWidth
	gap := max(width-lipgloss.Width(leftStr)-lipgloss.Width(right)-2, 1)
	bar := leftStr + strings.Repeat(" ", gap) + right
	return theme.StatusBar.Width(width).MaxWidth(width).Render(bar)
}

func (m Model) renderHelp() string {
	var cols []string
	for _, group := range m.keys.FullHelp() {
		var lines []string
		for _, b := range group {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("%s  %s",
				theme.StatusHighlight.Width(8).Render(h.Key), theme.TextBody.Render(h.Desc)))
		}
		cols = append(cols, lipgloss.NewStyle().PaddingRight(4).Render(strings.Join(lines, "\n")))
	}

	panel := []string{
		theme.PopupTitle.Render("QUILL HELP"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
		"",
		theme.TextMuted.Render("Folders: ↑↓ move · enter/→ open · ← collapse · C collapse all · y copy path · r reload"),
		theme.TextMuted.Render("Editor: ctrl+e preview · ctrl+d unsaved diff"),
		"",
		theme.TextDim.Render("Press any key to close"),
	}
	box := theme.Popup.Padding(1, 2).Render(strings.Join(panel, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderQuitDialog() string {
	lines := []string{
		theme.PopupTitle.Render("QUIT QUILL?"),
		"",
	}
	if m.editor.IsModified() {
		lines = append(lines, theme.StatusUnsaved.Render(filepath.Base(m.editor.Path())+" has unsaved changes"), "")
	}
	lines = append(lines, theme.TextBody.Render("[Y]es    [N]o"))
	box := theme.Popup.Padding(1, 4).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
