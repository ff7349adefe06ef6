package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	// FocusBorder marks the panel that receives keys.
	FocusBorder = lipgloss.Border{
		Top:         "━",
		Bottom:      "━",
		Left:        "┃",
		Right:       "┃",
		TopLeft:     "┏",
		TopRight:    "┓",
		BottomLeft:  "┗",
		BottomRight: "┛",
	}

	// QuietBorder is used for every other panel.
	QuietBorder = lipgloss.RoundedBorder()
)

// Text styles
var (
	TextTitle  lipgloss.Style
	TextBody   lipgloss.Style
	TextMuted  lipgloss.Style
	TextDim    lipgloss.Style
	TextError  lipgloss.Style
	TextAccent lipgloss.Style
)

// Sidebar styles
var (
	TreeDir      lipgloss.Style
	TreeFile     lipgloss.Style
	TreeSelected lipgloss.Style
	TreeCurrent  lipgloss.Style
)

// Editor styles
var (
	LineNumber      lipgloss.Style
	LineNumberCur   lipgloss.Style
	GutterAddStyle  lipgloss.Style
	GutterModStyle  lipgloss.Style
	GutterDelStyle  lipgloss.Style
	DiffAddedStyle  lipgloss.Style
	DiffRemoved     lipgloss.Style
	DiffContext     lipgloss.Style
	DiffHunkHeader  lipgloss.Style
	EditorMessage   lipgloss.Style
	EditorReadOnly  lipgloss.Style
	SearchMatch     lipgloss.Style
	SearchMatchPath lipgloss.Style
)

// Status bar and popup styles
var (
	StatusBar       lipgloss.Style
	StatusSection   lipgloss.Style
	StatusHighlight lipgloss.Style
	StatusUnsaved   lipgloss.Style
	Popup           lipgloss.Style
	PopupTitle      lipgloss.Style
	SpinnerStyle    lipgloss.Style
)

func regenerateStyles() {
	c := Current

	TextTitle = lipgloss.NewStyle().Bold(true).Foreground(c.Accent)
	TextBody = lipgloss.NewStyle().Foreground(c.Text)
	TextMuted = lipgloss.NewStyle().Foreground(c.TextMuted).Italic(true)
	TextDim = lipgloss.NewStyle().Foreground(c.TextDim).Faint(true)
	TextError = lipgloss.NewStyle().Foreground(c.Error).Bold(true)
	TextAccent = lipgloss.NewStyle().Foreground(c.Secondary)

	TreeDir = lipgloss.NewStyle().Foreground(c.Secondary).Bold(true)
	TreeFile = lipgloss.NewStyle().Foreground(c.Text)
	TreeSelected = lipgloss.NewStyle().Background(c.Selection).Bold(true)
	TreeCurrent = lipgloss.NewStyle().Underline(true)

	LineNumber = lipgloss.NewStyle().Foreground(c.TextDim).Align(lipgloss.Right)
	LineNumberCur = lipgloss.NewStyle().Foreground(c.Accent).Align(lipgloss.Right)
	GutterAddStyle = lipgloss.NewStyle().Foreground(GitAddedColor)
	GutterModStyle = lipgloss.NewStyle().Foreground(GitModifiedColor)
	GutterDelStyle = lipgloss.NewStyle().Foreground(GitDeletedColor)

	DiffAddedStyle = lipgloss.NewStyle().Foreground(c.Success)
	DiffRemoved = lipgloss.NewStyle().Foreground(c.Error)
	DiffContext = lipgloss.NewStyle().Foreground(c.TextMuted)
	DiffHunkHeader = lipgloss.NewStyle().Foreground(c.Secondary).Bold(true)

	EditorMessage = lipgloss.NewStyle().Foreground(c.TextMuted).Italic(true)
	EditorReadOnly = lipgloss.NewStyle().Foreground(c.Warning)
	SearchMatch = lipgloss.NewStyle().Foreground(c.Text)
	SearchMatchPath = lipgloss.NewStyle().Foreground(c.TextMuted)

	StatusBar = lipgloss.NewStyle().Foreground(c.TextMuted).Padding(0, 1)
	StatusSection = lipgloss.NewStyle().Foreground(c.TextMuted).Padding(0, 1)
	StatusHighlight = lipgloss.NewStyle().Foreground(c.Accent).Bold(true)
	StatusUnsaved = lipgloss.NewStyle().Foreground(c.Warning).Bold(true)

	Popup = lipgloss.NewStyle().
		Border(QuietBorder).
		BorderForeground(c.Accent).
		Background(c.BgPopup).
		Padding(0, 1)
	PopupTitle = lipgloss.NewStyle().Foreground(c.Accent).Bold(true)

	SpinnerStyle = lipgloss.NewStyle().Foreground(c.Accent)
}

// DecorationStyle returns the foreground style for a tree decoration color.
// An empty color yields the plain file style.
func DecorationStyle(hex string) lipgloss.Style {
	if hex == "" {
		return TreeFile
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// FormatScrollIndicator returns a percentage, or "" when at the bottom.
func FormatScrollIndicator(percent float64) string {
	if percent >= 99.9 || percent < 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", int(percent))
}

// PanelOptions configures what the panel borders show.
type PanelOptions struct {
	Title         string
	Subtitle      string  // shown dimmed after the title, e.g. the branch
	ScrollPercent float64 // zero or negative hides the indicator
	Hints         string  // bottom border
}

// RenderPanel draws content inside a border with the title embedded in the
// top edge. Lines are truncated and padded to the inner width.
func RenderPanel(content string, opts PanelOptions, width, height int, focused bool) string {
	if width < 4 || height < 2 {
		return ""
	}

	border := QuietBorder
	borderColor := Current.TextDim
	titleColor := Current.TextMuted
	if focused {
		border = FocusBorder
		borderColor = Current.Accent
		titleColor = Current.Accent
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)

	inner := width - 2
	var b strings.Builder

	b.WriteString(topEdge(border, borderStyle, titleStyle, opts, inner))
	b.WriteByte('\n')

	lines := strings.Split(content, "\n")
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], inner, "")
		}
		if w := ansi.StringWidth(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		b.WriteString(borderStyle.Render(border.Left))
		b.WriteString(line)
		b.WriteString(borderStyle.Render(border.Right))
		b.WriteByte('\n')
	}

	b.WriteString(bottomEdge(border, borderStyle, opts.Hints, inner))
	return b.String()
}

func topEdge(border lipgloss.Border, borderStyle, titleStyle lipgloss.Style, opts PanelOptions, inner int) string {
	segment := ""
	if opts.Title != "" {
		segment = "[ " + titleStyle.Render(opts.Title)
		if opts.Subtitle != "" {
			segment += " " + TextDim.Render(opts.Subtitle)
		}
		segment += " ]"
	}
	var scroll string
	if s := FormatScrollIndicator(opts.ScrollPercent); s != "" && opts.ScrollPercent > 0 {
		scroll = "[ " + TextDim.Render(s) + " ]"
	}

	lead := 2
	segW, scrollW := ansi.StringWidth(segment), ansi.StringWidth(scroll)
	if lead+segW+scrollW > inner {
		segment = ansi.Truncate(segment, max(inner-lead-scrollW, 0), "…")
		segW = ansi.StringWidth(segment)
	}
	fill := max(inner-lead-segW-scrollW, 0)

	return borderStyle.Render(border.TopLeft+strings.Repeat(border.Top, lead)) +
		segment +
		borderStyle.Render(strings.Repeat(border.Top, fill)) +
		scroll +
		borderStyle.Render(border.TopRight)
}

func bottomEdge(border lipgloss.Border, borderStyle lipgloss.Style, hints string, inner int) string {
	if hints == "" {
		return borderStyle.Render(border.BottomLeft + strings.Repeat(border.Bottom, inner) + border.BottomRight)
	}
	segment := "[ " + TextMuted.Render(hints) + " ]"
	if ansi.StringWidth(segment)+2 > inner {
		segment = ansi.Truncate(segment, max(inner-2, 0), "…")
	}
	fill := max(inner-2-ansi.StringWidth(segment), 0)
	return borderStyle.Render(border.BottomLeft+strings.Repeat(border.Bottom, 2)) +
		segment +
		borderStyle.Render(strings.Repeat(border.Bottom, fill)+border.BottomRight)
}
