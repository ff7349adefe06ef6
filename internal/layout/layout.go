// Package layout computes panel geometry from the terminal size.
package layout

// Layout constants
const (
	DefaultLeftPanelPercent = 25
	MinLeftPanelPercent     = 15
	MaxLeftPanelPercent     = 60
	TerminalPercent         = 35 // share of the right column given to the terminal
	StatusBarHeight         = 1
	MinPanelWidth           = 20
	MinPanelHeight          = 5
)

// Layout holds calculated dimensions for all panels.
type Layout struct {
	TotalWidth  int
	TotalHeight int

	// Sidebar on the left, editor and terminal stacked on the right.
	LeftWidth  int
	RightWidth int

	MainHeight     int // sidebar height
	EditorHeight   int
	TerminalHeight int

	StatusHeight int

	SidebarVisible  bool
	TerminalVisible bool
}

// Calculate computes the layout for a width x height terminal. leftPercent
// is clamped to [MinLeftPanelPercent, MaxLeftPanelPercent]; a hidden
// sidebar gives the whole width to the right column.
func Calculate(width, height int, sidebarVisible, terminalVisible bool, leftPercent int) Layout {
	l := Layout{
		TotalWidth:      width,
		TotalHeight:     height,
		StatusHeight:    StatusBarHeight,
		SidebarVisible:  sidebarVisible,
		TerminalVisible: terminalVisible,
	}

	if sidebarVisible {
		leftPercent = ClampLeftPercent(leftPercent)
		l.LeftWidth = max(width*leftPercent/100, MinPanelWidth)
		l.RightWidth = max(width-l.LeftWidth, MinPanelWidth)
		if l.LeftWidth+l.RightWidth > width {
			l.RightWidth = max(width-l.LeftWidth, 0)
		}
	} else {
		l.RightWidth = width
	}

	l.MainHeight = max(height-l.StatusHeight, 0)

	if terminalVisible {
		l.TerminalHeight = max(l.MainHeight*TerminalPercent/100, MinPanelHeight)
		l.EditorHeight = max(l.MainHeight-l.TerminalHeight, MinPanelHeight)
	} else {
		l.EditorHeight = l.MainHeight
	}

	return l
}

// ClampLeftPercent limits a sidebar width percentage to the allowed range.
func ClampLeftPercent(p int) int {
	return min(max(p, MinLeftPanelPercent), MaxLeftPanelPercent)
}

// SidebarBounds returns the position and size of the sidebar, or zeros
// when it is hidden.
func (l Layout) SidebarBounds() (x, y, width, height int) {
	if !l.SidebarVisible {
		return 0, 0, 0, 0
	}
	return 0, 0, l.LeftWidth, l.MainHeight
}

// EditorBounds returns the position and size of the editor panel.
func (l Layout) EditorBounds() (x, y, width, height int) {
	return l.LeftWidth, 0, l.RightWidth, l.EditorHeight
}

// TerminalBounds returns the position and size of the terminal panel, or
// zeros when it is hidden.
func (l Layout) TerminalBounds() (x, y, width, height int) {
	if !l.TerminalVisible {
		return 0, 0, 0, 0
	}
	return l.LeftWidth, l.EditorHeight, l.RightWidth, l.TerminalHeight
}

// StatusBarBounds returns the position and size of the status bar.
func (l Layout) StatusBarBounds() (x, y, width, height int) {
	return 0, l.MainHeight, l.TotalWidth, l.StatusHeight
}

// PopupSize returns the size of a centered popup covering most of the
// screen but never more than maxW columns.
func (l Layout) PopupSize(maxW int) (width, height int) {
	width = min(l.TotalWidth*3/4, maxW)
	height = max(l.MainHeight*2/3, 3)
	return max(width, min(MinPanelWidth, l.TotalWidth)), height
}
