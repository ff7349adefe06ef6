package terminal

import (
	"strconv"
	"strings"

	"github.com/hinshun/vt10x"
)

// vt10x glyph attribute bits.
const (
	attrReverse   = 1 << 0
	attrUnderline = 1 << 1
	attrBold      = 1 << 2
	attrItalic    = 1 << 4
)

// Colors at or above this value are vt10x's default markers.
const defaultColor vt10x.Color = 1 << 24

type cellStyle struct {
	fg, bg vt10x.Color
	mode   int16
	cursor bool
}

// renderScreen draws the vt screen, grouping runs of equally styled cells
// into one SGR sequence each.
func renderScreen(vt vt10x.Terminal, showCursor bool) string {
	vt.Lock()
	defer vt.Unlock()

	cols, rows := vt.Size()
	if cols <= 0 || rows <= 0 {
		return ""
	}
	cur := vt.Cursor()
	showCursor = showCursor && vt.CursorVisible()

	var out strings.Builder
	out.Grow(rows * cols * 2)
	var run strings.Builder

	for row := 0; row < rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		var style cellStyle
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sgr := style.sgr()
			out.WriteString(sgr)
			out.WriteString(run.String())
			if sgr != "" {
				out.WriteString("\x1b[0m")
			}
			run.Reset()
		}

		for col := 0; col < cols; col++ {
			g := vt.Cell(col, row)
			ch := g.Char
			if ch == 0 {
				ch = ' '
			}
			next := cellStyle{fg: g.FG, bg: g.BG, mode: g.Mode, cursor: showCursor && col == cur.X && row == cur.Y}
			if col > 0 && next != style {
				flush()
			}
			style = next
			run.WriteRune(ch)
		}
		flush()
	}
	return out.String()
}

func (s cellStyle) sgr() string {
	var codes []string
	if s.cursor || s.mode&attrReverse != 0 {
		codes = append(codes, "7")
	}
	if !s.cursor {
		if s.mode&attrUnderline != 0 {
			codes = append(codes, "4")
		}
		if s.mode&attrBold != 0 {
			codes = append(codes, "1")
		}
		if s.mode&attrItalic != 0 {
			codes = append(codes, "3")
		}
		if c := colorCode(s.fg, 38); c != "" {
			codes = append(codes, c)
		}
		if c := colorCode(s.bg, 48); c != "" {
			codes = append(codes, c)
		}
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// colorCode returns the SGR parameters for c, or "" for the default color.
// base is 38 for foreground and 48 for background.
func colorCode(c vt10x.Color, base int) string {
	if c >= defaultColor {
		return ""
	}
	b := strconv.Itoa(base)
	if c < 256 {
		return b + ";5;" + strconv.Itoa(int(c))
	}
	r, g, bl := (c>>16)&0xFF, (c>>8)&0xFF, c&0xFF
	return b + ";2;" + strconv.Itoa(int(r)) + ";" + strconv.Itoa(int(g)) + ";" + strconv.Itoa(int(bl))
}
