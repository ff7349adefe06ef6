// Package components holds the pieces shared by the UI panels.
package components

// Base is the bookkeeping every bordered panel needs: whether it has the
// keyboard and how large its outer frame is. Panels embed it by value.
type Base struct {
	focused       bool
	width, height int
}

func (b *Base) Focus() { b.focused = true }

func (b *Base) Blur() { b.focused = false }

// Focused reports whether the panel receives key input.
func (b Base) Focused() bool { return b.focused }

// SetSize records the outer frame and reports whether it changed.
func (b *Base) SetSize(width, height int) bool {
	if b.width == width && b.height == height {
		return false
	}
	b.width, b.height = width, height
	return true
}

// Size returns the outer frame, border included.
func (b Base) Size() (width, height int) {
	return b.width, b.height
}

// Inner returns the area left inside a one-cell border.
func (b Base) Inner() (width, height int) {
	return max(b.width-2, 0), max(b.height-2, 0)
}

// InnerPoint maps a panel-relative cell, as delivered with mouse events,
// to a position inside the border. ok is false on the border itself or
// outside the frame.
func (b Base) InnerPoint(x, y int) (col, row int, ok bool) {
	w, h := b.Inner()
	col, row = x-1, y-1
	if col < 0 || row < 0 || col >= w || row >= h {
		return 0, 0, false
	}
	return col, row, true
}
