package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name         string
		width        int
		height       int
		terminal     bool
		wantLeft     int
		wantRight    int
		wantMain     int
		wantEditor   int
		wantTerminal int
	}{
		{
			name:       "standard layout without terminal",
			width:      100,
			height:     40,
			wantLeft:   25,
			wantRight:  75,
			wantMain:   39,
			wantEditor: 39,
		},
		{
			name:         "standard layout with terminal",
			width:        100,
			height:       40,
			terminal:     true,
			wantLeft:     25,
			wantRight:    75,
			wantMain:     39,
			wantEditor:   26, // 39 - 13
			wantTerminal: 13, // 35% of 39
		},
		{
			name:       "small terminal uses minimum sidebar width",
			width:      60,
			height:     20,
			wantLeft:   20,
			wantRight:  40,
			wantMain:   19,
			wantEditor: 19,
		},
		{
			name:         "very small terminal respects minimum heights",
			width:        30,
			height:       10,
			terminal:     true,
			wantLeft:     20,
			wantRight:    10,
			wantMain:     9,
			wantEditor:   5,
			wantTerminal: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Calculate(tt.width, tt.height, true, tt.terminal, DefaultLeftPanelPercent)

			assert.Equal(t, tt.wantLeft, l.LeftWidth, "LeftWidth")
			assert.Equal(t, tt.wantRight, l.RightWidth, "RightWidth")
			assert.Equal(t, tt.wantMain, l.MainHeight, "MainHeight")
			assert.Equal(t, tt.wantEditor, l.EditorHeight, "EditorHeight")
			assert.Equal(t, tt.wantTerminal, l.TerminalHeight, "TerminalHeight")
			assert.Equal(t, StatusBarHeight, l.StatusHeight)
		})
	}
}

func TestClampLeftPercent(t *testing.T) {
	assert.Equal(t, MinLeftPanelPercent, ClampLeftPercent(0))
	assert.Equal(t, 30, ClampLeftPercent(30))
	assert.Equal(t, MaxLeftPanelPercent, ClampLeftPercent(90))
}

func TestLayoutBounds(t *testing.T) {
	l := Calculate(100, 40, true, true, DefaultLeftPanelPercent)

	x, y, w, h := l.SidebarBounds()
	assert.Equal(t, []int{0, 0, 25, 39}, []int{x, y, w, h})

	x, y, w, h = l.EditorBounds()
	assert.Equal(t, []int{25, 0, 75, l.EditorHeight}, []int{x, y, w, h})

	x, y, w, h = l.TerminalBounds()
	assert.Equal(t, []int{25, l.EditorHeight, 75, l.TerminalHeight}, []int{x, y, w, h})

	x, y, w, h = l.StatusBarBounds()
	assert.Equal(t, []int{0, 39, 100, 1}, []int{x, y, w, h})

	hidden := Calculate(100, 40, true, false, DefaultLeftPanelPercent)
	x, y, w, h = hidden.TerminalBounds()
	assert.Equal(t, []int{0, 0, 0, 0}, []int{x, y, w, h})
}

func TestPopupSize(t *testing.T) {
	l := Calculate(200, 60, true, false, DefaultLeftPanelPercent)
	w, h := l.PopupSize(80)
	assert.Equal(t, 80, w)
	assert.Equal(t, 39, h)

	small := Calculate(40, 10, true, false, DefaultLeftPanelPercent)
	w, _ = small.PopupSize(80)
	assert.Equal(t, 30, w)
}

func TestHiddenSidebar(t *testing.T) {
	l := Calculate(100, 40, false, true, DefaultLeftPanelPercent)
	assert.Equal(t, 0, l.LeftWidth)
	assert.Equal(t, 100, l.RightWidth)

	x, y, w, h := l.SidebarBounds()
	assert.Equal(t, []int{0, 0, 0, 0}, []int{x, y, w, h})

	x, y, w, h = l.EditorBounds()
	assert.Equal(t, []int{0, 0, 100, l.EditorHeight}, []int{x, y, w, h})

	x, y, w, h = l.TerminalBounds()
	assert.Equal(t, []int{0, l.EditorHeight, 100, l.TerminalHeight}, []int{x, y, w, h})
}
