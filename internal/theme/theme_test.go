package theme

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemesDefined(t *testing.T) {
	require.NotEmpty(t, AllThemes())
	names := map[string]bool{}
	for _, th := range AllThemes() {
		assert.NotEmpty(t, th.Name)
		assert.NotEmpty(t, th.ChromaStyle)
		assert.NotEmpty(t, th.Colors.Accent)
		assert.NotEmpty(t, th.Colors.Text)
		assert.False(t, names[th.Name], "duplicate theme %s", th.Name)
		names[th.Name] = true
	}
}

func TestNextThemeCycles(t *testing.T) {
	t.Cleanup(func() { SetThemeIndex(0) })
	SetThemeIndex(0)

	n := len(AllThemes())
	for i := 1; i <= n; i++ {
		th := NextTheme()
		assert.Equal(t, i%n, CurrentThemeIndex())
		assert.Equal(t, th.Colors, Current)
	}
}

func TestSetThemeIndexBounds(t *testing.T) {
	t.Cleanup(func() { SetThemeIndex(0) })

	assert.False(t, SetThemeIndex(-1))
	assert.False(t, SetThemeIndex(len(AllThemes())))
	assert.True(t, SetThemeIndex(1))
	assert.Equal(t, AllThemes()[1], CurrentTheme())
}

func TestSetThemeByName(t *testing.T) {
	t.Cleanup(func() { SetThemeIndex(0) })

	assert.True(t, SetThemeByName("parchment"))
	assert.Equal(t, "Parchment", CurrentTheme().Name)
	assert.False(t, SetThemeByName("no-such-theme"))
	assert.Equal(t, "Parchment", CurrentTheme().Name)
}

func TestFileIcon(t *testing.T) {
	th := InkTheme()
	assert.Equal(t, "\U000f07d3", th.FileIcon("main.go", ".go"))
	assert.Equal(t, FileIcons["makefile"], th.FileIcon("Makefile", ""))
	assert.Equal(t, "", th.FileIcon("data.bin", ".bin"))

	th.UseNerdFonts = false
	assert.Equal(t, IconFile, th.FileIcon("main.go", ".go"))
}

func TestDirIcon(t *testing.T) {
	th := InkTheme()
	assert.True(t, strings.HasPrefix(th.DirIcon("src", false), IconDirCollapsed))
	assert.True(t, strings.HasPrefix(th.DirIcon("src", true), IconDirExpanded))
	assert.Equal(t, IconDirExpanded, th.DirIcon("random", true))

	th.UseNerdFonts = false
	assert.Equal(t, IconDirCollapsed, th.DirIcon("src", false))
}

func TestDecorationStyle(t *testing.T) {
	assert.Equal(t, TreeFile, DecorationStyle(""))
	s := DecorationStyle("#E2C08D")
	assert.Equal(t, lipgloss.Color("#E2C08D"), s.GetForeground())
}

func TestFormatScrollIndicator(t *testing.T) {
	assert.Equal(t, "0%", FormatScrollIndicator(0))
	assert.Equal(t, "42%", FormatScrollIndicator(42.7))
	assert.Equal(t, "", FormatScrollIndicator(100))
	assert.Equal(t, "", FormatScrollIndicator(-1))
}

func TestRenderPanelDimensions(t *testing.T) {
	content := "short\n" + strings.Repeat("x", 100)
	out := RenderPanel(content, PanelOptions{Title: "FILES", Hints: "enter:open"}, 30, 6, true)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	for i, line := range lines {
		assert.Equal(t, 30, ansi.StringWidth(line), "line %d", i)
	}
	assert.Contains(t, ansi.Strip(lines[0]), "FILES")
	assert.Contains(t, ansi.Strip(lines[5]), "enter:open")
}

func TestRenderPanelLongTitle(t *testing.T) {
	out := RenderPanel("", PanelOptions{Title: strings.Repeat("T", 50), ScrollPercent: 10}, 20, 3, false)
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 20, ansi.StringWidth(line))
	}
}

func TestRenderPanelTooSmall(t *testing.T) {
	assert.Empty(t, RenderPanel("x", PanelOptions{}, 3, 5, false))
	assert.Empty(t, RenderPanel("x", PanelOptions{}, 10, 1, false))
}
