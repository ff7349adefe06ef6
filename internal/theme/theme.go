// Package theme holds palettes, styles and icons for the UI.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors a theme defines.
type Palette struct {
	Accent    lipgloss.Color // focused borders, titles
	Secondary lipgloss.Color // folders, branch name
	Selection lipgloss.Color // selected row background
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color

	BgPanel lipgloss.Color
	BgPopup lipgloss.Color

	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextDim   lipgloss.Color // inactive borders, line numbers
}

// Theme is a named palette plus the chroma style used for highlighting.
type Theme struct {
	Name         string
	Colors       Palette
	ChromaStyle  string
	UseNerdFonts bool
}

// Git decoration colors. They are fixed across themes so a status reads the
// same everywhere; the sidebar receives them as hex strings.
var (
	GitModifiedColor = lipgloss.Color("#E2C08D")
	GitAddedColor    = lipgloss.Color("#73C991")
	GitDeletedColor  = lipgloss.Color("#C74E39")
)

var (
	themes       []*Theme
	currentIndex int

	// Colors of the active theme, rebuilt by Apply.
	Current Palette
)

func init() {
	themes = []*Theme{
		InkTheme(),
		HarborTheme(),
		MossTheme(),
		ParchmentTheme(),
	}
	Apply(themes[0])
}

// InkTheme is the default dark theme.
func InkTheme() *Theme {
	return &Theme{
		Name:         "Ink",
		ChromaStyle:  "monokai",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:    lipgloss.Color("#7AA2F7"),
			Secondary: lipgloss.Color("#7DCFFF"),
			Selection: lipgloss.Color("#283457"),
			Success:   lipgloss.Color("#9ECE6A"),
			Error:     lipgloss.Color("#F7768E"),
			Warning:   lipgloss.Color("#E0AF68"),
			BgPanel:   lipgloss.Color("#1A1B26"),
			BgPopup:   lipgloss.Color("#16161E"),
			Text:      lipgloss.Color("#C0CAF5"),
			TextMuted: lipgloss.Color("#787C99"),
			TextDim:   lipgloss.Color("#3B4261"),
		},
	}
}

// HarborTheme - cold blues and greys
func HarborTheme() *Theme {
	return &Theme{
		Name:         "Harbor",
		ChromaStyle:  "nord",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:    lipgloss.Color("#88C0D0"),
			Secondary: lipgloss.Color("#81A1C1"),
			Selection: lipgloss.Color("#3B4252"),
			Success:   lipgloss.Color("#A3BE8C"),
			Error:     lipgloss.Color("#BF616A"),
			Warning:   lipgloss.Color("#EBCB8B"),
			BgPanel:   lipgloss.Color("#2E3440"),
			BgPopup:   lipgloss.Color("#242933"),
			Text:      lipgloss.Color("#ECEFF4"),
			TextMuted: lipgloss.Color("#9AA5B8"),
			TextDim:   lipgloss.Color("#4C566A"),
		},
	}
}

// MossTheme - greens on near black
func MossTheme() *Theme {
	return &Theme{
		Name:         "Moss",
		ChromaStyle:  "gruvbox",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:    lipgloss.Color("#A7C957"),
			Secondary: lipgloss.Color("#F2CC8F"),
			Selection: lipgloss.Color("#1D3A22"),
			Success:   lipgloss.Color("#81B29A"),
			Error:     lipgloss.Color("#BC4749"),
			Warning:   lipgloss.Color("#F4D35E"),
			BgPanel:   lipgloss.Color("#0B1A0F"),
			BgPopup:   lipgloss.Color("#050F08"),
			Text:      lipgloss.Color("#E8F5E9"),
			TextMuted: lipgloss.Color("#7A9E7E"),
			TextDim:   lipgloss.Color("#4A6B4E"),
		},
	}
}

// ParchmentTheme is a light theme.
func ParchmentTheme() *Theme {
	return &Theme{
		Name:         "Parchment",
		ChromaStyle:  "github",
		UseNerdFonts: true,
		Colors: Palette{
			Accent:    lipgloss.Color("#0550AE"),
			Secondary: lipgloss.Color("#8250DF"),
			Selection: lipgloss.Color("#DDF4FF"),
			Success:   lipgloss.Color("#1A7F37"),
			Error:     lipgloss.Color("#CF222E"),
			Warning:   lipgloss.Color("#9A6700"),
			BgPanel:   lipgloss.Color("#FFFFFF"),
			BgPopup:   lipgloss.Color("#F6F8FA"),
			Text:      lipgloss.Color("#1F2328"),
			TextMuted: lipgloss.Color("#656D76"),
			TextDim:   lipgloss.Color("#D0D7DE"),
		},
	}
}

// AllThemes returns all available themes.
func AllThemes() []*Theme {
	return themes
}

// CurrentTheme returns the currently active theme.
func CurrentTheme() *Theme {
	return themes[currentIndex]
}

// CurrentThemeIndex returns the index of the current theme.
func CurrentThemeIndex() int {
	return currentIndex
}

// NextTheme cycles to the next theme and applies it.
func NextTheme() *Theme {
	currentIndex = (currentIndex + 1) % len(themes)
	Apply(themes[currentIndex])
	return themes[currentIndex]
}

// SetThemeIndex activates the theme at index. It returns false if index is
// out of range.
func SetThemeIndex(index int) bool {
	if index < 0 || index >= len(themes) {
		return false
	}
	currentIndex = index
	Apply(themes[currentIndex])
	return true
}

// SetThemeByName activates the theme whose name matches, ignoring case.
func SetThemeByName(name string) bool {
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			return SetThemeIndex(i)
		}
	}
	return false
}

// Apply makes t the active palette and rebuilds all styles.
func Apply(t *Theme) {
	Current = t.Colors
	regenerateStyles()
}
