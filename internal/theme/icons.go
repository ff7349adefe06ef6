package theme

import "strings"

// Tree icons
const (
	IconDirCollapsed = "▸"
	IconDirExpanded  = "▾"
	IconFile         = " "
)

// UnsavedSuffix is appended to the label of a file with unsaved edits.
const UnsavedSuffix = " *"

// Gutter markers for lines changed against HEAD.
const (
	GutterAdded    = "▎"
	GutterModified = "▎"
	GutterDeleted  = "▁"
)

// Status indicators
const (
	StatusClean   = "●"
	StatusDirty   = "◍"
	GitBranchIcon = ""
)

// FileIcons maps lowercased extensions (or whole names) to Nerd Font icons.
var FileIcons = map[string]string{
	".go":        "\U000f07d3",
	".mod":       "\U000f03d7",
	".sum":       "\U000f03d7",
	".js":        "",
	".ts":        "",
	".tsx":       "",
	".jsx":       "",
	".html":      "",
	".css":       "",
	".json":      "",
	".yaml":      "",
	".yml":       "",
	".toml":      "",
	".md":        "\U000f0354",
	".txt":       "",
	".sh":        "",
	".py":        "",
	".rs":        "",
	".c":         "",
	".h":         "",
	".cpp":       "",
	".java":      "",
	".rb":        "",
	"makefile":   "",
	"dockerfile": "",
	"license":    "",
}

// DirIcons maps well-known directory names to Nerd Font icons.
var DirIcons = map[string]string{
	"src":      "",
	"cmd":      "",
	"internal": "",
	"docs":     "",
	"test":     "",
	"tests":    "",
	"vendor":   "",
	"build":    "",
}

// FileIcon returns the icon for a file name, falling back to a plain glyph.
func (t *Theme) FileIcon(name, ext string) string {
	if !t.UseNerdFonts {
		return IconFile
	}
	if icon, ok := FileIcons[strings.ToLower(name)]; ok {
		return icon
	}
	if icon, ok := FileIcons[ext]; ok {
		return icon
	}
	return ""
}

// DirIcon returns the chevron for a folder, followed by its icon when one
// is known.
func (t *Theme) DirIcon(name string, expanded bool) string {
	chevron := IconDirCollapsed
	if expanded {
		chevron = IconDirExpanded
	}
	if !t.UseNerdFonts {
		return chevron
	}
	if icon, ok := DirIcons[strings.ToLower(name)]; ok {
		return chevron + " " + icon
	}
	return chevron
}
