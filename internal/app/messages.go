package app

// PanelID identifies which panel has focus.
type PanelID int

const (
	PanelNone PanelID = iota
	PanelSidebar
	PanelEditor
	PanelTerminal
)

// String returns the panel name for the status bar and logs.
func (p PanelID) String() string {
	switch p {
	case PanelNone:
		return "None"
	case PanelSidebar:
		return "Folders"
	case PanelEditor:
		return "Editor"
	case PanelTerminal:
		return "Terminal"
	default:
		return "Unknown"
	}
}

// StatusMsg replaces the status bar message.
type StatusMsg struct {
	Text  string
	Error bool
}

// lastFileMsg names the file to reopen for root.
type lastFileMsg struct {
	root string
	path string
}
