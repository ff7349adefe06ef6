package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the application.
type KeyMap struct {
	// Global keys
	Quit           key.Binding
	Help           key.Binding
	FocusSidebar   key.Binding
	FocusEditor    key.Binding
	FocusTerminal  key.Binding
	ToggleTerminal key.Binding
	ToggleSidebar  key.Binding
	ShrinkSidebar  key.Binding
	GrowSidebar    key.Binding
	CycleTheme     key.Binding

	// Folder and file actions
	OpenFolder   key.Binding
	CloseFolder  key.Binding
	Reload       key.Binding
	Search       key.Binding
	Save         key.Binding
	SaveAs       key.Binding
	NextFromTree key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "help"),
		),
		FocusSidebar: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("alt+1", "focus folders"),
		),
		FocusEditor: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("alt+2", "focus editor"),
		),
		FocusTerminal: key.NewBinding(
			key.WithKeys("alt+3"),
			key.WithHelp("alt+3", "focus terminal"),
		),
		ToggleTerminal: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle terminal"),
		),
		ToggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle folders"),
		),
		ShrinkSidebar: key.NewBinding(
			key.WithKeys("alt+["),
			key.WithHelp("alt+[", "narrower folders"),
		),
		GrowSidebar: key.NewBinding(
			key.WithKeys("alt+]"),
			key.WithHelp("alt+]", "wider folders"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("alt+t"),
			key.WithHelp("alt+t", "cycle theme"),
		),

		OpenFolder: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open folder"),
		),
		CloseFolder: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close folder"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload folder"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "go to file"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		SaveAs: key.NewBinding(
			key.WithKeys("alt+s"),
			key.WithHelp("alt+s", "save as"),
		),
		NextFromTree: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "to editor"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Save, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.OpenFolder, k.CloseFolder, k.Reload, k.Search, k.Save, k.SaveAs},
		{k.FocusSidebar, k.FocusEditor, k.FocusTerminal, k.ToggleTerminal, k.ToggleSidebar},
		{k.ShrinkSidebar, k.GrowSidebar, k.CycleTheme, k.Help, k.Quit},
	}
}
