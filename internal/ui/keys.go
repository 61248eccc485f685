package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the app-level bindings. It implements help.KeyMap.
type KeyMap struct {
	Quit     key.Binding
	Refresh  key.Binding
	Projects key.Binding
	Task     key.Binding
	Help     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Projects: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "projects"),
		),
		Task: key.NewBinding(
			key.WithKeys("tab", "t"),
			key.WithHelp("tab", "task"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Task, k.Projects, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Task, k.Projects},
		{k.Refresh, k.Help, k.Quit},
	}
}
