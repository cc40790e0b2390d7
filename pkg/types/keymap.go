package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application modes.
// It lives in pkg/types so the model and the views share one definition.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Tabs and operations
	NextTab  key.Binding
	Classify key.Binding
	Denoise  key.Binding
	Trigger  key.Binding
	Clear    key.Binding

	// Browse mode
	Browse key.Binding
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	GoBack key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch tab"),
		),
		Classify: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "classify tab"),
		),
		Denoise: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "denoise tab"),
		),
		Trigger: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter", "run"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear file"),
		),
		Browse: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open file"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "select"),
		),
		GoBack: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h", "parent dir"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Browse, k.Trigger, k.NextTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Browse, k.Clear, k.Trigger},
		{k.NextTab, k.Classify, k.Denoise},
		{k.Up, k.Down, k.Open, k.GoBack, k.Cancel},
		{k.Help, k.Quit},
	}
}
