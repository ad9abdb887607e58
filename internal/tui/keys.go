package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the gallery.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Instance key.Binding
	Delete   key.Binding
	Refresh  key.Binding
	Quit     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Instance: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "instance"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}

// ConfirmKeyMap returns keybindings active while a delete awaits y/n.
// Everything except confirm, cancel and quit is disabled.
func ConfirmKeyMap() KeyMap {
	km := DefaultKeyMap()
	km.Up.SetEnabled(false)
	km.Down.SetEnabled(false)
	km.Instance.SetEnabled(false)
	km.Delete.SetEnabled(false)
	km.Refresh.SetEnabled(false)
	return km
}

// footerBindings returns the hints shown for the current key map.
func footerBindings(km KeyMap, confirming bool) []key.Binding {
	if confirming {
		return []key.Binding{km.Confirm, km.Cancel}
	}
	return []key.Binding{km.Up, km.Down, km.Instance, km.Delete, km.Refresh, km.Quit}
}
