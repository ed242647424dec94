package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings for the simulator screen
type keyMap struct {
	Open       key.Binding
	SelectAll  key.Binding
	SelectNone key.Binding
	Toggle     key.Binding
	Submit     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.SelectAll, k.SelectNone, k.Toggle, k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Submit},
		{k.SelectAll, k.SelectNone, k.Toggle},
		{k.Help, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open (/modal-test)"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		SelectNone: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "select none"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "toggle"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
