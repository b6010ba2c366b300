package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the pane's own keybindings. Everything else is either
// local input or forwarded to the PTY, depending on the mode.
type keyMap struct {
	// Mode control
	Toggle     key.Binding
	ForceAgent key.Binding

	// Approval dialog
	Confirm key.Binding
	Cancel  key.Binding

	// Scrollback
	Scroll key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// defaultKeyMap returns the default keybindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle terminal mode"),
		),
		ForceAgent: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "force agent mode"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "approve"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "deny"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "view scrollback"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.ForceAgent},
		{k.Confirm, k.Cancel},
		{k.Scroll, k.Help, k.Quit},
	}
}
