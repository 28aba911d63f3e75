// Package keys holds the key bindings shared by the dispatcher, the dialogs
// and the help line.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for normal mode and for dialogs.
type KeyMap struct {
	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding // pressed twice
	Bottom       key.Binding
	OppositeKind key.Binding
	LeftPane     key.Binding
	RightPane    key.Binding
	SwitchPane   key.Binding
	Enter        key.Binding
	Back         key.Binding
	Home         key.Binding

	// Selection & Actions
	Toggle       key.Binding
	SelectAll    key.Binding
	Delete       key.Binding
	Copy         key.Binding
	Move         key.Binding
	Add          key.Binding
	Rename       key.Binding
	Actions      key.Binding
	Find         key.Binding
	ToggleHidden key.Binding
	Refresh      key.Binding
	Quit         key.Binding

	// Dialogs
	Submit  key.Binding
	Cancel  key.Binding
	Yes     key.Binding
	No      key.Binding
	NextBtn key.Binding
}

// Default returns the default keybindings.
func Default() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		OppositeKind: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "dirs/files"),
		),
		LeftPane: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "left pane"),
		),
		RightPane: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "right pane"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open dir"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "up dir"),
		),
		Home: key.NewBinding(
			key.WithKeys("~"),
			key.WithHelp("~", "home"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "select all"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Actions: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "actions"),
		),
		Find: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find"),
		),
		ToggleHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "no"),
		),
		NextBtn: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
	}
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.Toggle, k.Copy, k.Move, k.Delete, k.Add, k.Rename, k.Actions, k.Quit}
}

// FullHelp returns every normal-mode binding, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.OppositeKind, k.Enter, k.Back, k.Home},
		{k.LeftPane, k.RightPane, k.SwitchPane, k.Find, k.ToggleHidden, k.Refresh},
		{k.Toggle, k.SelectAll, k.Copy, k.Move, k.Delete, k.Add, k.Rename, k.Actions, k.Quit},
	}
}

// DialogHelp returns the bindings shown under a dialog.
func (k KeyMap) DialogHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}
