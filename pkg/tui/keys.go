package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds all browser key bindings.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	PgUp        key.Binding
	PgDown      key.Binding
	All         key.Binding
	Unknown     key.Binding
	Disabled    key.Binding
	Consistency key.Binding
	Syntax      key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PgUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("pgup", "page up"),
	),
	PgDown: key.NewBinding(
		key.WithKeys("pgdown", "f"),
		key.WithHelp("pgdn", "page down"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all"),
	),
	Unknown: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "unknown"),
	),
	Disabled: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "disabled"),
	),
	Consistency: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "consistency"),
	),
	Syntax: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "syntax"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}
