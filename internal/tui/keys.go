package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Choose    key.Binding
	Confirm   key.Binding
	Commit    key.Binding
	Backspace key.Binding
	Left      key.Binding
	Right     key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Spell     key.Binding
	ToggleZCS key.Binding
	ToggleNL  key.Binding
	ToggleNG  key.Binding
	Options   key.Binding
	Abandon   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Choose: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"),
			key.WithHelp("1-0", "choose"),
		),
		Confirm: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "end syllable"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "commit"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "delete"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev word"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next word"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("-", "pgup"),
			key.WithHelp("-", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("=", "pgdown"),
			key.WithHelp("=", "next page"),
		),
		Spell: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "filter by tone"),
		),
		ToggleZCS: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "z/zh"),
		),
		ToggleNL: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "n/l"),
		),
		ToggleNG: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "n/ng"),
		),
		Options: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "commit options"),
		),
		Abandon: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "abandon"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Confirm, k.Commit, k.Spell, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Choose, k.Confirm, k.Commit, k.Backspace, k.Abandon},
		{k.Left, k.Right, k.PrevPage, k.NextPage, k.Spell},
		{k.ToggleZCS, k.ToggleNL, k.ToggleNG, k.Options},
		{k.Help, k.Quit},
	}
}

// optionKeys are active while choosing commit options.
type optionKeys struct {
	Spell   key.Binding
	Variant key.Binding
	Done    key.Binding
	Cancel  key.Binding
}

func defaultOptionKeys() optionKeys {
	return optionKeys{
		Spell: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle pinyin"),
		),
		Variant: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "variant"),
		),
		Done: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k optionKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Spell, k.Variant, k.Done, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k optionKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
