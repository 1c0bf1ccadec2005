package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Left     key.Binding
	Right    key.Binding
	Generate key.Binding
	Play     key.Binding
	Copy     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "change")),
		Right:    key.NewBinding(key.WithKeys("right", "l")),
		Generate: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "convert")),
		Play:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/stop")),
		Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy text")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Left, k.Generate, k.Play, k.Copy, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Left},
		{k.Generate, k.Play, k.Copy},
		{k.Quit},
	}
}
