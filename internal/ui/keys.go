package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Back     key.Binding
	Forward  key.Binding
	VolUp    key.Binding
	VolDown  key.Binding
	Mode     key.Binding
	Repeat   key.Binding
	Shuffle  key.Binding
	Snapshot key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Remove   key.Binding
	Forget   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Play:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play")),
	Next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n/p", "track")),
	Prev:     key.NewBinding(key.WithKeys("p")),
	Back:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "seek")),
	Forward:  key.NewBinding(key.WithKeys("right", "l")),
	VolUp:    key.NewBinding(key.WithKeys("+", "=", "up"), key.WithHelp("+/-", "volume")),
	VolDown:  key.NewBinding(key.WithKeys("-", "down")),
	Mode:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "viz")),
	Repeat:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
	Shuffle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
	Snapshot: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "snapshot")),
	Up:       key.NewBinding(key.WithKeys("k"), key.WithHelp("j/k", "scroll")),
	Down:     key.NewBinding(key.WithKeys("j")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
	Remove:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
	Forget:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "forget session")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Back, k.VolUp, k.Mode, k.Repeat, k.Shuffle, k.Next, k.Up, k.Select, k.Remove, k.Snapshot, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Forget}}
}
