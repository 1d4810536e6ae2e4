package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Mute      key.Binding
	PlayPause key.Binding
	Gallery   key.Binding
	Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m/click", "mute"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("spc/dbl-click", "play/pause"),
		),
		Gallery: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "archive"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mute, k.PlayPause, k.Gallery, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
