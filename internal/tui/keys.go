package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Change key.Binding
	Reload key.Binding
	Back   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Change: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "şehir değiştir"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "yenile"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "vazgeç"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "yardım"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "çık"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Change, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Change, k.Reload},
		{k.Back, k.Help, k.Quit},
	}
}
