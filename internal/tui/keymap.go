package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start      key.Binding
	Stop       key.Binding
	Mark       key.Binding
	Save       key.Binding
	Connect    key.Binding
	Disconnect key.Binding
	Port       key.Binding
	Person     key.Binding
	Checklist  key.Binding
	OutputDir  key.Binding
	Dismiss    key.Binding
	Quit       key.Binding
}

// The recording shortcuts match the ones operators already know from the
// desktop tool.
func defaultKeyMap() keyMap {
	return keyMap{
		Start:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "start")),
		Stop:       key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "stop")),
		Mark:       key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "mark")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Connect:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		Disconnect: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "disconnect")),
		Port:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "port")),
		Person:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "person")),
		Checklist:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open csv")),
		OutputDir:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "output dir")),
		Dismiss:    key.NewBinding(key.WithKeys("enter", "esc")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
