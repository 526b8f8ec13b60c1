package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings surfaced in each view's help line. List
// navigation itself is handled by [list.Model].
type keyMap struct {
	confirm key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	stop    key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "transfer")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "start transfer")),
		no:      key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "back")),
		stop:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "scan again")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.confirm, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.confirm, k.back},
		{k.yes, k.no},
		{k.stop, k.restart},
		{k.quit},
	}
}
