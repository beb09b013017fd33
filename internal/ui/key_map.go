package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up    key.Binding
	down  key.Binding
	enter key.Binding
	back  key.Binding
	next  key.Binding
	book  key.Binding
	quit  key.Binding
	// quitAnywhere works while a text input has focus.
	quitAnywhere key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:         key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		book:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "book")),
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		quitAnywhere: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.next, k.book},
		{k.quit},
	}
}
