package quizview

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the quiz bindings.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Next       key.Binding
	Prev       key.Binding
	Select     key.Binding
	Letter     key.Binding
	Submit     key.Binding
	Regenerate key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev option")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next option")),
		Next:       key.NewBinding(key.WithKeys("tab", "right", "l", "n"), key.WithHelp("tab", "next question")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab", "left", "h", "p"), key.WithHelp("shift+tab", "prev question")),
		Select:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
		Letter:     key.NewBinding(key.WithKeys("a", "b", "c", "d", "A", "B", "C", "D"), key.WithHelp("a-d", "choose letter")),
		Submit:     key.NewBinding(key.WithKeys("s", "g"), key.WithHelp("s", "submit")),
		Regenerate: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new quiz")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Down, k.Select, k.Submit, k.Regenerate, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Letter},
		{k.Next, k.Prev},
		{k.Submit, k.Regenerate, k.Quit},
	}
}
