package practice

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Flag     key.Binding
	Next     key.Binding
	Prev     key.Binding
	EndTest  key.Binding
	Submit   key.Binding
	Again    key.Binding
	Extended key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑↓", "Choose"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←→", "Change"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "Select"),
		),
		Flag: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("F", "Flag"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "]"),
			key.WithHelp("N", "Next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p", "["),
			key.WithHelp("P", "Prev"),
		),
		EndTest: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("E", "End test"),
		),
		Submit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("S", "Submit"),
		),
		Again: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("Enter", "New session"),
		),
		Extended: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("X", "Extended time"),
		),
	}
}
