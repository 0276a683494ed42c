package tuicmder

import "github.com/charmbracelet/bubbles/key"

type focus int

const (
	focusSearch focus = iota
	focusWeights
)

type keyMap struct {
	focus focus

	Search   key.Binding
	Up       key.Binding
	Down     key.Binding
	Dismiss  key.Binding
	Switch   key.Binding
	Decrease key.Binding
	Increase key.Binding
	Apply    key.Binding
	Reset    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	if k.focus == focusWeights {
		return []key.Binding{k.Down, k.Up, k.Decrease, k.Increase, k.Apply, k.Reset, k.Switch, k.Quit}
	}
	return []key.Binding{k.Search, k.Down, k.Up, k.Dismiss, k.PageDown, k.Switch, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Down, k.Up, k.Dismiss, k.PageUp, k.PageDown},
		{k.Decrease, k.Increase, k.Apply, k.Reset, k.Switch, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "find similar")),
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "weights")),
		Decrease: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "less")),
		Increase: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "more")),
		Apply:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply")),
		Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}
