package ultralist

import "github.com/ayn2op/ultralist/keybind"

// ListKeyMap holds the key bindings of a RecyclerList.
type ListKeyMap struct {
	Up       keybind.Keybind
	Down     keybind.Keybind
	PageUp   keybind.Keybind
	PageDown keybind.Keybind
	Top      keybind.Keybind
	Bottom   keybind.Keybind
	// Pick picks up the selected row, or drops the dragged one.
	Pick   keybind.Keybind
	Cancel keybind.Keybind
}

func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Up:       keybind.NewKeybind(keybind.WithKeys("up", "k"), keybind.WithHelp("↑/k", "up")),
		Down:     keybind.NewKeybind(keybind.WithKeys("down", "j"), keybind.WithHelp("↓/j", "down")),
		PageUp:   keybind.NewKeybind(keybind.WithKeys("pgup", "ctrl+u"), keybind.WithHelp("pgup", "page up")),
		PageDown: keybind.NewKeybind(keybind.WithKeys("pgdn", "ctrl+d"), keybind.WithHelp("pgdn", "page down")),
		Top:      keybind.NewKeybind(keybind.WithKeys("home", "g"), keybind.WithHelp("g/home", "first")),
		Bottom:   keybind.NewKeybind(keybind.WithKeys("end", "G"), keybind.WithHelp("G/end", "last")),
		Pick:     keybind.NewKeybind(keybind.WithKeys("space"), keybind.WithHelp("space", "pick up/drop")),
		Cancel:   keybind.NewKeybind(keybind.WithKeys("esc"), keybind.WithHelp("esc", "cancel drag"), keybind.WithDisabled()),
	}
}

func (k ListKeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Up, k.Down, k.Pick, k.Cancel}
}

func (k ListKeyMap) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Top, k.Bottom, k.Pick, k.Cancel},
	}
}
