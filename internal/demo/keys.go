package demo

import (
	"github.com/ayn2op/ultralist"
	"github.com/ayn2op/ultralist/keybind"
)

// KeyMap holds the demo bindings next to the ones of the list.
type KeyMap struct {
	list *ultralist.ListKeyMap

	Filter keybind.Keybind
	Accept keybind.Keybind
	Clear  keybind.Keybind
	Help   keybind.Keybind
	Quit   keybind.Keybind
}

func newKeyMap(list *ultralist.ListKeyMap) *KeyMap {
	return &KeyMap{
		list:   list,
		Filter: keybind.NewKeybind(keybind.WithKeys("/"), keybind.WithHelp("/", "filter")),
		Accept: keybind.NewKeybind(keybind.WithKeys("enter"), keybind.WithHelp("enter", "apply"), keybind.WithDisabled()),
		Clear:  keybind.NewKeybind(keybind.WithKeys("esc"), keybind.WithHelp("esc", "clear"), keybind.WithDisabled()),
		Help:   keybind.NewKeybind(keybind.WithKeys("?"), keybind.WithHelp("?", "help")),
		Quit:   keybind.NewKeybind(keybind.WithKeys("q", "ctrl+c"), keybind.WithHelp("q", "quit")),
	}
}

// setFiltering swaps the bindings shown while a filter is typed.
func (k *KeyMap) setFiltering(filtering bool) {
	k.Accept.SetEnabled(filtering)
	k.Clear.SetEnabled(filtering)
	k.Filter.SetEnabled(!filtering)
	k.Help.SetEnabled(!filtering)
	k.Quit.SetEnabled(!filtering)
}

func (k *KeyMap) ShortHelp() []keybind.Keybind {
	if k.Accept.Enabled() {
		return []keybind.Keybind{k.Accept, k.Clear}
	}
	return append(k.list.ShortHelp(), k.Filter, k.Help, k.Quit)
}

func (k *KeyMap) FullHelp() [][]keybind.Keybind {
	return append(k.list.FullHelp(), []keybind.Keybind{k.Filter, k.Help, k.Quit})
}
