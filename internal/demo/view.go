package demo

import (
	"fmt"

	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/ultralist"
	"github.com/ayn2op/ultralist/help"
	"github.com/ayn2op/ultralist/keybind"
)

// view stacks the list, the filter prompt and the key hints.
type view struct {
	*ultralist.Box

	list   *ultralist.RecyclerList
	prompt *ultralist.InputField
	hints  *help.Help
	feed   *Feed
	keys   *KeyMap

	filtering  bool
	toggleHelp func()
}

func newView(list *ultralist.RecyclerList, feed *Feed, keys *KeyMap, styles help.Styles) *view {
	v := &view{
		Box:    ultralist.NewBox(),
		list:   list,
		prompt: ultralist.NewInputField().SetLabel("/").SetPlaceholder("filter"),
		hints:  help.New().SetKeyMap(keys).SetStyles(styles),
		feed:   feed,
		keys:   keys,
	}
	v.SetBorders(ultralist.BordersAll)
	v.prompt.SetChangedFunc(func(text string) {
		feed.SetQuery(text)
		v.updateTitle()
	})
	v.prompt.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			v.prompt.SetText("")
			feed.SetQuery("")
			v.updateTitle()
		}
		v.setFiltering(false)
	})
	v.updateTitle()
	return v
}

func (v *view) updateTitle() {
	title := fmt.Sprintf(" ultralist · %d rows ", v.list.Len())
	if q := v.feed.Query(); q != "" {
		title = fmt.Sprintf(" ultralist · %d rows matching %q ", v.list.Len(), q)
	}
	v.SetTitle(title)
}

func (v *view) HasFocus() bool {
	return v.Box.HasFocus() || v.list.HasFocus()
}

func (v *view) Draw(screen tcell.Screen) {
	v.DrawForSubclass(screen, v)
	x, y, width, height := v.GetInnerRect()

	hintHeight := min(v.hints.Height(width), height)
	promptHeight := 0
	if v.filtering || v.prompt.GetText() != "" {
		promptHeight = min(1, height-hintHeight)
	}
	listHeight := max(height-hintHeight-promptHeight, 0)

	v.list.SetRect(x, y, width, listHeight)
	v.list.Draw(screen)

	if promptHeight > 0 {
		v.prompt.SetRect(x, y+listHeight, width, promptHeight)
		v.prompt.Draw(screen)
	}

	v.hints.SetRect(x, y+listHeight+promptHeight, width, hintHeight)
	v.hints.Draw(screen)
}

func (v *view) InputHandler(event *tcell.EventKey) ultralist.Command {
	if v.filtering {
		return v.prompt.InputHandler(event)
	}

	switch {
	case keybind.Matches(event, v.keys.Quit):
		return ultralist.QuitCommand{}
	case keybind.Matches(event, v.keys.Filter):
		v.setFiltering(true)
		return ultralist.RedrawCommand{}
	case keybind.Matches(event, v.keys.Help):
		if v.toggleHelp != nil {
			v.toggleHelp()
		}
		return ultralist.RedrawCommand{}
	}
	return v.list.InputHandler(event)
}

func (v *view) setFiltering(filtering bool) {
	v.filtering = filtering
	v.keys.setFiltering(filtering)
	if filtering {
		v.prompt.Focus(nil)
	} else {
		v.prompt.Blur()
	}
}

func (v *view) PasteHandler(text string) ultralist.Command {
	if v.filtering {
		return v.prompt.PasteHandler(text)
	}
	return nil
}

func (v *view) MouseHandler(action ultralist.MouseAction, event *tcell.EventMouse) (ultralist.Primitive, ultralist.Command) {
	if v.list.InRect(event.Position()) {
		return v.list.MouseHandler(action, event)
	}
	return v.Box.MouseHandler(action, event)
}

// modal shows the full key help centered over the rect it is given.
type modal struct {
	*ultralist.Box
	help  *help.Help
	keys  *KeyMap
	close func()
}

func newModal(keys *KeyMap, styles help.Styles) *modal {
	h := help.New().SetKeyMap(keys).SetStyles(styles).SetShowAll(true)
	h.SetBorders(ultralist.BordersAll)
	h.SetBorderPadding(0, 0, 1, 1)
	h.SetTitle(" keys ")
	return &modal{Box: ultralist.NewBox(), help: h, keys: keys}
}

func (m *modal) Draw(screen tcell.Screen) {
	x, y, width, height := m.GetRect()
	w := min(width, 72)
	h := min(m.help.Height(w-4)+2, height)
	m.help.SetRect(x+(width-w)/2, y+(height-h)/2, w, h)
	m.help.Draw(screen)
}

func (m *modal) InputHandler(event *tcell.EventKey) ultralist.Command {
	if keybind.Matches(event, m.keys.Help, m.keys.Quit) || event.Key() == tcell.KeyEscape {
		if m.close != nil {
			m.close()
		}
		return ultralist.RedrawCommand{}
	}
	return nil
}

func (m *modal) MouseHandler(action ultralist.MouseAction, event *tcell.EventMouse) (ultralist.Primitive, ultralist.Command) {
	if action == ultralist.MouseLeftClick && m.close != nil {
		m.close()
		return nil, ultralist.RedrawCommand{}
	}
	return nil, nil
}
