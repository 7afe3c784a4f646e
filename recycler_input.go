package ultralist

import (
	"time"

	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/ultralist/drag"
	"github.com/ayn2op/ultralist/keybind"
)

// Lines scrolled per mouse wheel step.
const wheelLines = 3

// InputHandler returns the handler for this primitive.
func (l *RecyclerList) InputHandler(event *tcell.EventKey) Command {
	keys := &l.keys
	if l.keyboard != nil {
		switch {
		case keybind.Matches(event, keys.Up):
			l.stepKeyboardDrag(-1)
			return RedrawCommand{}
		case keybind.Matches(event, keys.Down):
			l.stepKeyboardDrag(1)
			return RedrawCommand{}
		case keybind.Matches(event, keys.Pick):
			l.drag.HandleTouch(drag.ActionUp, 0, l.keyboard.y)
			return l.animate()
		}
	}

	switch {
	case keybind.Matches(event, keys.Cancel):
		l.drag.StopNow()
		l.press = nil
		return RedrawCommand{}
	case keybind.Matches(event, keys.Pick):
		if !l.startKeyboardDrag() {
			return nil
		}
		return l.animate()
	case keybind.Matches(event, keys.Up):
		l.PrevItem()
	case keybind.Matches(event, keys.Down):
		l.NextItem()
	case keybind.Matches(event, keys.PageUp):
		l.scroll.pending -= max(l.lastRect.height, 1)
	case keybind.Matches(event, keys.PageDown):
		l.scroll.pending += max(l.lastRect.height, 1)
	case keybind.Matches(event, keys.Top):
		l.SetCursor(0)
	case keybind.Matches(event, keys.Bottom):
		l.SetCursor(len(l.entries) - 1)
	default:
		return nil
	}
	return RedrawCommand{}
}

// MouseHandler returns the mouse handler for this primitive. Holding the left
// button on a row for the long press duration picks it up; the row follows
// the pointer until the button is released.
func (l *RecyclerList) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	vx, vy := x-l.lastRect.x, y-l.lastRect.y

	if l.keyboard == nil && l.drag.State() == drag.StateDragging {
		switch action {
		case MouseMove:
			l.drag.HandleTouch(drag.ActionMove, vx, vy)
			return l, RedrawCommand{}
		case MouseLeftUp:
			l.drag.HandleTouch(drag.ActionUp, vx, vy)
			l.dropped = true
			return nil, l.animate()
		}
		return l, nil
	}

	if l.press != nil {
		switch action {
		case MouseMove:
			if vx == l.press.x && vy == l.press.y {
				return l, nil
			}
			l.press = nil
		case MouseLeftUp:
			l.press = nil
			return nil, nil
		}
	}

	if !l.InRect(x, y) {
		return nil, nil
	}

	switch action {
	case MouseLeftDown:
		focus := SetFocusCommand{Target: l}
		index := l.indexAtPoint(x, y)
		if index < 0 || l.longPress <= 0 {
			return nil, focus
		}
		l.press = &press{position: index, x: vx, y: vy, at: time.Now()}
		return l, BatchCommand{focus, l.animate()}
	case MouseLeftClick:
		if l.dropped {
			l.dropped = false
			return nil, nil
		}
		if index := l.indexAtPoint(x, y); index >= 0 {
			l.SetCursor(index)
		}
		return nil, RedrawCommand{}
	case MouseScrollUp:
		l.scroll.pending -= wheelLines
		return nil, RedrawCommand{}
	case MouseScrollDown:
		l.scroll.pending += wheelLines
		return nil, RedrawCommand{}
	}
	return nil, nil
}
