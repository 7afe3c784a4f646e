package ultralist

import (
	"time"

	"github.com/gdamore/tcell/v3"
)

// DoubleClickInterval is the longest pause between two clicks of the same
// button that still counts as a double click.
var DoubleClickInterval = 500 * time.Millisecond

// MouseAction is a logical mouse action derived from raw terminal events.
type MouseAction int16

const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseLeftClick
	MouseLeftDoubleClick
	MouseMiddleDown
	MouseMiddleUp
	MouseMiddleClick
	MouseMiddleDoubleClick
	MouseRightDown
	MouseRightUp
	MouseRightClick
	MouseRightDoubleClick
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
)

var buttonActions = [...]struct {
	button                   tcell.ButtonMask
	down, up, click, doubled MouseAction
}{
	{tcell.ButtonPrimary, MouseLeftDown, MouseLeftUp, MouseLeftClick, MouseLeftDoubleClick},
	{tcell.ButtonMiddle, MouseMiddleDown, MouseMiddleUp, MouseMiddleClick, MouseMiddleDoubleClick},
	{tcell.ButtonSecondary, MouseRightDown, MouseRightUp, MouseRightClick, MouseRightDoubleClick},
}

var wheelActions = [...]struct {
	button tcell.ButtonMask
	action MouseAction
}{
	{tcell.WheelUp, MouseScrollUp},
	{tcell.WheelDown, MouseScrollDown},
	{tcell.WheelLeft, MouseScrollLeft},
	{tcell.WheelRight, MouseScrollRight},
}

// mouseState remembers enough of the previous events to turn button masks
// into presses, releases and clicks.
type mouseState struct {
	// capture receives every action until its handler stops returning it.
	capture Primitive

	x, y         int
	downX, downY int
	buttons      tcell.ButtonMask
	lastClick    time.Time
}

// actions returns the actions one event stands for, in the order they
// happened. A release only counts as a click when the pointer did not move
// since the press.
func (m *mouseState) actions(x, y int, buttons tcell.ButtonMask, now time.Time) []MouseAction {
	var out []MouseAction
	if x != m.x || y != m.y {
		out = append(out, MouseMove)
		m.x, m.y = x, y
	}

	changed := buttons ^ m.buttons
	for _, b := range buttonActions {
		if changed&b.button == 0 {
			continue
		}
		if buttons&b.button != 0 {
			out = append(out, b.down)
			m.downX, m.downY = x, y
			continue
		}
		out = append(out, b.up)
		if x != m.downX || y != m.downY {
			continue
		}
		if now.Sub(m.lastClick) > DoubleClickInterval {
			out = append(out, b.click)
			m.lastClick = now
		} else {
			out = append(out, b.doubled)
			m.lastClick = time.Time{}
		}
	}

	for _, w := range wheelActions {
		if buttons&w.button != 0 {
			out = append(out, w.action)
		}
	}
	m.buttons = buttons
	return out
}

// handleMouse sends the actions of event to the capturing primitive, or to
// the root when nothing captures the mouse. It reports whether a redraw is
// needed.
func (a *Application) handleMouse(event *tcell.EventMouse) bool {
	a.RLock()
	root := a.root
	a.RUnlock()

	x, y := event.Position()
	redraw := false
	for _, action := range a.mouse.actions(x, y, event.Buttons(), time.Now()) {
		target := a.mouse.capture
		if target == nil {
			target = root
		}
		if target == nil {
			return redraw
		}
		capture, cmd := target.MouseHandler(action, event)
		a.mouse.capture = capture
		if a.executeCommand(cmd) {
			redraw = true
		}
	}
	return redraw
}
