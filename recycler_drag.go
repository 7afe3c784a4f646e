package ultralist

import (
	"log/slog"
	"time"

	"github.com/ayn2op/ultralist/binder"
	"github.com/ayn2op/ultralist/diff"
	"github.com/ayn2op/ultralist/drag"
)

var _ drag.Host = (*RecyclerList)(nil)

func (l *RecyclerList) LayoutOrientation() (drag.Orientation, bool) {
	return drag.Vertical, l.laidOut
}

func (l *RecyclerList) ItemCount() int {
	return len(l.entries)
}

func (l *RecyclerList) Viewport() drag.Rect {
	return drag.Rect{Width: l.cellWidth, Height: l.lastRect.height}
}

// RowAt returns the visible row displaying position.
func (l *RecyclerList) RowAt(position int) (binder.RowID, bool) {
	if position < 0 || position >= len(l.entries) {
		return 0, false
	}
	id := l.entries[position].row
	if _, ok := l.childOf[id]; !ok || id == 0 {
		return 0, false
	}
	return id, true
}

func (l *RecyclerList) RowBounds(row binder.RowID) drag.Rect {
	index, ok := l.childOf[row]
	if !ok {
		return drag.Rect{}
	}
	child := l.children[index]
	return drag.Rect{Y: child.y, Width: l.cellWidth, Height: child.height}
}

func (l *RecyclerList) ChildIndex(row binder.RowID) int {
	if index, ok := l.childOf[row]; ok {
		return index
	}
	return -1
}

func (l *RecyclerList) Translation(row binder.RowID) (dx, dy int) {
	if r, ok := l.rows[row]; ok {
		return r.dx, r.dy
	}
	return 0, 0
}

func (l *RecyclerList) SetTranslation(row binder.RowID, dx, dy int) {
	if r, ok := l.rows[row]; ok {
		r.dx, r.dy = dx, dy
	}
}

func (l *RecyclerList) CanScroll(direction int) bool {
	if direction < 0 {
		return l.scroll.top > 0 || l.scroll.offset > 0
	}
	if len(l.children) == 0 {
		return false
	}
	last := l.children[len(l.children)-1]
	return last.index < len(l.entries)-1 || last.y+last.height > l.lastRect.height
}

func (l *RecyclerList) ScrollBy(delta int) {
	l.scroll.pending += delta
}

func (l *RecyclerList) ScrollToPosition(position int) {
	l.scroll.target = position
}

func (l *RecyclerList) SetDrawOrderOverride(order drag.DrawOrderFunc) {
	l.drawOrder = order
}

func (l *RecyclerList) InLayout() bool {
	return l.inLayout
}

func (l *RecyclerList) Post(fn func()) {
	if l.inLayout {
		l.posted = append(l.posted, fn)
		return
	}
	fn()
}

func (l *RecyclerList) Register(observer diff.Observer) {
	l.observers.Register(observer)
}

func (l *RecyclerList) Unregister(observer diff.Observer) {
	l.observers.Unregister(observer)
}

func (l *RecyclerList) Animator() drag.Animator {
	if l.recovery.frames <= 0 {
		return nil
	}
	return l.recovery
}

// dragCallback is the list seen by its drag controller.
type dragCallback RecyclerList

func (c *dragCallback) list() *RecyclerList {
	return (*RecyclerList)(c)
}

func (c *dragCallback) OnDragStarted(row binder.RowID, position int, create bool) {
	l := c.list()
	if r, ok := l.rows[row]; ok {
		r.dragged = true
	}
	if create {
		l.keys.Cancel.SetEnabled(true)
		l.logger.Debug("drag started", slog.Int("list", l.listID), slog.Int("position", position))
	}
}

func (c *dragCallback) OnDragMoved(row binder.RowID, x, y int) {}

func (c *dragCallback) OnDragTo(row binder.RowID, position int) int {
	l := c.list()
	from, ok := l.drag.Position()
	if !ok || from == position {
		return position
	}
	if !l.acceptMove(from, position) {
		return from
	}

	l.Move(from, position)
	if !l.inLayout {
		l.relayout()
	}
	return position
}

func (c *dragCallback) OnDragStopped(row binder.RowID, destroy bool) {
	l := c.list()
	if r, ok := l.rows[row]; ok {
		r.dragged = false
	}
	if destroy {
		l.keys.Cancel.SetEnabled(false)
		if l.keyboard != nil {
			l.keyboard = nil
			l.drag.SetScrollEnabled(l.dragConfig.Scroll)
		}
		l.logger.Debug("drag stopped", slog.Int("list", l.listID))
	}
}

type committedMover interface {
	MoveCommitted(listID int, from, to int) error
}

// acceptMove moves a row of the data ahead of the view.
func (l *RecyclerList) acceptMove(from, to int) bool {
	if l.reorder != nil {
		return l.reorder(from, to)
	}
	mover, ok := l.source.(committedMover)
	if !ok {
		return true
	}
	if err := mover.MoveCommitted(l.listID, from, to); err != nil {
		l.logger.Warn("move refused", slog.Int("from", from), slog.Int("to", to), slog.Any("err", err))
		return false
	}
	return true
}

// recovery settles released rows back into their slots over a fixed number
// of frames.
type recovery struct {
	l        *RecyclerList
	frames   int
	running  map[binder.RowID]*settle
	finished []func()
}

type settle struct {
	dx, dy int
	frame  int
}

func newRecovery(l *RecyclerList, frames int) *recovery {
	return &recovery{
		l:       l,
		frames:  frames,
		running: make(map[binder.RowID]*settle),
	}
}

func (r *recovery) AnimateRecovery(row binder.RowID, dx, dy int) {
	r.l.SetTranslation(row, dx, dy)
	r.running[row] = &settle{dx: dx, dy: dy}
}

func (r *recovery) IsRunning(onFinished func()) bool {
	if len(r.running) == 0 {
		onFinished()
		return false
	}
	r.finished = append(r.finished, onFinished)
	return true
}

func (r *recovery) EndAnimations() {
	for row := range r.running {
		r.l.SetTranslation(row, 0, 0)
	}
	clear(r.running)
	r.finish()
}

// step advances every animation by one frame and reports whether any is
// still running.
func (r *recovery) step() bool {
	if len(r.running) == 0 {
		return false
	}
	for row, s := range r.running {
		s.frame++
		remaining := r.frames - s.frame
		if remaining <= 0 {
			r.l.SetTranslation(row, 0, 0)
			delete(r.running, row)
			continue
		}
		r.l.SetTranslation(row, s.dx*remaining/r.frames, s.dy*remaining/r.frames)
	}
	if len(r.running) == 0 {
		r.finish()
		return false
	}
	return true
}

func (r *recovery) finish() {
	finished := r.finished
	r.finished = nil
	for _, fn := range finished {
		fn()
	}
}

// press is a held mouse button waiting to become a long press.
type press struct {
	position int
	x, y     int
	at       time.Time
}

// keyboardDrag is a drag driven by the keyboard. The pointer is kept at a
// fixed offset from the top of the dragged row.
type keyboardDrag struct {
	y      int
	anchor int
}

// OnLongPress starts dragging position. It reports whether a drag started.
func (l *RecyclerList) OnLongPress(position int) bool {
	if l.longPressed != nil && !l.longPressed(position) {
		return false
	}
	if err := l.drag.StartErr(position); err != nil {
		l.logger.Debug("drag not started", slog.Int("position", position), slog.Any("err", err))
		return false
	}
	return true
}

// animate returns the command registering the frame callback of the list.
func (l *RecyclerList) animate() Command {
	if l.ticking {
		return RedrawCommand{}
	}
	l.ticking = true
	return AnimateCommand{Tick: l.onFrame}
}

// onFrame advances the long press timer, the drag and the recovery. It
// reports whether another frame is needed.
func (l *RecyclerList) onFrame(now time.Time) bool {
	if p := l.press; p != nil && now.Sub(p.at) >= l.longPress {
		l.press = nil
		if l.OnLongPress(p.position) {
			l.drag.HandleTouch(drag.ActionDown, p.x, p.y)
		}
	}
	recovering := l.recovery.step()
	l.drag.OnFrame()

	more := l.press != nil || recovering || l.drag.State() != drag.StateNone
	if !more {
		l.ticking = false
	}
	return more
}

// startKeyboardDrag starts dragging the row under the cursor.
func (l *RecyclerList) startKeyboardDrag() bool {
	if l.cursor < 0 || !l.OnLongPress(l.cursor) {
		return false
	}
	row, ok := l.drag.Row()
	if !ok {
		l.drag.StopNow()
		return false
	}
	bounds := l.RowBounds(row)
	l.keyboard = &keyboardDrag{y: bounds.Y + bounds.Height/2, anchor: bounds.Height / 2}
	l.drag.SetScrollEnabled(false)
	l.drag.HandleTouch(drag.ActionDown, 0, l.keyboard.y)
	return true
}

// stepKeyboardDrag moves the dragged row by one position in direction.
func (l *RecyclerList) stepKeyboardDrag(direction int) {
	position, ok := l.drag.Position()
	target := position + direction
	if !ok || l.keyboard == nil || target < 0 || target >= len(l.entries) {
		return
	}

	neighbour, ok := l.RowAt(target)
	if !ok {
		l.ScrollToPosition(target)
		l.relayout()
		if neighbour, ok = l.RowAt(target); !ok {
			return
		}
	}

	// Cross the midpoint of the neighbour, then settle on the new slot.
	bounds := l.RowBounds(neighbour)
	l.keyboard.y = bounds.Y + bounds.Height/2 + direction
	l.drag.HandleTouch(drag.ActionMove, 0, l.keyboard.y)
	l.drag.OnFrame()

	if row, ok := l.drag.Row(); ok && l.keyboard != nil {
		l.keyboard.y = l.RowBounds(row).Y + l.keyboard.anchor
		l.drag.HandleTouch(drag.ActionMove, 0, l.keyboard.y)
		l.drag.OnFrame()
	}
	if position, ok := l.drag.Position(); ok {
		l.ScrollToPosition(position)
	}
}
