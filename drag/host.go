// Package drag implements press-and-hold drag to reorder for list views.
//
// A [Controller] tracks one dragged position through structural mutations of
// the list, translates the dragged row with the pointer, swaps it with its
// neighbours once the pointer crosses their midpoint and scrolls the view when
// the pointer nears an edge. The list view takes part through [Host].
package drag

import (
	"fmt"

	"github.com/ayn2op/ultralist/binder"
	"github.com/ayn2op/ultralist/diff"
)

// State is the state of a drag session.
type State int

const (
	StateNone State = iota
	StateStarting
	StateDragging
	StateRecovering
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateStarting:
		return "starting"
	case StateDragging:
		return "dragging"
	case StateRecovering:
		return "recovering"
	case StateStopping:
		return "stopping"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Orientation is the scroll axis of a linear list.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// Action is the kind of a pointer event.
type Action int

const (
	ActionDown Action = iota
	ActionMove
	ActionUp
	ActionCancel
)

// Rect is an area in viewport coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// DrawOrderFunc maps the i-th draw slot of count children to a child index.
type DrawOrderFunc func(count, i int) int

// Host is the list view a controller drives. Rows are addressed by id and
// resolved again on every call; a row id is only valid while RowAt returns it.
type Host interface {
	// LayoutOrientation reports the scroll axis, or false when the view has
	// no linear layout attached.
	LayoutOrientation() (Orientation, bool)
	ItemCount() int
	// Viewport returns the visible area. X and Y are zero.
	Viewport() Rect

	// RowAt returns the row currently displaying position.
	RowAt(position int) (binder.RowID, bool)
	// RowBounds returns the layout bounds of row, without translation.
	RowBounds(row binder.RowID) Rect
	// ChildIndex returns the index of row among the visible children, or -1.
	ChildIndex(row binder.RowID) int
	Translation(row binder.RowID) (dx, dy int)
	SetTranslation(row binder.RowID, dx, dy int)

	CanScroll(direction int) bool
	ScrollBy(delta int)
	ScrollToPosition(position int)
	SetDrawOrderOverride(order DrawOrderFunc)

	// InLayout reports whether the view is laying out its children. Teardown
	// is deferred with Post until the layout pass ends.
	InLayout() bool
	Post(fn func())

	Register(observer diff.Observer)
	Unregister(observer diff.Observer)

	// Animator returns the animator used to settle a released row, or nil.
	Animator() Animator
}

// Animator settles a released row back into its layout position.
type Animator interface {
	// AnimateRecovery animates row from the translation (dx, dy) to zero.
	AnimateRecovery(row binder.RowID, dx, dy int)
	// IsRunning reports whether animations are running. If they are,
	// onFinished is called once they end; otherwise it is called right away.
	IsRunning(onFinished func()) bool
	// EndAnimations ends all animations synchronously, calling the pending
	// onFinished callbacks.
	EndAnimations()
}

// Callback receives the lifecycle of the dragged row.
type Callback interface {
	// OnDragStarted is called when the dragged row becomes available. create
	// is true the first time for a session.
	OnDragStarted(row binder.RowID, position int, create bool)
	OnDragMoved(row binder.RowID, x, y int)
	// OnDragTo asks to move the dragged row to position and returns the
	// position the row ended up at.
	OnDragTo(row binder.RowID, position int) int
	// OnDragStopped is called when the row stops being the dragged row.
	// destroy is true when the session ends.
	OnDragStopped(row binder.RowID, destroy bool)
}
