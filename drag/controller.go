package drag

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ayn2op/ultralist/binder"
)

var (
	// ErrAlreadyDragging is returned when the position is already dragged.
	ErrAlreadyDragging = errors.New("drag: position is already being dragged")
	// ErrLayoutNotReady is returned when the host has no linear layout.
	ErrLayoutNotReady = errors.New("drag: no linear layout attached")
	// ErrStopInFlight is returned while a previous drag is being torn down.
	ErrStopInFlight = errors.New("drag: a drag is currently being stopped")
	// ErrPositionOutOfRange is returned for a position the host has no item at.
	ErrPositionOutOfRange = errors.New("drag: position out of range")
)

// Config holds the tuning of a controller, in viewport units.
type Config struct {
	// TouchSlop is the distance the pointer travels before the drag
	// direction is updated.
	TouchSlop int
	// ScrollSpeedMax is the maximum auto-scroll speed per frame.
	ScrollSpeedMax float64
	// ScrollMargin is the size of the edge area that triggers auto-scroll.
	ScrollMargin int
}

// DefaultConfig returns the tuning used for a terminal list.
func DefaultConfig() Config {
	return Config{
		TouchSlop:      0,
		ScrollSpeedMax: 3,
		ScrollMargin:   2,
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfig sets the tuning of the controller.
func WithConfig(config Config) Option {
	return func(c *Controller) {
		c.config = config
	}
}

// WithLogger sets the logger of the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

type point struct {
	x, y int
}

// Controller drags one row of a host at a time. It is not safe for concurrent
// use; the host calls it from its event loop.
type Controller struct {
	host     Host
	callback Callback
	config   Config
	logger   *slog.Logger

	state   State
	tracker *tracker

	translateEnabled bool
	swapEnabled      bool
	scrollEnabled    bool

	touchStart   point
	touchCurrent point
	touchPivot   point
	// Sign of the last movement past the slop, per axis.
	directionX int
	directionY int

	scrollSpeed float64
}

// NewController returns a controller driving host.
func NewController(host Host, callback Callback, opts ...Option) *Controller {
	c := &Controller{
		host:             host,
		callback:         callback,
		config:           DefaultConfig(),
		translateEnabled: true,
		swapEnabled:      true,
		scrollEnabled:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Active reports whether a drag is in progress, recovering included.
func (c *Controller) Active() bool {
	return c.state != StateNone && c.state != StateStopping
}

// Position returns the dragged position.
func (c *Controller) Position() (int, bool) {
	if c.tracker == nil {
		return 0, false
	}
	return c.tracker.position, true
}

// Row returns the row displaying the dragged position, if it is visible.
func (c *Controller) Row() (binder.RowID, bool) {
	if c.tracker == nil || !c.tracker.hasRow {
		return 0, false
	}
	return c.tracker.row, true
}

// ScrollSpeed returns the current auto-scroll speed.
func (c *Controller) ScrollSpeed() float64 {
	return c.scrollSpeed
}

// Start starts dragging position. The drag begins with the next pointer
// event. It returns false if the drag cannot start; see [Controller.StartErr].
func (c *Controller) Start(position int) bool {
	return c.StartErr(position) == nil
}

// StartErr is like Start but returns the reason a drag could not start. A
// running drag is stopped without recovery first.
func (c *Controller) StartErr(position int) error {
	if c.tracker != nil && c.tracker.position == position {
		c.logger.Warn("position is already being dragged", slog.Int("position", position))
		return ErrAlreadyDragging
	}
	if _, ok := c.host.LayoutOrientation(); !ok {
		c.logger.Warn("list has no linear layout", slog.Int("position", position))
		return ErrLayoutNotReady
	}
	if count := c.host.ItemCount(); position < 0 || position >= count {
		c.logger.Warn("position out of range", slog.Int("position", position), slog.Int("count", count))
		return fmt.Errorf("start at %d of %d: %w", position, count, ErrPositionOutOfRange)
	}
	switch c.state {
	case StateStopping:
		c.logger.Warn("a drag is currently being stopped", slog.Int("position", position))
		return ErrStopInFlight
	case StateNone:
	default:
		c.stop(true)
	}

	c.tracker = newTracker(c, position)
	c.host.Register(c.tracker)
	c.tracker.currentRow()

	c.state = StateStarting
	return nil
}

func (c *Controller) startInternal() {
	c.host.SetDrawOrderOverride(c.drawOrder)
	c.state = StateDragging
}

func (c *Controller) moveInternal(x, y int) {
	if row, ok := c.tracker.currentRow(); ok {
		c.callback.OnDragMoved(row, x, y)
	}
}

// Stop ends the drag at the current position. A dragged row is animated back
// into its layout position first when the host has an animator.
func (c *Controller) Stop() {
	c.stop(false)
}

// StopNow ends the drag without recovery. A running recovery is ended
// synchronously.
func (c *Controller) StopNow() {
	c.stop(true)
}

func (c *Controller) stop(now bool) {
	if !c.Active() {
		return
	}

	animator := c.host.Animator()
	row, ok := c.tracker.currentRow()
	switch {
	case !now && c.state == StateDragging && ok && animator != nil:
		c.recover(row, animator)
		animator.IsRunning(c.stopInternal)
	case c.state == StateRecovering:
		if animator != nil {
			animator.EndAnimations()
		}
	default:
		c.stopInternal()
	}
}

func (c *Controller) stopInternal() {
	c.state = StateStopping
	if c.host.InLayout() {
		c.host.Post(c.stopInternal)
		return
	}
	if c.tracker == nil {
		c.state = StateNone
		return
	}

	c.host.Unregister(c.tracker)
	c.host.SetDrawOrderOverride(nil)

	c.state = StateNone
	c.scrollSpeed = 0

	c.tracker.destroy()
	c.tracker = nil
}

func (c *Controller) recover(row binder.RowID, animator Animator) {
	c.state = StateRecovering

	dx, dy := c.host.Translation(row)
	c.host.SetTranslation(row, 0, 0)
	if animator != nil && (dx != 0 || dy != 0) {
		animator.AnimateRecovery(row, dx, dy)
	}
}

// HandleTouch feeds a pointer event at (x, y) in viewport coordinates. It
// reports whether the event was consumed by the drag.
func (c *Controller) HandleTouch(action Action, x, y int) bool {
	if !c.Active() {
		return false
	}

	if c.state == StateStarting && (action == ActionDown || action == ActionMove) {
		c.startInternal()
		c.touchStart = point{x, y}
		c.touchCurrent = c.touchStart
		c.touchPivot = c.touchStart
		c.directionX, c.directionY = 0, 0
		return true
	}
	if c.state == StateDragging && action == ActionMove {
		c.moveInternal(x, y)
		c.touchCurrent = point{x, y}
		if abs(c.touchCurrent.x-c.touchPivot.x) > c.config.TouchSlop {
			c.directionX = sign(c.touchCurrent.x - c.touchPivot.x)
			c.touchPivot.x = c.touchCurrent.x
		}
		if abs(c.touchCurrent.y-c.touchPivot.y) > c.config.TouchSlop {
			c.directionY = sign(c.touchCurrent.y - c.touchPivot.y)
			c.touchPivot.y = c.touchCurrent.y
		}
		return true
	}
	if action == ActionUp || action == ActionCancel {
		c.Stop()
		return true
	}
	return false
}

// OnFrame advances the drag by one frame: the dragged row follows the
// pointer, swaps with its neighbours and the view auto-scrolls. It reports
// whether another frame is needed.
func (c *Controller) OnFrame() bool {
	if !c.Active() {
		return false
	}

	row, ok := c.tracker.currentRow()
	if ok {
		if c.state == StateDragging {
			if c.translateEnabled {
				c.handleTranslation(row)
			}
			if c.swapEnabled {
				c.handleSwap(row)
			}
		}
		// The swap may have cancelled the drag.
		if c.Active() {
			c.handleScroll(row, c.state != StateDragging || !c.scrollEnabled)
		}
	}
	return c.Active()
}

// SetTranslateEnabled sets whether the dragged row follows the pointer.
func (c *Controller) SetTranslateEnabled(enabled bool) {
	if c.translateEnabled == enabled {
		return
	}
	c.translateEnabled = enabled
	if c.state != StateDragging {
		return
	}
	row, ok := c.tracker.currentRow()
	if !ok {
		return
	}
	if enabled {
		c.handleTranslation(row)
	} else {
		c.recover(row, c.host.Animator())
		// Keep dragging without translation.
		c.state = StateDragging
	}
}

// TranslateEnabled reports whether the dragged row follows the pointer.
func (c *Controller) TranslateEnabled() bool {
	return c.translateEnabled
}

// SetSwapEnabled sets whether the dragged row swaps with its neighbours.
func (c *Controller) SetSwapEnabled(enabled bool) {
	if c.swapEnabled == enabled {
		return
	}
	c.swapEnabled = enabled
	if c.state != StateDragging || !enabled {
		return
	}
	if row, ok := c.tracker.currentRow(); ok {
		c.handleSwap(row)
	}
}

// SwapEnabled reports whether the dragged row swaps with its neighbours.
func (c *Controller) SwapEnabled() bool {
	return c.swapEnabled
}

// SetScrollEnabled sets whether the view scrolls when the pointer nears an
// edge.
func (c *Controller) SetScrollEnabled(enabled bool) {
	if c.scrollEnabled == enabled {
		return
	}
	c.scrollEnabled = enabled
	if c.state != StateDragging {
		return
	}
	if row, ok := c.tracker.currentRow(); ok {
		c.handleScroll(row, !enabled)
	}
}

// ScrollEnabled reports whether the view auto-scrolls.
func (c *Controller) ScrollEnabled() bool {
	return c.scrollEnabled
}

func (c *Controller) handleTranslation(row binder.RowID) {
	viewport := c.host.Viewport()
	bounds := c.host.RowBounds(row)
	maxLeft := viewport.Width - bounds.Width
	maxTop := viewport.Height - bounds.Height

	left := clamp(c.tracker.startLeft+(c.touchCurrent.x-c.touchStart.x), 0, maxLeft)
	top := clamp(c.tracker.startTop+(c.touchCurrent.y-c.touchStart.y), 0, maxTop)

	c.host.SetTranslation(row, left-bounds.X, top-bounds.Y)
}

func (c *Controller) handleSwap(row binder.RowID) {
	orientation, _ := c.host.LayoutOrientation()
	position := c.tracker.position
	touch, direction := c.touchCurrent.y, c.directionY
	if orientation == Horizontal {
		touch, direction = c.touchCurrent.x, c.directionX
	}

	target := -1
	if direction <= 0 {
		if previous, ok := c.host.RowAt(position - 1); ok && touch < c.center(previous, orientation) {
			target = position - 1
		}
	}
	if target < 0 && direction >= 0 {
		if next, ok := c.host.RowAt(position + 1); ok && touch > c.center(next, orientation) {
			target = position + 1
		}
	}
	if target < 0 {
		return
	}

	newPosition := c.callback.OnDragTo(row, target)
	if newPosition != position && (position == 0 || newPosition == 0) {
		// The first row anchors the viewport; keep it in view.
		c.host.ScrollToPosition(0)
	}
}

func (c *Controller) handleScroll(row binder.RowID, forceDecelerate bool) {
	orientation, _ := c.host.LayoutOrientation()
	viewport := c.host.Viewport()
	size, touch, touchDirection := viewport.Height, c.touchCurrent.y, c.directionY
	if orientation == Horizontal {
		size, touch, touchDirection = viewport.Width, c.touchCurrent.x, c.directionX
	}

	direction := 1
	if float64(touch) < float64(size)/2 {
		direction = -1
	}

	var fraction float64
	if !forceDecelerate && c.host.CanScroll(direction) {
		fraction = edgeFraction(touch, size, c.config.ScrollMargin, c.center(row, orientation), direction, touchDirection)
	}
	if fraction > 0 {
		c.scrollSpeed = Accelerate(c.scrollSpeed, c.config.ScrollSpeedMax, fraction)
	} else {
		c.scrollSpeed = Decelerate(c.scrollSpeed)
	}
	if c.scrollSpeed > 0 {
		c.host.ScrollBy(int(c.scrollSpeed) * direction)
	}
}

// drawOrder draws the dragged row last so that it stays on top.
func (c *Controller) drawOrder(count, i int) int {
	row, ok := c.Row()
	if !ok {
		return i
	}
	index := c.host.ChildIndex(row)
	if index < 0 {
		return i
	}
	if i == count-1 {
		return index
	}
	if i < index {
		return i
	}
	return i + 1
}

func (c *Controller) center(row binder.RowID, orientation Orientation) int {
	bounds := c.host.RowBounds(row)
	dx, dy := c.host.Translation(row)
	if orientation == Horizontal {
		return bounds.X + bounds.Width/2 + dx
	}
	return bounds.Y + bounds.Height/2 + dy
}

// clamp returns value limited to [low, high], checking low first.
func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
