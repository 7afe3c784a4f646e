package drag

import (
	"log/slog"

	"github.com/ayn2op/ultralist/binder"
)

// tracker follows the dragged position through mutations of the list and
// resolves the row displaying it.
type tracker struct {
	c        *Controller
	position int

	row    binder.RowID
	hasRow bool

	created   bool
	startLeft int
	startTop  int
}

func newTracker(c *Controller, position int) *tracker {
	return &tracker{c: c, position: position}
}

// currentRow returns the row displaying the tracked position. A row that
// stopped displaying it is released first. When no row displays the position
// the view is scrolled to it.
func (t *tracker) currentRow() (binder.RowID, bool) {
	host := t.c.host
	if t.hasRow {
		if row, ok := host.RowAt(t.position); !ok || row != t.row {
			t.teardown(false)
		}
	}
	if !t.hasRow {
		wasCreated := t.created
		t.setup(!t.created)
		if !wasCreated && t.created {
			bounds := host.RowBounds(t.row)
			t.startLeft = bounds.X
			t.startTop = bounds.Y
		}
	}
	if !t.hasRow && !host.InLayout() {
		host.ScrollToPosition(t.position)
	}
	return t.row, t.hasRow
}

func (t *tracker) setup(create bool) {
	row, ok := t.c.host.RowAt(t.position)
	if !ok {
		return
	}
	t.row = row
	t.hasRow = true
	t.c.callback.OnDragStarted(row, t.position, create)
	t.created = t.created || create
}

func (t *tracker) teardown(destroy bool) {
	if !t.hasRow {
		return
	}
	t.c.host.SetTranslation(t.row, 0, 0)
	t.c.callback.OnDragStopped(t.row, destroy)
	t.created = t.created && !destroy
	t.hasRow = false
}

func (t *tracker) destroy() {
	t.teardown(true)
}

func (t *tracker) OnChanged() {
	t.c.logger.Warn("drag cancelled, data set changed", slog.Int("position", t.position))
	t.c.stop(true)
}

func (t *tracker) OnItemRangeInserted(start, count int) {
	if start <= t.position {
		t.position += count
	}
}

func (t *tracker) OnItemRangeRemoved(start, count int) {
	switch {
	case t.position >= start && t.position < start+count:
		t.c.logger.Warn("drag cancelled, dragged position removed", slog.Int("position", t.position))
		t.c.stop(true)
	case start < t.position:
		t.position -= count
	}
}

func (t *tracker) OnItemRangeMoved(from, to, count int) {
	switch {
	case t.position >= from && t.position < from+count:
		t.position += to - from
	case from < to && t.position >= from+count && t.position <= to:
		t.position -= count
	case from > to && t.position >= to && t.position <= from:
		t.position += count
	}
}
