package ultralist

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/require"

	"github.com/ayn2op/ultralist/config"
	"github.com/ayn2op/ultralist/diff"
	"github.com/ayn2op/ultralist/drag"
	"github.com/ayn2op/ultralist/registry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecords(n int) []diff.Record {
	records := make([]diff.Record, n)
	for i := range records {
		records[i] = diff.Record{
			Type:     "item",
			Identity: int64(i + 1),
			Fields:   map[string]string{"title": fmt.Sprintf("row %d", i)},
		}
	}
	return records
}

func newTestList(t *testing.T, n int, opts ...ListOption) (*RecyclerList, *diff.MemorySource) {
	t.Helper()

	cfg := config.Default()
	cfg.List.InitialPoolSize = 4
	cfg.List.ScrollBar = false

	source := diff.NewMemorySource()
	opts = append([]ListOption{WithConfig(cfg), WithLogger(quietLogger())}, opts...)
	list := NewRecyclerList(source, opts...)
	list.RegisterCell("item", func(string) Cell {
		return NewTextCell("title")
	})
	source.Put(list.ListID(), testRecords(n))
	list.Reload()
	list.SetRect(0, 0, 20, 5)
	return list, source
}

func draw(list *RecyclerList) []string {
	screen := newTestScreen(20, 5)
	list.Draw(screen)
	return screen.rows()
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, "", tcell.ModNone)
}

func TestRecyclerListDrawsVisibleRows(t *testing.T) {
	list, _ := newTestList(t, 10)

	require.Equal(t, []string{"  row 0", "  row 1", "  row 2", "  row 3", "  row 4"}, draw(list))

	// Five rows starved a pool of four; it grew before the frame ended.
	pool, ok := list.cells.Pool("item")
	require.True(t, ok)
	require.Equal(t, 5, pool.Lent())
	require.Equal(t, 8, pool.Capacity())
	require.Empty(t, pool.Pending())
}

func TestRecyclerListCommitRemovesRow(t *testing.T) {
	list, source := newTestList(t, 10)
	draw(list)

	next := slices.Delete(testRecords(10), 3, 4)
	require.NoError(t, source.Stage(list.ListID(), next, diff.Changes{Removed: []int{3}}))

	ops, err := list.Commit()
	require.NoError(t, err)
	require.Equal(t, []diff.Op{{Kind: diff.OpRemove, Start: 3, Count: 1}}, ops)
	require.Equal(t, 9, list.Len())

	identity, ok := list.Identity(3)
	require.True(t, ok)
	require.Equal(t, int64(5), identity)

	require.Equal(t, []string{"  row 0", "  row 1", "  row 2", "  row 4", "  row 5"}, draw(list))
	pool, _ := list.cells.Pool("item")
	require.Equal(t, 5, pool.Lent())
}

func TestRecyclerListRejectedCommitKeepsRows(t *testing.T) {
	list, source := newTestList(t, 10)
	draw(list)

	// Removing an index past the end is rejected as a whole.
	next := slices.Delete(testRecords(10), 3, 4)
	require.NoError(t, source.Stage(list.ListID(), next, diff.Changes{Removed: []int{12}}))

	_, err := list.Commit()
	require.Error(t, err)
	require.Equal(t, 10, list.Len())
}

func TestRecyclerListDroppedCommitRecoversWithReload(t *testing.T) {
	list, source := newTestList(t, 10)
	var dropped []error
	list.SetDroppedFunc(func(err error) {
		dropped = append(dropped, err)
	})
	draw(list)

	next := slices.Delete(testRecords(10), 3, 4)
	require.NoError(t, source.Stage(list.ListID(), next, diff.Changes{Removed: []int{12}}))
	_, err := list.Commit()
	require.Error(t, err)
	require.Len(t, dropped, 1)
	require.ErrorIs(t, err, dropped[0])

	// The source took the snapshot anyway, so the rows are behind it.
	require.Equal(t, 9, source.Length(list.ListID()))
	require.Equal(t, 10, list.Len())

	list.Reload()
	require.Equal(t, 9, list.Len())
	require.Equal(t, []string{"  row 0", "  row 1", "  row 2", "  row 4", "  row 5"}, draw(list)[:5])

	// Later commits apply again.
	next = slices.Delete(slices.Clone(next), 0, 1)
	require.NoError(t, source.Stage(list.ListID(), next, diff.Changes{Removed: []int{0}}))
	_, err = list.Commit()
	require.NoError(t, err)
	require.Equal(t, 8, list.Len())
	require.Len(t, dropped, 1)
}

func TestRecyclerListScrollRecyclesTemplates(t *testing.T) {
	list, _ := newTestList(t, 10)
	draw(list)

	list.ScrollToEnd()
	require.Equal(t, []string{"  row 5", "  row 6", "  row 7", "  row 8", "  row 9"}, draw(list))

	top, lines := list.Offset()
	require.Equal(t, 5, top)
	require.Zero(t, lines)

	// Rows leaving the view gave their templates to the rows entering it.
	pool, _ := list.cells.Pool("item")
	require.Equal(t, 5, pool.Lent())
	require.Equal(t, 8, pool.Capacity())

	list.ScrollToStart()
	require.Equal(t, "  row 0", draw(list)[0])
}

func TestRecyclerListScrollClampsAtEnd(t *testing.T) {
	list, _ := newTestList(t, 10)
	draw(list)

	for range 20 {
		list.ScrollDown()
	}
	require.Equal(t, "  row 9", draw(list)[4])
	top, _ := list.Offset()
	require.Equal(t, 5, top)

	list.ScrollUp()
	require.Equal(t, "  row 4", draw(list)[0])
}

func TestRecyclerListInsertKeepsAnchor(t *testing.T) {
	list, source := newTestList(t, 10)
	draw(list)
	list.ScrollToEnd()
	draw(list)

	added := diff.Record{Type: "item", Identity: 100, Fields: map[string]string{"title": "new"}}
	next := append([]diff.Record{added}, testRecords(10)...)
	require.NoError(t, source.Stage(list.ListID(), next, diff.Changes{Added: []int{0}}))
	_, err := list.Commit()
	require.NoError(t, err)

	top, _ := list.Offset()
	require.Equal(t, 6, top)
	require.Equal(t, []string{"  row 5", "  row 6", "  row 7", "  row 8", "  row 9"}, draw(list))

	list.ScrollToStart()
	require.Equal(t, "  new", draw(list)[0])
}

func TestRecyclerListCursorFollowsMoves(t *testing.T) {
	list, source := newTestList(t, 10)
	list.SetCursor(4)

	next := testRecords(10)
	moved := next[4]
	next = slices.Delete(next, 4, 5)
	next = slices.Insert(next, 0, moved)
	require.NoError(t, source.Stage(list.ListID(), next, diff.Changes{Moved: []diff.Move{{From: 4, To: 0}}}))
	_, err := list.Commit()
	require.NoError(t, err)

	require.Equal(t, 0, list.Cursor())
	require.Equal(t, "› row 4", draw(list)[0])
}

func TestRecyclerListKeys(t *testing.T) {
	list, _ := newTestList(t, 10)
	draw(list)

	var changed []int
	list.SetChangedFunc(func(index int) {
		changed = append(changed, index)
	})

	list.InputHandler(key(tcell.KeyDown))
	list.InputHandler(key(tcell.KeyDown))
	list.InputHandler(key(tcell.KeyDown))
	list.InputHandler(key(tcell.KeyUp))
	require.Equal(t, 1, list.Cursor())

	list.InputHandler(key(tcell.KeyEnd))
	require.Equal(t, 9, list.Cursor())
	require.Equal(t, "› row 9", draw(list)[4])

	list.InputHandler(key(tcell.KeyHome))
	require.Equal(t, []int{0, 1, 2, 1, 9, 0}, changed)
}

func TestRecyclerListKeyboardDrag(t *testing.T) {
	list, source := newTestList(t, 10)
	list.SetCursor(1)
	draw(list)

	cmd := list.InputHandler(tcell.NewEventKey(tcell.KeyRune, " ", tcell.ModNone))
	require.IsType(t, AnimateCommand{}, cmd)
	require.Equal(t, drag.StateDragging, list.Drag().State())
	require.True(t, list.KeyMap().Cancel.Enabled())

	list.InputHandler(key(tcell.KeyDown))
	position, ok := list.Drag().Position()
	require.True(t, ok)
	require.Equal(t, 2, position)
	require.Equal(t, 2, list.Cursor())

	// The data moved along with the view.
	records := source.Records(list.ListID())
	require.Equal(t, int64(3), records[1].Identity)
	require.Equal(t, int64(2), records[2].Identity)

	list.InputHandler(tcell.NewEventKey(tcell.KeyRune, " ", tcell.ModNone))
	require.Equal(t, drag.StateNone, list.Drag().State())
	require.False(t, list.KeyMap().Cancel.Enabled())

	require.Equal(t, []string{"  row 0", "  row 2", "› row 1", "  row 3", "  row 4"}, draw(list))
}

func TestRecyclerListRefusedReorder(t *testing.T) {
	list, source := newTestList(t, 10)
	list.SetReorderFunc(func(from, to int) bool {
		return false
	})
	list.SetCursor(1)
	draw(list)

	list.InputHandler(tcell.NewEventKey(tcell.KeyRune, " ", tcell.ModNone))
	list.InputHandler(key(tcell.KeyDown))

	position, _ := list.Drag().Position()
	require.Equal(t, 1, position)
	require.Equal(t, int64(2), source.Records(list.ListID())[1].Identity)

	list.InputHandler(key(tcell.KeyEscape))
	require.Equal(t, drag.StateNone, list.Drag().State())
}

func TestRecyclerListDragWaitsForStagedSnapshot(t *testing.T) {
	list, source := newTestList(t, 10)
	list.SetCursor(1)
	draw(list)

	next := slices.Delete(testRecords(10), 9, 10)
	require.NoError(t, source.Stage(list.ListID(), next, diff.Changes{Removed: []int{9}}))

	list.InputHandler(tcell.NewEventKey(tcell.KeyRune, " ", tcell.ModNone))
	list.InputHandler(key(tcell.KeyDown))

	// The staged change set still indexes the old order, so the swap is refused.
	position, _ := list.Drag().Position()
	require.Equal(t, 1, position)
	list.InputHandler(key(tcell.KeyEscape))

	_, err := list.Commit()
	require.NoError(t, err)

	records := source.Records(list.ListID())
	require.Len(t, records, 9)
	require.Equal(t, int64(2), records[1].Identity)
	require.Equal(t, int64(3), records[2].Identity)
	require.Equal(t, []string{"  row 2", "  row 3", "  row 4"}, draw(list)[2:])
}

func TestRecyclerListRemovingDraggedRowCancelsDrag(t *testing.T) {
	list, source := newTestList(t, 10)
	list.SetCursor(1)
	draw(list)
	require.True(t, list.OnLongPress(1))

	next := slices.Delete(source.Records(list.ListID()), 1, 2)
	require.NoError(t, source.Stage(list.ListID(), next, diff.Changes{Removed: []int{1}}))
	_, err := list.Commit()
	require.NoError(t, err)

	require.Equal(t, drag.StateNone, list.Drag().State())
	_, ok := list.Drag().Position()
	require.False(t, ok)
}

func TestRecyclerListLongPressStartsDrag(t *testing.T) {
	list, _ := newTestList(t, 10)
	draw(list)

	start := time.Now()
	list.press = &press{position: 2, x: 3, y: 2, at: start}
	require.True(t, list.onFrame(start.Add(10*time.Millisecond)))
	require.Equal(t, drag.StateNone, list.Drag().State())

	require.True(t, list.onFrame(start.Add(time.Second)))
	require.Equal(t, drag.StateDragging, list.Drag().State())
	row, ok := list.Drag().Row()
	require.True(t, ok)
	require.True(t, list.rows[row].dragged)

	// Dragging down by two lines translates the row, then swaps it past row 3.
	list.Drag().HandleTouch(drag.ActionMove, 3, 4)
	list.onFrame(start.Add(time.Second + 16*time.Millisecond))
	position, _ := list.Drag().Position()
	require.Equal(t, 3, position)

	list.Drag().HandleTouch(drag.ActionUp, 3, 4)
	for i := range 10 {
		if !list.onFrame(start.Add(2*time.Second + time.Duration(i)*16*time.Millisecond)) {
			break
		}
	}
	require.Equal(t, drag.StateNone, list.Drag().State())
	r, ok := list.rows[row]
	require.True(t, ok)
	require.False(t, r.dragged)
	dx, dy := list.Translation(row)
	require.Zero(t, dx)
	require.Zero(t, dy)
}

func TestRecyclerListLongPressRefused(t *testing.T) {
	list, _ := newTestList(t, 10)
	list.SetLongPressFunc(func(position int) bool {
		return position != 0
	})
	draw(list)

	require.False(t, list.OnLongPress(0))
	require.True(t, list.OnLongPress(1))
}

func TestRecyclerListLongPressOutOfRange(t *testing.T) {
	list, _ := newTestList(t, 10)
	draw(list)

	require.False(t, list.OnLongPress(10))
	require.False(t, list.OnLongPress(-1))
	require.Equal(t, drag.StateNone, list.Drag().State())
	require.False(t, list.onFrame(time.Now()))
}

func TestRecyclerListDragNeedsLayout(t *testing.T) {
	list, _ := newTestList(t, 10)
	require.False(t, list.OnLongPress(1))
}

func TestRecyclerListSharedRegistry(t *testing.T) {
	sources := registry.New[diff.Source]()
	first, _ := newTestList(t, 3, WithSources(sources))
	second, _ := newTestList(t, 3, WithSources(sources))
	require.NotEqual(t, first.ListID(), second.ListID())
	require.Equal(t, 2, sources.Len())

	draw(first)
	first.Unmount()
	_, ok := sources.Get(first.ListID())
	require.False(t, ok)
	require.Zero(t, first.Len())
	require.Equal(t, 1, sources.Len())
}

func TestRecyclerListGap(t *testing.T) {
	list, _ := newTestList(t, 10)
	list.SetGap(1)
	require.Equal(t, []string{"  row 0", "", "  row 1", "", "  row 2"}, draw(list))
}
