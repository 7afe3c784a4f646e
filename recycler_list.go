package ultralist

import (
	"log/slog"
	"slices"
	"time"

	"github.com/ayn2op/ultralist/binder"
	"github.com/ayn2op/ultralist/cellpool"
	"github.com/ayn2op/ultralist/config"
	"github.com/ayn2op/ultralist/diff"
	"github.com/ayn2op/ultralist/drag"
	"github.com/ayn2op/ultralist/registry"
)

// RecyclerList displays the rows of a [diff.Source] with a small set of
// recycled cell templates. Only visible rows hold a template; rows scrolled
// out of view give theirs back to the pool of their cell type.
//
// Structural changes staged on the source are applied by [RecyclerList.Commit]
// as a batch of ranged removes, inserts and moves, so that the cursor, the
// scroll anchor and an active drag all follow the rows they point at.
//
// A RecyclerList is not safe for concurrent use. Commit it from the
// application's event loop, for example with [RecyclerList.CommitFunc].
type RecyclerList struct {
	*Box

	source  diff.Source
	sources *registry.Registry[diff.Source]
	listID  int
	logger  *slog.Logger

	entries []entry
	rows    map[binder.RowID]*row
	nextRow binder.RowID

	cells     *cellpool.Set[Cell]
	binder    *binder.Binder
	applier   *diff.Applier
	observers diff.Observable

	drag        *drag.Controller
	dragConfig  config.DragConfig
	recovery    *recovery
	keyboard    *keyboardDrag
	press       *press
	dropped     bool
	longPress   time.Duration
	ticking     bool
	initialSize int

	scrollBar     *ScrollBar
	showScrollBar bool

	gap    int
	cursor int
	scroll recyclerScroll

	inLayout  bool
	laidOut   bool
	posted    []func()
	drawOrder drag.DrawOrderFunc
	children  []recyclerChild
	childOf   map[binder.RowID]int
	lastRect  scrollListRect
	cellWidth int

	keys ListKeyMap

	changed     func(index int)
	reorder     func(from, to int) bool
	longPressed func(position int) bool
	committed   func(ops []diff.Op)
	dropped     func(err error)
}

type entry struct {
	cellType string
	identity int64
	header   bool
	// Inserted by the last commit and not read from the source yet.
	pending bool
	// Row displaying the entry, zero when it has none.
	row binder.RowID
	// Last measured height, zero when unknown.
	height int
}

type row struct {
	id       binder.RowID
	cellType string
	// Nil while the row waits for a template.
	cell Cell
	// Position the row is bound to, -1 when unbound.
	position int
	stale    bool
	dragged  bool
	dx, dy   int
}

// ListOption configures a RecyclerList.
type ListOption func(*RecyclerList)

// WithSources mounts the list's source in sources instead of a private
// registry. Lists sharing a source registry get distinct list ids.
func WithSources(sources *registry.Registry[diff.Source]) ListOption {
	return func(l *RecyclerList) {
		l.sources = sources
	}
}

// WithLogger sets the logger of the list and its components.
func WithLogger(logger *slog.Logger) ListOption {
	return func(l *RecyclerList) {
		l.logger = logger
	}
}

// WithConfig applies the list and drag settings of cfg.
func WithConfig(cfg *config.Config) ListOption {
	return func(l *RecyclerList) {
		l.initialSize = cfg.List.InitialPoolSize
		l.gap = max(cfg.List.Gap, 0)
		l.longPress = cfg.List.LongPress()
		l.showScrollBar = cfg.List.ScrollBar
		l.dragConfig = cfg.Drag
	}
}

// NewRecyclerList returns a list displaying source. The source is mounted
// under a fresh list id; see [RecyclerList.ListID].
func NewRecyclerList(source diff.Source, opts ...ListOption) *RecyclerList {
	defaults := config.Default()
	l := &RecyclerList{
		Box:           NewBox(),
		source:        source,
		rows:          make(map[binder.RowID]*row),
		childOf:       make(map[binder.RowID]int),
		initialSize:   defaults.List.InitialPoolSize,
		gap:           defaults.List.Gap,
		longPress:     defaults.List.LongPress(),
		showScrollBar: defaults.List.ScrollBar,
		dragConfig:    defaults.Drag,
		cursor:        -1,
		scroll:        recyclerScroll{target: -1},
		keys:          DefaultListKeyMap(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.sources == nil {
		l.sources = registry.New[diff.Source]()
	}

	l.listID = l.sources.Mount(source)
	l.cells = cellpool.NewSet(l.initialSize, l.deliver, l.logger)
	l.binder = binder.New(l.sources.Get, binder.WithLogger(l.logger))
	l.applier = diff.NewApplier(diff.WithLogger(l.logger))
	l.recovery = newRecovery(l, l.dragConfig.RecoveryFrames)
	l.drag = drag.NewController(l, (*dragCallback)(l),
		drag.WithConfig(l.dragConfig.Controller()),
		drag.WithLogger(l.logger),
	)
	l.drag.SetTranslateEnabled(l.dragConfig.Translate)
	l.drag.SetSwapEnabled(l.dragConfig.Swap)
	l.drag.SetScrollEnabled(l.dragConfig.Scroll)
	l.scrollBar = NewScrollBar()
	l.scrollBar.SetAutoHide(true)
	return l
}

// ListID returns the id the list's source is mounted under.
func (l *RecyclerList) ListID() int {
	return l.listID
}

// Source returns the displayed source.
func (l *RecyclerList) Source() diff.Source {
	return l.source
}

// Drag returns the drag controller of the list.
func (l *RecyclerList) Drag() *drag.Controller {
	return l.drag
}

// RegisterCell sets the factory inflating templates of cellType.
func (l *RecyclerList) RegisterCell(cellType string, factory CellFactory) *RecyclerList {
	l.cells.RegisterFactory(cellType, cellpool.Factory[Cell](factory))
	return l
}

// SetGap sets the number of blank lines between rows.
func (l *RecyclerList) SetGap(gap int) *RecyclerList {
	l.gap = max(gap, 0)
	return l
}

// SetScrollBar sets whether a scroll bar is shown when rows overflow.
func (l *RecyclerList) SetScrollBar(show bool) *RecyclerList {
	l.showScrollBar = show
	return l
}

// SetKeyMap sets the key bindings of the list.
func (l *RecyclerList) SetKeyMap(keys ListKeyMap) *RecyclerList {
	l.keys = keys
	return l
}

// KeyMap returns the key bindings of the list.
func (l *RecyclerList) KeyMap() *ListKeyMap {
	return &l.keys
}

// SetChangedFunc sets a handler called when the cursor changes.
func (l *RecyclerList) SetChangedFunc(handler func(index int)) *RecyclerList {
	l.changed = handler
	return l
}

// SetReorderFunc sets the handler asked to move a dragged row in the data. A
// handler returning false refuses the move. Without a handler, sources
// implementing MoveCommitted(listID, from, to int) error are moved directly.
func (l *RecyclerList) SetReorderFunc(handler func(from, to int) bool) *RecyclerList {
	l.reorder = handler
	return l
}

// SetLongPressFunc sets a handler deciding whether a long press on position
// starts a drag.
func (l *RecyclerList) SetLongPressFunc(handler func(position int) bool) *RecyclerList {
	l.longPressed = handler
	return l
}

// SetCommittedFunc sets a handler called after a commit was applied.
func (l *RecyclerList) SetCommittedFunc(handler func(ops []diff.Op)) *RecyclerList {
	l.committed = handler
	return l
}

// SetDroppedFunc sets a handler called when a commit was dropped. The source
// has moved on by then, so the rows stay stale until [RecyclerList.Reload].
func (l *RecyclerList) SetDroppedFunc(handler func(err error)) *RecyclerList {
	l.dropped = handler
	return l
}

// Len returns the number of rows known to the list.
func (l *RecyclerList) Len() int {
	return len(l.entries)
}

// Identity returns the identity hash of the row at index.
func (l *RecyclerList) Identity(index int) (int64, bool) {
	if index < 0 || index >= len(l.entries) {
		return 0, false
	}
	l.fill(index)
	return l.entries[index].identity, true
}

// Cursor returns the selected index, or -1.
func (l *RecyclerList) Cursor() int {
	return l.cursor
}

// SetCursor selects index and scrolls it into view.
func (l *RecyclerList) SetCursor(index int) *RecyclerList {
	index = min(max(index, -1), len(l.entries)-1)
	if index == l.cursor {
		return l
	}
	l.cursor = index
	if index >= 0 {
		l.scroll.target = index
	}
	if l.changed != nil {
		l.changed(index)
	}
	return l
}

// NextItem moves the cursor to the next row, if any.
func (l *RecyclerList) NextItem() bool {
	if l.cursor+1 >= len(l.entries) {
		return false
	}
	l.SetCursor(l.cursor + 1)
	return true
}

// PrevItem moves the cursor to the previous row, if any.
func (l *RecyclerList) PrevItem() bool {
	if l.cursor <= 0 {
		return false
	}
	l.SetCursor(l.cursor - 1)
	return true
}

// Reload drops every row and reads the committed snapshot of the source
// again.
func (l *RecyclerList) Reload() *RecyclerList {
	if l.drag.Active() {
		l.drag.StopNow()
	}
	l.releaseAll()

	n := l.source.Length(l.listID)
	l.entries = make([]entry, n)
	for i := range l.entries {
		l.entries[i].pending = true
		l.fill(i)
	}
	l.cursor = min(l.cursor, n-1)
	l.scroll = recyclerScroll{target: -1}
	l.observers.NotifyChanged()
	return l
}

// Commit applies the changes staged on the source since the last commit and
// returns the operations applied. A rejected diff leaves the rows untouched,
// but the staged snapshot is committed on the source regardless; call Reload
// to catch up with it.
func (l *RecyclerList) Commit() ([]diff.Op, error) {
	ops, err := l.applier.Commit(l.source, l.listID, l)
	if err != nil {
		l.logger.Warn("commit dropped, rows are stale until reload", slog.Int("list", l.listID), slog.Any("err", err))
		if l.dropped != nil {
			l.dropped(err)
		}
		return nil, err
	}
	l.refresh()
	if l.committed != nil {
		l.committed(ops)
	}
	return ops, nil
}

// CommitFunc returns a notify callback for a [diff.Notifier] that commits the
// list on app's event loop. The callback may be called from any goroutine.
// Without a dropped handler, a dropped commit reloads the list.
func (l *RecyclerList) CommitFunc(app *Application) func(listID int) {
	return func(listID int) {
		if listID != l.listID {
			return
		}
		// QueueUpdateDraw blocks until the loop runs the update, and the
		// notifier may be called from the loop itself.
		go app.QueueUpdateDraw(func() {
			if _, err := l.Commit(); err != nil && l.dropped == nil {
				l.Reload()
			}
		})
	}
}

// Unmount releases every row and removes the source from the registry.
// Bindings still pointing at the list resolve to nothing afterwards.
func (l *RecyclerList) Unmount() {
	if l.drag.Active() {
		l.drag.StopNow()
	}
	l.releaseAll()
	l.entries = nil
	l.sources.Unmount(l.listID)
}

// fill reads the type, identity and header flag of a pending entry.
func (l *RecyclerList) fill(index int) {
	e := &l.entries[index]
	if !e.pending {
		return
	}
	e.cellType = l.source.TypeAt(index, l.listID)
	e.identity = l.source.IdentityHashAt(index, l.listID)
	e.header = l.source.IsHeader(index, l.listID)
	e.pending = false
}

// refresh reconciles the entries with the source after a commit. Rows whose
// entry changed type or identity are released; the others are rebound.
func (l *RecyclerList) refresh() {
	n := l.source.Length(l.listID)
	for i := range l.entries {
		if i >= n {
			break
		}
		e := &l.entries[i]
		if e.pending {
			l.fill(i)
			continue
		}
		cellType := l.source.TypeAt(i, l.listID)
		identity := l.source.IdentityHashAt(i, l.listID)
		if cellType != e.cellType || identity != e.identity {
			l.releaseRow(e)
			e.cellType = cellType
			e.identity = identity
			e.height = 0
		}
		e.header = l.source.IsHeader(i, l.listID)
		if r, ok := l.rows[e.row]; ok {
			r.stale = true
		}
	}
}

// InsertRange inserts count unread rows at start.
func (l *RecyclerList) InsertRange(start, count int) {
	inserted := make([]entry, count)
	for i := range inserted {
		inserted[i].pending = true
	}
	l.entries = slices.Insert(l.entries, start, inserted...)

	if l.cursor >= start {
		l.cursor += count
	}
	if start < l.scroll.top || (start == l.scroll.top && (l.scroll.top > 0 || l.scroll.offset > 0)) {
		l.scroll.top += count
	}
	l.observers.Notify(diff.Op{Kind: diff.OpInsert, Start: start, Count: count})
}

// RemoveRange removes count rows at start and releases their templates.
func (l *RecyclerList) RemoveRange(start, count int) {
	for i := start; i < start+count; i++ {
		l.releaseRow(&l.entries[i])
	}
	l.entries = slices.Delete(l.entries, start, start+count)

	switch {
	case l.cursor >= start+count:
		l.cursor -= count
	case l.cursor >= start:
		l.cursor = min(start, len(l.entries)-1)
	}
	switch {
	case l.scroll.top >= start+count:
		l.scroll.top -= count
	case l.scroll.top >= start:
		l.scroll.top = start
		l.scroll.offset = 0
	}
	l.observers.Notify(diff.Op{Kind: diff.OpRemove, Start: start, Count: count})
}

// Move moves the row at from to to.
func (l *RecyclerList) Move(from, to int) {
	moved := l.entries[from]
	l.entries = slices.Delete(l.entries, from, from+1)
	l.entries = slices.Insert(l.entries, to, moved)

	switch {
	case l.cursor == from:
		l.cursor = to
	case from < to && l.cursor > from && l.cursor <= to:
		l.cursor--
	case from > to && l.cursor >= to && l.cursor < from:
		l.cursor++
	}
	l.observers.Notify(diff.Op{Kind: diff.OpMove, Start: from, Count: 1, To: to})
}

// ensureRow returns the row of the entry at index, creating it and requesting a
// template when the entry has none.
func (l *RecyclerList) ensureRow(index int) *row {
	l.fill(index)
	e := &l.entries[index]
	if r, ok := l.rows[e.row]; ok {
		return r
	}

	l.nextRow++
	r := &row{id: l.nextRow, cellType: e.cellType, position: -1}
	l.rows[r.id] = r
	e.row = r.id
	if cell, ok := l.cells.Request(e.cellType, int(r.id), index, l.listID); ok {
		l.attach(r, cell)
	}
	return r
}

// deliver receives a template for a row that waited for one.
func (l *RecyclerList) deliver(request cellpool.InflationRequest, cell Cell) {
	r, ok := l.rows[binder.RowID(request.Row)]
	if !ok || request.ListID != l.listID {
		l.logger.Debug("template delivered to a released row", slog.Int("row", request.Row))
		return
	}
	l.attach(r, cell)
}

func (l *RecyclerList) attach(r *row, cell Cell) {
	r.cell = cell
	r.position = -1
	for _, key := range cell.Fields() {
		l.binder.Subscribe(r.id, key, func(value []byte) {
			cell.SetField(key, value)
		})
	}
	if recycling, ok := cell.(RecyclingCell); ok {
		l.binder.OnRecycle(r.id, recycling.Recycled)
	}
}

// releaseRow gives the template of the entry's row back to its pool.
func (l *RecyclerList) releaseRow(e *entry) {
	id := e.row
	e.row = 0
	r, ok := l.rows[id]
	if !ok {
		return
	}
	delete(l.rows, id)
	delete(l.childOf, id)
	l.binder.Unbind(id)
	if stateful, ok := r.cell.(StatefulCell); ok {
		stateful.SetState(CellState{})
	}
	l.cells.Return(r.cellType, int(id))
}

func (l *RecyclerList) releaseAll() {
	for i := range l.entries {
		l.releaseRow(&l.entries[i])
	}
	l.children = nil
	clear(l.childOf)
}
