package ultralist

import (
	"log/slog"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"

	"github.com/ayn2op/ultralist/binder"
)

type recyclerScroll struct {
	// Index of the top row in the viewport.
	top int
	// Lines of the top row scrolled out above the viewport.
	offset int
	// Pending scroll delta in lines to apply on the next layout.
	pending int
	// Position to bring into view on the next layout, -1 for none.
	target int
}

type recyclerChild struct {
	index  int
	row    binder.RowID
	y      int
	height int
}

type scrollListRect struct {
	x      int
	y      int
	width  int
	height int
}

// Layout passes run per frame. Templates inflated by a pass are placed by the
// next one.
const maxLayoutPasses = 3

// Draw draws this primitive onto the screen.
func (l *RecyclerList) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)

	x, y, width, height := l.GetInnerRect()
	l.layout(x, y, width, height)
	if l.cellWidth <= 0 || height <= 0 {
		return
	}

	clipped := newClippedScreen(screen, x, y, l.cellWidth, height)
	count := len(l.children)
	for i := range count {
		index := i
		if l.drawOrder != nil {
			index = l.drawOrder(count, i)
		}
		l.drawChild(clipped, l.children[index])
	}

	if l.cellWidth < width {
		l.scrollBar.SetRect(x+width-1, y, 1, height)
		l.scrollBar.Draw(screen)
	}
}

func (l *RecyclerList) drawChild(screen tcell.Screen, child recyclerChild) {
	r, ok := l.rows[child.row]
	if !ok {
		return
	}
	x := l.lastRect.x + r.dx
	y := l.lastRect.y + child.y + r.dy

	if r.cell == nil {
		style := tcell.StyleDefault.Foreground(Styles.Secondary).Dim(true)
		PrintWithStyle(screen, Ellipsis, x+cellIndent, y, l.cellWidth-cellIndent, AlignmentLeft, style, true)
		return
	}
	if stateful, ok := r.cell.(StatefulCell); ok {
		stateful.SetState(CellState{
			Header:   l.entries[child.index].header,
			Selected: child.index == l.cursor,
			Dragged:  r.dragged,
		})
	}
	r.cell.SetRect(x, y, l.cellWidth, child.height)
	r.cell.Draw(screen)
}

// layout places the visible rows in the given area, in screen coordinates.
func (l *RecyclerList) layout(x, y, width, height int) {
	l.inLayout = true
	defer l.endLayout()

	l.lastRect = scrollListRect{x: x, y: y, width: width, height: height}
	l.cellWidth = width
	if l.showScrollBar && width > 1 && l.overflows(height) {
		l.cellWidth--
	}
	if l.cellWidth <= 0 || height <= 0 {
		l.laidOut = false
		return
	}
	l.laidOut = true

	l.cells.Grow()
	for range maxLayoutPasses {
		settled := l.place(height)
		if l.cells.NeedsGrowth() {
			l.cells.Grow()
			continue
		}
		if settled {
			break
		}
	}
	l.binder.Flush()

	l.scrollBar.SetLengths(len(l.entries), len(l.children))
	l.scrollBar.SetOffset(l.scroll.top)
}

// relayout lays the rows out again in the last area.
func (l *RecyclerList) relayout() {
	rect := l.lastRect
	l.layout(rect.x, rect.y, rect.width, rect.height)
}

func (l *RecyclerList) endLayout() {
	l.inLayout = false
	posted := l.posted
	l.posted = nil
	for _, fn := range posted {
		fn()
	}
}

// place builds the visible children from the scroll state. Rows leaving the
// view give their templates back before new rows ask for one. It reports
// false when a released template was handed to a visible row, which then
// needs another pass to be measured.
func (l *RecyclerList) place(height int) bool {
	l.applyScroll(height)
	l.releaseOutside(l.scroll.top, l.lastVisible(height))

	l.children = l.children[:0]
	clear(l.childOf)
	y := -l.scroll.offset
	for i := l.scroll.top; i < len(l.entries) && y < height; i++ {
		r := l.ensureRow(i)
		l.bindRow(r, i)
		h := l.measure(i, r)
		l.childOf[r.id] = len(l.children)
		l.children = append(l.children, recyclerChild{index: i, row: r.id, y: y, height: h})
		y += h + l.gap
	}
	if n := len(l.children); n > 0 {
		l.releaseOutside(l.children[0].index, l.children[n-1].index)
	}

	settled := true
	for _, child := range l.children {
		r := l.rows[child.row]
		if r.cell != nil && r.position != child.index {
			l.bindRow(r, child.index)
			settled = false
		}
	}
	return settled
}

// lastVisible estimates the last visible index from the measured heights.
func (l *RecyclerList) lastVisible(height int) int {
	last := l.scroll.top
	y := -l.scroll.offset
	for i := l.scroll.top; i < len(l.entries) && y < height; i++ {
		last = i
		y += l.spanOf(i)
	}
	return last
}

func (l *RecyclerList) bindRow(r *row, position int) {
	if r.cell == nil {
		return
	}
	switch {
	case r.position != position:
		l.binder.Bind(r.id, l.listID, position)
		r.position = position
		r.stale = false
	case r.stale:
		if err := l.binder.Rebind(r.id); err != nil {
			l.logger.Debug("rebind failed", slog.Int("row", int(r.id)), slog.Any("err", err))
		}
		r.stale = false
	}
}

func (l *RecyclerList) measure(index int, r *row) int {
	e := &l.entries[index]
	if r.cell != nil {
		e.height = max(r.cell.Height(l.cellWidth), 1)
	}
	return max(e.height, 1)
}

// releaseOutside gives back the templates of rows outside [first, last].
func (l *RecyclerList) releaseOutside(first, last int) {
	if len(l.rows) == 0 {
		return
	}
	for i := range l.entries {
		if (i < first || i > last) && l.entries[i].row != 0 {
			l.releaseRow(&l.entries[i])
		}
	}
}

func (l *RecyclerList) overflows(height int) bool {
	if len(l.entries) == 0 {
		return false
	}
	if l.scroll.top > 0 || l.scroll.offset > 0 {
		return true
	}
	if len(l.children) == 0 {
		return len(l.entries) > height
	}
	last := l.children[len(l.children)-1]
	return last.index < len(l.entries)-1 || last.y+last.height > height
}

func (l *RecyclerList) heightOf(index int) int {
	return max(l.entries[index].height, 1)
}

func (l *RecyclerList) spanOf(index int) int {
	return l.heightOf(index) + l.gap
}

func (l *RecyclerList) applyScroll(height int) {
	n := len(l.entries)
	if n == 0 {
		l.scroll = recyclerScroll{target: -1}
		return
	}
	l.scroll.top = min(max(l.scroll.top, 0), n-1)
	l.scroll.offset = max(l.scroll.offset, 0)

	if delta := l.scroll.pending; delta != 0 {
		l.scroll.pending = 0
		if delta > 0 {
			l.scrollDown(delta)
		} else {
			l.scrollUp(-delta)
		}
	}
	if target := l.scroll.target; target >= 0 {
		l.scroll.target = -1
		if target < n {
			l.reveal(target, height)
		}
	}
	l.clampEnd(height)
}

func (l *RecyclerList) scrollDown(delta int) {
	for delta > 0 {
		rest := l.spanOf(l.scroll.top) - l.scroll.offset
		if delta < rest || l.scroll.top == len(l.entries)-1 {
			l.scroll.offset += delta
			return
		}
		delta -= rest
		l.scroll.top++
		l.scroll.offset = 0
	}
}

func (l *RecyclerList) scrollUp(delta int) {
	for delta > 0 {
		if delta <= l.scroll.offset {
			l.scroll.offset -= delta
			return
		}
		delta -= l.scroll.offset
		l.scroll.offset = 0
		if l.scroll.top == 0 {
			return
		}
		l.scroll.top--
		l.scroll.offset = l.spanOf(l.scroll.top)
	}
}

// reveal scrolls the least needed to show the row at index entirely.
func (l *RecyclerList) reveal(index, height int) {
	if index < l.scroll.top || (index == l.scroll.top && l.scroll.offset > 0) {
		l.scroll.top = index
		l.scroll.offset = 0
		return
	}

	y := -l.scroll.offset
	for i := l.scroll.top; i < index && y < height; i++ {
		y += l.spanOf(i)
	}
	if y >= height {
		l.scroll.top = index
		l.scroll.offset = 0
		l.scrollUp(height - l.heightOf(index))
		return
	}
	if bottom := y + l.heightOf(index); bottom > height {
		l.scrollDown(bottom - height)
	}
}

// clampEnd pulls the view back so the last row ends at the bottom edge when
// the rows below the anchor do not fill the viewport.
func (l *RecyclerList) clampEnd(height int) {
	n := len(l.entries)
	below := -l.scroll.offset
	for i := l.scroll.top; i < n && below < height; i++ {
		below += l.heightOf(i)
		if i < n-1 {
			below += l.gap
		}
	}
	if below >= height {
		return
	}

	need := height - below
	take := min(l.scroll.offset, need)
	l.scroll.offset -= take
	need -= take
	for need > 0 && l.scroll.top > 0 {
		l.scroll.top--
		span := l.spanOf(l.scroll.top)
		if span <= need {
			need -= span
			continue
		}
		l.scroll.offset = span - need
		need = 0
	}
}

// ScrollUp scrolls the list up by one line.
func (l *RecyclerList) ScrollUp() *RecyclerList {
	l.scroll.pending--
	return l
}

// ScrollDown scrolls the list down by one line.
func (l *RecyclerList) ScrollDown() *RecyclerList {
	l.scroll.pending++
	return l
}

// ScrollToStart resets the scroll position to the first row, without
// changing the cursor.
func (l *RecyclerList) ScrollToStart() *RecyclerList {
	l.scroll = recyclerScroll{target: -1}
	return l
}

// ScrollToEnd scrolls the view so the last rows are visible.
func (l *RecyclerList) ScrollToEnd() *RecyclerList {
	if n := len(l.entries); n > 0 {
		l.scroll.target = n - 1
	}
	return l
}

// Offset returns the index of the top row and the lines of it scrolled out
// of view.
func (l *RecyclerList) Offset() (top, lines int) {
	return l.scroll.top, l.scroll.offset
}

func (l *RecyclerList) indexAtPoint(x, y int) int {
	rect := l.lastRect
	if x < rect.x || x >= rect.x+l.cellWidth || y < rect.y || y >= rect.y+rect.height {
		return -1
	}
	line := y - rect.y
	for _, child := range l.children {
		if line >= child.y && line < child.y+child.height {
			return child.index
		}
	}
	return -1
}

type clippedScreen struct {
	tcell.Screen
	x      int
	y      int
	width  int
	height int
}

func newClippedScreen(screen tcell.Screen, x, y, width, height int) *clippedScreen {
	return &clippedScreen{
		Screen: screen,
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

func (s *clippedScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clippedScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	if !s.inBounds(x, y) {
		return
	}
	s.Screen.SetContent(x, y, primary, combining, style)
}

func (s *clippedScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if !s.inBounds(x, y) {
		_, remain, width, _ := uniseg.FirstGraphemeClusterInString(str, -1)
		return remain, max(width, 1)
	}
	return s.Screen.Put(x, y, str, style)
}

func (s *clippedScreen) PutStr(x int, y int, str string) {
	s.PutStrStyled(x, y, str, tcell.StyleDefault)
}

func (s *clippedScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	if y < s.y || y >= s.y+s.height {
		return
	}

	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		cluster := gr.Str()
		width := max(uniseg.StringWidth(cluster), 1)
		if x >= s.x+s.width {
			return
		}
		if x >= s.x && x+width <= s.x+s.width {
			s.Screen.Put(x, y, cluster, style)
		}
		x += width
	}
}

func (s *clippedScreen) ShowCursor(x int, y int) {
	if !s.inBounds(x, y) {
		s.Screen.ShowCursor(-1, -1)
		return
	}
	s.Screen.ShowCursor(x, y)
}
