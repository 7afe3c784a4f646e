package ultralist

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// cell is one terminal cell of a frame. A wide cluster takes a lead cell
// followed by continuation cells pointing back at it.
type cell struct {
	text  string
	style tcell.Style
	width uint8
	cont  bool
	lead  int
	sig   uint64
	gen   uint32
}

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

// hasher is an inline FNV-1a over the fields of a cell.
type hasher uint64

func (h hasher) int(v uint64) hasher {
	return (h ^ hasher(v)) * fnvPrime
}

func (h hasher) str(s string) hasher {
	for i := 0; i < len(s); i++ {
		h = (h ^ hasher(s[i])) * fnvPrime
	}
	return h
}

// signature identifies what the terminal shows for the cell.
func (c cell) signature() uint64 {
	first, second := c.style.GetUrl()
	h := hasher(fnvOffset).
		str(c.text).
		int(uint64(c.style.GetForeground())).
		int(uint64(c.style.GetBackground())).
		int(uint64(c.style.GetAttributes())).
		int(uint64(c.style.GetUnderlineStyle())).
		int(uint64(c.style.GetUnderlineColor())).
		str(first).
		str(second).
		int(uint64(c.width)).
		int(uint64(c.lead + 1))
	if c.cont {
		h = h.int(1)
	}
	return uint64(h)
}

var blankSignature = cell{text: " ", style: tcell.StyleDefault, width: 1, lead: -1}.signature()

// dirtyRow is the span of a row written during the current frame.
type dirtyRow struct {
	gen        uint32
	start, end int
}

// frame is one logical frame. Cells carry the generation they were written
// in, so a new frame starts without clearing the backing slice; a cell from
// an older generation reads as empty.
type frame struct {
	width, height int

	gen      uint32
	cells    []cell
	rows     []dirtyRow
	clearAll bool
}

func newFrame(width, height int) *frame {
	width, height = max(width, 0), max(height, 0)
	return &frame{
		width:  width,
		height: height,
		cells:  make([]cell, width*height),
		rows:   make([]dirtyRow, height),
	}
}

func (f *frame) resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if f.width != width || f.height != height {
		*f = *newFrame(width, height)
	}
}

func (f *frame) begin() {
	f.clearAll = false
	f.gen++
	if f.gen == 0 {
		// After wrapping around, old cells could match the generation again.
		clear(f.cells)
		clear(f.rows)
		f.gen = 1
	}
}

// Clear discards what was drawn so far and makes the next flush repaint the
// whole terminal.
func (f *frame) Clear() {
	f.begin()
	f.clearAll = true
}

func (f *frame) touch(y, start, end int) {
	start, end = max(start, 0), min(end, f.width)
	if y < 0 || y >= f.height || start >= end {
		return
	}
	row := &f.rows[y]
	if row.gen != f.gen {
		*row = dirtyRow{gen: f.gen, start: start, end: end}
		return
	}
	row.start = min(row.start, start)
	row.end = max(row.end, end)
}

func (f *frame) written(y int) bool {
	return y >= 0 && y < f.height && f.rows[y].gen == f.gen
}

// putCluster writes a cluster of the given width at x, y and returns the
// width used. A wide cluster in the last column is clipped to a space, as
// terminals do.
func (f *frame) putCluster(x, y int, text string, width int, style tcell.Style) int {
	width = min(max(width, 1), 255)
	if width > 1 && x == f.width-1 {
		text, width = " ", 1
	}
	f.set(x, y, cell{text: text, style: style, width: uint8(width), lead: -1})
	for i := 1; i < width; i++ {
		f.set(x+i, y, cell{style: style, cont: true, lead: x})
	}
	return width
}

func (f *frame) set(x, y int, c cell) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	index := y*f.width + x

	// Overwriting the lead of a wide cluster drawn in this frame drops its
	// continuation cells.
	if prev := f.cells[index]; prev.gen == f.gen && !prev.cont && prev.width > 1 {
		end := min(x+int(prev.width), f.width)
		f.touch(y, x+1, end)
		for i := x + 1; i < end; i++ {
			f.cells[y*f.width+i] = cell{}
		}
	}

	f.touch(y, x, x+1)
	c.sig = c.signature()
	c.gen = f.gen
	f.cells[index] = c
}

func (f *frame) cellAt(x, y int) (cell, bool) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return cell{}, false
	}
	c := f.cells[y*f.width+x]
	return c, c.gen == f.gen
}

// captureScreen records a frame drawn by the primitives and writes only the
// cells whose signature changed since the last flush to the terminal screen.
type captureScreen struct {
	tcell.Screen
	frame        *frame
	defaultStyle tcell.Style

	// Signatures of the cells last written to Screen, and the rows that were
	// left blank.
	shown      []uint64
	shownBlank []bool

	cursorX, cursorY int
	cursorVisible    bool
}

func newCaptureScreen(screen tcell.Screen, width, height int) *captureScreen {
	return &captureScreen{
		Screen:       screen,
		frame:        newFrame(width, height),
		defaultStyle: tcell.StyleDefault,
	}
}

// begin starts a new frame of the given size.
func (s *captureScreen) begin(width, height int) {
	if s.frame.width != width || s.frame.height != height {
		s.frame.resize(width, height)
		s.invalidate()
	}
	s.frame.begin()
	s.cursorVisible = false
}

// invalidate forgets what the terminal shows, so the next flush rewrites
// every cell.
func (s *captureScreen) invalidate() {
	s.shown = nil
	s.shownBlank = nil
}

// flush writes the changed cells of the frame to the terminal screen and
// shows it. It returns the number of cells written.
func (s *captureScreen) flush() int {
	f := s.frame
	if f.clearAll || len(s.shown) != len(f.cells) {
		s.shown = make([]uint64, len(f.cells))
		s.shownBlank = make([]bool, f.height)
		if f.clearAll {
			s.Screen.Clear()
		}
	}

	written := 0
	for y := range f.height {
		if !f.written(y) && s.shownBlank[y] {
			continue
		}
		blank := true
		for x := range f.width {
			index := y*f.width + x
			c, ok := f.cellAt(x, y)
			sig := blankSignature
			if ok {
				sig = c.sig
				blank = false
			}
			if s.shown[index] == sig {
				continue
			}
			s.shown[index] = sig
			switch {
			case !ok:
				s.Screen.Put(x, y, " ", tcell.StyleDefault)
			case c.cont:
				// Covered by the wide cell to the left.
			default:
				s.Screen.Put(x, y, c.text, c.style)
			}
			written++
		}
		s.shownBlank[y] = blank
	}

	if s.cursorVisible {
		s.Screen.ShowCursor(s.cursorX, s.cursorY)
	} else {
		s.Screen.HideCursor()
	}
	s.Screen.Show()
	return written
}

func (s *captureScreen) Size() (int, int) {
	return s.frame.width, s.frame.height
}

func (s *captureScreen) ShowCursor(x int, y int) {
	s.cursorX, s.cursorY = x, y
	s.cursorVisible = x >= 0 && y >= 0
}

func (s *captureScreen) HideCursor() {
	s.cursorVisible = false
}

// Show is a no-op; the application flushes the frame once drawing is done.
func (s *captureScreen) Show() {}

func (s *captureScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	text := string(primary) + string(combining)
	s.frame.putCluster(x, y, text, uniseg.StringWidth(text), style)
}

func (s *captureScreen) Clear() {
	s.frame.Clear()
}

func (s *captureScreen) Fill(r rune, style tcell.Style) {
	for y := range s.frame.height {
		for x := range s.frame.width {
			s.SetContent(x, y, r, nil, style)
		}
	}
}

func (s *captureScreen) SetStyle(style tcell.Style) {
	s.defaultStyle = style
}

func (s *captureScreen) Get(x, y int) (str string, style tcell.Style, width int) {
	if c, ok := s.frame.cellAt(x, y); ok {
		return c.text, c.style, max(int(c.width), 1)
	}
	return "", tcell.StyleDefault, 1
}

// Put writes the first grapheme cluster of str and returns the rest.
func (s *captureScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if str == "" {
		return "", 0
	}

	cluster, rest, width, _ := uniseg.FirstGraphemeClusterInString(str, -1)
	if cluster == "" {
		r, size := utf8.DecodeRuneInString(str)
		if size == 0 {
			return "", 0
		}
		cluster, rest, width = string(r), str[size:], 1
	}
	if width <= 0 {
		return rest, 0
	}
	return rest, s.frame.putCluster(x, y, cluster, width, style)
}

func (s *captureScreen) PutStr(x int, y int, str string) {
	s.PutStrStyled(x, y, str, s.defaultStyle)
}

func (s *captureScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	for str != "" && x < s.frame.width {
		rest, width := s.Put(x, y, str, style)
		if width <= 0 || rest == str {
			return
		}
		x += width
		str = rest
	}
}
