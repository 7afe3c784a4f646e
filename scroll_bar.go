package ultralist

import "github.com/gdamore/tcell/v3"

const eighths = 8

var (
	lowerEighths = [eighths]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}
	upperEighths = [eighths]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"}
)

// ScrollBar is a one-column indicator of the visible part of a list. The
// lengths and the offset count rows; the thumb moves in eighths of a cell.
type ScrollBar struct {
	*Box

	autoHide bool
	content  int
	viewport int
	offset   int

	track      string
	trackStyle tcell.Style
	thumbStyle tcell.Style
}

func NewScrollBar() *ScrollBar {
	return &ScrollBar{
		Box:        NewBox(),
		autoHide:   true,
		track:      " ",
		trackStyle: tcell.StyleDefault.Dim(true),
		thumbStyle: tcell.StyleDefault.Foreground(Styles.Secondary),
	}
}

// SetLengths sets the number of rows in the list and the number of rows on
// screen. A viewport of zero means the height of the bar.
func (s *ScrollBar) SetLengths(content, viewport int) *ScrollBar {
	s.content = max(content, 0)
	s.viewport = max(viewport, 0)
	return s
}

// SetOffset sets the index of the first row on screen.
func (s *ScrollBar) SetOffset(offset int) *ScrollBar {
	s.offset = max(offset, 0)
	return s
}

// SetAutoHide sets whether the bar disappears when every row fits.
func (s *ScrollBar) SetAutoHide(autoHide bool) *ScrollBar {
	s.autoHide = autoHide
	return s
}

func (s *ScrollBar) SetTrack(glyph string, style tcell.Style) *ScrollBar {
	s.track = glyph
	s.trackStyle = style
	return s
}

func (s *ScrollBar) SetThumbStyle(style tcell.Style) *ScrollBar {
	s.thumbStyle = style
	return s
}

func (s *ScrollBar) viewportFor(height int) int {
	if s.viewport > 0 {
		return s.viewport
	}
	return height
}

// Visible reports whether the bar draws anything at the given height.
func (s *ScrollBar) Visible(height int) bool {
	if height <= 0 || s.content == 0 {
		return false
	}
	return !s.autoHide || s.content > s.viewportFor(height)
}

// thumb is the extent of the scroll bar thumb in eighths of a cell.
type thumb struct {
	start  int
	length int
	track  int
}

func thumbFor(cells, content, viewport, offset int) thumb {
	track := cells * eighths
	if track == 0 {
		return thumb{}
	}
	content = max(content, 1)
	viewport = min(max(viewport, 1), content)
	maxOffset := content - viewport
	if maxOffset == 0 {
		return thumb{length: track, track: track}
	}
	offset = min(max(offset, 0), maxOffset)
	length := min(max(track*viewport/content, eighths), track)
	return thumb{start: (track - length) * offset / maxOffset, length: length, track: track}
}

// cover returns the eighths of cell covered by the thumb, as an offset from
// the top of the cell and a count.
func (t thumb) cover(cell int) (from, count int) {
	top := cell * eighths
	lo := max(t.start, top)
	hi := min(t.start+t.length, top+eighths)
	if hi <= lo {
		return 0, 0
	}
	return lo - top, hi - lo
}

func (s *ScrollBar) glyph(from, count int) (string, tcell.Style) {
	switch {
	case count == 0:
		return s.track, s.trackStyle
	case count >= eighths:
		return lowerEighths[eighths-1], s.thumbStyle
	case from == 0:
		return upperEighths[count-1], s.thumbStyle
	default:
		return lowerEighths[count-1], s.thumbStyle
	}
}

func (s *ScrollBar) Draw(screen tcell.Screen) {
	s.DrawForSubclass(screen, s)

	x, y, _, height := s.GetInnerRect()
	if !s.Visible(height) {
		return
	}
	t := thumbFor(height, s.content, s.viewportFor(height), s.offset)
	for cell := range height {
		glyph, style := s.glyph(t.cover(cell))
		screen.Put(x, y+cell, glyph, style)
	}
}
