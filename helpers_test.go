package ultralist

import (
	"strings"

	"github.com/gdamore/tcell/v3"
)

// newTestScreen returns a frame buffer with no terminal behind it.
func newTestScreen(width, height int) *captureScreen {
	screen := newCaptureScreen(nil, width, height)
	screen.begin(width, height)
	return screen
}

func (s *captureScreen) text(x, y int) string {
	str, _, _ := s.Get(x, y)
	if str == "" {
		return " "
	}
	return str
}

// row returns line y of the frame, with unwritten cells as spaces.
func (s *captureScreen) row(y int) string {
	var b strings.Builder
	for x := range s.frame.width {
		b.WriteString(s.text(x, y))
	}
	return b.String()
}

func (s *captureScreen) rows() []string {
	rows := make([]string, s.frame.height)
	for y := range rows {
		rows[y] = strings.TrimRight(s.row(y), " ")
	}
	return rows
}

func (s *captureScreen) column(x int) []string {
	column := make([]string, s.frame.height)
	for y := range column {
		column[y] = s.text(x, y)
	}
	return column
}

// recordingScreen counts what a flush writes to the terminal.
type recordingScreen struct {
	tcell.Screen
	cells  map[[2]int]string
	puts   int
	clears int
	shows  int
	cursor bool
}

func newRecordingScreen() *recordingScreen {
	return &recordingScreen{cells: make(map[[2]int]string)}
}

func (s *recordingScreen) Put(x, y int, str string, style tcell.Style) (string, int) {
	s.puts++
	s.cells[[2]int{x, y}] = str
	return "", 1
}

func (s *recordingScreen) Clear() {
	s.clears++
	clear(s.cells)
}

func (s *recordingScreen) Show() {
	s.shows++
}

func (s *recordingScreen) ShowCursor(x, y int) {
	s.cursor = true
}

func (s *recordingScreen) HideCursor() {
	s.cursor = false
}
