package ultralist

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/require"
)

func TestFlushWritesOnlyChangedCells(t *testing.T) {
	terminal := newRecordingScreen()
	screen := newCaptureScreen(terminal, 4, 2)

	screen.begin(4, 2)
	screen.PutStr(0, 0, "ab")
	require.Equal(t, 8, screen.flush())
	require.Equal(t, "a", terminal.cells[[2]int{0, 0}])
	require.Equal(t, " ", terminal.cells[[2]int{3, 1}])
	require.Equal(t, 1, terminal.shows)

	screen.begin(4, 2)
	screen.PutStr(0, 0, "ab")
	require.Zero(t, screen.flush())

	screen.begin(4, 2)
	screen.PutStr(0, 0, "ac")
	require.Equal(t, 1, screen.flush())
	require.Equal(t, "c", terminal.cells[[2]int{1, 0}])

	// Dropping the text blanks the cells that showed it.
	screen.begin(4, 2)
	require.Equal(t, 2, screen.flush())
	require.Equal(t, " ", terminal.cells[[2]int{0, 0}])
}

func TestFlushAfterClearRepaints(t *testing.T) {
	terminal := newRecordingScreen()
	screen := newCaptureScreen(terminal, 3, 1)

	screen.begin(3, 1)
	screen.PutStr(0, 0, "abc")
	screen.flush()

	screen.begin(3, 1)
	screen.Clear()
	screen.PutStr(0, 0, "abc")
	require.Equal(t, 3, screen.flush())
	require.Equal(t, 1, terminal.clears)
}

func TestFlushResizeInvalidates(t *testing.T) {
	terminal := newRecordingScreen()
	screen := newCaptureScreen(terminal, 2, 1)

	screen.begin(2, 1)
	screen.PutStr(0, 0, "ab")
	screen.flush()

	screen.begin(3, 1)
	screen.PutStr(0, 0, "ab")
	require.Equal(t, 3, screen.flush())
}

func TestCaptureScreenCursor(t *testing.T) {
	terminal := newRecordingScreen()
	screen := newCaptureScreen(terminal, 2, 1)

	screen.begin(2, 1)
	screen.ShowCursor(1, 0)
	screen.flush()
	require.True(t, terminal.cursor)

	screen.begin(2, 1)
	screen.flush()
	require.False(t, terminal.cursor)
}

func TestCaptureScreenWideCluster(t *testing.T) {
	screen := newTestScreen(3, 1)
	_, width := screen.Put(0, 0, "世", tcell.StyleDefault)
	require.Equal(t, 2, width)

	str, _, w := screen.Get(0, 0)
	require.Equal(t, "世", str)
	require.Equal(t, 2, w)

	// A wide cluster in the last column is clipped to a space.
	_, width = screen.Put(2, 0, "世", tcell.StyleDefault)
	require.Equal(t, 1, width)
	require.Equal(t, " ", screen.text(2, 0))
}
