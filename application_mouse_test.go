package ultralist

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/require"
)

func TestMouseActionsClick(t *testing.T) {
	var m mouseState
	now := time.Unix(100, 0)

	require.Equal(t, []MouseAction{MouseMove, MouseLeftDown}, m.actions(1, 1, tcell.ButtonPrimary, now))
	require.Equal(t, []MouseAction{MouseLeftUp, MouseLeftClick}, m.actions(1, 1, 0, now))

	now = now.Add(DoubleClickInterval / 2)
	require.Equal(t, []MouseAction{MouseLeftDown}, m.actions(1, 1, tcell.ButtonPrimary, now))
	require.Equal(t, []MouseAction{MouseLeftUp, MouseLeftDoubleClick}, m.actions(1, 1, 0, now))

	// The double click resets the timer, so a third click is a single one.
	require.Equal(t, []MouseAction{MouseLeftDown}, m.actions(1, 1, tcell.ButtonPrimary, now))
	require.Equal(t, []MouseAction{MouseLeftUp, MouseLeftClick}, m.actions(1, 1, 0, now))
}

func TestMouseActionsDragIsNotClick(t *testing.T) {
	var m mouseState
	now := time.Unix(100, 0)

	m.actions(2, 2, tcell.ButtonPrimary, now)
	require.Equal(t, []MouseAction{MouseMove}, m.actions(2, 5, tcell.ButtonPrimary, now))
	require.Equal(t, []MouseAction{MouseLeftUp}, m.actions(2, 5, 0, now))
}

func TestMouseActionsWheel(t *testing.T) {
	var m mouseState
	now := time.Unix(100, 0)

	require.Equal(t, []MouseAction{MouseScrollDown}, m.actions(0, 0, tcell.WheelDown, now))
	require.Equal(t, []MouseAction{MouseScrollDown}, m.actions(0, 0, tcell.WheelDown, now))
	require.Equal(t, []MouseAction{MouseMove, MouseScrollUp}, m.actions(0, 1, tcell.WheelUp, now))
}
