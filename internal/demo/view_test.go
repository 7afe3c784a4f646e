package demo

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/require"

	"github.com/ayn2op/ultralist"
	"github.com/ayn2op/ultralist/help"
)

func runeKey(s string) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, s, tcell.ModNone)
}

func TestNewAssemblesDemo(t *testing.T) {
	app, err := New(Options{Logger: quietLogger(), Items: 5, Seed: 1})
	require.NoError(t, err)
	require.Equal(t, 6, app.list.Len())
	require.Equal(t, 1, app.list.Cursor())
}

func TestViewFilterPrompt(t *testing.T) {
	app, err := New(Options{Logger: quietLogger(), Items: 5, Seed: 1})
	require.NoError(t, err)

	keys := newKeyMap(app.list.KeyMap())
	v := newView(app.list, app.feed, keys, help.DefaultStyles())

	require.Equal(t, ultralist.RedrawCommand{}, v.InputHandler(runeKey("/")))
	require.True(t, v.filtering)
	require.True(t, keys.Accept.Enabled())

	v.InputHandler(runeKey("z"))
	require.Equal(t, "z", app.feed.Query())

	v.InputHandler(tcell.NewEventKey(tcell.KeyEscape, "", tcell.ModNone))
	require.False(t, v.filtering)
	require.Empty(t, app.feed.Query())
	require.Empty(t, v.prompt.GetText())
}

func TestViewQuit(t *testing.T) {
	app, err := New(Options{Logger: quietLogger(), Items: 2, Seed: 1})
	require.NoError(t, err)

	v := newView(app.list, app.feed, newKeyMap(app.list.KeyMap()), help.DefaultStyles())
	require.Equal(t, ultralist.QuitCommand{}, v.InputHandler(runeKey("q")))
}
