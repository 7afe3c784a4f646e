package keybind

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Esc", "esc"},
		{"PageDown", "pgdn"},
		{"Ctrl+C", "ctrl+c"},
		{"ctrl-x", "ctrl+x"},
		{"backtab", "shift+tab"},
		{"Rune[j]", "j"},
		{"K", "K"},
		{"space", "space"},
		{"shift+Ctrl+X", "ctrl+shift+x"},
		{"alt+backtab", "alt+shift+tab"},
		{"  ", ""},
	}

	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			require.Equal(t, test.want, normalize(test.in))
		})
	}
}

func TestMatches(t *testing.T) {
	down := NewKeybind(WithKeys("down", "j"), WithHelp("↓/j", "down"))
	pick := NewKeybind(WithKeys("space"), WithHelp("space", "pick up"))

	require.True(t, Matches(tcell.NewEventKey(tcell.KeyDown, "", tcell.ModNone), down))
	require.True(t, Matches(tcell.NewEventKey(tcell.KeyRune, "j", tcell.ModNone), down))
	require.False(t, Matches(tcell.NewEventKey(tcell.KeyRune, "k", tcell.ModNone), down))
	require.True(t, Matches(tcell.NewEventKey(tcell.KeyRune, " ", tcell.ModNone), down, pick))
	require.False(t, Matches(nil, down))
}

func TestDisabledKeybindDoesNotMatch(t *testing.T) {
	cancel := NewKeybind(WithKeys("esc"), WithHelp("esc", "cancel"), WithDisabled())
	event := tcell.NewEventKey(tcell.KeyEscape, "", tcell.ModNone)

	require.False(t, cancel.Enabled())
	require.False(t, Matches(event, cancel))

	cancel.SetEnabled(true)
	require.True(t, cancel.Enabled())
	require.True(t, Matches(event, cancel))

	empty := NewKeybind(WithHelp("?", "nothing"))
	require.False(t, empty.Enabled())
}

func TestMatchesModifiers(t *testing.T) {
	clearHead := NewKeybind(WithKeys("ctrl+u"))
	require.True(t, Matches(tcell.NewEventKey(tcell.KeyRune, "u", tcell.ModCtrl), clearHead))
	require.False(t, Matches(tcell.NewEventKey(tcell.KeyRune, "u", tcell.ModNone), clearHead))

	// Shift is part of the rune itself.
	upper := NewKeybind(WithKeys("K"))
	require.True(t, Matches(tcell.NewEventKey(tcell.KeyRune, "K", tcell.ModShift), upper))

	back := NewKeybind(WithKeys("shift+tab"))
	require.True(t, Matches(tcell.NewEventKey(tcell.KeyBacktab, "", tcell.ModShift), back))
}

func TestSetKeysDropsDuplicates(t *testing.T) {
	k := NewKeybind(WithKeys("Esc", "escape", "", "q"))
	require.Equal(t, []string{"esc", "q"}, k.Keys())
}
