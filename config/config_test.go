package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, 16*time.Millisecond, cfg.List.FrameInterval())
	require.Equal(t, 400*time.Millisecond, cfg.List.LongPress())
}

func TestLoadTOMLKeepsUnsetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[list]
initial_pool_size = 2
scroll_bar = false

[drag]
scroll_margin = 4
swap = false

[theme]
dragged = "#f80"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, cfg.List.InitialPoolSize)
	require.False(t, cfg.List.ScrollBar)
	require.Equal(t, 400, cfg.List.LongPressMS)
	require.Equal(t, 4, cfg.Drag.Controller().ScrollMargin)
	require.False(t, cfg.Drag.Swap)
	require.True(t, cfg.Drag.Translate)

	palette, err := cfg.Theme.Palette()
	require.NoError(t, err)
	require.Equal(t, color.NewRGBColor(0xff, 0x88, 0x00), palette.Dragged)
	require.Equal(t, tcell.ColorDefault, palette.Background)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "list:\n  gap: 1\ndrag:\n  scroll_speed_max: 5.5\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, cfg.List.Gap)
	require.Equal(t, 5.5, cfg.Drag.ScrollSpeedMax)
	require.Equal(t, 8, cfg.List.InitialPoolSize)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"negative pool", "[list]\ninitial_pool_size = -1\n"},
		{"zero frame interval", "[list]\nframe_interval_ms = 0\n"},
		{"zero margin", "[drag]\nscroll_margin = 0\n"},
		{"slow scroll", "[drag]\nscroll_speed_max = 0.5\n"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(test.data), 0o644))

			_, err := LoadFromFile(path)
			require.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestLoadRejectsBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[theme]\ntext = \"#zzz\"\n"), 0o644))

	_, err := LoadFromFile(path)
	require.ErrorContains(t, err, "theme.text")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[list\n"), 0o644))

	_, err := LoadFromFile(path)
	require.ErrorContains(t, err, "failed to parse config file")
}
