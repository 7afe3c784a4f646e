package ultralist

import (
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"

	"github.com/ayn2op/ultralist/config"
)

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	Background tcell.Color // Main background color for primitives.
	Border     tcell.Color // Box borders.
	Text       tcell.Color // Cell text.
	Secondary  tcell.Color // Secondary cell lines, footers.
	Header     tcell.Color // Section headers, titles and focused borders.
	Cursor     tcell.Color // Background of the selected row.
	Dragged    tcell.Color // Foreground of the dragged row.
}

// Styles defines the theme for applications. The default is built from the
// default configuration palette.
var Styles = ThemeFromPalette(mustPalette(config.Default().Theme))

// ThemeFromPalette builds a theme from a parsed configuration palette.
func ThemeFromPalette(p config.Palette) Theme {
	return Theme{
		Background: p.Background,
		Border:     color.Gray,
		Text:       p.Text,
		Secondary:  color.Gray,
		Header:     p.Header,
		Cursor:     p.Cursor,
		Dragged:    p.Dragged,
	}
}

func mustPalette(theme config.ThemeConfig) config.Palette {
	p, err := theme.Palette()
	if err != nil {
		return config.Palette{
			Text:       tcell.ColorDefault,
			Header:     color.Blue,
			Cursor:     color.Navy,
			Dragged:    color.Yellow,
			Background: tcell.ColorDefault,
		}
	}
	return p
}
