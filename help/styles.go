package help

import (
	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/ultralist/config"
)

type Styles struct {
	ShortKey       tcell.Style
	ShortDesc      tcell.Style
	ShortSeparator tcell.Style

	FullKey       tcell.Style
	FullDesc      tcell.Style
	FullSeparator tcell.Style

	Ellipsis tcell.Style
}

func DefaultStyles() Styles {
	dim := tcell.StyleDefault.Dim(true)
	normal := tcell.StyleDefault
	return Styles{
		ShortKey:       dim,
		ShortDesc:      normal,
		ShortSeparator: dim,
		FullKey:        dim,
		FullDesc:       normal,
		FullSeparator:  dim,
		Ellipsis:       dim,
	}
}

// PaletteStyles colours keys with the header colour and descriptions with
// the text colour of p.
func PaletteStyles(p config.Palette) Styles {
	key := tcell.StyleDefault.Foreground(p.Header).Background(p.Background)
	desc := tcell.StyleDefault.Foreground(p.Text).Background(p.Background)
	dim := desc.Dim(true)
	return Styles{
		ShortKey:       key,
		ShortDesc:      dim,
		ShortSeparator: dim,
		FullKey:        key,
		FullDesc:       desc,
		FullSeparator:  dim,
		Ellipsis:       dim,
	}
}
