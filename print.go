package ultralist

import (
	"github.com/gdamore/tcell/v3"
)

type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

// PrintWithStyle prints text on row y within maxWidth cells from x. Text
// that does not fit is cut on the right, on the left when right-aligned and
// on both sides when centered. It returns the byte range of text that was
// printed and its width in cells. With maintainBackground, cells keep their
// background wherever style has the default one.
func PrintWithStyle(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style, maintainBackground bool) (start, end, printedWidth int) {
	screenWidth, screenHeight := screen.Size()
	if maxWidth <= 0 || text == "" || y < 0 || y >= screenHeight {
		return 0, 0, 0
	}

	textWidth := StringWidth(text)
	switch alignment {
	case AlignmentRight:
		skipped := 0
		start, skipped = skipCells(text, textWidth-maxWidth)
		textWidth -= skipped
		x, maxWidth = x+maxWidth-textWidth, textWidth
	case AlignmentCenter:
		skipped := 0
		start, skipped = skipCells(text, (textWidth-maxWidth)/2)
		textWidth -= skipped
		if textWidth < maxWidth {
			x, maxWidth = x+maxWidth/2-textWidth/2, textWidth
		}
	}

	end = start
	right := x + maxWidth
	var state *stepState
	for rest := text[start:]; rest != "" && x < screenWidth; {
		var cluster string
		cluster, rest, state = step(rest, state)
		width := state.Width()
		if cluster == "" || x+width > right {
			break
		}
		if width > 0 {
			putCluster(screen, x, y, cluster, width, style, maintainBackground)
		}
		x += width
		end += state.GrossLength()
		printedWidth += width
	}
	return start, end, printedWidth
}

// skipCells returns the byte offset after the leading clusters of text that
// span at least cells cells, and the width actually skipped.
func skipCells(text string, cells int) (offset, skipped int) {
	var state *stepState
	for rest := text; rest != "" && skipped < cells; {
		_, rest, state = step(rest, state)
		skipped += state.Width()
		offset += state.GrossLength()
	}
	return offset, skipped
}

// putCluster writes a cluster of the given width, padding the cells it
// covers so nothing stale shows through.
func putCluster(screen tcell.Screen, x, y int, cluster string, width int, style tcell.Style, maintainBackground bool) {
	if maintainBackground && style.GetBackground() == tcell.ColorDefault {
		_, existing, _ := screen.Get(x, y)
		style = style.Background(existing.GetBackground())
	}
	for offset := width - 1; offset > 0; offset-- {
		screen.Put(x+offset, y, " ", style)
	}
	screen.Put(x, y, cluster, style)
}
