package ultralist

import (
	"github.com/gdamore/tcell/v3"
)

// Cell is a template a RecyclerList lends to a row. The list pushes the
// values of the fields named by Fields whenever the row is bound.
type Cell interface {
	Primitive
	// Height returns the number of lines the cell needs at width.
	Height(width int) int
	// Fields returns the binding keys the cell displays.
	Fields() []string
	SetField(key string, value []byte)
}

// CellState is the display state of a row.
type CellState struct {
	Header   bool
	Selected bool
	Dragged  bool
}

// StatefulCell is implemented by cells that style themselves by row state.
type StatefulCell interface {
	Cell
	SetState(state CellState)
}

// RecyclingCell is notified after its row was bound to a new position.
// previous is -1 on the first bind.
type RecyclingCell interface {
	Cell
	Recycled(position, previous int)
}

// CellFactory inflates a template of cellType.
type CellFactory func(cellType string) Cell

// TextCell shows a title line followed by one line per secondary field.
type TextCell struct {
	*Box

	fields []string
	values map[string]string
	wrap   bool
	state  CellState

	// Position the cell was last bound to.
	position int
}

// NewTextCell returns a cell displaying fields. The first field is the
// title; with no fields it displays "title".
func NewTextCell(fields ...string) *TextCell {
	if len(fields) == 0 {
		fields = []string{"title"}
	}
	c := &TextCell{
		Box:      NewBox(),
		fields:   fields,
		values:   make(map[string]string, len(fields)),
		position: -1,
	}
	c.SetBackgroundColor(tcell.ColorDefault)
	return c
}

// SetWrap sets whether secondary fields wrap instead of being truncated.
func (c *TextCell) SetWrap(wrap bool) *TextCell {
	c.wrap = wrap
	return c
}

func (c *TextCell) Fields() []string {
	return c.fields
}

func (c *TextCell) SetField(key string, value []byte) {
	c.values[key] = string(value)
}

// Value returns the last value bound to key.
func (c *TextCell) Value(key string) string {
	return c.values[key]
}

func (c *TextCell) SetState(state CellState) {
	c.state = state
}

func (c *TextCell) Recycled(position, previous int) {
	c.position = position
}

// Position returns the position the cell was last bound to, or -1.
func (c *TextCell) Position() int {
	return c.position
}

func (c *TextCell) Height(width int) int {
	height := 1
	for _, key := range c.fields[1:] {
		value := c.values[key]
		if value == "" {
			continue
		}
		height += len(c.lines(value, width))
	}
	return height
}

func (c *TextCell) lines(value string, width int) []string {
	width -= cellIndent
	if !c.wrap || width <= 0 {
		return []string{value}
	}
	return WordWrap(value, width)
}

// Width of the marker column in front of the text.
const cellIndent = 2

func (c *TextCell) Draw(screen tcell.Screen) {
	background := tcell.ColorDefault
	if c.state.Selected {
		background = Styles.Cursor
	}
	c.SetBackgroundColor(background)
	c.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width <= cellIndent || height <= 0 {
		return
	}

	title := tcell.StyleDefault.Foreground(Styles.Text).Background(background)
	secondary := tcell.StyleDefault.Foreground(Styles.Secondary).Background(background)
	marker := " "
	switch {
	case c.state.Dragged:
		title = title.Foreground(Styles.Dragged).Bold(true)
		marker = "≡"
	case c.state.Header:
		title = title.Foreground(Styles.Header).Bold(true)
	case c.state.Selected:
		marker = "›"
	}

	textWidth := width - cellIndent
	screen.Put(x, y, marker, title)
	PrintWithStyle(screen, Truncate(c.values[c.fields[0]], textWidth), x+cellIndent, y, textWidth, AlignmentLeft, title, false)

	row := 1
	for _, key := range c.fields[1:] {
		value := c.values[key]
		if value == "" {
			continue
		}
		for _, line := range c.lines(value, width) {
			if row >= height {
				return
			}
			PrintWithStyle(screen, Truncate(line, textWidth), x+cellIndent, y+row, textWidth, AlignmentLeft, secondary, false)
			row++
		}
	}
}

var (
	_ StatefulCell  = (*TextCell)(nil)
	_ RecyclingCell = (*TextCell)(nil)
)
