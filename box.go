package ultralist

import (
	"github.com/gdamore/tcell/v3"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Box is the base of every primitive: a rectangle with a background, an
// optional border and title, and padding around the content. Embedding
// types draw their content inside GetInnerRect.
type Box struct {
	x, y, width, height int

	// The cached inner rect; innerX is negative when it must be recomputed.
	innerX, innerY, innerWidth, innerHeight int

	paddingTop, paddingBottom, paddingLeft, paddingRight int

	background  tcell.Color
	borders     Borders
	borderSet   BorderSet
	borderStyle tcell.Style
	title       string
	titleStyle  tcell.Style

	hasFocus bool
}

func NewBox() *Box {
	return &Box{
		width:       15,
		height:      10,
		innerX:      -1,
		background:  Styles.Background,
		borderSet:   BorderSetRound(),
		borderStyle: tcell.StyleDefault.Foreground(Styles.Border).Background(Styles.Background),
		titleStyle:  tcell.StyleDefault.Foreground(Styles.Header),
	}
}

// SetBorderPadding sets the space between the border and the content.
func (b *Box) SetBorderPadding(top, bottom, left, right int) *Box {
	b.paddingTop, b.paddingBottom, b.paddingLeft, b.paddingRight = top, bottom, left, right
	b.innerX = -1
	return b
}

func (b *Box) GetRect() (int, int, int, int) {
	return b.x, b.y, b.width, b.height
}

// GetInnerRect returns the area left for content once the border, the title
// row and the padding are taken off. Width and height are never negative.
func (b *Box) GetInnerRect() (int, int, int, int) {
	if b.innerX >= 0 {
		return b.innerX, b.innerY, b.innerWidth, b.innerHeight
	}

	x, y, width, height := b.x, b.y, b.width, b.height
	if b.title != "" || b.borders.Has(BordersTop) {
		y++
		height--
	}
	if b.borders.Has(BordersBottom) {
		height--
	}
	if b.borders.Has(BordersLeft) {
		x++
		width--
	}
	if b.borders.Has(BordersRight) {
		width--
	}

	x += b.paddingLeft
	y += b.paddingTop
	width = max(width-b.paddingLeft-b.paddingRight, 0)
	height = max(height-b.paddingTop-b.paddingBottom, 0)
	return x, y, width, height
}

func (b *Box) SetRect(x, y, width, height int) {
	if b.x != x || b.y != y || b.width != width || b.height != height {
		b.x, b.y, b.width, b.height = x, y, width, height
		b.innerX = -1
	}
}

func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

func (b *Box) PasteHandler(text string) Command {
	return nil
}

// MouseHandler focuses the box when it is pressed.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if action == MouseLeftDown && b.InRect(event.Position()) {
		return nil, SetFocusCommand{Target: b}
	}
	return nil, nil
}

// InRect reports whether the cell at x, y lies inside the box.
func (b *Box) InRect(x, y int) bool {
	return x >= b.x && x < b.x+b.width && y >= b.y && y < b.y+b.height
}

func (b *Box) SetBackgroundColor(color tcell.Color) *Box {
	b.background = color
	b.borderStyle = b.borderStyle.Background(color)
	return b
}

// SetBorders sets which sides get a border.
func (b *Box) SetBorders(flag Borders) *Box {
	b.borders = flag
	b.innerX = -1
	return b
}

func (b *Box) SetBorderStyle(style tcell.Style) *Box {
	b.borderStyle = style
	return b
}

func (b *Box) GetTitle() string {
	return b.title
}

// SetTitle sets the text drawn over the top border. A title takes the top
// row even without a border.
func (b *Box) SetTitle(title string) *Box {
	if b.title != title {
		b.title = title
		b.innerX = -1
	}
	return b
}

func (b *Box) SetTitleStyle(style tcell.Style) *Box {
	b.titleStyle = style
	return b
}

func (b *Box) Draw(screen tcell.Screen) {
	b.DrawForSubclass(screen, b)
}

// DrawForSubclass clears the box and draws its border and title. p is the
// primitive embedding the box; the border is highlighted while it has the
// focus.
func (b *Box) DrawForSubclass(screen tcell.Screen, p Primitive) {
	if b.width <= 0 || b.height <= 0 {
		return
	}

	background := tcell.StyleDefault.Background(b.background)
	for y := b.y; y < b.y+b.height; y++ {
		for x := b.x; x < b.x+b.width; x++ {
			screen.Put(x, y, " ", background)
		}
	}

	style := b.borderStyle
	if p.HasFocus() {
		style = style.Foreground(Styles.Header)
	}
	if b.borders != BordersNone && b.width >= 2 && b.height >= 2 {
		b.drawBorder(screen, style)
	}

	if b.title != "" && b.width >= 4 {
		width := b.width - 2
		PrintWithStyle(screen, Truncate(b.title, width), b.x+1, b.y, width, AlignmentLeft, b.titleStyle, true)
	}

	b.innerX = -1
	b.innerX, b.innerY, b.innerWidth, b.innerHeight = b.GetInnerRect()
}

func (b *Box) drawBorder(screen tcell.Screen, style tcell.Style) {
	left, top := b.x, b.y
	right, bottom := b.x+b.width-1, b.y+b.height-1
	set := b.borderSet

	for x := left + 1; x < right; x++ {
		if b.borders.Has(BordersTop) {
			screen.Put(x, top, set.Top, style)
		}
		if b.borders.Has(BordersBottom) {
			screen.Put(x, bottom, set.Bottom, style)
		}
	}
	for y := top + 1; y < bottom; y++ {
		if b.borders.Has(BordersLeft) {
			screen.Put(left, y, set.Left, style)
		}
		if b.borders.Has(BordersRight) {
			screen.Put(right, y, set.Right, style)
		}
	}

	corners := [...]struct {
		sides Borders
		x, y  int
		glyph string
	}{
		{BordersTop | BordersLeft, left, top, set.TopLeft},
		{BordersTop | BordersRight, right, top, set.TopRight},
		{BordersBottom | BordersLeft, left, bottom, set.BottomLeft},
		{BordersBottom | BordersRight, right, bottom, set.BottomRight},
	}
	for _, corner := range corners {
		if b.borders.Has(corner.sides) {
			screen.Put(corner.x, corner.y, corner.glyph, style)
		}
	}
}

func (b *Box) Focus(delegate func(p Primitive)) {
	b.hasFocus = true
}

func (b *Box) Blur() {
	b.hasFocus = false
}

func (b *Box) HasFocus() bool {
	return b.hasFocus
}

// BorderSet holds the glyphs of a border.
type BorderSet struct {
	Top, Bottom, Left, Right                   string
	TopLeft, TopRight, BottomLeft, BottomRight string
}

// BorderSetRound returns light box-drawing lines with rounded corners.
func BorderSetRound() BorderSet {
	return BorderSet{
		Top: "─", Bottom: "─", Left: "│", Right: "│",
		TopLeft: "╭", TopRight: "╮", BottomLeft: "╰", BottomRight: "╯",
	}
}

// Borders is a set of sides of a box.
type Borders uint

const (
	BordersTop Borders = 1 << iota
	BordersBottom
	BordersLeft
	BordersRight

	BordersNone Borders = 0
	BordersAll  Borders = BordersTop | BordersBottom | BordersLeft | BordersRight
)

// Has reports whether all of flag is set.
func (b Borders) Has(flag Borders) bool {
	return b&flag == flag
}
