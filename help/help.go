// Package help draws key hints from keybind groups, either as a single
// line or as aligned columns.
package help

import (
	"strings"

	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/ultralist"
	"github.com/ayn2op/ultralist/keybind"
)

type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups, where each top-level entry is a column.
	FullHelp() [][]keybind.Keybind
}

// Help shows the enabled keybinds of a key map. Disabled keybinds are
// skipped so hints follow the state of the widget owning them.
type Help struct {
	*ultralist.Box
	Styles Styles

	keyMap         KeyMap
	showAll        bool
	shortSeparator string
	fullSeparator  string
	ellipsis       string
}

func New() *Help {
	return &Help{
		Box:            ultralist.NewBox(),
		Styles:         DefaultStyles(),
		shortSeparator: " • ",
		fullSeparator:  "    ",
		ellipsis:       ultralist.Ellipsis,
	}
}

func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	return h
}

// SetShowAll switches between the single line and the column layout.
func (h *Help) SetShowAll(showAll bool) *Help {
	h.showAll = showAll
	return h
}

func (h *Help) ShowAll() bool {
	return h.showAll
}

func (h *Help) SetSeparators(short, full string) *Help {
	h.shortSeparator, h.fullSeparator = short, full
	return h
}

func (h *Help) SetStyles(styles Styles) *Help {
	h.Styles = styles
	return h
}

// Height returns the number of lines Draw uses at width.
func (h *Help) Height(width int) int {
	return len(h.lines(width))
}

func (h *Help) Draw(screen tcell.Screen) {
	h.DrawForSubclass(screen, h)

	x, y, width, height := h.GetInnerRect()
	for row, line := range h.lines(width) {
		if row >= height {
			break
		}
		line.draw(screen, x, y+row, width)
	}
}

// Lines returns the text Draw shows at width.
func (h *Help) Lines(width int) []string {
	lines := h.lines(width)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.String()
	}
	return out
}

func (h *Help) lines(width int) []line {
	if h.keyMap == nil {
		return nil
	}
	if h.showAll {
		return h.columns(h.keyMap.FullHelp(), width)
	}
	if l := h.row(h.keyMap.ShortHelp(), width); len(l) > 0 {
		return []line{l}
	}
	return nil
}

type segment struct {
	text  string
	style tcell.Style
}

type line []segment

func (l line) width() int {
	w := 0
	for _, s := range l {
		w += ultralist.StringWidth(s.text)
	}
	return w
}

func (l line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.text)
	}
	return b.String()
}

func (l line) draw(screen tcell.Screen, x, y, width int) {
	for _, s := range l {
		if width <= 0 {
			return
		}
		if s.text == "" {
			continue
		}
		_, _, printed := ultralist.PrintWithStyle(screen, s.text, x, y, width, ultralist.AlignmentLeft, s.style, false)
		x += printed
		width -= printed
	}
}

// row joins the hints until the next one would overflow width, then ends
// with an ellipsis when it fits.
func (h *Help) row(bindings []keybind.Keybind, width int) line {
	var out line
	for _, kb := range bindings {
		if !kb.Enabled() {
			continue
		}
		hint := h.hint(kb.Help())
		if len(hint) == 0 {
			continue
		}

		next := hint
		if len(out) > 0 {
			next = append(line{{text: h.shortSeparator, style: h.Styles.ShortSeparator}}, hint...)
		}
		if width > 0 && out.width()+next.width() > width {
			return append(out, h.tail(out, width)...)
		}
		out = append(out, next...)
	}
	return out
}

func (h *Help) hint(help keybind.Help) line {
	var out line
	if help.Key != "" {
		out = append(out, segment{text: help.Key, style: h.Styles.ShortKey})
	}
	if help.Key != "" && help.Desc != "" {
		out = append(out, segment{text: " ", style: h.Styles.ShortDesc})
	}
	if help.Desc != "" {
		out = append(out, segment{text: help.Desc, style: h.Styles.ShortDesc})
	}
	return out
}

type column struct {
	keys, descs []string
	keyWidth    int
	width       int
}

// columns lays the groups out side by side. Columns that do not fit width
// are dropped from the right.
func (h *Help) columns(groups [][]keybind.Keybind, width int) []line {
	var cols []column
	for _, group := range groups {
		var c column
		for _, kb := range group {
			help := kb.Help()
			if !kb.Enabled() || (help.Key == "" && help.Desc == "") {
				continue
			}
			c.keys = append(c.keys, help.Key)
			c.descs = append(c.descs, help.Desc)
			c.keyWidth = max(c.keyWidth, ultralist.StringWidth(help.Key))
		}
		if len(c.keys) == 0 {
			continue
		}
		for i := range c.keys {
			w := c.keyWidth + ultralist.StringWidth(c.descs[i])
			if c.keys[i] != "" && c.descs[i] != "" {
				w++
			}
			c.width = max(c.width, w)
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return nil
	}

	sepWidth := ultralist.StringWidth(h.fullSeparator)
	total, fit := 0, 0
	for i, c := range cols {
		w := c.width
		if i > 0 {
			w += sepWidth
		}
		if width > 0 && total+w > width {
			break
		}
		total += w
		fit++
	}
	if fit == 0 {
		return []line{{{text: h.ellipsis, style: h.Styles.Ellipsis}}}
	}

	rows := 0
	for _, c := range cols[:fit] {
		rows = max(rows, len(c.keys))
	}

	lines := make([]line, rows)
	for row := range lines {
		for i, c := range cols[:fit] {
			if i > 0 {
				lines[row] = append(lines[row], segment{text: h.fullSeparator, style: h.Styles.FullSeparator})
			}
			var cell line
			if row < len(c.keys) {
				key, desc := c.keys[row], c.descs[row]
				if key != "" {
					cell = append(cell, segment{text: key, style: h.Styles.FullKey})
				}
				if pad := c.keyWidth - ultralist.StringWidth(key); pad > 0 {
					cell = append(cell, segment{text: strings.Repeat(" ", pad), style: h.Styles.FullKey})
				}
				if key != "" && desc != "" {
					cell = append(cell, segment{text: " ", style: h.Styles.FullDesc})
				}
				if desc != "" {
					cell = append(cell, segment{text: desc, style: h.Styles.FullDesc})
				}
			}
			// Pad every column but the last so separators line up.
			if i < fit-1 {
				if pad := c.width - cell.width(); pad > 0 {
					cell = append(cell, segment{text: strings.Repeat(" ", pad), style: h.Styles.FullDesc})
				}
			}
			lines[row] = append(lines[row], cell...)
		}
	}

	if fit < len(cols) {
		lines[0] = append(lines[0], h.tail(lines[0], width)...)
	}
	return lines
}

// tail returns the truncation marker when it fits after current.
func (h *Help) tail(current line, width int) line {
	if width <= 0 || h.ellipsis == "" {
		return nil
	}
	tail := line{{text: " " + h.ellipsis, style: h.Styles.Ellipsis}}
	if current.width()+tail.width() > width {
		return nil
	}
	return tail
}
