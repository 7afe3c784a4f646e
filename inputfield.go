package ultralist

import (
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"

	"github.com/ayn2op/ultralist/keybind"
)

var (
	inputLineStart = keybind.NewKeybind(keybind.WithKeys("ctrl+a"))
	inputLineEnd   = keybind.NewKeybind(keybind.WithKeys("ctrl+e"))
	inputClearHead = keybind.NewKeybind(keybind.WithKeys("ctrl+u"))
)

// InputField is a one-line box into which the user can enter text. The text
// scrolls horizontally so the cursor stays visible.
//
//   - Left, Right, Home, End, Ctrl-A, Ctrl-E: move the cursor.
//   - Backspace, Delete: delete the grapheme cluster before / under the
//     cursor.
//   - Ctrl-U: delete everything before the cursor.
//   - Enter, Escape: finish editing.
type InputField struct {
	*Box

	label       string
	labelStyle  tcell.Style
	fieldStyle  tcell.Style
	placeholder string

	// The text is kept as grapheme clusters so the cursor never splits one.
	clusters []string
	cursor   int
	offset   int

	changed func(text string)
	done    func(key tcell.Key)
}

// NewInputField returns a new input field.
func NewInputField() *InputField {
	return &InputField{
		Box:        NewBox(),
		labelStyle: tcell.StyleDefault.Foreground(Styles.Header),
		fieldStyle: tcell.StyleDefault.Foreground(Styles.Text),
	}
}

// SetText replaces the text and puts the cursor at its end. The changed
// handler is not called.
func (i *InputField) SetText(text string) *InputField {
	i.clusters = i.clusters[:0]
	state := -1
	for text != "" {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		i.clusters = append(i.clusters, cluster)
	}
	i.cursor = len(i.clusters)
	return i
}

func (i *InputField) GetText() string {
	return strings.Join(i.clusters, "")
}

// SetLabel sets the text displayed before the input area.
func (i *InputField) SetLabel(label string) *InputField {
	i.label = label
	return i
}

func (i *InputField) SetLabelStyle(style tcell.Style) *InputField {
	i.labelStyle = style
	return i
}

func (i *InputField) SetFieldStyle(style tcell.Style) *InputField {
	i.fieldStyle = style
	return i
}

// SetPlaceholder sets the text displayed while the field is empty.
func (i *InputField) SetPlaceholder(text string) *InputField {
	i.placeholder = text
	return i
}

// SetChangedFunc sets a handler called with the text after every edit.
func (i *InputField) SetChangedFunc(handler func(text string)) *InputField {
	i.changed = handler
	return i
}

// SetDoneFunc sets a handler called with the key that ended editing,
// KeyEnter or KeyEscape.
func (i *InputField) SetDoneFunc(handler func(key tcell.Key)) *InputField {
	i.done = handler
	return i
}

func (i *InputField) Draw(screen tcell.Screen) {
	i.DrawForSubclass(screen, i)
	x, y, width, height := i.GetInnerRect()
	if width < 1 || height < 1 {
		return
	}

	_, _, labelWidth := PrintWithStyle(screen, i.label, x, y, width, AlignmentLeft, i.labelStyle, true)
	x += labelWidth
	width -= labelWidth
	if width < 1 {
		return
	}

	if len(i.clusters) == 0 && i.placeholder != "" {
		PrintWithStyle(screen, i.placeholder, x, y, width, AlignmentLeft, i.fieldStyle.Dim(true), true)
	}

	// Keep the cursor inside the field, one column reserved for it.
	i.offset = min(i.offset, i.cursor)
	for i.offset < i.cursor && i.widthBetween(i.offset, i.cursor) >= width {
		i.offset++
	}

	column := 0
	cursorX := x
	for index := i.offset; index < len(i.clusters); index++ {
		if index == i.cursor {
			cursorX = x + column
		}
		w := uniseg.StringWidth(i.clusters[index])
		if column+w > width {
			break
		}
		screen.Put(x+column, y, i.clusters[index], i.fieldStyle)
		column += w
	}
	if i.cursor == len(i.clusters) {
		cursorX = x + column
	}
	if i.HasFocus() && cursorX < x+width {
		screen.ShowCursor(cursorX, y)
	}
}

func (i *InputField) widthBetween(from, to int) int {
	w := 0
	for _, cluster := range i.clusters[from:to] {
		w += uniseg.StringWidth(cluster)
	}
	return w
}

func (i *InputField) InputHandler(event *tcell.EventKey) Command {
	edited := false
	switch {
	case keybind.Matches(event, inputLineStart):
		i.cursor = 0
	case keybind.Matches(event, inputLineEnd):
		i.cursor = len(i.clusters)
	case keybind.Matches(event, inputClearHead):
		i.clusters = append(i.clusters[:0], i.clusters[i.cursor:]...)
		i.cursor = 0
		edited = true
	default:
		switch key := event.Key(); key {
		case tcell.KeyEnter, tcell.KeyEscape:
			if i.done != nil {
				i.done(key)
			}
			return RedrawCommand{}
		case tcell.KeyRune:
			if event.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
				return nil
			}
			i.insert(event.Str())
			edited = true
		case tcell.KeyLeft:
			i.cursor = max(i.cursor-1, 0)
		case tcell.KeyRight:
			i.cursor = min(i.cursor+1, len(i.clusters))
		case tcell.KeyHome:
			i.cursor = 0
		case tcell.KeyEnd:
			i.cursor = len(i.clusters)
		case tcell.KeyBackspace:
			if i.cursor == 0 {
				return nil
			}
			i.clusters = append(i.clusters[:i.cursor-1], i.clusters[i.cursor:]...)
			i.cursor--
			edited = true
		case tcell.KeyDelete:
			if i.cursor == len(i.clusters) {
				return nil
			}
			i.clusters = append(i.clusters[:i.cursor], i.clusters[i.cursor+1:]...)
			edited = true
		default:
			return nil
		}
	}
	if edited && i.changed != nil {
		i.changed(i.GetText())
	}
	return RedrawCommand{}
}

// PasteHandler inserts pasted text at the cursor. Line breaks are dropped.
func (i *InputField) PasteHandler(text string) Command {
	text = strings.NewReplacer("\r", "", "\n", " ").Replace(text)
	if text == "" {
		return nil
	}
	i.insert(text)
	if i.changed != nil {
		i.changed(i.GetText())
	}
	return RedrawCommand{}
}

func (i *InputField) insert(text string) {
	var added []string
	state := -1
	for text != "" {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		added = append(added, cluster)
	}
	tail := append(added, i.clusters[i.cursor:]...)
	i.clusters = append(i.clusters[:i.cursor], tail...)
	i.cursor += len(added)
}
