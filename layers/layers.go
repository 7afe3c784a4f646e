// Package layers stacks primitives on top of each other. The front-most
// overlay layer dims everything behind it and takes all input.
package layers

import (
	"slices"

	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/ultralist"
)

type layer struct {
	name    string
	item    ultralist.Primitive
	resize  bool
	visible bool
	overlay bool
}

// Layers draws its layers back to front.
type Layers struct {
	*ultralist.Box

	layers []*layer
	// Applied to the layers behind the front-most visible overlay.
	backgroundStyle tcell.Style

	setFocus func(p ultralist.Primitive)
}

// Option configures a layer on Add.
type Option func(*layer)

func WithName(name string) Option {
	return func(l *layer) {
		l.name = name
	}
}

// WithResize fits the layer to the inner rect of the container on every
// draw.
func WithResize(resize bool) Option {
	return func(l *layer) {
		l.resize = resize
	}
}

func WithVisible(visible bool) Option {
	return func(l *layer) {
		l.visible = visible
	}
}

// WithOverlay marks the layer as an overlay.
func WithOverlay() Option {
	return func(l *layer) {
		l.overlay = true
	}
}

func New() *Layers {
	return &Layers{
		Box:             ultralist.NewBox(),
		backgroundStyle: tcell.StyleDefault.Dim(true),
	}
}

// Add puts item in front of the existing layers. A layer with the same name
// is replaced.
func (l *Layers) Add(item ultralist.Primitive, opts ...Option) *Layers {
	hadFocus := l.HasFocus()
	added := &layer{item: item, visible: true}
	for _, opt := range opts {
		opt(added)
	}
	if added.name != "" {
		l.layers = slices.DeleteFunc(l.layers, func(existing *layer) bool {
			return existing.name == added.name
		})
	}
	l.layers = append(l.layers, added)
	l.refocus(hadFocus)
	return l
}

// Show makes the named layer visible.
func (l *Layers) Show(name string) *Layers {
	return l.setVisible(name, true)
}

// Hide hides the named layer.
func (l *Layers) Hide(name string) *Layers {
	return l.setVisible(name, false)
}

// Toggle flips the visibility of the named layer.
func (l *Layers) Toggle(name string) *Layers {
	return l.setVisible(name, !l.Visible(name))
}

func (l *Layers) Visible(name string) bool {
	if layer := l.find(name); layer != nil {
		return layer.visible
	}
	return false
}

// Front returns the front-most visible layer.
func (l *Layers) Front() (name string, item ultralist.Primitive) {
	if layer := l.front(false); layer != nil {
		return layer.name, layer.item
	}
	return "", nil
}

// SetBackgroundStyle sets the style applied behind an overlay.
func (l *Layers) SetBackgroundStyle(style tcell.Style) *Layers {
	l.backgroundStyle = style
	return l
}

func (l *Layers) setVisible(name string, visible bool) *Layers {
	layer := l.find(name)
	if layer == nil || layer.visible == visible {
		return l
	}
	hadFocus := l.HasFocus()
	layer.visible = visible
	if !visible && layer.item.HasFocus() {
		layer.item.Blur()
	}
	l.refocus(hadFocus)
	return l
}

func (l *Layers) find(name string) *layer {
	for _, layer := range l.layers {
		if layer.name == name {
			return layer
		}
	}
	return nil
}

// front returns the front-most visible layer, or overlay when overlayOnly
// is set.
func (l *Layers) front(overlayOnly bool) *layer {
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if layer.visible && (!overlayOnly || layer.overlay) {
			return layer
		}
	}
	return nil
}

func (l *Layers) refocus(hadFocus bool) {
	if l.setFocus != nil && hadFocus {
		l.Focus(l.setFocus)
	}
}

func (l *Layers) HasFocus() bool {
	for _, layer := range l.layers {
		if layer.visible && layer.item.HasFocus() {
			return true
		}
	}
	return l.Box.HasFocus()
}

// Focus passes the focus to the front-most visible layer.
func (l *Layers) Focus(delegate func(p ultralist.Primitive)) {
	if delegate == nil {
		return
	}
	l.setFocus = delegate
	if front := l.front(false); front != nil {
		delegate(front.item)
		return
	}
	l.Box.Focus(delegate)
}

func (l *Layers) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)

	overlay := l.front(true)
	dimmed := &overlayScreen{Screen: screen, overlay: l.backgroundStyle}
	behind := overlay != nil
	for _, layer := range l.layers {
		if layer == overlay {
			behind = false
		}
		if !layer.visible {
			continue
		}
		if layer.resize {
			layer.item.SetRect(l.GetInnerRect())
		}
		if behind {
			layer.item.Draw(dimmed)
		} else {
			layer.item.Draw(screen)
		}
	}
}

// MouseHandler passes mouse events to the front-most visible layer that
// takes them. Layers behind an overlay never see them.
func (l *Layers) MouseHandler(action ultralist.MouseAction, event *tcell.EventMouse) (ultralist.Primitive, ultralist.Command) {
	if !l.InRect(event.Position()) {
		return nil, nil
	}

	overlay := l.front(true)
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if !layer.visible {
			continue
		}
		capture, cmd := layer.item.MouseHandler(action, event)
		if capture != nil || cmd != nil {
			return capture, cmd
		}
		if layer == overlay {
			return nil, ultralist.ConsumeEventCommand{}
		}
	}
	return nil, nil
}

// InputHandler passes key events to the focused layer.
func (l *Layers) InputHandler(event *tcell.EventKey) ultralist.Command {
	if layer := l.focused(); layer != nil {
		return layer.item.InputHandler(event)
	}
	return nil
}

func (l *Layers) PasteHandler(text string) ultralist.Command {
	if layer := l.focused(); layer != nil {
		return layer.item.PasteHandler(text)
	}
	return nil
}

func (l *Layers) focused() *layer {
	for _, layer := range l.layers {
		if layer.visible && layer.item.HasFocus() {
			return layer
		}
	}
	return nil
}

// overlayScreen merges a style into everything drawn through it.
type overlayScreen struct {
	tcell.Screen
	overlay tcell.Style
}

func (s *overlayScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	s.Screen.SetContent(x, y, primary, combining, mergeStyle(style, s.overlay))
}

func (s *overlayScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	return s.Screen.Put(x, y, str, mergeStyle(style, s.overlay))
}

func (s *overlayScreen) PutStr(x int, y int, str string) {
	s.Screen.PutStrStyled(x, y, str, mergeStyle(tcell.StyleDefault, s.overlay))
}

func (s *overlayScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	s.Screen.PutStrStyled(x, y, str, mergeStyle(style, s.overlay))
}

// mergeStyle sets the colours the overlay defines and adds its attributes.
// Attributes of base are never removed.
func mergeStyle(base, overlay tcell.Style) tcell.Style {
	if fg := overlay.GetForeground(); fg != tcell.ColorDefault {
		base = base.Foreground(fg)
	}
	if bg := overlay.GetBackground(); bg != tcell.ColorDefault {
		base = base.Background(bg)
	}
	if overlay.HasBold() {
		base = base.Bold(true)
	}
	if overlay.HasDim() {
		base = base.Dim(true)
	}
	if overlay.HasItalic() {
		base = base.Italic(true)
	}
	if overlay.HasReverse() {
		base = base.Reverse(true)
	}
	if overlay.HasUnderline() {
		base = base.Underline(true)
	}
	return base
}
