// Package keybind matches key events against configurable key bindings.
//
// Keys are written the way users type them in a config file: "j", "pgdn",
// "ctrl+u", "Ctrl-C", "shift+tab". Modifiers come in any order and are
// normalized to ctrl, alt, shift, meta. Shifted runes are matched by the
// rune itself ("K", not "shift+k").
package keybind

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v3"
)

// Keybind is a set of keys bound to one action, with its help text.
type Keybind struct {
	keys     []string
	help     Help
	disabled bool
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	var k Keybind
	for _, option := range options {
		option(&k)
	}
	return k
}

func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.SetKeys(keys...)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.SetHelp(key, desc)
	}
}

// WithDisabled creates the binding in the disabled state.
func WithDisabled() Option {
	return func(k *Keybind) {
		k.disabled = true
	}
}

// Keys returns the normalized keys of the binding.
func (k Keybind) Keys() []string {
	return k.keys
}

// SetKeys replaces the keys. Keys that do not parse are dropped.
func (k *Keybind) SetKeys(keys ...string) {
	k.keys = k.keys[:0:0]
	for _, key := range keys {
		if key = normalize(key); key != "" && !slices.Contains(k.keys, key) {
			k.keys = append(k.keys, key)
		}
	}
}

// Enabled reports whether the binding matches events and is shown in help.
func (k Keybind) Enabled() bool {
	return !k.disabled && len(k.keys) > 0
}

func (k *Keybind) SetEnabled(enabled bool) {
	k.disabled = !enabled
}

func (k Keybind) Help() Help {
	return k.help
}

func (k *Keybind) SetHelp(key, desc string) {
	k.help = Help{Key: key, Desc: desc}
}

// Help is the text a help view shows for a binding.
type Help struct {
	Key  string
	Desc string
}

// Matches reports whether event triggers any of the enabled keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}
	key := eventChord(event).String()
	if key == "" {
		return false
	}
	for _, keybind := range keybinds {
		if keybind.Enabled() && slices.Contains(keybind.keys, key) {
			return true
		}
	}
	return false
}

type modifier uint8

const (
	modCtrl modifier = 1 << iota
	modAlt
	modShift
	modMeta
)

var modifierNames = [...]struct {
	mod  modifier
	name string
}{
	{modCtrl, "ctrl"},
	{modAlt, "alt"},
	{modShift, "shift"},
	{modMeta, "meta"},
}

// chord is a primary key with the modifiers held down.
type chord struct {
	mods modifier
	key  string
}

func (c chord) String() string {
	if c.key == "" {
		return ""
	}
	var b strings.Builder
	for _, m := range modifierNames {
		if c.mods&m.mod != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(c.key)
	return b.String()
}

// normalize returns the canonical form of a key as written in a binding, or
// "" if it names no key.
func normalize(key string) string {
	return parseChord(key).String()
}

func parseChord(s string) chord {
	var c chord
	for part := range strings.SplitSeq(s, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		switch strings.ToLower(part) {
		case "ctrl", "control":
			c.mods |= modCtrl
		case "alt":
			c.mods |= modAlt
		case "shift":
			c.mods |= modShift
		case "meta":
			c.mods |= modMeta
		default:
			primary := primaryKey(part)
			c.mods |= primary.mods
			c.key = primary.key
		}
	}
	if c.mods != 0 && utf8.RuneCountInString(c.key) == 1 {
		c.key = strings.ToLower(c.key)
	}
	return c
}

var keyAliases = map[string]chord{
	"esc":      {key: "esc"},
	"escape":   {key: "esc"},
	"return":   {key: "enter"},
	"pageup":   {key: "pgup"},
	"pagedown": {key: "pgdn"},
	" ":        {key: "space"},
	"spacebar": {key: "space"},
	"backtab":  {mods: modShift, key: "tab"},
}

// primaryKey parses a key name without "+" separated modifiers. It accepts
// the names tcell gives events, such as "Rune[j]" and "Ctrl-A".
func primaryKey(name string) chord {
	if inner, ok := strings.CutPrefix(name, "Rune["); ok && len(inner) > 1 && strings.HasSuffix(inner, "]") {
		return chord{key: inner[:len(inner)-1]}
	}
	lower := strings.ToLower(name)
	if rest, ok := strings.CutPrefix(lower, "ctrl-"); ok && rest != "" {
		return chord{mods: modCtrl, key: rest}
	}
	if alias, ok := keyAliases[lower]; ok {
		return alias
	}
	if utf8.RuneCountInString(name) == 1 {
		return chord{key: name}
	}
	return chord{key: lower}
}

var keyNames = map[tcell.Key]chord{
	tcell.KeyEnter:     {key: "enter"},
	tcell.KeyEscape:    {key: "esc"},
	tcell.KeyTab:       {key: "tab"},
	tcell.KeyBacktab:   {mods: modShift, key: "tab"},
	tcell.KeyHome:      {key: "home"},
	tcell.KeyEnd:       {key: "end"},
	tcell.KeyUp:        {key: "up"},
	tcell.KeyDown:      {key: "down"},
	tcell.KeyLeft:      {key: "left"},
	tcell.KeyRight:     {key: "right"},
	tcell.KeyPgUp:      {key: "pgup"},
	tcell.KeyPgDn:      {key: "pgdn"},
	tcell.KeyDelete:    {key: "delete"},
	tcell.KeyBackspace: {key: "backspace"},
	tcell.KeyInsert:    {key: "insert"},
}

func eventChord(event *tcell.EventKey) chord {
	var c chord
	switch named, ok := keyNames[event.Key()]; {
	case ok:
		c = named
	case event.Key() == tcell.KeyRune:
		c = primaryKey(event.Str())
	default:
		// Legacy control keys carry their modifiers in the name.
		return parseChord(event.Name())
	}

	mods := event.Modifiers()
	if mods&tcell.ModCtrl != 0 {
		c.mods |= modCtrl
	}
	if mods&tcell.ModAlt != 0 {
		c.mods |= modAlt
	}
	if mods&tcell.ModShift != 0 && event.Key() != tcell.KeyRune {
		c.mods |= modShift
	}
	if mods&tcell.ModMeta != 0 {
		c.mods |= modMeta
	}
	if c.mods != 0 && utf8.RuneCountInString(c.key) == 1 {
		c.key = strings.ToLower(c.key)
	}
	return c
}
