package config

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	"github.com/lucasb-eyer/go-colorful"
)

// ThemeConfig holds the list colours as #RRGGBB or #RGB strings. "default"
// or an empty string keeps the terminal colour.
type ThemeConfig struct {
	Text       string `toml:"text" yaml:"text"`
	Header     string `toml:"header" yaml:"header"`
	Cursor     string `toml:"cursor" yaml:"cursor"`
	Dragged    string `toml:"dragged" yaml:"dragged"`
	Background string `toml:"background" yaml:"background"`
}

// Palette is a parsed theme.
type Palette struct {
	Text       tcell.Color
	Header     tcell.Color
	Cursor     tcell.Color
	Dragged    tcell.Color
	Background tcell.Color
}

// Palette parses the theme colours.
func (t ThemeConfig) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		name  string
		value string
		dst   *tcell.Color
	}{
		{"text", t.Text, &p.Text},
		{"header", t.Header, &p.Header},
		{"cursor", t.Cursor, &p.Cursor},
		{"dragged", t.Dragged, &p.Dragged},
		{"background", t.Background, &p.Background},
	}
	for _, field := range fields {
		c, err := ParseColor(field.value)
		if err != nil {
			return Palette{}, fmt.Errorf("theme.%s: %w", field.name, err)
		}
		*field.dst = c
	}
	return p, nil
}

// ParseColor converts a hex color string (#RRGGBB or #RGB) to tcell.Color
func ParseColor(hexColor string) (tcell.Color, error) {
	hexColor = strings.TrimSpace(hexColor)
	if hexColor == "" || strings.EqualFold(hexColor, "default") {
		return tcell.ColorDefault, nil
	}

	hexColor = strings.TrimPrefix(hexColor, "#")
	// Handle short form (#RGB)
	if len(hexColor) == 3 {
		hexColor = string(hexColor[0]) + string(hexColor[0]) +
			string(hexColor[1]) + string(hexColor[1]) +
			string(hexColor[2]) + string(hexColor[2])
	}

	c, err := colorful.Hex("#" + hexColor)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("failed to parse color %q: %w", hexColor, err)
	}
	r, g, b := c.RGB255()
	return color.NewRGBColor(int32(r), int32(g), int32(b)), nil
}
