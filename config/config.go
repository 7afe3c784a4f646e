package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ayn2op/ultralist/drag"
)

// Config holds the list, drag and theme settings.
type Config struct {
	List  ListConfig  `toml:"list" yaml:"list"`
	Drag  DragConfig  `toml:"drag" yaml:"drag"`
	Theme ThemeConfig `toml:"theme" yaml:"theme"`
}

// ListConfig configures the list view.
type ListConfig struct {
	// Templates created per cell type when a factory is registered.
	InitialPoolSize int  `toml:"initial_pool_size" yaml:"initial_pool_size"`
	Gap             int  `toml:"gap" yaml:"gap"`
	FrameIntervalMS int  `toml:"frame_interval_ms" yaml:"frame_interval_ms"`
	LongPressMS     int  `toml:"long_press_ms" yaml:"long_press_ms"`
	ScrollBar       bool `toml:"scroll_bar" yaml:"scroll_bar"`
}

// FrameInterval returns the delay between animation frames.
func (c ListConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// LongPress returns how long a button is held before a drag starts.
func (c ListConfig) LongPress() time.Duration {
	return time.Duration(c.LongPressMS) * time.Millisecond
}

// DragConfig configures drag to reorder.
type DragConfig struct {
	TouchSlop      int     `toml:"touch_slop" yaml:"touch_slop"`
	ScrollSpeedMax float64 `toml:"scroll_speed_max" yaml:"scroll_speed_max"`
	ScrollMargin   int     `toml:"scroll_margin" yaml:"scroll_margin"`
	Translate      bool    `toml:"translate" yaml:"translate"`
	Swap           bool    `toml:"swap" yaml:"swap"`
	Scroll         bool    `toml:"scroll" yaml:"scroll"`
	// Frames a released row takes to settle.
	RecoveryFrames int `toml:"recovery_frames" yaml:"recovery_frames"`
}

// Controller returns the tuning of the drag controller.
func (c DragConfig) Controller() drag.Config {
	return drag.Config{
		TouchSlop:      c.TouchSlop,
		ScrollSpeedMax: c.ScrollSpeedMax,
		ScrollMargin:   c.ScrollMargin,
	}
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a TOML or YAML file, chosen by extension.
// Settings missing from the file keep their defaults.
func LoadFromFile(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filePath, err)
	}
	return cfg, nil
}

// Path returns the path to the config file
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ultralist", "config.toml"), nil
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		List: ListConfig{
			InitialPoolSize: 8,
			FrameIntervalMS: 16,
			LongPressMS:     400,
			ScrollBar:       true,
		},
		Drag: DragConfig{
			TouchSlop:      0,
			ScrollSpeedMax: 3,
			ScrollMargin:   2,
			Translate:      true,
			Swap:           true,
			Scroll:         true,
			RecoveryFrames: 6,
		},
		Theme: ThemeConfig{
			Text:       "#c0caf5",
			Header:     "#7aa2f7",
			Cursor:     "#283457",
			Dragged:    "#e0af68",
			Background: "default",
		},
	}
}

// Validate reports the first setting that is out of range.
func (c *Config) Validate() error {
	checks := []struct {
		name  string
		value int
		min   int
	}{
		{"list.initial_pool_size", c.List.InitialPoolSize, 0},
		{"list.gap", c.List.Gap, 0},
		{"list.frame_interval_ms", c.List.FrameIntervalMS, 1},
		{"list.long_press_ms", c.List.LongPressMS, 0},
		{"drag.touch_slop", c.Drag.TouchSlop, 0},
		{"drag.scroll_margin", c.Drag.ScrollMargin, 1},
		{"drag.recovery_frames", c.Drag.RecoveryFrames, 0},
	}
	for _, check := range checks {
		if check.value < check.min {
			return fmt.Errorf("%s: %d is below %d: %w", check.name, check.value, check.min, ErrOutOfRange)
		}
	}
	if c.Drag.ScrollSpeedMax < 1 {
		return fmt.Errorf("drag.scroll_speed_max: %g is below 1: %w", c.Drag.ScrollSpeedMax, ErrOutOfRange)
	}
	if _, err := c.Theme.Palette(); err != nil {
		return err
	}
	return nil
}

// ErrOutOfRange is returned by Validate for a setting outside its range.
var ErrOutOfRange = errors.New("value out of range")
