// Package config provides YAML-based configuration loading for the game:
// key bindings, glyphs, colours and update parallelism.
//
// Gameplay rules (field size, spawn schedule, pool capacities, frame
// interval) are fixed constants of the breaking package and are not
// configurable.
package config

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/vovakirdan/breaking/internal/core"
)

// Config contains all user-tunable settings.
type Config struct {
	Keys   KeyBindings  `yaml:"keys"`
	Glyphs Glyphs       `yaml:"glyphs"`
	Colors Colors       `yaml:"colors"`
	Update UpdateConfig `yaml:"update"`
}

// KeyBindings maps each action to a single key.
// Letters match regardless of case.
type KeyBindings struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Start string `yaml:"start"`
	Retry string `yaml:"retry"`
	Quit  string `yaml:"quit"`
}

// Glyphs defines the character drawn for each element.
type Glyphs struct {
	Ball   string `yaml:"ball"`
	Brick  string `yaml:"brick"`
	Paddle string `yaml:"paddle"`
	Wall   string `yaml:"wall"`
}

// Colors names the colour of each glyph (see core.ParseColor).
type Colors struct {
	Ball   string `yaml:"ball"`
	Brick  string `yaml:"brick"`
	Paddle string `yaml:"paddle"`
	Wall   string `yaml:"wall"`
}

// UpdateConfig controls the entity update phase.
type UpdateConfig struct {
	Workers int `yaml:"workers"` // Goroutines updating entities each tick
}

// GlyphSet is the validated, rune form of Glyphs.
type GlyphSet struct {
	Ball   rune
	Brick  rune
	Paddle rune
	Wall   rune
}

// Keymap translates key presses into actions.
type Keymap struct {
	actions map[rune]core.Action
}

// Action returns the action bound to r, or core.ActionNone.
func (k Keymap) Action(r rune) core.Action {
	if a, ok := k.actions[unicode.ToLower(r)]; ok {
		return a
	}
	return core.ActionNone
}

// Keymap validates the bindings and builds a lookup table.
func (k KeyBindings) Keymap() (Keymap, error) {
	bindings := []struct {
		name   string
		key    string
		action core.Action
	}{
		{"left", k.Left, core.ActionLeft},
		{"right", k.Right, core.ActionRight},
		{"start", k.Start, core.ActionStart},
		{"retry", k.Retry, core.ActionRetry},
		{"quit", k.Quit, core.ActionQuit},
	}

	km := Keymap{actions: make(map[rune]core.Action, len(bindings))}
	for _, b := range bindings {
		r, err := singleRune(b.key)
		if err != nil {
			return Keymap{}, fmt.Errorf("config: key %s: %w", b.name, err)
		}
		r = unicode.ToLower(r)
		if prev, dup := km.actions[r]; dup {
			return Keymap{}, fmt.Errorf("config: key %q bound to both %s and %s", r, prev, b.action)
		}
		km.actions[r] = b.action
	}
	return km, nil
}

// Runes validates the glyphs and converts them to runes.
func (g Glyphs) Runes() (GlyphSet, error) {
	var set GlyphSet
	fields := []struct {
		name string
		src  string
		dst  *rune
	}{
		{"ball", g.Ball, &set.Ball},
		{"brick", g.Brick, &set.Brick},
		{"paddle", g.Paddle, &set.Paddle},
		{"wall", g.Wall, &set.Wall},
	}
	for _, f := range fields {
		r, err := singleRune(f.src)
		if err != nil {
			return GlyphSet{}, fmt.Errorf("config: glyph %s: %w", f.name, err)
		}
		if r == ' ' {
			return GlyphSet{}, fmt.Errorf("config: glyph %s: must not be a space", f.name)
		}
		*f.dst = r
	}
	return set, nil
}

// Palette resolves the colour names into a glyph -> colour table.
func (c Config) Palette() (map[rune]core.Color, error) {
	glyphs, err := c.Glyphs.Runes()
	if err != nil {
		return nil, err
	}

	pairs := []struct {
		name  string
		glyph rune
		color string
	}{
		{"ball", glyphs.Ball, c.Colors.Ball},
		{"brick", glyphs.Brick, c.Colors.Brick},
		{"paddle", glyphs.Paddle, c.Colors.Paddle},
		{"wall", glyphs.Wall, c.Colors.Wall},
	}

	palette := make(map[rune]core.Color, len(pairs))
	for _, p := range pairs {
		col, err := core.ParseColor(p.color)
		if err != nil {
			return nil, fmt.Errorf("config: color %s: %w", p.name, err)
		}
		palette[p.glyph] = col
	}
	return palette, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.Keys.Keymap(); err != nil {
		return err
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	if c.Update.Workers < 1 {
		return fmt.Errorf("config: update.workers must be at least 1, got %d", c.Update.Workers)
	}
	return nil
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected exactly one character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
