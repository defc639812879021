package core

import (
	"fmt"
	"strings"
)

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

var colorNames = map[string]Color{
	"default":       ColorDefault,
	"red":           ColorRed,
	"green":         ColorGreen,
	"yellow":        ColorYellow,
	"blue":          ColorBlue,
	"magenta":       ColorMagenta,
	"cyan":          ColorCyan,
	"white":         ColorWhite,
	"brightred":     ColorBrightRed,
	"brightgreen":   ColorBrightGreen,
	"brightyellow":  ColorBrightYellow,
	"brightblue":    ColorBrightBlue,
	"brightmagenta": ColorBrightMagenta,
	"brightcyan":    ColorBrightCyan,
	"brightwhite":   ColorBrightWhite,
	"orange":        ColorOrange,
	"gray":          ColorGray,
}

// ParseColor looks up a color by name ("cyan", "bright_red", "Orange").
// The empty string is ColorDefault.
func ParseColor(name string) (Color, error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
	if key == "" {
		return ColorDefault, nil
	}
	c, ok := colorNames[key]
	if !ok {
		return ColorDefault, fmt.Errorf("core: unknown color %q", name)
	}
	return c, nil
}
