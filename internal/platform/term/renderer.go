// Package term runs BreaKING straight on a tcell screen, without Bubble Tea.
// It is the low-latency path for local terminals: the game draws single
// cells and tcell flushes only what changed.
package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/breaking/internal/core"
)

// paletteColors maps core.Color to the terminal's 256-colour palette.
var paletteColors = map[core.Color]tcell.Color{
	core.ColorRed:           tcell.PaletteColor(1),
	core.ColorGreen:         tcell.PaletteColor(2),
	core.ColorYellow:        tcell.PaletteColor(3),
	core.ColorBlue:          tcell.PaletteColor(4),
	core.ColorMagenta:       tcell.PaletteColor(5),
	core.ColorCyan:          tcell.PaletteColor(6),
	core.ColorWhite:         tcell.PaletteColor(7),
	core.ColorBrightRed:     tcell.PaletteColor(9),
	core.ColorBrightGreen:   tcell.PaletteColor(10),
	core.ColorBrightYellow:  tcell.PaletteColor(11),
	core.ColorBrightBlue:    tcell.PaletteColor(12),
	core.ColorBrightMagenta: tcell.PaletteColor(13),
	core.ColorBrightCyan:    tcell.PaletteColor(14),
	core.ColorBrightWhite:   tcell.PaletteColor(15),
	core.ColorOrange:        tcell.PaletteColor(208),
	core.ColorGray:          tcell.PaletteColor(245),
}

// Renderer draws onto a tcell.Screen. Nothing is visible until the
// screen's Show is called.
type Renderer struct {
	screen tcell.Screen
	styles map[rune]tcell.Style
}

// NewRenderer creates a renderer that colours glyphs by palette.
func NewRenderer(screen tcell.Screen, palette map[rune]core.Color) *Renderer {
	styles := make(map[rune]tcell.Style, len(palette))
	for r, c := range palette {
		style := tcell.StyleDefault
		if tc, ok := paletteColors[c]; ok {
			style = style.Foreground(tc)
		}
		styles[r] = style
	}
	return &Renderer{screen: screen, styles: styles}
}

// DrawGlyph places r at (x, y).
func (r *Renderer) DrawGlyph(x, y int, g rune) {
	style, ok := r.styles[g]
	if !ok {
		style = tcell.StyleDefault
	}
	r.screen.SetContent(x, y, g, nil, style)
}

// ClearGlyph blanks (x, y).
func (r *Renderer) ClearGlyph(x, y int) {
	r.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
}

// ClearScreen blanks the whole screen.
func (r *Renderer) ClearScreen() {
	r.screen.Clear()
}

// SetCursorVisible shows the cursor at the origin or hides it.
func (r *Renderer) SetCursorVisible(visible bool) {
	if visible {
		r.screen.ShowCursor(0, 0)
		return
	}
	r.screen.HideCursor()
}

var _ core.Renderer = (*Renderer)(nil)
