package core

import (
	"strings"
)

// Cell is one character position of a Screen.
type Cell struct {
	Rune  rune
	Color Color
}

// Screen is a 2D character buffer the simulation draws into.
// It persists between frames, so a game can erase and redraw single
// cells instead of repainting everything. The platform turns it into
// terminal output.
type Screen struct {
	width         int
	height        int
	cells         [][]Cell
	palette       map[rune]Color
	cursorVisible bool
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:         width,
		height:        height,
		palette:       make(map[rune]Color),
		cursorVisible: true,
	}
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
	s.Clear()
	return s
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// SetPalette assigns the colour used whenever glyph r is drawn.
func (s *Screen) SetPalette(r rune, c Color) {
	s.palette[r] = c
}

// Clear fills the entire screen with spaces.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

// Set places a rune at the given position using the palette colour.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Color: s.palette[r]}
}

// Get returns the rune at the given position.
// Returns space for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return Cell{Rune: ' '}
	}
	return s.cells[y][x]
}

// DrawGlyph implements Renderer.
func (s *Screen) DrawGlyph(x, y int, r rune) {
	s.Set(x, y, r)
}

// ClearGlyph implements Renderer.
func (s *Screen) ClearGlyph(x, y int) {
	s.Set(x, y, ' ')
}

// ClearScreen implements Renderer.
func (s *Screen) ClearScreen() {
	s.Clear()
}

// SetCursorVisible implements Renderer.
func (s *Screen) SetCursorVisible(visible bool) {
	s.cursorVisible = visible
}

// CursorVisible reports the last value passed to SetCursorVisible.
func (s *Screen) CursorVisible() bool {
	return s.cursorVisible
}

// String converts the screen buffer to a renderable string.
// Each row is joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns a copy of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

var _ Renderer = (*Screen)(nil)
