package core

// Renderer is the drawing surface the simulation writes to.
// Implementations are assumed infallible; coordinates outside the
// surface are ignored.
type Renderer interface {
	DrawGlyph(x, y int, r rune)
	ClearGlyph(x, y int)
	ClearScreen()
	SetCursorVisible(visible bool)
}

// KeySource yields buffered key presses without blocking.
type KeySource interface {
	// PollKey returns the oldest buffered key, or false when none is waiting.
	PollKey() (rune, bool)
}
