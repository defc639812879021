package breaking

import (
	"github.com/vovakirdan/breaking/internal/config"
	"github.com/vovakirdan/breaking/internal/core"
)

// Ball is a moving ball. DX and DY are always -1 or +1.
type Ball struct {
	X, Y         int
	PrevX, PrevY int
	DX, DY       int
}

// Update records the previous position and moves the ball by its velocity.
func (b *Ball) Update() {
	b.PrevX, b.PrevY = b.X, b.Y
	b.X += b.DX
	b.Y += b.DY
}

// Draw puts the ball glyph at the current position.
func (b *Ball) Draw(r core.Renderer, g config.GlyphSet) {
	r.DrawGlyph(b.X, b.Y, g.Ball)
}

// ClearPrevious erases the cell the ball occupied before the last Update.
func (b *Ball) ClearPrevious(r core.Renderer) {
	r.ClearGlyph(b.PrevX, b.PrevY)
}

// Brick is a static target.
type Brick struct {
	X, Y         int
	PrevX, PrevY int
}

// Update keeps the previous position equal to the current one.
func (b *Brick) Update() {
	b.PrevX, b.PrevY = b.X, b.Y
}

// Draw puts the brick glyph at the current position.
func (b *Brick) Draw(r core.Renderer, g config.GlyphSet) {
	r.DrawGlyph(b.X, b.Y, g.Brick)
}

// ClearPrevious erases the brick's previous cell.
func (b *Brick) ClearPrevious(r core.Renderer) {
	r.ClearGlyph(b.PrevX, b.PrevY)
}

// Paddle is the player-controlled bar. It spans PaddleWidth cells starting
// at X and owns the score.
type Paddle struct {
	X, Y         int
	PrevX, PrevY int
	Score        int
}

// Update records the previous position, then reads at most one key and
// moves the paddle PaddleStep columns, clamped to the field interior.
func (p *Paddle) Update(keys core.KeySource, km config.Keymap) {
	p.PrevX, p.PrevY = p.X, p.Y

	r, ok := keys.PollKey()
	if !ok {
		return
	}

	switch km.Action(r) {
	case core.ActionLeft:
		p.X = core.Clamp(p.X-PaddleStep, 1, Width-1-PaddleWidth)
	case core.ActionRight:
		p.X = core.Clamp(p.X+PaddleStep, 1, Width-1-PaddleWidth)
	}
}

// Draw puts PaddleWidth paddle glyphs starting at the current position.
func (p *Paddle) Draw(r core.Renderer, g config.GlyphSet) {
	for i := range PaddleWidth {
		r.DrawGlyph(p.X+i, p.Y, g.Paddle)
	}
}

// ClearPrevious erases every cell the paddle occupied before the last Update.
func (p *Paddle) ClearPrevious(r core.Renderer) {
	for i := range PaddleWidth {
		r.ClearGlyph(p.PrevX+i, p.PrevY)
	}
}

// Covers reports whether (x, y) lies in the band a ball bounces off:
// the paddle's columns on the paddle row and the row above it.
func (p *Paddle) Covers(x, y int) bool {
	return x >= p.X && x <= p.X+PaddleWidth-1 && (y == p.Y-1 || y == p.Y)
}
