package breaking

import (
	"github.com/vovakirdan/breaking/internal/registry"
)

// collide resolves one ball against the paddle, the walls and the bricks,
// in that order. Each check can flip an axis on its own, so a ball may
// reverse both directions in one tick. It must run on the tick goroutine.
func (g *Game) collide(b *Ball) {
	paddle := g.Paddle()

	// Paddle band. No direction check: a ball leaving the band upward
	// bounces again.
	if paddle.Covers(b.X, b.Y) {
		b.DY = -b.DY
		b.DX *= g.rng.Sign()
	}

	// Side walls
	if b.X <= 0 {
		b.DX = -b.DX
		b.X++
	}
	if b.X >= Width-1 {
		b.DX = -b.DX
		b.X--
	}

	// Top wall
	if b.Y <= 0 {
		b.DY = -b.DY
		b.Y++
	}

	if g.sweepBricks(b) {
		g.removalMu.Lock()
		paddle.Score++
		g.removalMu.Unlock()
	}

	// Out of the field
	if b.X >= Width || b.Y >= Height {
		g.lost = true
	}
}

// sweepBricks removes every brick in the ball's column at or below the
// ball, bouncing the ball once per brick. Reports whether any brick went.
func (g *Game) sweepBricks(b *Ball) bool {
	removed := false
	for i := 0; i < g.live.Len(); {
		ref := g.live.At(i)
		if ref.Kind != registry.KindBrick {
			i++
			continue
		}
		brick := g.bricks.Get(ref.Handle)
		if brick == nil || brick.X != b.X || brick.Y < b.Y {
			i++
			continue
		}

		// The next entry shifts into slot i, so i stays put. Removal,
		// the slot's return and the bounce share one critical section.
		g.removalMu.Lock()
		b.DY = -b.DY
		b.DX *= g.rng.Sign()
		g.removedCells = append(g.removedCells, cell{brick.X, brick.Y})
		g.live.RemoveAt(i)
		g.bricks.Free(ref.Handle)
		g.removalMu.Unlock()
		removed = true
	}
	return removed
}
