package breaking

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/breaking/internal/core"
)

// drawText writes s one glyph at a time starting at (x, y).
func drawText(r core.Renderer, x, y int, s string) {
	i := 0
	for _, ch := range s {
		r.DrawGlyph(x+i, y, ch)
		i++
	}
}

// keyLabel returns how a key binding is shown on screen.
func keyLabel(key string) string {
	if key == " " {
		return "SPACE"
	}
	return strings.ToUpper(key)
}

func (g *Game) drawTitle() {
	keys := g.cfg.Keys
	lines := []string{
		"",
		"  B r e a K I N G",
		"",
		"  Break every brick!",
		"  A new ball joins the field",
		"  every few hundred ticks.",
		"",
		fmt.Sprintf("  %s  start", keyLabel(keys.Start)),
		fmt.Sprintf("  %s  move left", keyLabel(keys.Left)),
		fmt.Sprintf("  %s  move right", keyLabel(keys.Right)),
		"",
		fmt.Sprintf("  %c    brick", g.glyphs.Brick),
		fmt.Sprintf("  %c    ball", g.glyphs.Ball),
		fmt.Sprintf("  %s  paddle", strings.Repeat(string(g.glyphs.Paddle), PaddleWidth)),
		fmt.Sprintf("  %c    wall", g.glyphs.Wall),
	}

	g.screen.ClearScreen()
	for i, line := range lines {
		drawText(g.screen, 0, i, line)
	}
}

func (g *Game) drawSummary() {
	heading := "  G A M E  O V E R"
	if g.state == StateGameClear {
		heading = "  G A M E  C L E A R"
	}

	score := g.Score()
	keys := g.cfg.Keys
	lines := []string{
		"",
		heading,
		"",
		fmt.Sprintf("  SCORE: %d", score),
		fmt.Sprintf("  BEST:  %d", max(g.best, score)),
		"",
		fmt.Sprintf("  %s  quit", keyLabel(keys.Quit)),
		fmt.Sprintf("  %s  retry", keyLabel(keys.Retry)),
	}

	g.screen.ClearScreen()
	for i, line := range lines {
		drawText(g.screen, 0, i, line)
	}
}
