package breaking

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/breaking/internal/config"
	"github.com/vovakirdan/breaking/internal/core"
	"github.com/vovakirdan/breaking/internal/pool"
	"github.com/vovakirdan/breaking/internal/registry"
)

func newTestGame(t *testing.T, seed int64, workers int) (*Game, *core.Screen, *core.KeyBuffer) {
	t.Helper()

	screen := core.NewScreen(Width, ScreenHeight)
	keys := core.NewKeyBuffer(64)
	g, err := New(config.Default(), core.RuntimeConfig{Seed: seed, Workers: workers}, screen, keys)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(g.Close)
	return g, screen, keys
}

func startPlaying(t *testing.T, g *Game, keys *core.KeyBuffer) {
	t.Helper()
	keys.Push(' ')
	if res := g.Step(); res.State != StatePlaying {
		t.Fatalf("state after start key = %s, expected playing", res.State)
	}
}

// removeKind drops every live entity of the given kind and frees its slot.
func removeKind(g *Game, kind registry.Kind) {
	for i := 0; i < g.live.Len(); {
		ref := g.live.At(i)
		if ref.Kind != kind {
			i++
			continue
		}
		g.live.RemoveAt(i)
		switch kind {
		case registry.KindBall:
			g.balls.Free(ref.Handle)
		case registry.KindBrick:
			g.bricks.Free(ref.Handle)
		}
	}
}

// clearField leaves only the paddle.
func clearField(g *Game) {
	removeKind(g, registry.KindBall)
	removeKind(g, registry.KindBrick)
}

func mustAddBall(t *testing.T, g *Game, x, y, dx, dy int) *Ball {
	t.Helper()
	h, err := g.addBall(x, y, dx, dy)
	if err != nil {
		t.Fatalf("addBall failed: %v", err)
	}
	return g.balls.Get(h)
}

func mustAddBrick(t *testing.T, g *Game, x, y int) {
	t.Helper()
	if _, err := g.addBrick(x, y); err != nil {
		t.Fatalf("addBrick failed: %v", err)
	}
}

func TestNewBuildsField(t *testing.T) {
	g, screen, _ := newTestGame(t, 1, 1)

	if g.State() != StateTitle {
		t.Errorf("initial state = %s, expected title", g.State())
	}
	if g.BricksRemaining() != BrickCapacity {
		t.Errorf("bricks = %d, expected %d", g.BricksRemaining(), BrickCapacity)
	}
	if g.bricks.Available() != 0 {
		t.Errorf("brick pool has %d free slots, expected 0", g.bricks.Available())
	}
	if g.BallsInPlay() != 1 {
		t.Errorf("balls = %d, expected 1", g.BallsInPlay())
	}

	p := g.Paddle()
	if p.X != PaddleStartX || p.Y != PaddleRow {
		t.Errorf("paddle at (%d,%d), expected (%d,%d)", p.X, p.Y, PaddleStartX, PaddleRow)
	}

	// Bricks fill the interior of the top rows, in row order.
	first := g.bricks.Get(g.live.At(0).Handle)
	last := g.bricks.Get(g.live.At(BrickCapacity - 1).Handle)
	if first.X != 1 || first.Y != 1 || last.X != BrickCols || last.Y != BrickRows {
		t.Errorf("brick range (%d,%d)..(%d,%d), expected (1,1)..(%d,%d)",
			first.X, first.Y, last.X, last.Y, BrickCols, BrickRows)
	}

	if screen.CursorVisible() {
		t.Error("cursor should be hidden")
	}
	if !strings.Contains(screen.String(), "B r e a K I N G") {
		t.Error("title banner not drawn")
	}
}

func TestFirstBallSpawnPosition(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		g, _, _ := newTestGame(t, seed, 1)
		for _, ref := range g.live.Refs() {
			if ref.Kind != registry.KindBall {
				continue
			}
			b := g.balls.Get(ref.Handle)
			if b.X < 2 || b.X > Width-2 || b.Y < 5 || b.Y > 6 {
				t.Errorf("seed %d: ball at (%d,%d) outside spawn area", seed, b.X, b.Y)
			}
			if b.DX != 1 || b.DY != 1 {
				t.Errorf("seed %d: ball velocity (%d,%d), expected (1,1)", seed, b.DX, b.DY)
			}
		}
	}
}

func TestTitleWaitsForStartKey(t *testing.T) {
	g, screen, keys := newTestGame(t, 1, 1)

	keys.Push('a')
	keys.Push('x')
	if res := g.Step(); res.State != StateTitle {
		t.Fatalf("state = %s, expected title", res.State)
	}
	if keys.Len() != 0 {
		t.Error("title should consume non-start keys")
	}

	startPlaying(t, g, keys)
	if strings.Contains(screen.String(), "B r e a K I N G") {
		t.Error("screen should be cleared when play starts")
	}
	if g.Tick() != 0 {
		t.Errorf("starting should not run a tick, got %d", g.Tick())
	}
}

func TestRenderDrawsFieldAndScore(t *testing.T) {
	g, screen, keys := newTestGame(t, 1, 1)
	startPlaying(t, g, keys)
	g.Step()

	for _, c := range []struct{ x, y int }{{0, 0}, {Width - 1, 0}, {0, Height - 1}, {Width - 1, Height - 1}, {0, 10}} {
		if screen.Get(c.x, c.y) != 'H' {
			t.Errorf("border at (%d,%d) = %q, expected H", c.x, c.y, screen.Get(c.x, c.y))
		}
	}
	if screen.Get(1, 1) != '*' || screen.Get(BrickCols, BrickRows) != '*' {
		t.Error("bricks not drawn")
	}
	if got := screen.Row(PaddleRow)[PaddleStartX : PaddleStartX+PaddleWidth]; got != "===" {
		t.Errorf("paddle cells = %q, expected ===", got)
	}
	if !strings.HasPrefix(screen.Row(ScoreRow), "SCORE: 0") {
		t.Errorf("score row = %q", screen.Row(ScoreRow))
	}
}

func TestRenderWallsOnlyOnBorder(t *testing.T) {
	g, screen, keys := newTestGame(t, 1, 1)
	startPlaying(t, g, keys)
	g.Step()

	for y := range Height {
		for x := range Width {
			border := x == 0 || x == Width-1 || y == 0 || y == Height-1
			if got := screen.Get(x, y); (got == 'H') != border {
				t.Errorf("cell (%d,%d) = %q, border %v", x, y, got, border)
			}
		}
	}
}

func TestRenderErasesRemovedBricks(t *testing.T) {
	g, screen, keys := newTestGame(t, 1, 1)
	startPlaying(t, g, keys)
	clearField(g)

	mustAddBrick(t, g, 5, 3)
	mustAddBrick(t, g, 20, 1)
	screen.DrawGlyph(5, 3, '*')
	mustAddBall(t, g, 4, 2, 1, -1)

	g.Step()

	if g.BricksRemaining() != 1 {
		t.Fatalf("bricks = %d, expected 1", g.BricksRemaining())
	}
	if screen.Get(5, 3) != ' ' {
		t.Errorf("removed brick cell = %q, expected blank", screen.Get(5, 3))
	}
	if screen.Get(20, 1) != '*' {
		t.Error("remaining brick should still be drawn")
	}
	if !strings.HasPrefix(screen.Row(ScoreRow), "SCORE: 1") {
		t.Errorf("score row = %q", screen.Row(ScoreRow))
	}
}

func TestGameClearWhenNoBricksRemain(t *testing.T) {
	g, screen, keys := newTestGame(t, 1, 1)
	startPlaying(t, g, keys)
	clearField(g)
	mustAddBall(t, g, 10, 10, 1, 1)

	res := g.Step()
	if res.State != StateGameClear || !res.Ended {
		t.Fatalf("result = %+v, expected ended in clear", res)
	}
	if !strings.Contains(screen.String(), "G A M E  C L E A R") {
		t.Error("clear summary not drawn")
	}
}

func TestGameOverWhenBallLeavesField(t *testing.T) {
	g, screen, keys := newTestGame(t, 1, 1)
	startPlaying(t, g, keys)
	removeKind(g, registry.KindBall)
	mustAddBall(t, g, 10, Height-1, 1, 1)

	res := g.Step()
	if res.State != StateGameOver || !res.Ended {
		t.Fatalf("result = %+v, expected ended in game over", res)
	}
	if !g.lost {
		t.Error("loss flag should be set")
	}
	if !strings.Contains(screen.String(), "G A M E  O V E R") {
		t.Error("game over summary not drawn")
	}
	if !strings.Contains(screen.String(), "SCORE: 0") {
		t.Error("summary should show the final score")
	}
}

func TestClearWinsOverLossInSameTick(t *testing.T) {
	g, _, keys := newTestGame(t, 1, 1)
	startPlaying(t, g, keys)
	clearField(g)
	mustAddBall(t, g, 10, Height-1, 1, 1)

	if res := g.Step(); res.State != StateGameClear {
		t.Errorf("state = %s, expected clear", res.State)
	}
}

func TestSummaryKeys(t *testing.T) {
	g, _, keys := newTestGame(t, 1, 1)
	startPlaying(t, g, keys)
	removeKind(g, registry.KindBall)
	mustAddBall(t, g, 10, Height-1, 1, 1)
	g.Step()

	keys.Push('a')
	if res := g.Step(); res.Retry || res.Quit || res.State != StateGameOver {
		t.Errorf("unbound key should be ignored, got %+v", res)
	}

	keys.Push('R')
	if res := g.Step(); !res.Retry || res.Quit {
		t.Errorf("retry key: got %+v", res)
	}

	keys.Push('q')
	if res := g.Step(); !res.Quit || res.Retry {
		t.Errorf("quit key: got %+v", res)
	}

	tick := g.Tick()
	g.Step()
	if g.Tick() != tick {
		t.Error("terminal states must not run ticks")
	}
}

func TestSpawnSchedule(t *testing.T) {
	g, _, keys := newTestGame(t, 3, 1)
	startPlaying(t, g, keys)
	clearField(g)
	mustAddBrick(t, g, Width-2, 1)

	for i := 1; i < FirstSpawnTicks; i++ {
		g.Step()
		if g.BallsInPlay() != 0 {
			t.Fatalf("ball spawned early at tick %d", i)
		}
	}

	g.Step()
	if g.BallsInPlay() != 1 {
		t.Fatalf("balls after %d ticks = %d, expected 1", FirstSpawnTicks, g.BallsInPlay())
	}
	if g.sinceSpawn != 0 {
		t.Errorf("spawn counter = %d, expected 0", g.sinceSpawn)
	}
	if g.nextSpawn < MinSpawnTicks || g.nextSpawn > MaxSpawnTicks {
		t.Errorf("next threshold %d outside [%d,%d]", g.nextSpawn, MinSpawnTicks, MaxSpawnTicks)
	}
}

func TestSpawnThresholdRange(t *testing.T) {
	g, _, _ := newTestGame(t, 9, 1)
	seen := map[int]bool{}
	for range 2000 {
		g.sinceSpawn = g.nextSpawn - 1
		g.scheduleSpawn()
		if g.nextSpawn < MinSpawnTicks || g.nextSpawn > MaxSpawnTicks {
			t.Fatalf("threshold %d outside [%d,%d]", g.nextSpawn, MinSpawnTicks, MaxSpawnTicks)
		}
		seen[g.nextSpawn] = true
		removeKind(g, registry.KindBall)
	}
	if len(seen) < 100 {
		t.Errorf("only %d distinct thresholds drawn", len(seen))
	}
}

func TestSpawnSkippedWhenPoolExhausted(t *testing.T) {
	g, _, keys := newTestGame(t, 5, 1)
	startPlaying(t, g, keys)

	for g.balls.Available() > 0 {
		if _, err := g.balls.Alloc(); err != nil {
			t.Fatal(err)
		}
	}
	balls := g.BallsInPlay()
	spawned := g.ballsSpawned

	g.sinceSpawn = g.nextSpawn - 1
	res := g.Step()

	if res.State != StatePlaying {
		t.Fatalf("state = %s, expected the tick to continue", res.State)
	}
	if g.BallsInPlay() != balls || g.ballsSpawned != spawned {
		t.Errorf("balls = %d (spawned %d), expected %d (%d)", g.BallsInPlay(), g.ballsSpawned, balls, spawned)
	}
	if g.sinceSpawn != 0 {
		t.Errorf("spawn counter = %d, expected reset to 0", g.sinceSpawn)
	}
	if g.nextSpawn < MinSpawnTicks || g.nextSpawn > MaxSpawnTicks {
		t.Errorf("next threshold %d outside [%d,%d]", g.nextSpawn, MinSpawnTicks, MaxSpawnTicks)
	}
}

func TestNewFailsWhenFieldDoesNotFit(t *testing.T) {
	g, _, _ := newTestGame(t, 1, 1)

	g.bricks = pool.New[Brick](BrickCapacity - 1)
	g.live.Reset()
	err := g.setup()
	if err == nil {
		t.Fatal("setup with a short brick pool should fail")
	}
	if !errors.Is(err, pool.ErrCapacityExceeded) {
		t.Errorf("error %v should wrap ErrCapacityExceeded", err)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Glyphs.Ball = "OO"
	if _, err := New(cfg, core.RuntimeConfig{Workers: 1}, core.NewScreen(Width, ScreenHeight), core.NewKeyBuffer(1)); err == nil {
		t.Error("New should reject a multi-rune glyph")
	}
}

// playScript runs a fixed key pattern and returns the snapshot hash after
// every tick.
func playScript(t *testing.T, seed int64, workers, ticks int) []uint64 {
	t.Helper()

	g, _, keys := newTestGame(t, seed, workers)
	startPlaying(t, g, keys)

	hashes := make([]uint64, 0, ticks)
	for i := range ticks {
		switch {
		case i%7 < 3:
			keys.Push('d')
		case i%7 < 6:
			keys.Push('a')
		}
		res := g.Step()
		snap := g.Snapshot()
		hashes = append(hashes, snap.Hash())
		if res.State.Terminal() {
			break
		}
	}
	return hashes
}

func TestGameDeterminism(t *testing.T) {
	run1 := playScript(t, 12345, 1, 1500)
	run2 := playScript(t, 12345, 1, 1500)

	if len(run1) != len(run2) {
		t.Fatalf("runs lasted %d and %d ticks", len(run1), len(run2))
	}
	for i := range run1 {
		if run1[i] != run2[i] {
			t.Fatalf("Determinism failed at tick %d: %d != %d", i+1, run1[i], run2[i])
		}
	}
}

func TestConcurrentUpdateMatchesSequential(t *testing.T) {
	for _, seed := range []int64{1, 42, 777} {
		sequential := playScript(t, seed, 1, 1200)
		concurrent := playScript(t, seed, 8, 1200)

		if len(sequential) != len(concurrent) {
			t.Fatalf("seed %d: runs lasted %d and %d ticks", seed, len(sequential), len(concurrent))
		}
		for i := range sequential {
			if sequential[i] != concurrent[i] {
				t.Fatalf("seed %d: state diverged at tick %d", seed, i+1)
			}
		}
	}
}

func TestRebuildStartsFreshSession(t *testing.T) {
	g, screen, keys := newTestGame(t, 1, 2)
	startPlaying(t, g, keys)
	clearField(g)
	mustAddBrick(t, g, 5, 3)
	mustAddBall(t, g, 4, 2, 1, -1)
	g.Step()
	if g.State() != StateGameClear || g.Score() != 1 {
		t.Fatalf("setup: state %s score %d", g.State(), g.Score())
	}

	keys.Push(' ')
	next, err := g.Rebuild()
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	t.Cleanup(next.Close)
	if keys.Len() != 0 {
		t.Errorf("rebuild left %d stale keys buffered", keys.Len())
	}

	if next.State() != StateTitle || next.Score() != 0 || next.Tick() != 0 {
		t.Errorf("rebuilt game not fresh: state %s score %d tick %d", next.State(), next.Score(), next.Tick())
	}
	if next.BricksRemaining() != BrickCapacity || next.BallsInPlay() != 1 {
		t.Errorf("rebuilt field: %d bricks, %d balls", next.BricksRemaining(), next.BallsInPlay())
	}
	if res := next.Step(); res.State != StateTitle {
		t.Errorf("key pressed before rebuild started the new session: state %s", res.State)
	}
	if next.best != 1 {
		t.Errorf("best score = %d, expected 1", next.best)
	}
	if next.workers.Workers() != 2 {
		t.Errorf("workers = %d, expected 2", next.workers.Workers())
	}
	if !strings.Contains(screen.String(), "B r e a K I N G") {
		t.Error("rebuild should show the title again")
	}
}

func TestResult(t *testing.T) {
	g, _, keys := newTestGame(t, 1, 1)
	startPlaying(t, g, keys)
	removeKind(g, registry.KindBall)
	mustAddBall(t, g, 10, Height-1, 1, 1)
	g.Step()

	res := g.Result()
	if res.Outcome != StateGameOver || res.Ticks != 1 || res.BallsSpawned != 1 || res.Score != 0 {
		t.Errorf("Result() = %+v", res)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
		terminal bool
	}{
		{StateTitle, "title", false},
		{StatePlaying, "playing", false},
		{StateGameOver, "gameover", true},
		{StateGameClear, "clear", true},
		{State(9), "unknown", false},
	}

	for _, tc := range tests {
		if got := tc.state.String(); got != tc.expected {
			t.Errorf("State(%d).String() = %q, expected %q", tc.state, got, tc.expected)
		}
		if got := tc.state.Terminal(); got != tc.terminal {
			t.Errorf("State(%d).Terminal() = %v, expected %v", tc.state, got, tc.terminal)
		}
	}
}
