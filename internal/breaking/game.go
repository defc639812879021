// Package breaking implements the BreaKING simulation: pooled entities,
// the per-tick update/collision/render pipeline and the
// Title -> Playing -> GameOver/GameClear state machine.
//
// A Game never blocks. Drivers call Step once per frame, feed key presses
// through a core.KeySource and pace frames with FrameInterval.
package breaking

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/breaking/internal/config"
	"github.com/vovakirdan/breaking/internal/core"
	"github.com/vovakirdan/breaking/internal/pool"
	"github.com/vovakirdan/breaking/internal/registry"
)

// Field and gameplay constants.
const (
	Width  = 30 // Field width including both side walls
	Height = 27 // Field height including top and bottom walls

	ScoreRow     = Height + 2 // Row of the score line, below the field
	ScreenHeight = ScoreRow + 1

	BrickRows     = 3
	BrickCols     = Width - 2
	BrickCapacity = BrickRows * BrickCols
	BallCapacity  = 10

	PaddleWidth  = 3
	PaddleStep   = 2
	PaddleRow    = Height - 5
	PaddleStartX = 5

	FirstSpawnTicks = 350 // Ticks before the first extra ball
	MinSpawnTicks   = 400
	MaxSpawnTicks   = 600

	FrameInterval = 100 * time.Millisecond
)

// field is the playfield; its outer ring is wall.
var field = core.NewRect(0, 0, Width, Height)

// State is the current phase of a session.
type State int

const (
	StateTitle State = iota
	StatePlaying
	StateGameOver
	StateGameClear
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateTitle:
		return "title"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "gameover"
	case StateGameClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has ended.
func (s State) Terminal() bool {
	return s == StateGameOver || s == StateGameClear
}

// StepResult reports what a single Step did.
type StepResult struct {
	State State
	Score int
	Ended bool // The session reached GameOver or GameClear during this step
	Retry bool // The retry key was pressed on the summary screen
	Quit  bool // The quit key was pressed on the summary screen
}

// Result summarizes a finished session.
type Result struct {
	Score        int
	Outcome      State
	Ticks        uint64
	BallsSpawned int
}

type cell struct{ x, y int }

// Game owns the entity pools, the live registry and the update workers
// for one session. Retry builds a new Game; see Rebuild.
type Game struct {
	cfg     config.Config
	runtime core.RuntimeConfig
	glyphs  config.GlyphSet
	keymap  config.Keymap
	screen  core.Renderer
	keys    core.KeySource
	log     *log.Logger
	pace    func()
	best    int
	rng     *SimpleRNG

	balls   *pool.Pool[Ball]
	bricks  *pool.Pool[Brick]
	paddles *pool.Pool[Paddle]
	paddle  pool.Handle
	live    *registry.Registry
	workers *updatePool

	// removalMu guards brick removal together with the score.
	removalMu sync.Mutex

	state        State
	tick         uint64
	sinceSpawn   int
	nextSpawn    int
	ballsSpawned int
	lost         bool
	removedCells []cell
	ballScratch  []pool.Handle
}

// Option customizes a Game.
type Option func(*Game)

// WithLogger sets the logger for state changes and spawns.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.log = l
		}
	}
}

// WithPacer sets a function called once per Playing tick, after rendering.
// Drivers that already run on a timer leave it unset.
func WithPacer(pace func()) Option {
	return func(g *Game) {
		if pace != nil {
			g.pace = pace
		}
	}
}

// WithBestScore sets the best previous score shown on the summary screen.
func WithBestScore(best int) Option {
	return func(g *Game) {
		g.best = best
	}
}

// New builds a session: bricks, the paddle and the first ball are
// allocated, the update workers started and the title screen drawn.
// A pool that cannot hold the initial field is an error.
func New(cfg config.Config, rt core.RuntimeConfig, screen core.Renderer, keys core.KeySource, opts ...Option) (*Game, error) {
	glyphs, err := cfg.Glyphs.Runes()
	if err != nil {
		return nil, err
	}
	keymap, err := cfg.Keys.Keymap()
	if err != nil {
		return nil, err
	}

	workers := cfg.Update.Workers
	if rt.Workers > 0 {
		workers = rt.Workers
	}
	rt.Workers = workers

	g := &Game{
		cfg:          cfg,
		runtime:      rt,
		glyphs:       glyphs,
		keymap:       keymap,
		screen:       screen,
		keys:         keys,
		log:          log.New(io.Discard),
		pace:         func() {},
		rng:          NewSimpleRNG(rt.Seed),
		balls:        pool.New[Ball](BallCapacity),
		bricks:       pool.New[Brick](BrickCapacity),
		paddles:      pool.New[Paddle](1),
		live:         registry.New(BallCapacity + BrickCapacity + 1),
		removedCells: make([]cell, 0, BrickCols),
		ballScratch:  make([]pool.Handle, 0, BallCapacity),
		nextSpawn:    FirstSpawnTicks,
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.setup(); err != nil {
		return nil, err
	}

	g.workers = newUpdatePool(workers)
	g.screen.SetCursorVisible(false)
	g.drawTitle()
	return g, nil
}

// setup fills the field: bricks row by row, the paddle, then one ball.
func (g *Game) setup() error {
	for row := range BrickRows {
		for col := 1; col <= BrickCols; col++ {
			if _, err := g.addBrick(col, row+1); err != nil {
				return fmt.Errorf("breaking: allocate brick (%d,%d): %w", col, row+1, err)
			}
		}
	}

	h, err := g.paddles.Alloc()
	if err != nil {
		return fmt.Errorf("breaking: allocate paddle: %w", err)
	}
	p := g.paddles.Get(h)
	p.X, p.Y = PaddleStartX, PaddleRow
	p.PrevX, p.PrevY = p.X, p.Y
	g.paddle = h
	g.live.Add(registry.Ref{Kind: registry.KindPaddle, Handle: h})

	if _, err := g.spawnBall(); err != nil {
		return fmt.Errorf("breaking: allocate first ball: %w", err)
	}
	return nil
}

func (g *Game) addBrick(x, y int) (pool.Handle, error) {
	h, err := g.bricks.Alloc()
	if err != nil {
		return pool.NoHandle, err
	}
	b := g.bricks.Get(h)
	b.X, b.Y = x, y
	b.PrevX, b.PrevY = x, y
	g.live.Add(registry.Ref{Kind: registry.KindBrick, Handle: h})
	return h, nil
}

func (g *Game) addBall(x, y, dx, dy int) (pool.Handle, error) {
	h, err := g.balls.Alloc()
	if err != nil {
		return pool.NoHandle, err
	}
	b := g.balls.Get(h)
	b.X, b.Y = x, y
	b.PrevX, b.PrevY = x, y
	b.DX, b.DY = dx, dy
	g.live.Add(registry.Ref{Kind: registry.KindBall, Handle: h})
	return h, nil
}

// spawnBall places a ball at a random spawn cell moving down and right.
func (g *Game) spawnBall() (pool.Handle, error) {
	x := g.rng.Range(2, Width-2)
	y := g.rng.Range(5, 6)
	h, err := g.addBall(x, y, 1, 1)
	if err != nil {
		return pool.NoHandle, err
	}
	g.ballsSpawned++
	return h, nil
}

// Step advances the session by one frame.
func (g *Game) Step() StepResult {
	res := StepResult{}

	switch g.state {
	case StateTitle:
		g.stepTitle()
	case StatePlaying:
		res.Ended = g.stepPlaying()
	case StateGameOver, StateGameClear:
		res.Retry, res.Quit = g.stepSummary()
	}

	res.State = g.state
	res.Score = g.Score()
	return res
}

func (g *Game) stepTitle() {
	for {
		r, ok := g.keys.PollKey()
		if !ok {
			return
		}
		if g.keymap.Action(r) == core.ActionStart {
			g.screen.ClearScreen()
			g.setState(StatePlaying)
			return
		}
	}
}

func (g *Game) stepSummary() (retry, quit bool) {
	for {
		r, ok := g.keys.PollKey()
		if !ok {
			return false, false
		}
		switch g.keymap.Action(r) {
		case core.ActionRetry:
			return true, false
		case core.ActionQuit:
			return false, true
		}
	}
}

// stepPlaying runs one tick. Returns true if the session ended.
func (g *Game) stepPlaying() bool {
	g.tick++
	g.scheduleSpawn()

	g.workers.Run(g.live.Refs(), g.update)

	g.removedCells = g.removedCells[:0]
	g.ballScratch = g.ballScratch[:0]
	for _, ref := range g.live.Refs() {
		if ref.Kind == registry.KindBall {
			g.ballScratch = append(g.ballScratch, ref.Handle)
		}
	}
	for _, h := range g.ballScratch {
		g.collide(g.balls.Get(h))
	}

	g.render()
	g.pace()

	switch {
	case g.live.Count(registry.KindBrick) == 0:
		g.setState(StateGameClear)
	case g.lost:
		g.setState(StateGameOver)
	default:
		return false
	}
	g.drawSummary()
	return true
}

func (g *Game) scheduleSpawn() {
	g.sinceSpawn++
	if g.sinceSpawn < g.nextSpawn {
		return
	}

	if _, err := g.spawnBall(); err != nil {
		if !errors.Is(err, pool.ErrCapacityExceeded) {
			g.log.Error("spawn ball", "err", err)
		}
		g.log.Debug("ball spawn skipped", "tick", g.tick, "balls", g.balls.Len())
	} else {
		g.log.Debug("ball spawned", "tick", g.tick, "balls", g.balls.Len())
	}

	g.sinceSpawn = 0
	g.nextSpawn = g.rng.Range(MinSpawnTicks, MaxSpawnTicks)
}

// update advances one entity. Runs on an update worker.
func (g *Game) update(ref registry.Ref) {
	switch ref.Kind {
	case registry.KindBall:
		g.balls.Get(ref.Handle).Update()
	case registry.KindBrick:
		g.bricks.Get(ref.Handle).Update()
	case registry.KindPaddle:
		g.paddles.Get(ref.Handle).Update(g.keys, g.keymap)
	}
}

func (g *Game) render() {
	for _, ref := range g.live.Refs() {
		switch ref.Kind {
		case registry.KindBall:
			g.balls.Get(ref.Handle).ClearPrevious(g.screen)
		case registry.KindBrick:
			g.bricks.Get(ref.Handle).ClearPrevious(g.screen)
		case registry.KindPaddle:
			g.paddles.Get(ref.Handle).ClearPrevious(g.screen)
		}
	}
	for _, c := range g.removedCells {
		g.screen.ClearGlyph(c.x, c.y)
	}

	for y := range Height {
		for x := range Width {
			if field.OnBorder(x, y) {
				g.screen.DrawGlyph(x, y, g.glyphs.Wall)
			}
		}
	}

	for _, ref := range g.live.Refs() {
		switch ref.Kind {
		case registry.KindBall:
			g.balls.Get(ref.Handle).Draw(g.screen, g.glyphs)
		case registry.KindBrick:
			g.bricks.Get(ref.Handle).Draw(g.screen, g.glyphs)
		case registry.KindPaddle:
			g.paddles.Get(ref.Handle).Draw(g.screen, g.glyphs)
		}
	}

	drawText(g.screen, 0, ScoreRow, fmt.Sprintf("SCORE: %d", g.Score()))
}

func (g *Game) setState(s State) {
	if s == g.state {
		return
	}
	g.log.Info("state change", "from", g.state, "to", s, "tick", g.tick, "score", g.Score())
	g.state = s
}

// State returns the current state.
func (g *Game) State() State {
	return g.state
}

// Score returns the paddle's score.
func (g *Game) Score() int {
	g.removalMu.Lock()
	defer g.removalMu.Unlock()
	return g.Paddle().Score
}

// Paddle returns the session's paddle.
func (g *Game) Paddle() *Paddle {
	return g.paddles.Get(g.paddle)
}

// Tick returns the number of Playing ticks run so far.
func (g *Game) Tick() uint64 {
	return g.tick
}

// BricksRemaining returns the number of live bricks.
func (g *Game) BricksRemaining() int {
	return g.live.Count(registry.KindBrick)
}

// BallsInPlay returns the number of live balls.
func (g *Game) BallsInPlay() int {
	return g.live.Count(registry.KindBall)
}

// Result summarizes the session so far.
func (g *Game) Result() Result {
	return Result{
		Score:        g.Score(),
		Outcome:      g.state,
		Ticks:        g.tick,
		BallsSpawned: g.ballsSpawned,
	}
}

// Close stops the update workers and returns every slot to its pool.
func (g *Game) Close() {
	g.workers.Close()
	for _, ref := range g.live.Refs() {
		switch ref.Kind {
		case registry.KindBall:
			g.balls.Free(ref.Handle)
		case registry.KindBrick:
			g.bricks.Free(ref.Handle)
		case registry.KindPaddle:
			g.paddles.Free(ref.Handle)
		}
	}
	g.live.Reset()
}

// Rebuild closes g and starts a fresh session on the same screen and
// keys. Keys still buffered from the old session are discarded. The new
// session's seed is drawn from g's RNG, so a seeded run stays reproducible
// across retries.
func (g *Game) Rebuild() (*Game, error) {
	best := max(g.best, g.Score())
	g.Close()
	if d, ok := g.keys.(interface{ Drain() }); ok {
		d.Drain()
	}

	rt := g.runtime
	rt.Seed = int64(g.rng.Next() >> 1) //#nosec G115 -- shifted to fit in int64
	opts := []Option{
		WithLogger(g.log),
		WithPacer(g.pace),
		WithBestScore(best),
	}
	return New(g.cfg, rt, g.screen, g.keys, opts...)
}
