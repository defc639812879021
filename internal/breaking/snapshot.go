package breaking

import (
	"github.com/vovakirdan/breaking/internal/registry"
)

// Snapshot is a flat copy of the simulation state for determinism tests.
// Uses primitive types only for stable serialization.
type Snapshot struct {
	Tick       uint64
	State      State
	Score      int
	PaddleX    int
	SinceSpawn int
	NextSpawn  int
	Lost       bool

	// Live balls in registry order, 4 ints each: X, Y, DX, DY
	BallData []int

	// Live bricks in registry order, 2 ints each: X, Y
	BrickData []int

	RNGState uint64
}

// Snapshot returns the current game state as a Snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:       g.tick,
		State:      g.state,
		Score:      g.Score(),
		PaddleX:    g.Paddle().X,
		SinceSpawn: g.sinceSpawn,
		NextSpawn:  g.nextSpawn,
		Lost:       g.lost,
		BallData:   make([]int, 0, g.live.Count(registry.KindBall)*4),
		BrickData:  make([]int, 0, g.live.Count(registry.KindBrick)*2),
		RNGState:   g.rng.State(),
	}

	for _, ref := range g.live.Refs() {
		switch ref.Kind {
		case registry.KindBall:
			b := g.balls.Get(ref.Handle)
			snap.BallData = append(snap.BallData, b.X, b.Y, b.DX, b.DY)
		case registry.KindBrick:
			b := g.bricks.Get(ref.Handle)
			snap.BrickData = append(snap.BrickData, b.X, b.Y)
		}
	}
	return snap
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Tick
	h = h*31 + uint64(snap.State)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Score)      //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.PaddleX)    //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.SinceSpawn) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.NextSpawn)  //#nosec G115 -- hash computation
	if snap.Lost {
		h = h*31 + 1
	}

	for _, v := range snap.BallData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	for _, v := range snap.BrickData {
		h = h*31 + uint64(v) //#nosec G115 -- hash computation
	}

	h = h*31 + snap.RNGState

	return h
}
