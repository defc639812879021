package term

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/breaking/internal/breaking"
	"github.com/vovakirdan/breaking/internal/config"
	"github.com/vovakirdan/breaking/internal/core"
	"github.com/vovakirdan/breaking/internal/storage"
)

// ErrScreenTooSmall is returned when the terminal cannot hold the field.
var ErrScreenTooSmall = errors.New("term: screen too small")

// rebuild starts the next session after a retry.
var rebuild = (*breaking.Game).Rebuild

// Options configures Run.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Store   *storage.Store // Optional; results are not saved when nil
	Player  string
	Logger  *log.Logger

	// Screen overrides the terminal screen. An injected screen must already
	// be initialized and is left open when Run returns.
	Screen tcell.Screen
}

// Run plays sessions until the quit key, ctrl+c/esc, or ctx is done.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("term: cannot create screen: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("term: cannot init screen: %w", err)
		}
		defer screen.Fini()
	}

	if w, h := screen.Size(); w < breaking.Width || h < breaking.ScreenHeight {
		return fmt.Errorf("%w: %dx%d, need %dx%d", ErrScreenTooSmall, w, h, breaking.Width, breaking.ScreenHeight)
	}

	palette, err := opts.Config.Palette()
	if err != nil {
		return err
	}

	rt := opts.Runtime
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	best := 0
	if opts.Store != nil {
		if best, err = opts.Store.HighScore(); err != nil {
			logger.Warn("cannot load best score", "err", err)
			best = 0
		}
	}

	keys := core.NewKeyBuffer(core.DefaultKeyBufferSize)
	renderer := NewRenderer(screen, palette)
	pace := func() {
		screen.Show()
		time.Sleep(breaking.FrameInterval)
	}

	game, err := breaking.New(opts.Config, rt, renderer, keys,
		breaking.WithLogger(logger),
		breaking.WithPacer(pace),
		breaking.WithBestScore(best),
	)
	if err != nil {
		return err
	}
	defer func() {
		if game != nil {
			game.Close()
		}
	}()
	screen.Show()

	// The poller sees done closed once the interrupt wakes it.
	quit := make(chan struct{})
	done := make(chan struct{})
	defer screen.PostEvent(tcell.NewEventInterrupt(nil)) //nolint:errcheck // Best-effort wakeup
	defer close(done)
	go pollKeys(screen, opts.Config.Keys, keys, quit, done)

	idle := time.NewTicker(breaking.FrameInterval)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-quit:
			return nil
		default:
		}

		res := game.Step()
		screen.Show()

		if res.Ended {
			saveResult(opts.Store, opts.Player, game.Result(), logger)
		}
		switch {
		case res.Quit:
			return nil
		case res.Retry:
			if game, err = restart(game); err != nil {
				return err
			}
			screen.Show()
		}

		// Playing frames are paced by the game itself.
		if res.State != breaking.StatePlaying {
			select {
			case <-ctx.Done():
				return nil
			case <-quit:
				return nil
			case <-idle.C:
			}
		}
	}
}

// restart replaces game with a fresh session. On failure the closed game
// is returned so callers never hold a nil game.
func restart(game *breaking.Game) (*breaking.Game, error) {
	next, err := rebuild(game)
	if err != nil {
		return game, fmt.Errorf("term: cannot restart session: %w", err)
	}
	return next, nil
}

// pollKeys forwards key events into keys until done is closed. ctrl+c and
// esc close quit instead.
func pollKeys(screen tcell.Screen, bindings config.KeyBindings, keys *core.KeyBuffer, quit, done chan struct{}) {
	left, right := []rune(bindings.Left)[0], []rune(bindings.Right)[0]
	quitOnce := false

	for {
		ev := screen.PollEvent()
		select {
		case <-done:
			return
		default:
		}
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			r, ok, stop := mapKey(ev, left, right)
			if stop && !quitOnce {
				quitOnce = true
				close(quit)
			}
			if ok {
				keys.Push(r)
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// mapKey translates a key event. Arrow keys stand in for the configured
// left/right keys.
func mapKey(ev *tcell.EventKey, left, right rune) (r rune, ok, quit bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return 0, false, true
	case tcell.KeyLeft:
		return left, true, false
	case tcell.KeyRight:
		return right, true, false
	case tcell.KeyRune:
		return ev.Rune(), true, false
	}
	return 0, false, false
}

func saveResult(store *storage.Store, player string, res breaking.Result, logger *log.Logger) {
	if store == nil {
		return
	}
	_, err := store.SaveResult(storage.Result{
		Player:       player,
		Score:        res.Score,
		Outcome:      res.Outcome.String(),
		Ticks:        int64(res.Ticks), //#nosec G115 -- tick counts stay far below MaxInt64
		BallsSpawned: res.BallsSpawned,
	})
	if err != nil {
		logger.Warn("cannot save result", "err", err)
		return
	}
	logger.Info("result saved", "score", res.Score, "outcome", res.Outcome)
}
