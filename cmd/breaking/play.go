package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/breaking/internal/breaking"
	"github.com/vovakirdan/breaking/internal/core"
	"github.com/vovakirdan/breaking/internal/platform/tui"
	platformterm "github.com/vovakirdan/breaking/internal/platform/term"
	"github.com/vovakirdan/breaking/internal/storage"
)

var flagDirect bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play BreaKING",
	Long: `Start a session in the terminal.

Controls (default keys, see 'breaking config'):
  A/D or arrows  - Move paddle
  Space          - Start
  R              - Retry (after game over or clear)
  Q              - Quit (after game over or clear)
  Ctrl+S         - Save a screenshot to ~/.breaking/screenshots
  Ctrl+Y         - Copy the screen to the clipboard
  Ctrl+C         - Quit at any time

Examples:
  breaking play
  breaking play --seed 42
  breaking play --direct --workers 4
  breaking play --config ./my-keys.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagDirect, "direct", false, "Draw straight to the terminal with tcell instead of Bubble Tea")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Check terminal size early
	needW, needH := breaking.Width, breaking.ScreenHeight+1
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil && (w < needW || h < needH) {
		return fmt.Errorf("terminal is %dx%d, need at least %dx%d", w, h, needW, needH)
	}

	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	// Open results storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open results database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	rt := core.RuntimeConfig{Seed: flagSeed, Workers: flagWorkers}
	player := storage.DefaultPlayer
	if u, userErr := user.Current(); userErr == nil && u.Username != "" {
		player = u.Username
	}

	if flagDirect {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return platformterm.Run(ctx, platformterm.Options{
			Config:  cfg,
			Runtime: rt,
			Store:   store,
			Player:  player,
			Logger:  logger,
		})
	}

	return tui.Run(tui.Options{
		Config:  cfg,
		Runtime: rt,
		Store:   store,
		Player:  player,
		Logger:  logger,
	})
}
