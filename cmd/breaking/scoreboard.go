package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/breaking/internal/platform/tui"
	"github.com/vovakirdan/breaking/internal/storage"
)

var scoreboardCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "Browse results interactively",
	Long: `Open a scrollable table of stored results.

Controls:
  Up/Down/j/k  - Scroll
  Tab          - Switch between high scores and recent games
  Q/Esc        - Quit`,
	Args: cobra.NoArgs,
	RunE: runScoreboard,
}

func runScoreboard(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open results database: %w", err)
	}
	defer store.Close()

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return tui.RunScoreboard(store, width, height)
}
