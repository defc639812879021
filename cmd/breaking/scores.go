package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/breaking/internal/storage"
)

var (
	flagLimit  int
	flagRecent bool
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the top results",
	Long: `Display the best finished sessions and overall stats.

Examples:
  breaking scores
  breaking scores --limit 5
  breaking scores --recent
  breaking scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of results to show")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the most recent results instead of the best")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every stored result")
}

func runScores(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open results database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if flagClear {
		if err := store.ClearResults(); err != nil {
			return err
		}
		fmt.Fprintln(out, "All results deleted.")
		return nil
	}

	title := "High Scores"
	var results []storage.Result
	if flagRecent {
		title = "Recent Games"
		results, err = store.RecentResults(flagLimit)
	} else {
		results, err = store.TopResults(flagLimit)
	}
	if err != nil {
		return fmt.Errorf("cannot retrieve results: %w", err)
	}

	fmt.Fprintf(out, "BreaKING - %s\n\n", title)

	if len(results) == 0 {
		fmt.Fprintln(out, "No games recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'breaking play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Fprintf(out, "  %-4s  %-6s  %-8s  %-7s  %-12s  %s\n", "Rank", "Score", "Outcome", "Ticks", "Player", "Date")
	fmt.Fprintf(out, "  %-4s  %-6s  %-8s  %-7s  %-12s  %s\n", "----", "-----", "-------", "-----", "------", "----")

	for i, r := range results {
		fmt.Fprintf(out, "  %-4d  %-6d  %-8s  %-7d  %-12s  %s\n",
			i+1, r.Score, r.Outcome, r.Ticks, r.Player, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Games: %d  Clears: %d  Best: %d  Average: %.1f\n",
		stats.Games, stats.Clears, stats.HighScore, stats.AvgScore)
	return nil
}
