// breaking is a terminal brick breaker with a pooled, concurrently updated
// entity simulation.
//
// Usage:
//
//	breaking play            - Play in the terminal
//	breaking scores          - Print the top results and stats
//	breaking scoreboard      - Browse results interactively
//	breaking serve           - Start SSH server for remote play
//	breaking config          - Print the default configuration
//
// Global flags:
//
//	--seed <value>    - Set RNG seed for reproducible gameplay
//	--db <path>       - Set database path (default: ~/.breaking/scores.db)
//	--config <path>   - Use a custom configuration file
//	--log-file <path> - Write logs to a file
//	--debug           - Enable debug logging
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/breaking/internal/config"
)

var (
	// Global flags
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogFile string
	flagDebug   bool
	flagWorkers int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "breaking",
	Short: "BreaKING - break bricks in your terminal",
	Long: `BreaKING is a terminal brick breaker. Keep the balls in play with
the paddle and clear all 84 bricks. A new ball joins every few hundred
ticks, so the longer you last the busier the field gets.

Available commands:
  play        - Play in the terminal
  scores      - Print the top results and stats
  scoreboard  - Browse results interactively
  serve       - Start SSH server for remote play
  config      - Print the default configuration

Examples:
  breaking play
  breaking play --seed 42 --direct
  breaking scores --limit 5
  breaking serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.breaking/scores.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "Update goroutines (0 = use config)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(scoreboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds the CLI logger. Interactive commands pass io.Discard as
// fallback so log lines never land on the game screen.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	w := fallback
	closeFn := func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "breaking",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closeFn, nil
}

// loadConfig resolves the game configuration from --config and the default search path.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, fmt.Errorf("cannot load config: %w", err)
	}
	return cfg, nil
}
