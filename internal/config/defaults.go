package config

import (
	_ "embed"
)

//go:embed defaults/breaking.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Keys: KeyBindings{
			Left:  "a",
			Right: "d",
			Start: " ",
			Retry: "r",
			Quit:  "q",
		},
		Glyphs: Glyphs{
			Ball:   "O",
			Brick:  "*",
			Paddle: "=",
			Wall:   "H",
		},
		Colors: Colors{
			Ball:   "bright_white",
			Brick:  "bright_yellow",
			Paddle: "bright_cyan",
			Wall:   "gray",
		},
		Update: UpdateConfig{
			Workers: 1,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
