package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/breaking/internal/config"
)

// Control is a platform-level command that never reaches the game.
type Control int

const (
	ControlNone Control = iota
	ControlQuit
	ControlScreenshot
	ControlCopy
)

// KeyMapper translates Bubble Tea key messages into the key presses the
// game polls. Arrow keys stand in for the configured left/right keys.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	left  rune
	right rune
}

// NewKeyMapper creates a key mapper for the given bindings.
// Bindings are expected to be validated already.
func NewKeyMapper(keys config.KeyBindings) *KeyMapper {
	return &KeyMapper{
		left:  []rune(keys.Left)[0],
		right: []rune(keys.Right)[0],
	}
}

// MapKey translates a key message.
// Returns the rune to hand to the game (ok=false if none) and any control command.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (r rune, ok bool, ctl Control) {
	switch msg.String() {
	case "ctrl+c":
		return 0, false, ControlQuit
	case "ctrl+s":
		return 0, false, ControlScreenshot
	case "ctrl+y":
		return 0, false, ControlCopy
	case "left":
		return km.left, true, ControlNone
	case "right":
		return km.right, true, ControlNone
	case " ", "space":
		return ' ', true, ControlNone
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return msg.Runes[0], true, ControlNone
	}
	return 0, false, ControlNone
}
