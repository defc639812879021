package core

// Action represents a semantic game action, abstracted from physical key presses.
// Key bindings translate runes into actions so the simulation never
// hardcodes a layout.
type Action int

const (
	ActionNone  Action = iota
	ActionLeft         // A - move paddle left
	ActionRight        // D - move paddle right
	ActionStart        // Space - leave the title screen
	ActionRetry        // R - new session after game over / clear
	ActionQuit         // Q - end the session after game over / clear
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionStart:
		return "Start"
	case ActionRetry:
		return "Retry"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// DefaultKeyBufferSize is how many unread key presses a KeyBuffer holds.
const DefaultKeyBufferSize = 16

// KeyBuffer is a bounded FIFO of key presses shared between the goroutine
// that reads the terminal and the simulation that polls it.
// When full, new presses are dropped.
type KeyBuffer struct {
	keys chan rune
}

// NewKeyBuffer creates a buffer holding up to size unread keys.
func NewKeyBuffer(size int) *KeyBuffer {
	if size <= 0 {
		size = DefaultKeyBufferSize
	}
	return &KeyBuffer{keys: make(chan rune, size)}
}

// Push buffers a key press. Returns false if the buffer was full.
func (b *KeyBuffer) Push(r rune) bool {
	select {
	case b.keys <- r:
		return true
	default:
		return false
	}
}

// PollKey implements KeySource.
func (b *KeyBuffer) PollKey() (rune, bool) {
	select {
	case r := <-b.keys:
		return r, true
	default:
		return 0, false
	}
}

// Drain discards every buffered key. Drivers call it between sessions.
func (b *KeyBuffer) Drain() {
	for {
		if _, ok := b.PollKey(); !ok {
			return
		}
	}
}

// Len returns the number of unread keys.
func (b *KeyBuffer) Len() int {
	return len(b.keys)
}

var _ KeySource = (*KeyBuffer)(nil)
