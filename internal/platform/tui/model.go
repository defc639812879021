package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/breaking/internal/breaking"
	"github.com/vovakirdan/breaking/internal/config"
	"github.com/vovakirdan/breaking/internal/core"
	"github.com/vovakirdan/breaking/internal/storage"
)

// Options configures a Model.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Store   *storage.Store // Optional; results are not saved when nil
	Player  string         // Recorded with each result; empty means storage.DefaultPlayer
	Logger  *log.Logger
}

// session owns the running Game. Retry swaps the game, and an SSH
// disconnect may close it from another goroutine, so Model copies share it.
type session struct {
	mu     sync.Mutex
	game   *breaking.Game
	closed bool
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.game.Close()
		s.closed = true
	}
}

// Model is the Bubble Tea model for running a BreaKING session.
type Model struct {
	sess   *session
	screen *core.Screen
	keys   *core.KeyBuffer
	mapper *KeyMapper
	store  *storage.Store
	player string
	log    *log.Logger

	width    int
	height   int
	status   string
	quitting bool
}

// NewModel builds the screen, the key buffer and the first session.
func NewModel(opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// Use time-based seed if not specified
	rt := opts.Runtime
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	palette, err := opts.Config.Palette()
	if err != nil {
		return Model{}, err
	}
	screen := core.NewScreen(breaking.Width, breaking.ScreenHeight)
	for r, c := range palette {
		screen.SetPalette(r, c)
	}

	best := 0
	if opts.Store != nil {
		if best, err = opts.Store.HighScore(); err != nil {
			logger.Warn("cannot load best score", "err", err)
			best = 0
		}
	}

	keys := core.NewKeyBuffer(core.DefaultKeyBufferSize)
	game, err := breaking.New(opts.Config, rt, screen, keys,
		breaking.WithLogger(logger),
		breaking.WithBestScore(best),
	)
	if err != nil {
		return Model{}, fmt.Errorf("tui: cannot start session: %w", err)
	}
	logger.Debug("session started", "seed", rt.Seed, "workers", rt.Workers)

	return Model{
		sess:   &session{game: game},
		screen: screen,
		keys:   keys,
		mapper: NewKeyMapper(opts.Config.Keys),
		store:  opts.Store,
		player: opts.Player,
		log:    logger,
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(breaking.FrameInterval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey buffers game keys and runs platform controls directly.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r, ok, ctl := m.mapper.MapKey(msg)
	switch ctl {
	case ControlQuit:
		return m.quit()
	case ControlScreenshot:
		path, err := m.saveScreenshot()
		if err != nil {
			m.log.Warn("screenshot failed", "err", err)
			m.status = "screenshot failed"
		} else {
			m.status = "saved " + path
		}
		return m, nil
	case ControlCopy:
		if err := clipboard.WriteAll(m.screen.String()); err != nil {
			m.log.Warn("clipboard copy failed", "err", err)
			m.status = "clipboard unavailable"
		} else {
			m.status = "screen copied to clipboard"
		}
		return m, nil
	}

	if ok && !m.keys.Push(r) {
		m.log.Debug("key dropped, buffer full", "key", string(r), "buffered", m.keys.Len())
	}
	return m, nil
}

// handleTick advances the session by one frame.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	m.sess.mu.Lock()
	if m.sess.closed {
		m.sess.mu.Unlock()
		m.quitting = true
		return m, tea.Quit
	}
	res := m.sess.game.Step()
	if res.Ended {
		m.saveResult(m.sess.game.Result())
	}
	var rebuildErr error
	if res.Retry {
		var game *breaking.Game
		if game, rebuildErr = m.sess.game.Rebuild(); rebuildErr == nil {
			m.sess.game = game
			m.status = ""
		} else {
			m.sess.closed = true
		}
	}
	m.sess.mu.Unlock()

	switch {
	case res.Quit:
		return m.quit()
	case rebuildErr != nil:
		m.log.Error("cannot restart session", "err", rebuildErr)
		m.quitting = true
		return m, tea.Quit
	}

	return m, tickCmd(breaking.FrameInterval)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.sess.close()
	return m, tea.Quit
}

// Close stops the running game. It is safe to call more than once and
// from any goroutine.
func (m Model) Close() {
	m.sess.close()
}

// saveResult records a finished session. Failures are logged and play continues.
func (m *Model) saveResult(res breaking.Result) {
	if m.store == nil {
		return
	}
	id, err := m.store.SaveResult(storage.Result{
		Player:       m.player,
		Score:        res.Score,
		Outcome:      res.Outcome.String(),
		Ticks:        int64(res.Ticks), //#nosec G115 -- tick counts stay far below MaxInt64
		BallsSpawned: res.BallsSpawned,
	})
	if err != nil {
		m.log.Warn("cannot save result", "err", err)
		return
	}
	m.log.Info("result saved", "id", id, "score", res.Score, "outcome", res.Outcome)
}

// saveScreenshot writes the current screen to ~/.breaking/screenshots.
func (m *Model) saveScreenshot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".breaking", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("breaking_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	needW, needH := breaking.Width, breaking.ScreenHeight+1
	if m.width > 0 && (m.width < needW || m.height < needH) {
		return renderTooSmall(m.width, m.height, needW, needH)
	}

	var sb strings.Builder
	sb.WriteString(RenderScreen(m.screen))
	sb.WriteRune('\n')
	sb.WriteString(renderStatus(m.status))
	return sb.String()
}

// Game returns the session currently driven by the model.
func (m Model) Game() *breaking.Game {
	m.sess.mu.Lock()
	defer m.sess.mu.Unlock()
	return m.sess.game
}

// Run starts the Bubble Tea program on the local terminal.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	model.Close()
	return err
}
