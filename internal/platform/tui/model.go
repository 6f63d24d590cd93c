package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/frame"
	"github.com/vovakirdan/tui-bounce/internal/registry"
	"github.com/vovakirdan/tui-bounce/internal/storage"
)

// Model is the Bubble Tea model that drives one scene.
//
// Ticks form a chain: each tick schedules the next one only while the scene is
// running and not paused. Restarting or resuming starts a new chain and
// orphans any tick still pending from the old one.
type Model struct {
	scene     registry.Scene
	screen    *core.Screen
	store     *storage.Store
	logger    *log.Logger
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	clock     frame.Clock
	state     core.SceneState

	chain      uint64
	ticking    bool // The current chain has a TickMsg pending
	paused     bool
	runSaved   bool   // Whether the current run has been saved
	lastRunID  string // ID of the most recently saved run
	embedded   bool   // Back returns to a parent model instead of quitting
	backToMenu bool
	quitting   bool
}

// NewModel resets scene for cfg and wraps it in a model.
// store and logger may be nil.
func NewModel(scene registry.Scene, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := scene.Reset(cfg); err != nil {
		return Model{}, fmt.Errorf("tui: cannot start %s: %w", scene.ID(), err)
	}

	return Model{
		scene:     scene,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:     store,
		logger:    logger,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		state:     scene.State(),
		chain:     nextChain(),
		ticking:   true, // Init schedules the first tick
	}, nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate, m.chain)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	switch m.keyMapper.MapKey(msg) {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.backToMenu = true
		if !m.embedded {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case core.ActionPause:
		if !m.state.Running {
			return m, nil
		}
		m.paused = !m.paused
		if m.paused {
			m.ticking = false
			return m, nil
		}
		return m.resume()

	case core.ActionRestart:
		return m.restart()
	}

	return m, nil
}

// restart drops the body again from its configured start state.
func (m Model) restart() (tea.Model, tea.Cmd) {
	if err := m.scene.Reset(m.config); err != nil {
		m.logger.Error("restart failed", "scene", m.scene.ID(), "error", err)
		return m, nil
	}
	m.state = m.scene.State()
	m.runSaved = false
	m.paused = false
	return m.resume()
}

// resume restarts the frame clock and starts a new tick chain.
func (m Model) resume() (tea.Model, tea.Cmd) {
	m.clock.Reset()
	m.chain = nextChain()
	m.ticking = true
	return m, tickCmd(m.config.TickRate, m.chain)
}

// handleResize processes window resize events.
// The scene is refitted to the new size, which restarts the drop.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m.restart()
}

// handleTick runs one frame of the scene.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Chain != m.chain || !m.ticking {
		return m, nil
	}
	m.ticking = false
	if m.paused || !m.state.Running {
		return m, nil
	}

	_, delta := m.clock.Tick(msg.Time)
	result := m.scene.Step(delta)
	m.state = result.State

	if !m.state.Running {
		m.saveRun()
		return m, nil
	}

	m.ticking = true
	return m, tickCmd(m.config.TickRate, m.chain)
}

// saveRun stores the finished run once.
func (m *Model) saveRun() {
	if m.runSaved {
		return
	}
	m.runSaved = true

	rec, ok := m.scene.(registry.Recorder)
	if !ok || m.store == nil {
		return
	}

	run := rec.Record()
	if !run.Settled {
		m.logger.Warn("run stopped without coming to rest, not saved", "scene", m.scene.ID())
		return
	}
	id, err := m.store.SaveRun(run)
	if err != nil {
		m.logger.Warn("could not save run", "scene", m.scene.ID(), "error", err)
		return
	}
	m.lastRunID = id
	m.logger.Debug("run saved", "id", id, "bounces", run.Bounces, "settle", run.SettleTime)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.scene.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".bounce", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.scene.ID(), timestamp)
	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "path", path, "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.scene.Render(m.screen)
	if m.paused {
		msg := " PAUSED  |  P to resume "
		m.screen.DrawTextColored((m.screen.Width()-len(msg))/2, m.screen.Height()/2, msg, core.ColorBanner)
	}

	return RenderScreen(m.screen)
}

// State returns the scene state seen at the latest frame.
func (m Model) State() core.SceneState {
	return m.state
}

// Ticking reports whether a tick is scheduled.
func (m Model) Ticking() bool {
	return m.ticking
}

// Paused reports whether the frame loop is paused.
func (m Model) Paused() bool {
	return m.paused
}

// LastRunID returns the ID of the last saved run, or "" if none was saved.
func (m Model) LastRunID() string {
	return m.lastRunID
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for scene.
func Run(scene registry.Scene, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model, err := NewModel(scene, store, cfg, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
