package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bounce/internal/config"
	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/registry"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the scene picker.
// Left and right cycle through the gravity presets applied to the drop.
type MenuModel struct {
	items       []registry.SceneInfo
	presets     []config.PresetInfo
	cursor      int
	preset      int
	width       int
	height      int
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	quitting    bool
	selected    *registry.SceneInfo // Set when user selects a scene
	openHistory bool                // True if user pressed Tab for history
}

// NewMenuModel creates a new menu model.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	presets := config.Presets()
	current := 0
	for i, p := range presets {
		if string(p.Name) == cfg.Drop.Preset {
			current = i
		}
	}

	return MenuModel{
		items:     registry.List(),
		presets:   presets,
		preset:    current,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionPrevPreset:
		m.setPreset(m.preset - 1)

	case MenuActionNextPreset:
		m.setPreset(m.preset + 1)

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start the scene
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// setPreset selects preset i, wrapping around, and applies it to the drop.
func (m *MenuModel) setPreset(i int) {
	if len(m.presets) == 0 {
		return
	}
	m.preset = (i%len(m.presets) + len(m.presets)) % len(m.presets)
	//nolint:errcheck // Presets come from config.Presets and always apply
	config.ApplyPreset(&m.config.Drop, m.presets[m.preset].Name)
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  B O U N C E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a scene", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	d := m.config.Drop
	gravity := fmt.Sprintf("< %s  g = %.3f m/s² >", d.Preset, d.Physics.Gravity)
	b.WriteString(centerText(gravity, m.width))
	b.WriteString("\n")
	launch := fmt.Sprintf("from %.1f m at %+.1f m/s, restitution %.2f",
		d.Drop.StartHeight, d.Drop.StartVelocity, d.Physics.Restitution)
	b.WriteString(centerText(menuDimStyle.Render(launch), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Scene  |  Left/Right: Gravity  |  Enter: Drop  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected scene, or nil if none selected.
func (m MenuModel) Selected() *registry.SceneInfo {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the run history.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// Config returns the current runtime config, including resizes and the
// chosen gravity preset.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
