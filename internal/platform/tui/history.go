package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bounce/internal/storage"
)

// History layout constants
const (
	minWidthForDetail = 100 // Minimum width to show the impacts panel
	detailWidth       = 34  // Width of the impacts panel
	maxRuns           = 100 // Max runs to load
	maxDetailImpacts  = 12  // Impacts listed in the panel
)

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Reload key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Reload, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Reload},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "newer"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "older"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for browsing saved runs.
type HistoryModel struct {
	store      *storage.Store
	runs       []storage.Run
	impacts    []storage.Impact // Impacts of the highlighted run
	table      table.Model
	help       help.Model
	keys       HistoryKeyMap
	width      int
	height     int
	err        error
	quitting   bool
	goingBack  bool // True if user pressed back (not quit)
	showDetail bool // Whether to show the impacts panel
}

// NewHistoryModel creates a new history model and loads the recent runs.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:      store,
		keys:       DefaultHistoryKeyMap(),
		help:       h,
		width:      width,
		height:     height,
		showDetail: width >= minWidthForDetail,
	}

	m.table = m.createTable()
	m.loadRuns()

	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Run", Width: 8},
		{Title: "Preset", Width: 9},
		{Title: "g", Width: 8},
		{Title: "e", Width: 5},
		{Title: "Bounces", Width: 7},
		{Title: "Peak", Width: 7},
		{Title: "Rest", Width: 7},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRuns loads the most recent runs.
func (m *HistoryModel) loadRuns() {
	m.runs = nil
	m.err = nil
	if m.store != nil {
		m.runs, m.err = m.store.RecentRuns(maxRuns)
	}
	m.updateTableRows()
	m.table.GotoTop()
	m.loadImpacts()
}

// loadImpacts loads the impacts of the highlighted run.
func (m *HistoryModel) loadImpacts() {
	m.impacts = nil
	run, ok := m.SelectedRun()
	if !ok || m.store == nil {
		return
	}
	impacts, err := m.store.Impacts(run.ID)
	if err == nil {
		m.impacts = impacts
	}
}

// updateTableRows updates the table with the loaded runs.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			shortID(r.ID),
			r.Preset,
			fmt.Sprintf("%.3f", r.Gravity),
			fmt.Sprintf("%.2f", r.Restitution),
			fmt.Sprintf("%d", r.Bounces),
			fmt.Sprintf("%.2f", r.PeakHeight),
			fmt.Sprintf("%.2fs", r.SettleSecs),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
}

// shortID returns the first block of a run UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// SelectedRun returns the highlighted run.
func (m HistoryModel) SelectedRun() (storage.Run, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return storage.Run{}, false
	}
	return m.runs[i], true
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Reload):
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			m.loadImpacts()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showDetail = m.width >= minWidthForDetail
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("RECENT DROPS (%d)", len(m.runs))
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableRendered := boxStyle.Render(m.renderTableContent())
	if m.showDetail && len(m.runs) > 0 {
		detail := boxStyle.Width(detailWidth).Render(m.renderDetail())
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", detail))
	} else {
		b.WriteString(tableRendered)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or an explanatory message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("History is unavailable:\nno run database is open.")
	case m.err != nil:
		return emptyStyle.Render("Could not load runs:\n" + m.err.Error())
	case len(m.runs) == 0:
		return emptyStyle.Render("No drops recorded yet.\nLet a ball come to rest to save one!")
	}

	return m.table.View()
}

// renderDetail lists the impacts of the highlighted run.
func (m HistoryModel) renderDetail() string {
	run, ok := m.SelectedRun()
	if !ok {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", shortID(run.ID))
	fmt.Fprintf(&b, "from %.2f m at %+.2f m/s\n", run.StartHeight, run.StartVelocity)
	b.WriteString(strings.Repeat("-", detailWidth-4))
	b.WriteString("\n")
	b.WriteString("  #      t     in    out\n")

	for i, imp := range m.impacts {
		if i == maxDetailImpacts {
			fmt.Fprintf(&b, "  ... %d more\n", len(m.impacts)-maxDetailImpacts)
			break
		}
		fmt.Fprintf(&b, "%3d %6.2fs %6.2f %6.2f\n", imp.Seq, imp.AtSecs, imp.Incoming, imp.Outgoing)
	}
	return b.String()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history browser on its own.
func RunHistory(store *storage.Store, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
