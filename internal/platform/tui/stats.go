package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-folio/internal/core"
	"github.com/vovakirdan/tui-folio/internal/storage"
)

// Stats layout constants
const (
	maxStatsRows = 100 // Max rows to load per tab
	statsChrome  = 8   // Lines used by title, tabs, borders and help
)

// StatsTab selects the table shown by the stats screen.
type StatsTab int

const (
	TabSections StatsTab = iota
	TabSnapshots
)

// String returns the tab title.
func (t StatsTab) String() string {
	if t == TabSnapshots {
		return "Snapshots"
	}
	return "Sections"
}

// statsKeys narrows the help view to the bindings the stats screen handles.
type statsKeys struct {
	KeyMap
}

// ShortHelp returns key bindings for the short help view.
func (k statsKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k statsKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Back, k.Quit},
	}
}

// StatsModel is the Bubble Tea model for the analytics screen.
type StatsModel struct {
	store     *storage.Store
	tab       StatsTab
	sections  []storage.SectionStats
	snapshots []storage.Snapshot
	table     table.Model
	help      help.Model
	keys      KeyMap
	theme     Theme
	err       error
	width     int
	height    int
	quitting  bool
}

// NewStatsModel creates a new stats model and loads the first tab.
func NewStatsModel(store *storage.Store, width, height int) StatsModel {
	h := help.New()
	h.ShowAll = false

	m := StatsModel{
		store:  store,
		help:   h,
		keys:   DefaultKeyMap(),
		theme:  NewTheme(nil),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

// createTable creates a table with columns for the current tab.
func (m *StatsModel) createTable() table.Model {
	var columns []table.Column
	switch m.tab {
	case TabSnapshots:
		columns = []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Source", Width: 18},
			{Title: "Size", Width: 10},
			{Title: "File", Width: 24},
			{Title: "Saved", Width: 14},
		}
	default:
		columns = []table.Column{
			{Title: "Section", Width: 16},
			{Title: "Views", Width: 7},
			{Title: "Dwell", Width: 10},
			{Title: "Last", Width: 14},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-statsChrome, 3)),
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

// load reads the current tab from storage and rebuilds the table.
func (m *StatsModel) load() {
	m.err = nil
	m.sections, m.snapshots = nil, nil
	if m.store != nil {
		switch m.tab {
		case TabSnapshots:
			m.snapshots, m.err = m.store.RecentSnapshots(maxStatsRows)
		default:
			m.sections, m.err = m.store.TopSections(maxStatsRows)
		}
	}
	m.table = m.createTable()
	m.table.SetRows(m.rows())
	m.table.GotoTop()
}

// rows formats the loaded data for the table.
func (m StatsModel) rows() []table.Row {
	switch m.tab {
	case TabSnapshots:
		rows := make([]table.Row, len(m.snapshots))
		for i, s := range m.snapshots {
			rows[i] = table.Row{
				fmt.Sprintf("%d", s.ID),
				s.Source,
				fmt.Sprintf("%dx%d", s.Width, s.Height),
				filepath.Base(s.Path),
				s.CreatedAt.Format("Jan 02 15:04"),
			}
		}
		return rows
	default:
		rows := make([]table.Row, len(m.sections))
		for i, s := range m.sections {
			rows[i] = table.Row{
				s.SectionID,
				fmt.Sprintf("%d", s.Views),
				s.TotalDwell.Round(time.Second).String(),
				s.LastViewed.Format("Jan 02 15:04"),
			}
		}
		return rows
	}
}

// Init initializes the stats model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats screen.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keys.Action(msg) {
		case core.ActionQuit, core.ActionBack:
			m.quitting = true
			return m, tea.Quit

		case core.ActionNext, core.ActionPrev:
			m.tab = (m.tab + 1) % 2
			m.load()
			return m, nil

		case core.ActionUp, core.ActionDown:
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats screen.
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.SiteTitle.MarginBottom(1).Render("FOLIO STATS"))
	b.WriteString("\n\n")

	tabs := make([]string, 0, 2)
	for _, t := range []StatsTab{TabSections, TabSnapshots} {
		if t == m.tab {
			tabs = append(tabs, m.theme.ActiveTitle.Render(t.String()))
		} else {
			tabs = append(tabs, m.theme.Muted.Render(" "+t.String()+" "))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	b.WriteString(m.theme.Panel.Padding(0, 1).Render(m.renderTableContent()))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(m.help.View(statsKeys{m.keys})))
	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m StatsModel) renderTableContent() string {
	empty := m.theme.Muted.Italic(true).Padding(2, 4)
	switch {
	case m.err != nil:
		return m.theme.Error.Render("Could not read analytics: " + m.err.Error())
	case m.store == nil:
		return empty.Render("No analytics database.")
	case len(m.table.Rows()) == 0 && m.tab == TabSnapshots:
		return empty.Render("No snapshots yet.\nPress ctrl+s in 'folio view' to save one.")
	case len(m.table.Rows()) == 0:
		return empty.Render("No section views recorded yet.\nRun 'folio browse' to record some.")
	}
	return m.table.View()
}

// Tab returns the selected tab.
func (m StatsModel) Tab() StatsTab {
	return m.tab
}

// Rows returns the rows of the current table.
func (m StatsModel) Rows() []table.Row {
	return m.table.Rows()
}

// IsQuitting returns true if the user asked to leave.
func (m StatsModel) IsQuitting() bool {
	return m.quitting
}

// RunStats runs the stats screen.
func RunStats(store *storage.Store, width, height int) error {
	model := NewStatsModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
