package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-reversi/internal/games/modes"
	"github.com/vovakirdan/tui-reversi/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the stats sidebar
	sidebarWidth       = 24  // Width of the stats sidebar
	maxHistoryRows     = 100 // Max games to load
)

// historyFilters are the tabs of the history screen; "" shows every mode.
var historyFilters = []string{"", modes.Single, modes.Hotseat, storage.ModeOnline}

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
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

// HistoryModel is the Bubble Tea model for the finished games table.
type HistoryModel struct {
	store       *storage.Store
	games       []storage.GameRecord // all loaded games, newest first
	stats       map[string]*storage.ModeStats
	filter      int // index into historyFilters
	loadErr     error
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a history screen and loads the recent games.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// load reads games and stats from the store.
func (m *HistoryModel) load() {
	if m.store == nil {
		return
	}
	games, err := m.store.RecentGames(maxHistoryRows)
	if err != nil {
		m.loadErr = err
		return
	}
	stats, err := m.store.Stats()
	if err != nil {
		m.loadErr = err
		return
	}
	m.games = games
	m.stats = stats
	m.updateTableRows()
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Mode", Width: 8},
		{Title: "Black", Width: 10},
		{Title: "White", Width: 10},
		{Title: "Score", Width: 7},
		{Title: "Result", Width: 11},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, help, and margins
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

// visibleGames returns the games matching the selected mode tab.
func (m HistoryModel) visibleGames() []storage.GameRecord {
	mode := historyFilters[m.filter]
	if mode == "" {
		return m.games
	}
	var out []storage.GameRecord
	for _, g := range m.games {
		if g.Mode == mode {
			out = append(out, g)
		}
	}
	return out
}

// historyRow formats one stored game for the table.
func historyRow(g storage.GameRecord) table.Row {
	result := "draw"
	switch {
	case g.EndReason != storage.EndReasonCompleted:
		result = g.EndReason
	case g.Winner != "":
		result = strings.ToLower(g.Winner) + " won"
	}
	return table.Row{
		g.CreatedAt.Format("Jan 02 15:04"),
		g.Mode,
		g.BlackName,
		g.WhiteName,
		fmt.Sprintf("%d:%d", g.BlackDisks, g.WhiteDisks),
		result,
	}
}

// updateTableRows updates the table with the filtered games.
func (m *HistoryModel) updateTableRows() {
	games := m.visibleGames()
	rows := make([]table.Row, len(games))
	for i, g := range games {
		rows[i] = historyRow(g)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
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
			return m, nil

		case key.Matches(msg, m.keys.NextMode):
			m.filter = (m.filter + 1) % len(historyFilters)
			m.updateTableRows()
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			m.filter = (m.filter + len(historyFilters) - 1) % len(historyFilters)
			m.updateTableRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "GAME HISTORY"
	if mode := historyFilters[m.filter]; mode != "" {
		title = fmt.Sprintf("GAME HISTORY - %s", strings.ToUpper(mode))
	}
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	content := boxStyle.Render(m.renderTableContent())

	if m.showSidebar {
		sidebar := boxStyle.Width(sidebarWidth).Render(m.renderStats())
		content = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, "  ", content)
	}
	b.WriteString(centerBlock(content, m.width))

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))

	return b.String()
}

// renderStats renders the per-mode totals.
func (m HistoryModel) renderStats() string {
	var sb strings.Builder
	sb.WriteString("Totals\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for _, mode := range historyFilters[1:] {
		st, ok := m.stats[mode]
		if !ok {
			continue
		}
		style := lipgloss.NewStyle()
		if historyFilters[m.filter] == mode {
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s: %d games", mode, st.Games)))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  B %d  W %d  = %d\n", st.BlackWins, st.WhiteWins, st.Draws))
	}
	return sb.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("History is not available:\nno database is open.")
	case m.loadErr != nil:
		return emptyStyle.Render("Cannot load history:\n" + m.loadErr.Error())
	case len(m.visibleGames()) == 0:
		return emptyStyle.Render("No games recorded yet.\nFinish a game to see it here!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}
