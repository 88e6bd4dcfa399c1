package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-reversi/internal/core"
	"github.com/vovakirdan/tui-reversi/internal/registry"
)

// MenuChoice is what a menu entry leads to.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoiceLocal
	ChoiceHostOnline
	ChoiceJoinOnline
	ChoiceHistory
	ChoiceQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Choice MenuChoice
	Mode   string // registered mode for ChoiceLocal
	Title  string
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	quitting bool
	selected *MenuItem
}

// menuItems lists local modes first, then online play when available.
func menuItems(online, history bool) []MenuItem {
	modes := registry.List()
	items := make([]MenuItem, 0, len(modes)+4)

	// Single player is the most common choice; registry order is alphabetical.
	for i := len(modes) - 1; i >= 0; i-- {
		items = append(items, MenuItem{Choice: ChoiceLocal, Mode: modes[i].ID, Title: modes[i].Title})
	}
	if online {
		items = append(items,
			MenuItem{Choice: ChoiceHostOnline, Title: "Online: host a game"},
			MenuItem{Choice: ChoiceJoinOnline, Title: "Online: join a game"},
		)
	}
	if history {
		items = append(items, MenuItem{Choice: ChoiceHistory, Title: "Game history"})
	}
	return append(items, MenuItem{Choice: ChoiceQuit, Title: "Quit"})
}

// NewMenuModel creates a new menu model. Online entries are shown only when a
// coordinator is available, history only with a store.
func NewMenuModel(online, history bool, width, height int) MenuModel {
	return MenuModel{
		items:  menuItems(online, history),
		width:  width,
		height: height,
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
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = core.Wrap(m.cursor-1, len(m.items))

	case MenuActionDown:
		m.cursor = core.Wrap(m.cursor+1, len(m.items))

	case MenuActionSelect:
		selected := m.items[m.cursor]
		if selected.Choice == ChoiceQuit {
			m.quitting = true
			return m, tea.Quit
		}
		m.selected = &selected
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  R E V E R S I  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a game", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%-22s", cursor, item.Title), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Q: Quit"), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}
