package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-reversi/internal/multiplayer"
	"github.com/vovakirdan/tui-reversi/internal/registry"
	"github.com/vovakirdan/tui-reversi/internal/storage"
)

// AppConfig wires an AppModel to its collaborators. Store, Coordinator and Session are
// optional; without a coordinator the menu offers no online play.
type AppConfig struct {
	Username    string
	Options     registry.Options
	Store       *storage.Store
	Coordinator *multiplayer.Coordinator
	Session     *multiplayer.ChannelSession
	Logger      *log.Logger

	// StartMode opens a local game in this mode instead of the menu.
	StartMode string
}

type screen int

const (
	screenMenu screen = iota
	screenBoard
	screenOnline
	screenHistory
)

// sessionEventMsg wraps an event read from the session channel.
type sessionEventMsg struct {
	evt multiplayer.SessionEvent
}

// AppModel manages the full session flow: menu -> game or history -> menu.
// It is the top-level model for both local play and SSH sessions.
type AppModel struct {
	cfg    AppConfig
	screen screen
	width  int
	height int

	menu    MenuModel
	board   BoardModel
	online  OnlineModel
	history HistoryModel

	quitting bool
}

// NewAppModel creates the application model.
func NewAppModel(cfg AppConfig, width, height int) AppModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Options.Logger == nil {
		cfg.Options.Logger = cfg.Logger
	}

	m := AppModel{
		cfg:    cfg,
		width:  width,
		height: height,
	}
	m.menu = m.newMenu()
	if cfg.StartMode != "" {
		if board, err := m.newBoard(cfg.StartMode); err == nil {
			m.board = board
			m.screen = screenBoard
		} else {
			cfg.Logger.Warn("cannot start game", "mode", cfg.StartMode, "err", err)
		}
	}
	return m
}

func (m AppModel) onlineEnabled() bool {
	return m.cfg.Coordinator != nil && m.cfg.Session != nil
}

func (m AppModel) newMenu() MenuModel {
	return NewMenuModel(m.onlineEnabled(), m.cfg.Store != nil, m.width, m.height)
}

func (m AppModel) newBoard(mode string) (BoardModel, error) {
	players := Players{Black: m.cfg.Username}
	return NewLocalGame(mode, m.cfg.Options, players, m.cfg.Store, m.width, m.height)
}

// waitForSessionEvent reads the next coordinator event. There is exactly one of these
// pending at a time for the lifetime of the program.
func (m AppModel) waitForSessionEvent() tea.Cmd {
	if !m.onlineEnabled() {
		return nil
	}
	events := m.cfg.Session.Events()
	done := m.cfg.Session.Done()
	return func() tea.Msg {
		select {
		case evt := <-events:
			return sessionEventMsg{evt: evt}
		case <-done:
			return nil
		}
	}
}

// Init initializes the session.
func (m AppModel) Init() tea.Cmd {
	return m.waitForSessionEvent()
}

// Update routes messages to the active screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	if evt, ok := msg.(sessionEventMsg); ok {
		next := m.waitForSessionEvent()
		if m.screen != screenOnline {
			m.cfg.Logger.Debug("dropping session event outside online play", "event", evt.evt)
			return m, next
		}
		updated, cmd := m.online.Update(evt.evt)
		m.online = updated.(OnlineModel)
		return m.afterOnline(tea.Batch(cmd, next))
	}

	switch m.screen {
	case screenBoard:
		updated, cmd := m.board.Update(msg)
		m.board = updated.(BoardModel)
		if m.board.IsQuitting() {
			m.quitting = true
			return m, tea.Quit
		}
		if m.board.BackToMenu() {
			return m.toMenu()
		}
		return m, cmd

	case screenOnline:
		updated, cmd := m.online.Update(msg)
		m.online = updated.(OnlineModel)
		return m.afterOnline(cmd)

	case screenHistory:
		updated, cmd := m.history.Update(msg)
		m.history = updated.(HistoryModel)
		if m.history.IsQuitting() {
			m.quitting = true
			return m, tea.Quit
		}
		if m.history.IsGoingBack() {
			return m.toMenu()
		}
		return m, cmd
	}

	return m.updateMenu(msg)
}

func (m AppModel) afterOnline(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.online.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.online.BackToMenu() {
		return m.toMenu()
	}
	return m, cmd
}

func (m AppModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.menu.Update(msg)
	m.menu = updated.(MenuModel)

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	switch selected.Choice {
	case ChoiceLocal:
		board, err := m.newBoard(selected.Mode)
		if err != nil {
			// Shouldn't happen since menu only shows registered modes
			m.cfg.Logger.Error("cannot create game", "mode", selected.Mode, "err", err)
			return m.toMenu()
		}
		m.board = board
		m.screen = screenBoard
		return m, m.board.Init()

	case ChoiceHostOnline, ChoiceJoinOnline:
		m.online = NewOnlineModel(selected.Choice == ChoiceHostOnline, m.cfg.Session, m.cfg.Coordinator, m.width, m.height)
		m.screen = screenOnline
		return m, m.online.Init()

	case ChoiceHistory:
		m.history = NewHistoryModel(m.cfg.Store, m.width, m.height)
		m.screen = screenHistory
		return m, m.history.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenBoard:
		return m.board.View()
	case screenOnline:
		return m.online.View()
	case screenHistory:
		return m.history.View()
	}
	return m.menu.View()
}

// Run starts a local program around an AppModel and blocks until it exits.
func Run(cfg AppConfig, width, height int, opts ...tea.ProgramOption) error {
	model := NewAppModel(cfg, width, height)
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)

	p := tea.NewProgram(model, opts...)
	_, err := p.Run()
	return err
}
