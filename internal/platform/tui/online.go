package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-reversi/internal/core"
	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/multiplayer"
)

// OnlineState represents the current state of the online flow.
type OnlineState int

const (
	OnlineStateHostWaiting   OnlineState = iota // Hosting, waiting for joiner
	OnlineStateJoinEnterCode                    // Entering join code
	OnlineStateJoinWaiting                      // Waiting for the coordinator to answer
	OnlineStateInMatch                          // In active match
	OnlineStateMatchEnded                       // Match has ended
)

// joinCodeLength matches the coordinator's lobby codes.
const joinCodeLength = 6

// OnlineModel handles lobby creation or joining and then plays the match. The board is a
// local mirror of the authoritative engine on the coordinator: the first state received
// replaces it, later ones are applied only when newer.
type OnlineModel struct {
	state       OnlineState
	width       int
	height      int
	session     *multiplayer.ChannelSession
	coordinator *multiplayer.Coordinator

	// Lobby state
	lobbyCode string
	codeInput textinput.Model
	lobbyErr  string

	// Match state
	matchID  multiplayer.MatchID
	side     reversi.Player
	opponent string
	mirror   *reversi.Reversi
	synced   bool
	cursor   reversi.Cell
	status   []string
	flash    flash
	endLine  string

	screen *core.Screen
	keys   BoardKeyMap
	help   help.Model

	backToMenu bool
	quitting   bool
}

// NewOnlineModel creates the online flow for a session. host selects between creating
// a lobby and entering a join code.
func NewOnlineModel(host bool, session *multiplayer.ChannelSession, coordinator *multiplayer.Coordinator, width, height int) OnlineModel {
	ti := textinput.New()
	ti.Placeholder = "ABC123"
	ti.CharLimit = joinCodeLength
	ti.Width = joinCodeLength + 1
	ti.Prompt = "> "

	m := OnlineModel{
		state:       OnlineStateJoinEnterCode,
		width:       width,
		height:      height,
		session:     session,
		coordinator: coordinator,
		codeInput:   ti,
		mirror:      reversi.New(),
		cursor:      reversi.NewCell(3, 3),
		screen:      core.NewScreen(boardWidth, boardHeight),
		keys:        DefaultBoardKeyMap(),
		help:        help.New(),
	}
	if host {
		m.state = OnlineStateHostWaiting
	} else {
		m.codeInput.Focus()
	}
	return m
}

// Init creates the lobby when hosting. Coordinator events are delivered by the owning
// AppModel, which is the only reader of the session channel.
func (m OnlineModel) Init() tea.Cmd {
	if m.state == OnlineStateHostWaiting {
		m.coordinator.Send(multiplayer.CreateLobbyMsg{SessionID: m.session.ID()})
		return nil
	}
	return textinput.Blink
}

// Update handles messages.
func (m OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case clearFlashMsg:
		m.flash.clear(msg)
		return m, nil

	case multiplayer.LobbyCreatedEvent:
		m.lobbyCode = msg.Code
		return m, nil

	case multiplayer.LobbyErrorEvent:
		m.lobbyErr = msg.Message
		if m.state == OnlineStateJoinWaiting {
			m.state = OnlineStateJoinEnterCode
			m.codeInput.Focus()
		}
		return m, nil

	case multiplayer.MatchStartedEvent:
		m.matchID = msg.MatchID
		m.side = msg.Side
		m.opponent = msg.Opponent
		m.state = OnlineStateInMatch
		m.codeInput.Blur()
		return m, nil

	case multiplayer.StateEvent:
		m.applyState(msg)
		return m, nil

	case multiplayer.MoveRejectedEvent:
		return m, m.flash.set(fmt.Sprintf("%s: %s", msg.Cell.Notation(), msg.Reason))

	case multiplayer.MatchEndedEvent:
		m.state = OnlineStateMatchEnded
		m.endLine = endLine(msg, m.side)
		return m, nil
	}

	if m.state == OnlineStateJoinEnterCode {
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyState mirrors an authoritative state and logs the move it contains.
func (m *OnlineModel) applyState(evt multiplayer.StateEvent) {
	if evt.MatchID != m.matchID {
		return
	}
	next, err := evt.Decode()
	if err != nil {
		m.flash.text = "Bad state from server"
		return
	}

	prev := m.mirror.State()
	if !m.synced {
		m.mirror.SetState(next)
		m.synced = true
		return
	}
	if !m.mirror.SyncState(next) {
		return
	}

	m.status = append(m.status, reversi.DescribeMove(prev, next)...)
	if len(m.status) > maxStatusLines {
		m.status = m.status[len(m.status)-maxStatusLines:]
	}
}

// endLine describes the end of a match from the player's point of view.
func endLine(evt multiplayer.MatchEndedEvent, side reversi.Player) string {
	if evt.Reason == multiplayer.MatchEndReasonDisconnect {
		return "Match aborted: a player left"
	}
	if !evt.HasWinner {
		return "Game over. Draw!"
	}
	if evt.Winner == side {
		return fmt.Sprintf("Game over. You won %d to %d", max(evt.Black, evt.White), min(evt.Black, evt.White))
	}
	return fmt.Sprintf("Game over. You lost %d to %d", min(evt.Black, evt.White), max(evt.Black, evt.White))
}

func (m OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leave()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case OnlineStateHostWaiting:
		switch MapKeyToMenuAction(msg) {
		case MenuActionBack, MenuActionQuit:
			m.coordinator.Send(multiplayer.CancelLobbyMsg{SessionID: m.session.ID(), Code: m.lobbyCode})
			m.backToMenu = true
		}
		return m, nil

	case OnlineStateJoinEnterCode:
		switch msg.String() {
		case "esc":
			m.backToMenu = true
			return m, nil
		case "enter":
			code := strings.ToUpper(strings.TrimSpace(m.codeInput.Value()))
			if len(code) != joinCodeLength {
				m.lobbyErr = fmt.Sprintf("Codes have %d characters", joinCodeLength)
				return m, nil
			}
			m.state = OnlineStateJoinWaiting
			m.lobbyErr = ""
			m.codeInput.Blur()
			m.coordinator.Send(multiplayer.JoinLobbyMsg{SessionID: m.session.ID(), Code: code})
			return m, nil
		}
		var cmd tea.Cmd
		m.codeInput, cmd = m.codeInput.Update(msg)
		return m, cmd

	case OnlineStateInMatch:
		return m.handleMatchKey(msg)

	case OnlineStateMatchEnded:
		switch MapKeyToMenuAction(msg) {
		case MenuActionBack, MenuActionSelect, MenuActionQuit:
			m.backToMenu = true
		}
	}

	return m, nil
}

func (m OnlineModel) handleMatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.MapKey(msg)
	switch action {
	case core.ActionQuit, core.ActionBack:
		m.leave()
		m.backToMenu = true
		return m, nil

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll

	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		dc, dr := action.Delta()
		m.cursor = reversi.NewCell(
			core.Clamp(m.cursor.Column+dc, 0, reversi.Size-1),
			core.Clamp(m.cursor.Row+dr, 0, reversi.Size-1),
		)

	case core.ActionPlace:
		st := m.mirror.State()
		if st.Phase() != reversi.PhaseRunning || st.CurrentPlayer() != m.side {
			return m, m.flash.set("Not your turn")
		}
		if !reversi.IsLegalMove(st, m.side, m.cursor) {
			return m, m.flash.set(fmt.Sprintf("Illegal move at %s", m.cursor.Notation()))
		}
		m.coordinator.Send(multiplayer.MoveMsg{SessionID: m.session.ID(), MatchID: m.matchID, Cell: m.cursor})

	case core.ActionUndo, core.ActionNewGame:
		return m, m.flash.set("Not available in online play")
	}
	return m, nil
}

// leave tells the coordinator this session is gone from the match.
func (m OnlineModel) leave() {
	if m.state == OnlineStateInMatch {
		m.coordinator.Send(multiplayer.LeaveMatchMsg{SessionID: m.session.ID(), MatchID: m.matchID})
	}
}

// View renders the current state.
func (m OnlineModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case OnlineStateHostWaiting:
		return m.viewLobby("HOSTING GAME",
			"Share this code with your opponent:",
			fmt.Sprintf("[ %s ]", m.lobbyCodeOrDots()),
			"Waiting for player to join...",
			m.lobbyErrLine(),
			"Esc: Cancel")
	case OnlineStateJoinEnterCode:
		return m.viewLobby("JOIN GAME",
			"Enter the game code:",
			m.codeInput.View(),
			m.lobbyErrLine(),
			"Enter: Connect  |  Esc: Back")
	case OnlineStateJoinWaiting:
		return m.viewLobby("CONNECTING",
			fmt.Sprintf("Joining game: %s", strings.ToUpper(m.codeInput.Value())),
			"",
			"Please wait...",
			"")
	}

	return m.viewMatch()
}

func (m OnlineModel) lobbyCodeOrDots() string {
	if m.lobbyCode == "" {
		return "......"
	}
	return m.lobbyCode
}

func (m OnlineModel) lobbyErrLine() string {
	if m.lobbyErr == "" {
		return ""
	}
	return colorStyles[core.ColorError].Render("Error: " + m.lobbyErr)
}

func (m OnlineModel) viewLobby(title string, lines ...string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m OnlineModel) viewMatch() string {
	st := m.mirror.State()
	yourTurn := m.state == OnlineStateInMatch && st.Phase() == reversi.PhaseRunning && st.CurrentPlayer() == m.side

	var hints []reversi.Cell
	if yourTurn {
		hints = reversi.PossibleMoves(st, m.side)
	}
	drawBoard(m.screen, st.Field(), boardView{cursor: m.cursor, showCursor: yourTurn, hints: hints})

	players := Players{Black: "you", White: m.opponent}
	if m.side == reversi.White {
		players = Players{Black: m.opponent, White: "you"}
	}
	turn := turnLine(st, players)
	helpLine := m.help.View(m.keys)
	if m.state == OnlineStateMatchEnded {
		turn = m.endLine
		helpLine = "Enter/Esc: back to menu"
	}

	return renderPanel(panel{
		width:  m.width,
		title:  fmt.Sprintf("Online match vs %s", m.opponent),
		board:  RenderScreen(m.screen),
		state:  st,
		turn:   turn,
		status: m.status,
		flash:  m.flash.text,
		help:   helpLine,
	})
}

// State returns the current online state.
func (m OnlineModel) State() OnlineState {
	return m.state
}

// BackToMenu returns true if user wants to go back to menu.
func (m OnlineModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if user wants to quit entirely.
func (m OnlineModel) IsQuitting() bool {
	return m.quitting
}
