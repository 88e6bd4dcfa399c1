package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-reversi/internal/core"
	"github.com/vovakirdan/tui-reversi/internal/games/modes"
	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/registry"
	"github.com/vovakirdan/tui-reversi/internal/storage"
)

// maxStatusLines bounds the move log under the board.
const maxStatusLines = 3

// gameEventBuffer sizes the engine event channel of a local game. A computer reply
// after a run of human skips produces several events in one call.
const gameEventBuffer = 64

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Players of a local game.
type Players struct {
	Black string
	White string
}

// BoardModel is the Bubble Tea model for a local game (hotseat or against the computer).
type BoardModel struct {
	game    registry.Game
	mode    string
	players Players
	store   *storage.Store
	logger  *log.Logger

	screen *core.Screen
	keys   BoardKeyMap
	help   help.Model

	state  *reversi.GameState
	cursor reversi.Cell
	status []string
	flash  flash
	saved  bool

	width      int
	height     int
	quitting   bool
	backToMenu bool
}

// NewBoardModel creates a board for the given game. store and logger may be nil.
func NewBoardModel(game registry.Game, mode string, players Players, store *storage.Store, logger *log.Logger, width, height int) BoardModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := help.New()
	h.Width = width

	return BoardModel{
		game:    game,
		mode:    mode,
		players: players,
		store:   store,
		logger:  logger,
		screen:  core.NewScreen(boardWidth, boardHeight),
		keys:    DefaultBoardKeyMap(),
		help:    h,
		state:   game.State(),
		cursor:  reversi.NewCell(3, 3),
		width:   width,
		height:  height,
	}
}

// NewLocalGame creates a game in the given registered mode with a board around it.
func NewLocalGame(mode string, opts registry.Options, players Players, store *storage.Store, width, height int) (BoardModel, error) {
	opts.EventBuffer = gameEventBuffer
	game, err := registry.Create(mode, opts)
	if err != nil {
		return BoardModel{}, err
	}
	if mode == modes.Single && players.White == "" {
		players.White = "CPU"
	}
	return NewBoardModel(game, mode, players, store, opts.Logger, width, height), nil
}

// Init initializes the model.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	}

	return m, nil
}

// humanToMove reports whether the keyboard may place a disk now.
func (m BoardModel) humanToMove() bool {
	if m.state.Phase() != reversi.PhaseRunning {
		return false
	}
	return m.mode != modes.Single || m.state.CurrentPlayer() != reversi.AIPlayer
}

// handleKey processes keyboard input.
func (m BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.MapKey(msg)

	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.backToMenu = true
		return m, nil

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		dc, dr := action.Delta()
		m.cursor = reversi.NewCell(
			core.Clamp(m.cursor.Column+dc, 0, reversi.Size-1),
			core.Clamp(m.cursor.Row+dr, 0, reversi.Size-1),
		)
		return m, nil

	case core.ActionPlace:
		return m.place()

	case core.ActionUndo:
		if !m.game.CanUndo() {
			return m, m.flash.set("Nothing to undo")
		}
		m.game.UndoMove()
		m.saved = false
		m.refresh()
		m.status = []string{"Move taken back"}
		return m, nil

	case core.ActionNewGame:
		m.game.NewGame()
		m.saved = false
		m.refresh()
		m.status = []string{"New game"}
		return m, nil
	}

	return m, nil
}

// place tries the cursor cell for the current player.
func (m BoardModel) place() (tea.Model, tea.Cmd) {
	if !m.humanToMove() {
		return m, m.flash.set("Not your turn")
	}
	if !m.game.Move(m.cursor) {
		return m, m.flash.set(fmt.Sprintf("Illegal move at %s", m.cursor.Notation()))
	}

	lines := m.refresh()
	m.status = append(m.status, lines...)
	if len(m.status) > maxStatusLines {
		m.status = m.status[len(m.status)-maxStatusLines:]
	}

	if m.state.Phase() == reversi.PhaseFinished {
		m.saveResult()
	}
	return m, nil
}

// refresh drains engine events into move descriptions and takes a new snapshot.
func (m *BoardModel) refresh() []string {
	lines, _ := reversi.DrainReport(m.state, m.game.Events())
	m.state = m.game.State()
	return lines
}

// saveResult records a finished game once.
func (m *BoardModel) saveResult() {
	if m.saved {
		return
	}
	m.saved = true

	black, white := m.state.Score()
	m.logger.Info("game finished", "mode", m.mode, "black", black, "white", white)

	if m.store == nil {
		return
	}
	rec, err := storage.RecordFromState(m.mode, m.players.Black, m.players.White, m.state, storage.EndReasonCompleted)
	if err == nil {
		_, err = m.store.SaveGame(rec)
	}
	if err != nil {
		m.logger.Error("cannot save game", "err", err)
	}
}

// hints returns the cells to highlight.
func (m BoardModel) hints() []reversi.Cell {
	if !m.humanToMove() {
		return nil
	}
	return m.game.PossibleMovesForPlayer(m.state.CurrentPlayer())
}

// View renders the board.
func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}

	title := registry.Title(m.mode)
	drawBoard(m.screen, m.state.Field(), boardView{
		cursor:     m.cursor,
		showCursor: m.state.Phase() == reversi.PhaseRunning,
		hints:      m.hints(),
	})

	return renderPanel(panel{
		width:  m.width,
		title:  title,
		board:  RenderScreen(m.screen),
		state:  m.state,
		turn:   turnLine(m.state, m.players),
		status: m.status,
		flash:  m.flash.text,
		help:   m.help.View(m.keys),
	})
}

// IsQuitting returns true if user requested to quit entirely.
func (m BoardModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m BoardModel) BackToMenu() bool {
	return m.backToMenu
}

// State returns the snapshot the board currently shows.
func (m BoardModel) State() *reversi.GameState {
	return m.state
}

// turnLine describes whose move it is, or the result.
func turnLine(st *reversi.GameState, players Players) string {
	name := func(p reversi.Player) string {
		n := players.Black
		if p == reversi.White {
			n = players.White
		}
		if n == "" {
			return p.String()
		}
		return fmt.Sprintf("%v (%s)", p, n)
	}

	switch st.Phase() {
	case reversi.PhaseWaiting:
		return "Waiting for an opponent"
	case reversi.PhaseFinished:
		return reversi.GameOverLine(st)
	case reversi.PhaseDisconnected:
		return "Opponent disconnected"
	default:
		return name(st.CurrentPlayer()) + " to move"
	}
}

// panel is the common layout of every board screen.
type panel struct {
	width  int
	title  string
	board  string
	state  *reversi.GameState
	turn   string
	status []string
	flash  string
	help   string
}

func renderPanel(p panel) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render(strings.ToUpper(p.title)), p.width))
	b.WriteString("\n\n")
	b.WriteString(centerBlock(p.board, p.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(scoreLine(p.state), p.width))
	b.WriteString("\n")
	b.WriteString(centerText(colorStyles[core.ColorStatus].Render(p.turn), p.width))
	b.WriteString("\n\n")

	for i := range maxStatusLines {
		if i < len(p.status) {
			b.WriteString(centerText(p.status[i], p.width))
		}
		b.WriteString("\n")
	}
	b.WriteString(centerText(colorStyles[core.ColorError].Render(p.flash), p.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(helpStyle.Render(p.help), p.width))

	return b.String()
}
