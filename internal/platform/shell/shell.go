// Package shell provides a line-oriented text interface to Reversi.
//
// Commands are read one per line and are case-insensitive:
//
//	NEW HOTSEAT|SINGLE   start a game
//	MOVE D3              place a disk for the current player
//	UNDO                 take back the last turn
//	PRINT                show the board and whose turn it is
//	MOVES                list the legal moves of the current player
//	HELP                 list the commands
//	QUIT                 leave the shell
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/registry"
	"github.com/vovakirdan/tui-reversi/internal/storage"
)

const (
	prompt   = "Reversi> "
	errorMsg = "Error! "

	// eventBuffer holds the engine events of one command. A computer reply after a run
	// of human skips produces several.
	eventBuffer = 64
)

// Shell is an interactive text session. A Shell plays one game at a time.
type Shell struct {
	opts  registry.Options
	store *storage.Store
	log   *log.Logger

	mode  string
	game  registry.Game
	state *reversi.GameState
	saved bool

	out io.Writer
}

// New creates a shell. store may be nil, in which case finished games are not recorded.
func New(opts registry.Options, store *storage.Store, logger *log.Logger) *Shell {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts.EventBuffer = eventBuffer
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Shell{opts: opts, store: store, log: logger}
}

// Run reads commands from in until QUIT, end of input, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = out
	scanner := bufio.NewScanner(in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}
		if quit := s.execute(scanner.Text()); quit {
			return nil
		}
	}
}

// execute runs one command line. It returns true when the shell should exit.
func (s *Shell) execute(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		s.fail("Empty command.")
		return false
	}

	switch strings.ToUpper(tokens[0]) {
	case "NEW":
		s.cmdNew(tokens)
	case "MOVE":
		s.cmdMove(tokens)
	case "UNDO":
		s.cmdUndo(tokens)
	case "PRINT":
		s.cmdPrint(tokens)
	case "MOVES":
		s.cmdMoves(tokens)
	case "HELP":
		s.cmdHelp()
	case "QUIT":
		return true
	default:
		s.fail("Unknown command: " + line)
	}
	return false
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) fail(msg string) {
	fmt.Fprintln(s.out, errorMsg+msg)
}

func (s *Shell) argCount(tokens []string, want int) bool {
	if len(tokens) != want {
		s.fail("Wrong number of arguments.")
		return false
	}
	return true
}

func (s *Shell) gameExists() bool {
	if s.game == nil {
		s.fail("No game initialized.")
		return false
	}
	return true
}

func (s *Shell) gameRunning() bool {
	if !s.gameExists() {
		return false
	}
	if s.state.Phase() != reversi.PhaseRunning {
		s.fail("No game running at the moment")
		return false
	}
	return true
}

func (s *Shell) cmdNew(tokens []string) {
	if !s.argCount(tokens, 2) {
		return
	}
	mode := strings.ToLower(tokens[1])
	if !registry.Exists(mode) {
		s.fail("Unknown game type: " + strings.ToUpper(tokens[1]))
		return
	}
	game, err := registry.Create(mode, s.opts)
	if err != nil {
		s.fail(err.Error())
		return
	}
	s.mode = mode
	s.game = game
	s.state = game.State()
	s.saved = false
	s.log.Debug("new game", "mode", mode)
}

func (s *Shell) cmdMove(tokens []string) {
	if !s.gameRunning() || !s.argCount(tokens, 2) {
		return
	}
	cell, err := reversi.ParseCell(tokens[1])
	if err != nil {
		s.fail("Invalid cell format")
		return
	}
	if !s.game.Move(cell) {
		s.fail(fmt.Sprintf("Could not move disk to %s.", cell.Notation()))
		return
	}

	lines, _ := reversi.DrainReport(s.state, s.game.Events())
	s.state = s.game.State()
	for _, l := range lines {
		s.println(l)
	}
	if s.state.Phase() == reversi.PhaseFinished {
		s.save()
	}
}

func (s *Shell) cmdUndo(tokens []string) {
	if !s.gameExists() || !s.argCount(tokens, 1) {
		return
	}
	if !s.game.CanUndo() {
		s.fail("Nothing to undo.")
		return
	}
	s.game.UndoMove()
	reversi.DrainReport(s.state, s.game.Events())
	s.state = s.game.State()
	s.saved = false
	s.println("Player's turn: " + s.state.CurrentPlayer().String())
}

func (s *Shell) cmdPrint(tokens []string) {
	if !s.gameExists() || !s.argCount(tokens, 1) {
		return
	}
	s.println(reversi.FormatBoard(s.state.Field()))
	if s.state.Phase() == reversi.PhaseFinished {
		s.println(reversi.GameOverLine(s.state))
		return
	}
	s.println("Player's turn: " + s.state.CurrentPlayer().String())
}

func (s *Shell) cmdMoves(tokens []string) {
	if !s.gameRunning() || !s.argCount(tokens, 1) {
		return
	}
	cells := s.game.PossibleMovesForPlayer(s.state.CurrentPlayer())
	notations := make([]string, len(cells))
	for i, c := range cells {
		notations[i] = c.Notation()
	}
	s.println(strings.Join(notations, " "))
}

func (s *Shell) cmdHelp() {
	s.println("Reversi!")
	s.println("Accepted commands:")
	s.println("NEW m\t\tstart a new 8x8 game, m is HOTSEAT or SINGLE")
	s.println("MOVE t\t\tmove a disk to 't', e.g. MOVE D3")
	s.println("UNDO\t\ttake back the last turn")
	s.println("PRINT\t\tprint the current state of the board")
	s.println("MOVES\t\tlist the legal moves of the current player")
	s.println("HELP\t\tshow this dialog")
	s.println("QUIT\t\tquit the program")
}

// save records the finished game once.
func (s *Shell) save() {
	if s.saved {
		return
	}
	s.saved = true

	black, white := s.state.Score()
	s.log.Info("game finished", "mode", s.mode, "black", black, "white", white)
	if s.store == nil {
		return
	}

	rec, err := storage.RecordFromState(s.mode, "", "", s.state, storage.EndReasonCompleted)
	if err == nil {
		_, err = s.store.SaveGame(rec)
	}
	if err != nil {
		s.log.Error("cannot save game", "err", err)
	}
}
