// Package uci implements a UCI-style line protocol for the microchess agents.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/microchess/internal/board"
	"github.com/hailam/microchess/internal/config"
	"github.com/hailam/microchess/internal/engine"
)

// UCI implements the protocol loop.
type UCI struct {
	cfg      config.AgentConfig
	agent    engine.Agent
	position *board.Position
	logger   *zap.Logger

	out io.Writer
}

// New creates a protocol handler playing with the agent described by cfg.
func New(cfg config.AgentConfig, logger *zap.Logger, out io.Writer) (*UCI, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	agent, err := engine.NewAgentFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &UCI{
		cfg:      cfg,
		agent:    agent,
		position: board.NewPosition(),
		logger:   logger,
		out:      out,
	}, nil
}

// Position returns the current position.
func (u *UCI) Position() *board.Position {
	return u.position
}

// Run reads commands from in until "quit" or end of input.
func (u *UCI) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !u.Handle(line) {
			return nil
		}
	}
	return scanner.Err()
}

// Handle executes one command line. It returns false on "quit".
func (u *UCI) Handle(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		u.println("readyok")
	case "ucinewgame", "newgame":
		u.handleNewGame()
	case "position":
		u.handlePosition(args)
	case "go":
		u.handleGo(args)
	case "setoption":
		u.handleSetOption(args)
	case "quit":
		return false
	// Debug commands
	case "d":
		u.println(u.position.String())
		u.println("Fen: " + u.position.FEN())
	case "eval":
		u.handleEval()
	case "perft":
		u.handlePerft(args)
	default:
		u.printf("info string Unknown command: %s\n", cmd)
	}
	return true
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name MicroChess")
	u.println("id author MicroChess Team")
	u.println("")
	u.printf("option name Agent type combo default %s var random var greedy var alphabeta var tactical\n", u.agent.Name())
	u.printf("option name Depth type spin default 0 min 0 max %d\n", config.MaxDepth)
	u.println("uciok")
}

// handleNewGame resets the agent for a new game.
func (u *UCI) handleNewGame() {
	u.agent.Reset()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves d2d3 a4a3
//   - position fen <fen>
//   - position fen <fen> moves d2d3
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// Find "moves" keyword
	moveStart := len(args)
	for i, arg := range args {
		if arg == "moves" {
			moveStart = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		p, err := board.ParseFEN(strings.Join(args[1:moveStart], " "))
		if err != nil {
			u.printf("info string Invalid FEN: %v\n", err)
			return
		}
		pos = p
	default:
		return
	}

	if moveStart < len(args) {
		for _, moveStr := range args[moveStart+1:] {
			m, err := board.ParseMove(moveStr)
			if err != nil || !pos.IsLegal(m) {
				u.printf("info string Invalid move: %s\n", moveStr)
				return
			}
			pos.MakeMove(m)
		}
	}
	u.position = pos
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth int
	Nodes uint64
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				opts.Nodes, _ = strconv.ParseUint(args[i+1], 10, 64)
				i++
			}
		}
	}

	return opts
}

// handleGo asks the agent for a move and prints it.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)

	agent := u.agent
	if opts.Depth > 0 || opts.Nodes > 0 {
		cfg := u.cfg
		if opts.Depth > 0 {
			cfg.Depth = opts.Depth
		}
		if opts.Nodes > 0 {
			cfg.Nodes = opts.Nodes
		}
		a, err := engine.NewAgentFromConfig(cfg, u.logger)
		if err != nil {
			u.printf("info string %v\n", err)
			return
		}
		agent = a
	}

	move, ok := agent.Move(u.position.Copy())
	if !ok {
		u.println("bestmove 0000")
		return
	}

	if eng, isEngine := agent.(*engine.Engine); isEngine {
		info := eng.LastInfo()
		u.printf("info depth %d score cp %d nodes %d time %d pv %s\n",
			eng.Settings().Depth, info.Score, info.Stats.Nodes, info.Time.Milliseconds(), move)
	}
	u.printf("bestmove %s\n", move)
}

// handleSetOption handles "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "name":
			if i+1 < len(args) {
				name = strings.ToLower(args[i+1])
				i++
			}
		case "value":
			if i+1 < len(args) {
				value = args[i+1]
				i++
			}
		}
	}

	cfg := u.cfg
	switch name {
	case "agent":
		cfg.Kind = value
	case "depth":
		d, err := strconv.Atoi(value)
		if err != nil || d < 0 {
			u.printf("info string Invalid depth: %s\n", value)
			return
		}
		cfg.Depth = d
	default:
		u.printf("info string Unknown option: %s\n", name)
		return
	}

	agent, err := engine.NewAgentFromConfig(cfg, u.logger)
	if err != nil {
		u.printf("info string %v\n", err)
		return
	}
	u.cfg, u.agent = cfg, agent
}

// handleEval prints the static evaluation terms of the current position.
func (u *UCI) handleEval() {
	pos := u.position
	u.printf("material   %d (pieces %+d)\n", engine.MaterialEvaluator.Evaluate(pos), pos.Material())
	u.printf("advance    %d\n", engine.AdvanceEvaluator.Evaluate(pos))
	u.printf("positional %d (%s)\n", engine.Evaluate(pos), engine.ScoreToString(engine.Evaluate(pos)))
}

// handlePerft counts leaf nodes of the legal move tree.
func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			depth = d
		}
	}
	u.printf("Nodes searched: %d\n", Perft(u.position, depth))
}

// Perft performs a perft test (for debugging move generation).
func Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		child := pos.Copy()
		child.MakeMove(m)
		nodes += Perft(child, depth-1)
	}
	return nodes
}
