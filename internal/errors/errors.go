// Package errors holds the sentinel errors shared across microchess packages
// and the GameError type used by the match harness to attach game context.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrIllegalMove indicates a move outside the legal set of a position.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidMove indicates a move string that cannot be parsed.
	ErrInvalidMove = errors.New("invalid move notation")

	// ErrNoLegalMoves indicates an agent had nothing to play.
	ErrNoLegalMoves = errors.New("no legal moves")

	// ErrExtensionCapExceeded is raised when a search branch recurses past
	// depth plus the configured extension budget.
	ErrExtensionCapExceeded = errors.New("search extension cap exceeded")

	ErrUnknownAgent  = errors.New("unknown agent kind")
	ErrGameNotFound  = errors.New("game not found")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// GameError wraps an error with the game and ply it happened in.
type GameError struct {
	Err    error
	GameID string
	Ply    int    // 0 if not applicable
	Move   string // offending move, if any
}

func (e *GameError) Error() string {
	parts := []string{fmt.Sprintf("game %s", e.GameID)}
	if e.Ply > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	if e.Move != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.Move))
	}
	return strings.Join(parts, ", ") + ": " + e.Err.Error()
}

func (e *GameError) Unwrap() error {
	return e.Err
}

// NewGameError returns a GameError for err, or nil when err is nil.
func NewGameError(err error, gameID string, ply int, move string) error {
	if err == nil {
		return nil
	}
	return &GameError{Err: err, GameID: gameID, Ply: ply, Move: move}
}

// Is, As and New re-export the standard helpers so callers importing this
// package under its own name keep access to them.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)
