package board

// Result is a decided game outcome, expressed as the white-positive sign.
type Result int8

const (
	BlackWin Result = -1
	Draw     Result = 0
	WhiteWin Result = 1
)

// String returns a short name for the result.
func (r Result) String() string {
	switch r {
	case WhiteWin:
		return "white"
	case BlackWin:
		return "black"
	default:
		return "draw"
	}
}

// State is the read-only view of a position the search engine consumes.
// Implementations never mutate the receiver: Apply returns an independent copy.
type State interface {
	// LegalMoves returns the complete legal-move set for the side to move.
	LegalMoves() ([]Move, error)
	// PieceAt returns the piece on (rank, file); ok is false for empty or
	// off-board squares.
	PieceAt(rank, file int) (Piece, bool)
	// Apply returns the position after m.
	Apply(m Move) (State, error)
	// Result returns the decided outcome; ok is false while the game is ongoing.
	Result() (Result, bool)
	// SideToMove returns the color to move.
	SideToMove() Color
}
