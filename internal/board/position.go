package board

import "fmt"

// DrawPlies is the half-move clock value at which the game is drawn.
const DrawPlies = 100

// Position represents a complete microchess position.
type Position struct {
	// Squares is indexed [rank][file], rank 0 being the top row.
	Squares [Ranks][Files]Piece

	// Game state
	Turn           Color
	HalfMoveClock  int // Plies since the last pawn move or capture
	FullMoveNumber int // Full move counter, starts at 1

	// Zobrist hash, used by the match harness for repetition detection
	Hash uint64

	// King positions (cached for check detection)
	KingSquare [2]Square
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// NewEmptyPosition returns a board with no pieces and White to move.
func NewEmptyPosition() *Position {
	p := &Position{FullMoveNumber: 1}
	p.Clear()
	return p
}

// Copy creates a deep copy of the position. The piece array is a value,
// so the copy never aliases the receiver.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// At returns the piece on sq, or NoPiece.
func (p *Position) At(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return p.Squares[sq.Rank()][sq.File()]
}

// PieceAt returns the piece at (rank, file). Off-board and empty squares
// both report ok=false.
func (p *Position) PieceAt(rank, file int) (Piece, bool) {
	if !OnBoard(rank, file) {
		return NoPiece, false
	}
	pc := p.Squares[rank][file]
	return pc, pc != NoPiece
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	return p.Turn
}

// SetPiece places a piece on a square and keeps the king cache current.
// It does not update the hash.
func (p *Position) SetPiece(piece Piece, sq Square) {
	if !sq.IsValid() {
		return
	}
	p.Squares[sq.Rank()][sq.File()] = piece
	if piece.Type() == King {
		p.KingSquare[piece.Color()] = sq
	}
}

// removePiece removes and returns the piece on sq.
func (p *Position) removePiece(sq Square) Piece {
	piece := p.At(sq)
	if piece == NoPiece {
		return NoPiece
	}
	p.Squares[sq.Rank()][sq.File()] = NoPiece
	if piece.Type() == King && p.KingSquare[piece.Color()] == sq {
		p.KingSquare[piece.Color()] = NoSquare
	}
	return piece
}

// findKings locates and caches the king positions.
func (p *Position) findKings() {
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
	for sq := Square(0); sq < NumSquares; sq++ {
		if pc := p.At(sq); pc.Type() == King {
			p.KingSquare[pc.Color()] = sq
		}
	}
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 0; rank < Ranks; rank++ {
		s += fmt.Sprintf("%d  ", Ranks-rank)
		for file := 0; file < Files; file++ {
			piece := p.Squares[rank][file]
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.Turn)
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber)
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)
	return s
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{FullMoveNumber: 1}
	for r := range p.Squares {
		for f := range p.Squares[r] {
			p.Squares[r][f] = NoPiece
		}
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
}

// Validate checks that each side has exactly one king and that no pawn
// stands on its promotion rank.
func (p *Position) Validate() error {
	kings := [2]int{}
	for sq := Square(0); sq < NumSquares; sq++ {
		pc := p.At(sq)
		switch pc.Type() {
		case King:
			kings[pc.Color()]++
		case Pawn:
			if sq.Rank() == PromotionRank(pc.Color()) {
				return fmt.Errorf("pawn on promotion rank at %s", sq)
			}
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if p.IsAttacked(p.KingSquare[p.Turn.Other()], p.Turn) {
		return fmt.Errorf("side not to move is in check")
	}
	return nil
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsAttacked(p.KingSquare[p.Turn], p.Turn.Other())
}

// Material returns the material balance without kings (positive favors white).
func (p *Position) Material() int {
	score := 0
	for sq := Square(0); sq < NumSquares; sq++ {
		pc := p.At(sq)
		if pc == NoPiece || pc.Type() == King {
			continue
		}
		score += pc.Value() * pc.Color().Sign()
	}
	return score
}
