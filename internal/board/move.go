package board

import (
	"fmt"

	mcerrors "github.com/hailam/microchess/internal/errors"
)

// Move is an origin square, a displacement vector and an optional promotion.
// It is a comparable value; generated moves are never mutated.
type Move struct {
	Rank, File   int8
	DRank, DFile int8
	Promo        PieceType // NoPieceType when the move does not promote
}

// NoMove represents the absence of a move.
var NoMove = Move{Rank: -1, File: -1, Promo: NoPieceType}

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move{
		Rank:  int8(from.Rank()),
		File:  int8(from.File()),
		DRank: int8(to.Rank() - from.Rank()),
		DFile: int8(to.File() - from.File()),
		Promo: NoPieceType,
	}
}

// NewPromotion creates a pawn move that promotes to promo.
func NewPromotion(from, to Square, promo PieceType) Move {
	m := NewMove(from, to)
	m.Promo = promo
	return m
}

// From returns the origin square.
func (m Move) From() Square {
	return NewSquare(int(m.Rank), int(m.File))
}

// To returns the destination square.
func (m Move) To() Square {
	return NewSquare(int(m.Rank+m.DRank), int(m.File+m.DFile))
}

// ToRankFile returns the destination coordinates without bounds checks.
func (m Move) ToRankFile() (rank, file int) {
	return int(m.Rank + m.DRank), int(m.File + m.DFile)
}

// IsPromotion returns true if this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promo >= Knight && m.Promo <= Queen
}

// IsCapture reports whether the destination holds a piece in s.
// Lookup failures count as "no piece".
func (m Move) IsCapture(s State) bool {
	r, f := m.ToRankFile()
	_, ok := s.PieceAt(r, f)
	return ok
}

// String returns coordinate notation, e.g. "d2d3" or "a4a5q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	from, to := m.From(), m.To()
	if !from.IsValid() || !to.IsValid() {
		return "0000"
	}
	s := from.String() + to.String()
	if m.IsPromotion() {
		s += string(m.Promo.Char())
	}
	return s
}

// ParseMove parses coordinate notation.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", mcerrors.ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", mcerrors.ErrInvalidMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", mcerrors.ErrInvalidMove, err)
	}

	if len(s) == 4 {
		return NewMove(from, to), nil
	}

	var promo PieceType
	switch s[4] {
	case 'n':
		promo = Knight
	case 'b':
		promo = Bishop
	case 'r':
		promo = Rook
	case 'q':
		promo = Queen
	default:
		return NoMove, fmt.Errorf("%w: bad promotion piece in %q", mcerrors.ErrInvalidMove, s)
	}
	return NewPromotion(from, to, promo), nil
}

// ContainsMove reports whether m is in moves.
func ContainsMove(moves []Move, m Move) bool {
	for _, x := range moves {
		if x == m {
			return true
		}
	}
	return false
}
