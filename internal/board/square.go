// Package board implements the 5x4 microchess board: a mailbox position,
// legal move generation, FEN encoding and game-result detection.
package board

import "fmt"

// Board dimensions.
const (
	Files      = 4
	Ranks      = 5
	NumSquares = Files * Ranks
)

// Square indexes the board as rank*Files + file.
// Rank 0 is the top row as printed in FEN (Black's back rank, "5"),
// rank 4 is White's back rank ("1"). File 0 is the a-file.
type Square int8

// NoSquare marks a missing square (for example an absent king).
const NoSquare Square = -1

// NewSquare creates a square from rank and file indexes.
func NewSquare(rank, file int) Square {
	return Square(rank*Files + file)
}

// OnBoard reports whether the rank/file pair lies on the board.
func OnBoard(rank, file int) bool {
	return rank >= 0 && rank < Ranks && file >= 0 && file < Files
}

// Rank returns the rank index (0 = top row).
func (sq Square) Rank() int {
	return int(sq) / Files
}

// File returns the file index (0 = a).
func (sq Square) File() int {
	return int(sq) % Files
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return sq >= 0 && sq < NumSquares
}

// String returns the algebraic name of the square (e.g. "d2").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '0'+Ranks-sq.Rank())
}

// ParseSquare parses algebraic notation (e.g. "b3") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	rank := Ranks - int(s[1]-'0')

	if !OnBoard(rank, file) {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(rank, file), nil
}

// PromotionRank returns the rank index on which pawns of color c promote.
func PromotionRank(c Color) int {
	if c == White {
		return 0
	}
	return Ranks - 1
}

// PawnDirection returns the rank delta of a pawn step for color c.
func PawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}
