package board

import "strings"

// Color is the side a piece belongs to, or the side to move.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposing side.
func (c Color) Other() Color {
	return c ^ 1
}

// Sign is +1 for White and -1 for Black. Scores are white-positive.
func (c Color) Sign() int {
	switch c {
	case White:
		return 1
	case Black:
		return -1
	}
	return 0
}

var colorNames = [...]string{"White", "Black", "NoColor"}

func (c Color) String() string {
	if c > NoColor {
		c = NoColor
	}
	return colorNames[c]
}

// PieceType is one of the six piece kinds; the values are the type ids 0..5.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeNames = [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King", "None"}

func (pt PieceType) String() string {
	if pt > NoPieceType {
		pt = NoPieceType
	}
	return pieceTypeNames[pt]
}

// Char returns the lowercase letter, or ' ' for NoPieceType.
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return pieceLetters[pt+6]
}

// PieceValue indexes material by PieceType. The king's value keeps it off
// the capture-ordering tie list.
var PieceValue = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Value returns the material value of the piece type.
func (pt PieceType) Value() int {
	if pt > NoPieceType {
		return 0
	}
	return PieceValue[pt]
}

// Piece packs type and colour as type + 6*colour, so White pieces come first.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// pieceLetters is indexed by Piece.
const pieceLetters = "PNBRQKpnbrqk"

// NewPiece returns the piece of type pt and colour c, or NoPiece.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// Value returns the material value of the piece, unsigned.
func (p Piece) Value() int {
	return p.Type().Value()
}

// String returns the FEN letter, uppercase for White.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return pieceLetters[p : p+1]
}

// PieceFromChar parses a FEN letter. Unknown letters give NoPiece.
func PieceFromChar(c byte) Piece {
	i := strings.IndexByte(pieceLetters, c)
	if i < 0 {
		return NoPiece
	}
	return Piece(i)
}
