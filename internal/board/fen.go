package board

import (
	"fmt"
	"strconv"
	"strings"

	mcerrors "github.com/hailam/microchess/internal/errors"
)

// StartFEN is the FEN string for the microchess starting position.
const StartFEN = "knbr/p3/4/3P/RBNK w - - 0 1"

// ParseFEN parses a FEN string and returns a Position. The castling and en
// passant fields are accepted for compatibility but must be "-".
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 fields, got %d", mcerrors.ErrInvalidFEN, len(parts))
	}

	pos := NewEmptyPosition()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.Turn = White
	case "b":
		pos.Turn = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move: %s", mcerrors.ErrInvalidFEN, parts[1])
	}

	// Castling and en passant do not exist in microchess.
	for i := 2; i < 4 && i < len(parts); i++ {
		if parts[i] != "-" {
			return nil, fmt.Errorf("%w: unsupported field %q", mcerrors.ErrInvalidFEN, parts[i])
		}
	}

	// Parse half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("%w: invalid half-move clock: %s", mcerrors.ErrInvalidFEN, parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("%w: invalid full-move number: %s", mcerrors.ErrInvalidFEN, parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	pos.findKings()
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", mcerrors.ErrInvalidFEN, err)
	}
	pos.Hash = pos.ComputeHash()

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != Ranks {
		return fmt.Errorf("%w: need %d ranks, got %d", mcerrors.ErrInvalidFEN, Ranks, len(ranks))
	}

	for rank, rankStr := range ranks {
		file := 0
		for i := 0; i < len(rankStr); i++ {
			c := rankStr[i]
			if c >= '1' && c <= '9' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Errorf("%w: invalid piece character: %c", mcerrors.ErrInvalidFEN, c)
			}
			if file >= Files {
				return fmt.Errorf("%w: rank %d overflows", mcerrors.ErrInvalidFEN, Ranks-rank)
			}
			pos.Squares[rank][file] = piece
			file++
		}
		if file != Files {
			return fmt.Errorf("%w: rank %d has %d files", mcerrors.ErrInvalidFEN, Ranks-rank, file)
		}
	}

	return nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 0; rank < Ranks; rank++ {
		empty := 0
		for file := 0; file < Files; file++ {
			piece := p.Squares[rank][file]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank < Ranks-1 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.Turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteString(" - - ")
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
