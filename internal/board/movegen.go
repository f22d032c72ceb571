package board

import (
	"fmt"

	mcerrors "github.com/hailam/microchess/internal/errors"
)

// promotionPieces lists promotion targets in generation order.
var promotionPieces = [4]PieceType{Knight, Bishop, Rook, Queen}

// GenerateLegalMoves generates all legal moves for the position.
// Moves are produced square by square from the top-left corner, which fixes
// the tie order seen by move ordering.
func (p *Position) GenerateLegalMoves() []Move {
	return p.filterLegalMoves(p.GeneratePseudoLegalMoves())
}

// LegalMoves implements State. Generation on a Position cannot fail.
func (p *Position) LegalMoves() ([]Move, error) {
	return p.GenerateLegalMoves(), nil
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() []Move {
	moves := make([]Move, 0, 32)
	us := p.Turn

	for sq := Square(0); sq < NumSquares; sq++ {
		pc := p.At(sq)
		if pc == NoPiece || pc.Color() != us {
			continue
		}
		switch pc.Type() {
		case Pawn:
			moves = p.generatePawnMoves(moves, sq, us)
		case Knight:
			moves = p.generateStepMoves(moves, sq, us, knightOffsets[:])
		case Bishop:
			moves = p.generateSliderMoves(moves, sq, us, bishopDirections[:])
		case Rook:
			moves = p.generateSliderMoves(moves, sq, us, rookDirections[:])
		case Queen:
			moves = p.generateSliderMoves(moves, sq, us, rookDirections[:])
			moves = p.generateSliderMoves(moves, sq, us, bishopDirections[:])
		case King:
			moves = p.generateStepMoves(moves, sq, us, kingOffsets[:])
		}
	}
	return moves
}

// generatePawnMoves adds single pushes and diagonal captures; moves onto the
// last rank expand into one move per promotion piece.
func (p *Position) generatePawnMoves(moves []Move, from Square, us Color) []Move {
	r, f := from.Rank(), from.File()
	tr := r + PawnDirection(us)
	if tr < 0 || tr >= Ranks {
		return moves
	}

	add := func(to Square) {
		if to.Rank() == PromotionRank(us) {
			for _, promo := range promotionPieces {
				moves = append(moves, NewPromotion(from, to, promo))
			}
			return
		}
		moves = append(moves, NewMove(from, to))
	}

	for _, df := range [2]int{-1, 1} {
		if pc, ok := p.PieceAt(tr, f+df); ok && pc.Color() != us {
			add(NewSquare(tr, f+df))
		}
	}
	if _, ok := p.PieceAt(tr, f); !ok {
		add(NewSquare(tr, f))
	}
	return moves
}

// generateStepMoves handles knights and kings.
func (p *Position) generateStepMoves(moves []Move, from Square, us Color, offsets []offset) []Move {
	r, f := from.Rank(), from.File()
	for _, o := range offsets {
		tr, tf := r+o.dr, f+o.df
		if !OnBoard(tr, tf) {
			continue
		}
		if pc := p.Squares[tr][tf]; pc != NoPiece && pc.Color() == us {
			continue
		}
		moves = append(moves, NewMove(from, NewSquare(tr, tf)))
	}
	return moves
}

// generateSliderMoves walks each ray until the edge or the first piece.
func (p *Position) generateSliderMoves(moves []Move, from Square, us Color, dirs []offset) []Move {
	r, f := from.Rank(), from.File()
	for _, d := range dirs {
		tr, tf := r+d.dr, f+d.df
		for OnBoard(tr, tf) {
			pc := p.Squares[tr][tf]
			if pc != NoPiece && pc.Color() == us {
				break
			}
			moves = append(moves, NewMove(from, NewSquare(tr, tf)))
			if pc != NoPiece {
				break
			}
			tr += d.dr
			tf += d.df
		}
	}
	return moves
}

// filterLegalMoves drops moves that leave the mover's king attacked.
func (p *Position) filterLegalMoves(moves []Move) []Move {
	us := p.Turn
	legal := moves[:0]
	for _, m := range moves {
		child := p.Copy()
		child.MakeMove(m)
		if !child.IsAttacked(child.KingSquare[us], us.Other()) {
			legal = append(legal, m)
		}
	}
	return legal
}

// IsLegal reports whether m is in the legal-move set.
func (p *Position) IsLegal(m Move) bool {
	return ContainsMove(p.GenerateLegalMoves(), m)
}

// MakeMove plays m on the receiver without any legality check.
func (p *Position) MakeMove(m Move) {
	from, to := m.From(), m.To()
	us := p.Turn

	moving := p.removePiece(from)
	captured := p.removePiece(to)
	if m.IsPromotion() && moving.Type() == Pawn {
		moving = NewPiece(m.Promo, us)
	}
	p.SetPiece(moving, to)

	if moving.Type() == Pawn || m.IsPromotion() || captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}
	p.Turn = us.Other()
	p.Hash = p.ComputeHash()
}

// ApplyMove returns a copy of the position with m played. The move must
// start on a piece of the side to move and land on the board.
func (p *Position) ApplyMove(m Move) (*Position, error) {
	from, to := m.From(), m.To()
	if !from.IsValid() || !to.IsValid() {
		return nil, fmt.Errorf("%w: %s off board", mcerrors.ErrIllegalMove, m)
	}
	if pc := p.At(from); pc == NoPiece || pc.Color() != p.Turn {
		return nil, fmt.Errorf("%w: no %s piece on %s", mcerrors.ErrIllegalMove, p.Turn, from)
	}
	child := p.Copy()
	child.MakeMove(m)
	return child, nil
}

// Apply implements State.
func (p *Position) Apply(m Move) (State, error) {
	child, err := p.ApplyMove(m)
	if err != nil {
		return nil, err
	}
	return child, nil
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	us := p.Turn
	for _, m := range p.GeneratePseudoLegalMoves() {
		child := p.Copy()
		child.MakeMove(m)
		if !child.IsAttacked(child.KingSquare[us], us.Other()) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsInsufficientMaterial returns true if neither side can checkmate:
// bare kings, or a single minor piece against a bare king.
func (p *Position) IsInsufficientMaterial() bool {
	minors := [2]int{}
	for sq := Square(0); sq < NumSquares; sq++ {
		pc := p.At(sq)
		switch pc.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight, Bishop:
			minors[pc.Color()]++
		}
	}
	return minors[White]+minors[Black] <= 1
}

// Result implements State: checkmate, stalemate, insufficient material and
// the half-move clock decide the game.
func (p *Position) Result() (Result, bool) {
	if !p.HasLegalMoves() {
		if p.InCheck() {
			if p.Turn == White {
				return BlackWin, true
			}
			return WhiteWin, true
		}
		return Draw, true
	}
	if p.HalfMoveClock >= DrawPlies || p.IsInsufficientMaterial() {
		return Draw, true
	}
	return Draw, false
}
