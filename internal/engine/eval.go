// Package engine implements the microchess search agents: a static
// evaluator, move ordering with breadth caps, a one-ply danger estimate and
// a negamax alpha-beta searcher with bounded tactical extensions.
package engine

import (
	"github.com/hailam/microchess/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Positional weights
const (
	pawnAdvanceBonus = 8 // per rank walked from the home rank
	centralityWeight = 4
	centralityBase   = 6 // centrality is base minus Manhattan distance to the centre
	mobilityWeight   = 5 // per legal move of the side to move
)

// Evaluator scores a position in the white-positive convention.
// Implementations must be pure functions of the position.
type Evaluator interface {
	Evaluate(pos board.State) int
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(pos board.State) int

// Evaluate calls f(pos).
func (f EvaluatorFunc) Evaluate(pos board.State) int {
	return f(pos)
}

// EvalTerms selects which terms a TermEvaluator sums.
type EvalTerms uint8

const (
	TermMaterial EvalTerms = 1 << iota
	TermPawnAdvance
	TermCentrality
	TermMobility
)

// TermEvaluator sums the selected evaluation terms.
type TermEvaluator struct {
	Terms EvalTerms
}

// Standard evaluators.
var (
	MaterialEvaluator   = TermEvaluator{Terms: TermMaterial}
	AdvanceEvaluator    = TermEvaluator{Terms: TermMaterial | TermPawnAdvance | TermMobility}
	PositionalEvaluator = TermEvaluator{Terms: TermMaterial | TermPawnAdvance | TermCentrality | TermMobility}
)

// Evaluate returns the full positional evaluation of pos.
func Evaluate(pos board.State) int {
	return PositionalEvaluator.Evaluate(pos)
}

// Evaluate implements Evaluator.
//
// The mobility term is added as-is for the side to move and is never sign
// flipped: a position with Black to move gains from Black's mobility too.
func (e TermEvaluator) Evaluate(pos board.State) int {
	score := 0
	for rank := 0; rank < board.Ranks; rank++ {
		for file := 0; file < board.Files; file++ {
			pc, ok := pos.PieceAt(rank, file)
			if !ok {
				continue
			}
			score += e.pieceScore(pc, rank, file) * pc.Color().Sign()
		}
	}

	if e.Terms&TermMobility != 0 {
		if moves, err := pos.LegalMoves(); err == nil {
			score += mobilityWeight * len(moves)
		}
	}
	return score
}

// pieceScore returns the unsigned contribution of one piece.
func (e TermEvaluator) pieceScore(pc board.Piece, rank, file int) int {
	s := 0
	if e.Terms&TermMaterial != 0 {
		s += pc.Value()
	}
	if pc.Type() == board.Pawn {
		if e.Terms&TermPawnAdvance != 0 {
			s += pawnAdvance(pc.Color(), rank)
		}
		return s
	}
	if e.Terms&TermCentrality != 0 {
		s += centrality(rank, file)
	}
	return s
}

// pawnAdvance returns the bonus for a pawn of color c on rank.
func pawnAdvance(c board.Color, rank int) int {
	if c == board.White {
		return (board.Ranks - 1 - rank) * pawnAdvanceBonus
	}
	return rank * pawnAdvanceBonus
}

// centrality returns (base - (|rc - rank| + |fc - file|)) * weight where
// (rc, fc) is the board centre. The centre falls between files, so the
// distance is computed on doubled coordinates to stay in integers.
func centrality(rank, file int) int {
	dr := abs(2*rank - (board.Ranks - 1))
	df := abs(2*file - (board.Files - 1))
	return (2*centralityBase - dr - df) * centralityWeight / 2
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
