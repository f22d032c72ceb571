package engine

import (
	"sort"

	"github.com/hailam/microchess/internal/board"
)

// PromotionBonus is added to the ordering score of promoting moves.
const PromotionBonus = 900

// BreadthLimits caps how many ordered moves are searched at a node.
// A zero cap means unlimited.
//
// Truncating the ordered list makes the search a beam search: moves past the
// cap are never examined, so the result is an approximation of full-width
// negamax that trades completeness for a bounded node count.
type BreadthLimits struct {
	Root     int // root candidates
	Deep     int // remaining depth >= 3
	Shallow  int // remaining depth == 2
	Frontier int // remaining depth == 1
}

// MoveOrderer ranks moves by captured value plus promotion bonus and applies
// the depth-dependent breadth caps.
type MoveOrderer struct {
	limits BreadthLimits
}

// NewMoveOrderer creates a move orderer with the given caps.
func NewMoveOrderer(limits BreadthLimits) *MoveOrderer {
	return &MoveOrderer{limits: limits}
}

// Limits returns the configured caps.
func (mo *MoveOrderer) Limits() BreadthLimits {
	return mo.limits
}

// ScoreMove returns the ordering score of m in pos: the value of the piece on
// the destination square, plus PromotionBonus for promotions.
func (mo *MoveOrderer) ScoreMove(pos board.State, m board.Move) int {
	score := 0
	r, f := m.ToRankFile()
	if pc, ok := pos.PieceAt(r, f); ok {
		score += pc.Value()
	}
	if m.IsPromotion() {
		score += PromotionBonus
	}
	return score
}

type scoredMove struct {
	move  board.Move
	score int
}

// Order returns the moves sorted by descending score. The sort is stable,
// so equal scores keep the generator's order. The input slice is untouched.
func (mo *MoveOrderer) Order(pos board.State, moves []board.Move) []board.Move {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: mo.ScoreMove(pos, m)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ordered := make([]board.Move, len(scored))
	for i, sm := range scored {
		ordered[i] = sm.move
	}
	return ordered
}

// Breadth returns the cap for a node with the given remaining depth.
func (mo *MoveOrderer) Breadth(depth int) int {
	switch {
	case depth >= 3:
		return mo.limits.Deep
	case depth == 2:
		return mo.limits.Shallow
	default:
		return mo.limits.Frontier
	}
}

// RootBreadth returns the cap applied to root candidates.
func (mo *MoveOrderer) RootBreadth() int {
	return mo.limits.Root
}

// Truncate returns at most n leading moves; n <= 0 keeps everything.
func Truncate(moves []board.Move, n int) []board.Move {
	if n <= 0 || n >= len(moves) {
		return moves
	}
	return moves[:n]
}
