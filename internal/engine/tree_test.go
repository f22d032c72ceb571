package engine

import (
	"math/rand"

	"github.com/hailam/microchess/internal/board"
	mcerrors "github.com/hailam/microchess/internal/errors"
)

// treeNode is a synthetic game tree implementing board.State. Move i leads
// to children[i]; the board is always empty so ordering keeps generator
// order and no move is a capture.
type treeNode struct {
	children []*treeNode
	value    int // static evaluation, white-positive
	side     board.Color
	result   board.Result
	terminal bool

	generated int // LegalMoves calls
}

func (n *treeNode) LegalMoves() ([]board.Move, error) {
	n.generated++
	moves := make([]board.Move, len(n.children))
	for i := range n.children {
		moves[i] = board.Move{File: int8(i), Promo: board.NoPieceType}
	}
	return moves, nil
}

func (n *treeNode) PieceAt(rank, file int) (board.Piece, bool) {
	return board.NoPiece, false
}

func (n *treeNode) Apply(m board.Move) (board.State, error) {
	i := int(m.File)
	if i < 0 || i >= len(n.children) {
		return nil, mcerrors.ErrIllegalMove
	}
	return n.children[i], nil
}

func (n *treeNode) Result() (board.Result, bool) {
	return n.result, n.terminal
}

func (n *treeNode) SideToMove() board.Color {
	return n.side
}

var treeEval = EvaluatorFunc(func(pos board.State) int {
	return pos.(*treeNode).value
})

// randomTree builds a tree of the given height with 0..maxBranch children
// per interior node.
func randomTree(rng *rand.Rand, height, maxBranch int, side board.Color) *treeNode {
	n := &treeNode{value: rng.Intn(1001) - 500, side: side}
	if height == 0 {
		return n
	}
	if rng.Intn(10) == 0 {
		n.terminal = true
		n.result = board.Result(rng.Intn(3) - 1)
		return n
	}
	branch := rng.Intn(maxBranch + 1)
	for i := 0; i < branch; i++ {
		n.children = append(n.children, randomTree(rng, height-1, maxBranch, side.Other()))
	}
	return n
}

// minimax is a reference implementation without pruning, written in the
// min/max form to check the negamax sign handling as well.
func minimax(n *treeNode, depth int) int {
	if n.terminal {
		return int(n.result) * MateScore
	}
	if depth == 0 || len(n.children) == 0 {
		return n.value
	}
	best := 0
	for i, c := range n.children {
		v := minimax(c, depth-1)
		if i == 0 || (n.side == board.White && v > best) || (n.side == board.Black && v < best) {
			best = v
		}
	}
	return best
}
