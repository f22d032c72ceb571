package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hailam/microchess/internal/board"
)

func moveStrings(moves []board.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

func TestOrderIsPermutation(t *testing.T) {
	mo := NewMoveOrderer(BreadthLimits{})
	for _, fen := range searchFENs {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		moves := pos.GenerateLegalMoves()
		ordered := Truncate(mo.Order(pos, moves), len(moves))

		byString := cmpopts.SortSlices(func(a, b string) bool { return a < b })
		if diff := cmp.Diff(moveStrings(moves), moveStrings(ordered), byString); diff != "" {
			t.Errorf("%s: ordering lost or duplicated moves (-in +out):\n%s", fen, diff)
		}
	}
}

func TestOrderCapturesFirst(t *testing.T) {
	pos, err := board.ParseFEN("knbr/p1q1/1P2/2QP/RBNK w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	moves := pos.GenerateLegalMoves()
	before := moveStrings(moves)

	ordered := NewMoveOrderer(BreadthLimits{}).Order(pos, moves)

	want := []string{"b3c4", "c2c4", "b3a4"}
	if diff := cmp.Diff(want, moveStrings(ordered[:3])); diff != "" {
		t.Errorf("leading moves mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before, moveStrings(moves)); diff != "" {
		t.Errorf("input slice reordered:\n%s", diff)
	}
}

func TestOrderPromotions(t *testing.T) {
	pos, err := board.ParseFEN("k3/2P1/4/4/K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	ordered := NewMoveOrderer(BreadthLimits{}).Order(pos, pos.GenerateLegalMoves())

	want := []string{"c4c5n", "c4c5b", "c4c5r", "c4c5q"}
	if diff := cmp.Diff(want, moveStrings(ordered[:4])); diff != "" {
		t.Errorf("promotions should lead in generator order (-want +got):\n%s", diff)
	}
}

func TestBreadth(t *testing.T) {
	mo := NewMoveOrderer(BreadthLimits{Root: 10, Deep: 6, Shallow: 8})
	tests := []struct {
		depth int
		want  int
	}{
		{5, 6},
		{3, 6},
		{2, 8},
		{1, 0},
	}
	for _, tt := range tests {
		if got := mo.Breadth(tt.depth); got != tt.want {
			t.Errorf("Breadth(%d) = %d, want %d", tt.depth, got, tt.want)
		}
	}
	if mo.RootBreadth() != 10 {
		t.Errorf("RootBreadth() = %d, want 10", mo.RootBreadth())
	}
}

func TestTruncate(t *testing.T) {
	moves := board.NewPosition().GenerateLegalMoves()
	if got := len(Truncate(moves, 3)); got != 3 {
		t.Errorf("Truncate(3) kept %d", got)
	}
	if got := len(Truncate(moves, 0)); got != len(moves) {
		t.Errorf("Truncate(0) kept %d, want all %d", got, len(moves))
	}
	if got := len(Truncate(moves, 100)); got != len(moves) {
		t.Errorf("Truncate(100) kept %d, want all %d", got, len(moves))
	}
}

func TestDangerNoCaptures(t *testing.T) {
	// The synthetic tree never reports pieces, so no reply is a capture.
	child := &treeNode{side: board.Black, children: []*treeNode{
		{value: -10000, side: board.White},
		{value: 10000, side: board.White},
	}}
	d := NewDangerEstimator(treeEval)
	if got := d.Estimate(child, board.White); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestDangerHangingPiece(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		mover board.Color
	}{
		{"white rook hangs", "k3/4/1q2/4/KR2 b - - 0 1", board.White},
		{"black rook hangs", "kr2/4/1Q2/4/K3 w - - 0 1", board.Black},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := board.ParseFEN(tt.fen)
			if err != nil {
				t.Fatal(err)
			}
			got := NewDangerEstimator(PositionalEvaluator).Estimate(pos, tt.mover)
			if got <= DangerThreshold {
				t.Errorf("penalty %d, want > %d", got, DangerThreshold)
			}
		})
	}
}

func TestDangerIgnoresSmallSwings(t *testing.T) {
	// The only capturing reply wins a pawn, a swing below the threshold.
	pos, err := board.ParseFEN("k3/4/1p2/2P1/K3 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := NewDangerEstimator(MaterialEvaluator).Estimate(pos, board.White); got != 0 {
		t.Errorf("small swing should be ignored, got %d", got)
	}
}

// allCaptures reports a piece on every square, so every reply is a capture.
type allCaptures struct{ *treeNode }

func (allCaptures) PieceAt(rank, file int) (board.Piece, bool) {
	return board.BlackPawn, true
}

func TestDangerBreadthCap(t *testing.T) {
	eval := EvaluatorFunc(func(pos board.State) int {
		switch p := pos.(type) {
		case allCaptures:
			return p.value
		case *treeNode:
			return p.value
		}
		return 0
	})

	tests := []struct {
		name   string
		values []int
		want   int
	}{
		// The seventh capture is past DangerBreadth and never looked at.
		{"seventh ignored", []int{-200, -200, -200, -200, -200, -200, -5000}, 200},
		{"sixth counted", []int{-200, -200, -200, -200, -200, -700, -5000}, 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := &treeNode{side: board.Black}
			for _, v := range tt.values {
				root.children = append(root.children, &treeNode{value: v, side: board.White})
			}
			got := NewDangerEstimator(eval).Estimate(allCaptures{root}, board.White)
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
