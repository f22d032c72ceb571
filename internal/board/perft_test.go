package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// perft counts the number of leaf nodes at the given depth.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		child, err := p.ApplyMove(m)
		if err != nil {
			continue
		}
		nodes += perft(child, depth-1)
	}
	return nodes
}

func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	if got := perft(pos, 1); got != 11 {
		t.Errorf("perft(1) = %d, want 11", got)
	}

	// Black mirrors White's options in the start position.
	for _, m := range pos.GenerateLegalMoves() {
		child, err := pos.ApplyMove(m)
		if err != nil {
			t.Fatalf("ApplyMove(%s): %v", m, err)
		}
		if n := perft(child, 1); n == 0 {
			t.Errorf("no replies after %s", m)
		}
	}
}

func TestStartingMoves(t *testing.T) {
	pos := NewPosition()

	var got []string
	for _, m := range pos.GenerateLegalMoves() {
		got = append(got, m.String())
	}

	want := []string{
		"d2d3",
		"a1a2", "a1a3", "a1a4",
		"b1a2", "b1c2", "b1d3",
		"c1b3", "c1d3", "c1a2",
		"d1c2",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("start moves mismatch (-want +got):\n%s", diff)
	}
}

func TestPromotionMoves(t *testing.T) {
	pos, err := ParseFEN("k3/2P1/4/4/K3 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	moves := pos.GenerateLegalMoves()
	promos := 0
	for _, m := range moves {
		if m.IsPromotion() {
			promos++
			if m.To().String() != "c5" {
				t.Errorf("unexpected promotion square in %s", m)
			}
		}
	}
	if promos != 4 {
		t.Errorf("got %d promotions, want 4", promos)
	}
	if len(moves) != 7 {
		t.Errorf("got %d moves, want 7", len(moves))
	}

	child, err := pos.ApplyMove(NewPromotion(NewSquare(1, 2), NewSquare(0, 2), Queen))
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if pc, ok := child.PieceAt(0, 2); !ok || pc != WhiteQueen {
		t.Errorf("expected white queen on c5, got %v", pc)
	}
}

func TestApplyDoesNotMutateParent(t *testing.T) {
	pos := NewPosition()
	before := pos.Squares

	for _, m := range pos.GenerateLegalMoves() {
		if _, err := pos.Apply(m); err != nil {
			t.Fatalf("Apply(%s): %v", m, err)
		}
		for r := 0; r < Ranks; r++ {
			for f := 0; f < Files; f++ {
				got, _ := pos.PieceAt(r, f)
				if got != before[r][f] {
					t.Fatalf("square %s changed after applying %s", NewSquare(r, f), m)
				}
			}
		}
	}
	if pos.Turn != White || pos.FEN() != StartFEN {
		t.Errorf("parent position changed: %s", pos.FEN())
	}
}
