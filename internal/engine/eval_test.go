package engine

import (
	"testing"

	"github.com/hailam/microchess/internal/board"
)

func TestEvaluateStartPosition(t *testing.T) {
	pos := board.NewPosition()

	tests := []struct {
		name string
		eval Evaluator
		want int
	}{
		// Both armies mirror each other, so only mobility (11 moves) remains.
		{"material", MaterialEvaluator, 0},
		{"advance", AdvanceEvaluator, 55},
		{"positional", PositionalEvaluator, 55},
	}
	for _, tt := range tests {
		if got := tt.eval.Evaluate(pos); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, got, tt.want)
		}
	}
	if Evaluate(pos) != PositionalEvaluator.Evaluate(pos) {
		t.Error("Evaluate must match PositionalEvaluator")
	}
}

func TestMobilityNotSignFlipped(t *testing.T) {
	// Bare kings in opposite corners, three moves each.
	for _, fen := range []string{"k3/4/4/4/3K w - - 0 1", "k3/4/4/4/3K b - - 0 1"} {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := Evaluate(pos); got != 15 {
			t.Errorf("%s: got %d, want 15", fen, got)
		}
	}
}

func TestCentrality(t *testing.T) {
	tests := []struct {
		rank, file int
		want       int
	}{
		{0, 0, 10},
		{0, 3, 10},
		{4, 1, 14},
		{2, 1, 22},
		{2, 2, 22},
		{1, 1, 18},
	}
	for _, tt := range tests {
		if got := centrality(tt.rank, tt.file); got != tt.want {
			t.Errorf("centrality(%d, %d) = %d, want %d", tt.rank, tt.file, got, tt.want)
		}
	}
}

func TestPawnAdvance(t *testing.T) {
	if got := pawnAdvance(board.White, 3); got != 8 {
		t.Errorf("white pawn on its second rank: got %d, want 8", got)
	}
	if got := pawnAdvance(board.White, 1); got != 24 {
		t.Errorf("white pawn one step from promotion: got %d, want 24", got)
	}
	if got := pawnAdvance(board.Black, 3); got != 24 {
		t.Errorf("black pawn one step from promotion: got %d, want 24", got)
	}
}

func TestMaterialBalance(t *testing.T) {
	// White rook against a lone king, no mobility term.
	pos, err := board.ParseFEN("k3/4/4/4/KR2 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if got := MaterialEvaluator.Evaluate(pos); got != RookValue {
		t.Errorf("got %d, want %d", got, RookValue)
	}
}
