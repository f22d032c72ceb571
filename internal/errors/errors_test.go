package errors

import (
	"fmt"
	"testing"
)

func TestGameErrorUnwrap(t *testing.T) {
	err := NewGameError(ErrIllegalMove, "g1", 7, "a1a5")
	if !Is(err, ErrIllegalMove) {
		t.Fatalf("expected errors.Is to match ErrIllegalMove, got %v", err)
	}

	var ge *GameError
	if !As(fmt.Errorf("wrapped: %w", err), &ge) {
		t.Fatal("expected errors.As to find GameError")
	}
	if ge.Ply != 7 || ge.GameID != "g1" {
		t.Errorf("unexpected context: %+v", ge)
	}

	want := `game g1, ply 7, move "a1a5": illegal move`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewGameErrorNil(t *testing.T) {
	if err := NewGameError(nil, "g", 0, ""); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
