package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/microchess/internal/board"
	"github.com/hailam/microchess/internal/config"
)

func newTestUCI(t *testing.T, kind string) (*UCI, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	u, err := New(config.AgentConfig{Kind: kind}, nil, &out)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return u, &out
}

func TestHandshake(t *testing.T) {
	u, out := newTestUCI(t, "tactical")
	if err := u.Run(strings.NewReader("uci\nisready\n")); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"id name MicroChess", "default tactical", "uciok", "readyok"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestQuitStopsLoop(t *testing.T) {
	u, out := newTestUCI(t, "random")
	if err := u.Run(strings.NewReader("isready\nquit\nisready\n")); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "readyok"); n != 1 {
		t.Errorf("readyok printed %d times, want 1", n)
	}
}

func TestPositionStartposMoves(t *testing.T) {
	u, _ := newTestUCI(t, "random")
	u.Handle("position startpos moves d2d3")

	m, err := board.ParseMove("d2d3")
	if err != nil {
		t.Fatal(err)
	}
	want, err := board.NewPosition().ApplyMove(m)
	if err != nil {
		t.Fatal(err)
	}
	if got := u.Position().FEN(); got != want.FEN() {
		t.Errorf("FEN = %q, want %q", got, want.FEN())
	}
}

func TestPositionFEN(t *testing.T) {
	u, _ := newTestUCI(t, "random")
	fen := "k3/4/1q2/4/KR2 w - - 0 1"
	u.Handle("position fen " + fen)
	if got := u.Position().FEN(); got != fen {
		t.Errorf("FEN = %q, want %q", got, fen)
	}
}

func TestPositionRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{"illegal move", "position startpos moves a1a5", "Invalid move"},
		{"garbage move", "position startpos moves zz", "Invalid move"},
		{"bad fen", "position fen 8/8/8 w - - 0 1", "Invalid FEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, out := newTestUCI(t, "random")
			before := u.Position().FEN()
			u.Handle(tt.cmd)
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output %q missing %q", out.String(), tt.want)
			}
			if u.Position().FEN() != before {
				t.Error("position changed after a rejected command")
			}
		})
	}
}

func TestGoFindsCapture(t *testing.T) {
	u, out := newTestUCI(t, "tactical")
	u.Handle("position fen k3/4/1q2/4/KR2 w - - 0 1")
	u.Handle("go depth 1")

	got := out.String()
	if !strings.Contains(got, "bestmove b1b3") {
		t.Errorf("expected the queen capture:\n%s", got)
	}
	if !strings.Contains(got, "info depth 1 ") {
		t.Errorf("info line missing the depth override:\n%s", got)
	}
}

func TestGoWithoutMoves(t *testing.T) {
	u, out := newTestUCI(t, "tactical")
	u.Handle("position fen k3/1Q2/1K2/4/4 b - - 0 1")
	u.Handle("go")
	if !strings.Contains(out.String(), "bestmove 0000") {
		t.Errorf("got %q", out.String())
	}
}

func TestSetOption(t *testing.T) {
	u, out := newTestUCI(t, "tactical")
	u.Handle("setoption name Agent value random")
	if u.agent.Name() != "random" {
		t.Errorf("agent = %s, want random", u.agent.Name())
	}

	u.Handle("setoption name Agent value nobody")
	if u.agent.Name() != "random" {
		t.Error("unknown agent replaced the current one")
	}
	u.Handle("setoption name Hash value 16")
	if !strings.Contains(out.String(), "Unknown option") {
		t.Errorf("got %q", out.String())
	}
}

func TestEvalCommand(t *testing.T) {
	u, out := newTestUCI(t, "random")
	u.Handle("eval")
	for _, want := range []string{"material   0 (pieces +0)", "advance    55", "positional 55"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("eval output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPerft(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()

	if Perft(pos, 0) != 1 {
		t.Error("perft(0) should be 1")
	}
	if got := Perft(pos, 1); got != uint64(len(moves)) {
		t.Errorf("perft(1) = %d, want %d", got, len(moves))
	}

	var want uint64
	for _, m := range moves {
		child, err := pos.ApplyMove(m)
		if err != nil {
			t.Fatal(err)
		}
		want += uint64(len(child.GenerateLegalMoves()))
	}
	if got := Perft(pos, 2); got != want {
		t.Errorf("perft(2) = %d, want %d", got, want)
	}
	if pos.FEN() != board.NewPosition().FEN() {
		t.Error("perft mutated the position")
	}
}

func TestUnknownCommand(t *testing.T) {
	u, out := newTestUCI(t, "random")
	if !u.Handle("frobnicate") {
		t.Fatal("unknown command should not stop the loop")
	}
	if !strings.Contains(out.String(), "Unknown command: frobnicate") {
		t.Errorf("got %q", out.String())
	}
}

func TestSetOptionKeepsConfig(t *testing.T) {
	var out bytes.Buffer
	u, err := New(config.AgentConfig{Kind: "tactical", Name: "house", Seed: 99}, nil, &out)
	if err != nil {
		t.Fatal(err)
	}
	u.Handle("setoption name Agent value random")
	if u.cfg.Seed != 99 || u.cfg.Name != "house" || u.cfg.Kind != "random" {
		t.Errorf("config after setoption = %+v", u.cfg)
	}
	if u.agent.Name() != "house" {
		t.Errorf("agent name %q, want house", u.agent.Name())
	}
}

func TestGoRejectsDeepSearch(t *testing.T) {
	u, out := newTestUCI(t, "tactical")
	u.Handle("go depth 60")
	got := out.String()
	if strings.Contains(got, "bestmove") {
		t.Errorf("searched past the depth limit:\n%s", got)
	}
	if !strings.Contains(got, "info string") {
		t.Errorf("expected an error line, got %q", got)
	}
}

func TestEvalShowsPieceBalance(t *testing.T) {
	u, out := newTestUCI(t, "random")
	u.Handle("position fen k3/4/4/4/KR2 w - - 0 1")
	u.Handle("eval")
	if !strings.Contains(out.String(), "(pieces +500)") {
		t.Errorf("eval output missing the rook balance:\n%s", out.String())
	}
}
