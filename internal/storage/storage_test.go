package storage

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	mcerrors "github.com/hailam/microchess/internal/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGameRoundTrip(t *testing.T) {
	s := openTestStore(t)

	g := &GameLog{
		ID:        "a1b2",
		White:     "tactical",
		Black:     "random",
		FENs:      []string{"knbr/p3/4/3P/RBNK w - - 0 1", "knbr/p3/3P/4/RBNK b - - 0 1"},
		Moves:     []string{"d2d3"},
		Result:    1,
		Reason:    "forfeit",
		Forfeit:   "random",
		StartedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:  3 * time.Second,
	}
	if err := s.SaveGame(g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	got, err := s.LoadGame("a1b2")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if diff := cmp.Diff(g, got); diff != "" {
		t.Errorf("game mismatch (-want +got):\n%s", diff)
	}
	if got.Plies() != 1 {
		t.Errorf("Plies() = %d, want 1", got.Plies())
	}
}

func TestLoadGameNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadGame("missing"); !errors.Is(err, mcerrors.ErrGameNotFound) {
		t.Errorf("got %v, want ErrGameNotFound", err)
	}
}

func TestSaveGameRequiresID(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveGame(&GameLog{}); err == nil {
		t.Error("expected an error for an empty id")
	}
}

func TestListGames(t *testing.T) {
	s := openTestStore(t)
	for _, id := range []string{"run1-0", "run1-1", "run2-0"} {
		if err := s.SaveGame(&GameLog{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	// Stats share the keyspace and must not show up as games.
	if err := s.SaveStats(&MatchStats{Matchup: "run1"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"run1-0", "run1-1", "run2-0"}},
		{"run1", []string{"run1-0", "run1-1"}},
		{"run3", nil},
	}
	for _, tt := range tests {
		got, err := s.ListGames(tt.prefix)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ListGames(%q) mismatch (-want +got):\n%s", tt.prefix, diff)
		}
	}
}

func TestStatsRecord(t *testing.T) {
	s := openTestStore(t)

	empty, err := s.LoadStats("tactical-vs-random")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Games != 0 || empty.Matchup != "tactical-vs-random" {
		t.Errorf("unexpected empty stats %+v", empty)
	}

	run := &MatchStats{
		Matchup:    "tactical-vs-random",
		Games:      4,
		Draws:      1,
		TotalPlies: 80,
		A:          AgentRecord{Name: "tactical", WinsAsWhite: 2, WinsAsBlack: 1, Moves: 40, Time: 400 * time.Millisecond},
		B:          AgentRecord{Name: "random", Moves: 40, Time: 4 * time.Millisecond},
	}
	if _, err := s.RecordMatch(run); err != nil {
		t.Fatal(err)
	}
	total, err := s.RecordMatch(run)
	if err != nil {
		t.Fatal(err)
	}

	if total.Games != 8 || total.Draws != 2 || total.A.Wins() != 6 {
		t.Errorf("cumulative stats wrong: %+v", total)
	}
	if total.A.Name != "tactical" || total.B.Name != "random" {
		t.Errorf("names not kept: %q %q", total.A.Name, total.B.Name)
	}

	loaded, err := s.LoadStats("tactical-vs-random")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(total, loaded); diff != "" {
		t.Errorf("stored stats mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchStatsDerived(t *testing.T) {
	st := &MatchStats{
		Games:      10,
		TotalPlies: 300,
		A:          AgentRecord{WinsAsWhite: 4, WinsAsBlack: 3, Moves: 100, Time: time.Second},
		B:          AgentRecord{WinsAsBlack: 1},
	}
	if st.Score() != 6 {
		t.Errorf("Score() = %d, want 6", st.Score())
	}
	if !st.Pass(6) || st.Pass(7) {
		t.Error("Pass threshold is inclusive")
	}
	if st.AveragePlies() != 30 || st.AverageMoves() != 15 {
		t.Errorf("averages: %v plies, %v moves", st.AveragePlies(), st.AverageMoves())
	}
	if st.A.AverageTime() != 10*time.Millisecond {
		t.Errorf("AverageTime() = %v", st.A.AverageTime())
	}
	var none AgentRecord
	if none.AverageTime() != 0 {
		t.Error("AverageTime of an idle agent should be 0")
	}
}

func TestOpenDir(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveGame(&GameLog{ID: "persist"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.LoadGame("persist"); err != nil {
		t.Errorf("game lost across reopen: %v", err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	frames, err := GetFramesDir("g1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(frames); err != nil {
		t.Errorf("frames directory missing: %v", err)
	}
}
