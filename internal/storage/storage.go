// Package storage persists match game logs and cumulative match statistics
// in BadgerDB.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	mcerrors "github.com/hailam/microchess/internal/errors"
)

// Key prefixes
const (
	prefixGame  = "game/"
	prefixStats = "stats/"
)

// GameLog is the record of one finished game.
type GameLog struct {
	ID        string        `json:"id"`
	White     string        `json:"white"`
	Black     string        `json:"black"`
	FENs      []string      `json:"fens"` // start position first, one per ply
	Moves     []string      `json:"moves"`
	Result    int           `json:"result"`            // +1 white won, 0 draw, -1 black won
	Reason    string        `json:"reason"`            // checkmate, stalemate, max plies, ...
	Forfeit   string        `json:"forfeit,omitempty"` // name of the forfeiting agent
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Plies returns the number of moves played.
func (g *GameLog) Plies() int {
	return len(g.Moves)
}

// AgentRecord accumulates one agent's results within a match.
type AgentRecord struct {
	Name        string        `json:"name"`
	WinsAsWhite int           `json:"wins_as_white"`
	WinsAsBlack int           `json:"wins_as_black"`
	Forfeits    int           `json:"forfeits"`
	Moves       int           `json:"moves"`
	Time        time.Duration `json:"time"` // total time spent in Move
}

// Wins returns the total number of wins.
func (r *AgentRecord) Wins() int {
	return r.WinsAsWhite + r.WinsAsBlack
}

// AverageTime returns the mean time per move.
func (r *AgentRecord) AverageTime() time.Duration {
	if r.Moves == 0 {
		return 0
	}
	return r.Time / time.Duration(r.Moves)
}

func (r *AgentRecord) add(o AgentRecord) {
	r.WinsAsWhite += o.WinsAsWhite
	r.WinsAsBlack += o.WinsAsBlack
	r.Forfeits += o.Forfeits
	r.Moves += o.Moves
	r.Time += o.Time
}

// MatchStats summarises a match between agents A and B.
type MatchStats struct {
	Matchup    string      `json:"matchup"`
	Games      int         `json:"games"`
	Draws      int         `json:"draws"`
	TotalPlies int         `json:"total_plies"`
	A          AgentRecord `json:"a"`
	B          AgentRecord `json:"b"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Score returns wins(A) - wins(B).
func (s *MatchStats) Score() int {
	return s.A.Wins() - s.B.Wins()
}

// Pass reports whether A outscored B by at least threshold.
func (s *MatchStats) Pass(threshold int) bool {
	return s.Score() >= threshold
}

// AveragePlies returns the mean game length in plies.
func (s *MatchStats) AveragePlies() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.Games)
}

// AverageMoves returns the mean game length in full moves.
func (s *MatchStats) AverageMoves() float64 {
	return s.AveragePlies() / 2
}

// Add folds o into s.
func (s *MatchStats) Add(o *MatchStats) {
	s.Games += o.Games
	s.Draws += o.Draws
	s.TotalPlies += o.TotalPlies
	s.A.add(o.A)
	s.B.add(o.B)
	if o.UpdatedAt.After(s.UpdatedAt) {
		s.UpdatedAt = o.UpdatedAt
	}
}

// Store wraps BadgerDB for persistent storage.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a store in dir. An empty dir resolves to the
// platform data directory.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a store that is discarded on Close.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame stores a game log under its ID.
func (s *Store) SaveGame(g *GameLog) error {
	if g.ID == "" {
		return fmt.Errorf("save game: empty id")
	}
	return s.put(prefixGame+g.ID, g)
}

// LoadGame returns the game stored under id.
func (s *Store) LoadGame(id string) (*GameLog, error) {
	var g GameLog
	found, err := s.get(prefixGame+id, &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", mcerrors.ErrGameNotFound, id)
	}
	return &g, nil
}

// ListGames returns the IDs of stored games starting with prefix, in key
// order.
func (s *Store) ListGames(prefix string) ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixGame + prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, key[len(prefixGame):])
		}
		return nil
	})
	return ids, err
}

// SaveStats stores stats under its matchup name, replacing earlier runs.
func (s *Store) SaveStats(stats *MatchStats) error {
	return s.put(prefixStats+stats.Matchup, stats)
}

// LoadStats loads the statistics of a matchup, returns empty stats if not found
func (s *Store) LoadStats(matchup string) (*MatchStats, error) {
	stats := &MatchStats{Matchup: matchup}
	if _, err := s.get(prefixStats+matchup, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordMatch adds stats to the cumulative record of its matchup and
// returns the updated totals.
func (s *Store) RecordMatch(stats *MatchStats) (*MatchStats, error) {
	total, err := s.LoadStats(stats.Matchup)
	if err != nil {
		return nil, err
	}
	if total.Games == 0 {
		total.A.Name, total.B.Name = stats.A.Name, stats.B.Name
	}
	total.Add(stats)

	if err := s.SaveStats(total); err != nil {
		return nil, err
	}
	return total, nil
}

func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Store) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}
