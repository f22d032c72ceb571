package engine

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/microchess/internal/board"
)

// Settings describes a search-based agent.
type Settings struct {
	Depth         int // root search depth in plies
	Breadth       BreadthLimits
	Eval          Evaluator
	Extensions    bool
	MaxExtensions int
	Danger        bool   // subtract the capture-reply penalty at the root
	Nodes         uint64 // node budget shared by all root candidates of one Move call (0 = no limit)
	Seed          int64  // fallback move generator seed
}

// SearchInfo describes the last root decision.
type SearchInfo struct {
	Move       board.Move
	Score      int
	Candidates int
	Stats      Stats
	Time       time.Duration
	Fallback   bool // no candidate beat the sentinel, move chosen at random
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for per-decision debug output.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithName overrides the agent name.
func WithName(name string) EngineOption {
	return func(e *Engine) {
		if name != "" {
			e.name = name
		}
	}
}

// Engine is the search-based agent. It orders root moves, searches each
// candidate's child position and keeps the best one.
type Engine struct {
	name     string
	settings Settings
	searcher *Searcher
	danger   *DangerEstimator
	rng      *rand.Rand
	logger   *zap.Logger
	info     SearchInfo

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with the given settings.
func NewEngine(settings Settings, opts ...EngineOption) *Engine {
	if settings.Eval == nil {
		settings.Eval = PositionalEvaluator
	}
	if settings.Depth < 1 {
		settings.Depth = 1
	}
	if settings.Extensions && settings.MaxExtensions == 0 {
		settings.MaxExtensions = DefaultMaxExtensions
	}

	e := &Engine{
		name:     "engine",
		settings: settings,
		searcher: NewSearcher(settings.Eval, SearchOptions{
			Breadth:       settings.Breadth,
			Extensions:    settings.Extensions,
			MaxExtensions: settings.MaxExtensions,
			Nodes:         settings.Nodes,
		}),
		rng:    rand.New(rand.NewSource(settings.Seed)),
		logger: zap.NewNop(),
	}
	if settings.Danger {
		e.danger = NewDangerEstimator(settings.Eval)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the agent name.
func (e *Engine) Name() string {
	return e.name
}

// Settings returns the effective settings.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Reset prepares the engine for a new game. The search keeps no state
// between moves, so this only clears diagnostics and reseeds the fallback
// generator.
func (e *Engine) Reset() {
	e.info = SearchInfo{}
	e.searcher.ResetStats()
	e.rng.Seed(e.settings.Seed)
}

// LastInfo returns information about the most recent Move call.
func (e *Engine) LastInfo() SearchInfo {
	return e.info
}

// Err reports an internal search invariant violation seen during the most
// recent Move call.
func (e *Engine) Err() error {
	return e.searcher.Err()
}

// Move chooses a move for the side to move. It returns false only when the
// position has no legal moves.
func (e *Engine) Move(pos board.State) (board.Move, bool) {
	start := time.Now()

	moves, err := pos.LegalMoves()
	if err != nil || len(moves) == 0 {
		return board.NoMove, false
	}

	mover := pos.SideToMove()
	sign := mover.Sign()
	orderer := e.searcher.Orderer()
	candidates := Truncate(orderer.Order(pos, moves), orderer.RootBreadth())

	e.searcher.ResetStats()
	bestMove, bestScore := board.NoMove, NoScore
	alpha, beta := -Infinity, Infinity

	for _, m := range candidates {
		child, err := pos.Apply(m)
		if err != nil {
			continue
		}

		penalty := 0
		if e.danger != nil {
			penalty = e.danger.Estimate(child, mover)
		}

		score := -e.searcher.Search(child, e.settings.Depth-1, -beta, -alpha, -sign) - penalty
		if score > bestScore {
			bestScore, bestMove = score, m
		}
		if score > alpha {
			alpha = score
		}
	}

	fallback := bestMove == board.NoMove
	if fallback {
		bestMove = moves[e.rng.Intn(len(moves))]
	}

	e.info = SearchInfo{
		Move:       bestMove,
		Score:      bestScore,
		Candidates: len(candidates),
		Stats:      e.searcher.Stats(),
		Time:       time.Since(start),
		Fallback:   fallback,
	}

	e.logger.Debug("move chosen",
		zap.String("agent", e.name),
		zap.Stringer("move", bestMove),
		zap.Int("score", bestScore),
		zap.Uint64("nodes", e.info.Stats.Nodes),
		zap.Uint64("extensions", e.info.Stats.Extensions),
		zap.Bool("fallback", fallback),
		zap.Duration("elapsed", e.info.Time),
	)
	if err := e.searcher.Err(); err != nil {
		e.logger.Warn("search invariant violated", zap.String("agent", e.name), zap.Error(err))
	}

	if e.OnInfo != nil {
		e.OnInfo(e.info)
	}
	return bestMove, true
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score >= MateScore/2 {
		return "mate"
	}
	if score <= -MateScore/2 {
		return "mated"
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
