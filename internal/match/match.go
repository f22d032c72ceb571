// Package match plays series of games between two agents and collects the
// results.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/microchess/internal/board"
	"github.com/hailam/microchess/internal/config"
	"github.com/hailam/microchess/internal/engine"
	mcerrors "github.com/hailam/microchess/internal/errors"
	"github.com/hailam/microchess/internal/storage"
)

// Defaults
const (
	DefaultMaxPlies = 200
	DefaultParallel = 1
	RepetitionLimit = 3 // occurrences of a position that end the game
)

// Termination reasons
const (
	ReasonCheckmate  = "checkmate"
	ReasonStalemate  = "stalemate"
	ReasonMaterial   = "insufficient material"
	ReasonClock      = "half-move clock"
	ReasonRepetition = "threefold repetition"
	ReasonMaxPlies   = "max plies"
	ReasonForfeit    = "forfeit"
)

// AgentFactory creates a fresh agent for the game with the given index.
// Every game gets its own instances so agents are never shared between
// goroutines.
type AgentFactory func(game int) (engine.Agent, error)

// ConfigFactory returns a factory building agents from cfg. Game i is seeded
// with the configured seed (engine.DefaultSeed when unset) plus i, so each
// game draws its own random stream and a run replays exactly.
func ConfigFactory(cfg config.AgentConfig, logger *zap.Logger) AgentFactory {
	base := cfg.Seed
	if base == 0 {
		base = engine.DefaultSeed
	}
	return func(game int) (engine.Agent, error) {
		c := cfg
		c.Seed = base + int64(game)
		return engine.NewAgentFromConfig(c, logger)
	}
}

// KindFactory returns a factory building the preset agent of kind.
func KindFactory(kind engine.Kind, logger *zap.Logger) AgentFactory {
	return ConfigFactory(config.AgentConfig{Kind: string(kind)}, logger)
}

// Option configures a Runner.
type Option func(*Runner)

// WithParallel sets how many games run at once.
func WithParallel(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.parallel = n
		}
	}
}

// WithMaxPlies sets the ply limit after which a game is drawn.
func WithMaxPlies(n int) Option {
	return func(r *Runner) {
		if n >= 1 {
			r.maxPlies = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStore persists every game log and the match statistics.
func WithStore(store *storage.Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithStartFEN overrides the start position.
func WithStartFEN(fen string) Option {
	return func(r *Runner) {
		r.startFEN = fen
	}
}

// Runner plays matches.
type Runner struct {
	parallel int
	maxPlies int
	startFEN string
	logger   *zap.Logger
	store    *storage.Store
}

// NewRunner creates a runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		parallel: DefaultParallel,
		maxPlies: DefaultMaxPlies,
		startFEN: board.StartFEN,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report is the outcome of Play.
type Report struct {
	RunID string
	Stats *storage.MatchStats
	Games []*storage.GameLog
}

// OverBudget reports whether agent A averaged more than budget per move.
func (r *Report) OverBudget(budget time.Duration) bool {
	return budget > 0 && r.Stats.A.AverageTime() > budget
}

// outcome is one finished game plus per-side timing.
type outcome struct {
	log        *storage.GameLog
	whiteTime  time.Duration
	blackTime  time.Duration
	whiteMoves int
	blackMoves int
}

// Play runs games between agents built by a and b. Agent B opens the first
// game as White and colours alternate from there. Game logs are listed in
// game order.
func (r *Runner) Play(ctx context.Context, a, b AgentFactory, games int) (*Report, error) {
	start, err := board.ParseFEN(r.startFEN)
	if err != nil {
		return nil, err
	}

	nameA, nameB, err := agentNames(a, b)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run", runID))
	logger.Info("match started",
		zap.String("a", nameA),
		zap.String("b", nameB),
		zap.Int("games", games),
		zap.Int("parallel", r.parallel),
	)

	outcomes := make([]outcome, games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i := 0; i < games; i++ {
		i := i
		g.Go(func() error {
			agentA, err := a(i)
			if err != nil {
				return err
			}
			agentB, err := b(i)
			if err != nil {
				return err
			}

			white, black := agentB, agentA
			if aIsWhite(i) {
				white, black = agentA, agentB
			}

			id := fmt.Sprintf("%s-%03d", runID, i)
			out, err := r.playGame(gctx, id, start, white, black)
			if err != nil {
				return err
			}
			outcomes[i] = out

			logger.Info("game finished",
				zap.String("id", id),
				zap.String("white", white.Name()),
				zap.String("black", black.Name()),
				zap.Int("result", out.log.Result),
				zap.String("reason", out.log.Reason),
				zap.Int("plies", out.log.Plies()),
			)

			if r.store != nil {
				if err := r.store.SaveGame(out.log); err != nil {
					return fmt.Errorf("save game %s: %w", id, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID: runID,
		Stats: tally(nameA, nameB, outcomes),
		Games: make([]*storage.GameLog, games),
	}
	for i, out := range outcomes {
		report.Games[i] = out.log
	}

	if r.store != nil {
		if _, err := r.store.RecordMatch(report.Stats); err != nil {
			return nil, fmt.Errorf("record match: %w", err)
		}
	}

	logger.Info("match finished",
		zap.Int("score", report.Stats.Score()),
		zap.Int("draws", report.Stats.Draws),
		zap.Duration("avg_time_a", report.Stats.A.AverageTime()),
		zap.Duration("avg_time_b", report.Stats.B.AverageTime()),
	)
	return report, nil
}

// agentNames builds a throwaway instance of each side to learn its name.
func agentNames(a, b AgentFactory) (string, string, error) {
	agentA, err := a(0)
	if err != nil {
		return "", "", err
	}
	agentB, err := b(0)
	if err != nil {
		return "", "", err
	}
	return agentA.Name(), agentB.Name(), nil
}

// aIsWhite reports whether agent A has White in game i.
func aIsWhite(i int) bool {
	return i%2 == 1
}

// Matchup names a pairing for storage.
func Matchup(a, b string) string {
	return a + "_vs_" + b
}

func (r *Runner) playGame(ctx context.Context, id string, start *board.Position, white, black engine.Agent) (outcome, error) {
	white.Reset()
	black.Reset()

	pos := start.Copy()
	log := &storage.GameLog{
		ID:        id,
		White:     white.Name(),
		Black:     black.Name(),
		FENs:      []string{pos.FEN()},
		StartedAt: time.Now(),
	}
	out := outcome{log: log}
	seen := map[uint64]int{pos.Hash: 1}

	for ply := 1; ; ply++ {
		if err := ctx.Err(); err != nil {
			return outcome{}, err
		}

		if res, over := pos.Result(); over {
			log.Result = int(res)
			log.Reason = reason(pos)
			break
		}
		if ply > r.maxPlies {
			log.Result = int(board.Draw)
			log.Reason = ReasonMaxPlies
			break
		}

		agent := white
		if pos.Turn == board.Black {
			agent = black
		}

		begin := time.Now()
		m, ok := agent.Move(pos.Copy())
		elapsed := time.Since(begin)

		legal := pos.GenerateLegalMoves()
		if !ok || !board.ContainsMove(legal, m) {
			cause := mcerrors.ErrIllegalMove
			if !ok {
				cause = mcerrors.ErrNoLegalMoves
			}
			r.logger.Warn("forfeit",
				zap.String("agent", agent.Name()),
				zap.Error(mcerrors.NewGameError(cause, id, ply, m.String())),
			)
			log.Result = -pos.Turn.Sign()
			log.Reason = ReasonForfeit
			log.Forfeit = agent.Name()
			break
		}

		if pos.Turn == board.White {
			out.whiteTime += elapsed
			out.whiteMoves++
		} else {
			out.blackTime += elapsed
			out.blackMoves++
		}

		pos.MakeMove(m)
		log.Moves = append(log.Moves, m.String())
		log.FENs = append(log.FENs, pos.FEN())

		seen[pos.Hash]++
		if seen[pos.Hash] >= RepetitionLimit {
			if res, over := pos.Result(); over {
				log.Result = int(res)
				log.Reason = reason(pos)
			} else {
				log.Result = int(board.Draw)
				log.Reason = ReasonRepetition
			}
			break
		}
	}

	log.Duration = time.Since(log.StartedAt)
	return out, nil
}

// reason names why a decided position is over.
func reason(pos *board.Position) string {
	switch {
	case pos.IsCheckmate():
		return ReasonCheckmate
	case pos.IsStalemate():
		return ReasonStalemate
	case pos.IsInsufficientMaterial():
		return ReasonMaterial
	default:
		return ReasonClock
	}
}

// tally folds game outcomes into match statistics.
func tally(nameA, nameB string, outcomes []outcome) *storage.MatchStats {
	st := &storage.MatchStats{
		Matchup:   Matchup(nameA, nameB),
		A:         storage.AgentRecord{Name: nameA},
		B:         storage.AgentRecord{Name: nameB},
		UpdatedAt: time.Now(),
	}

	for i, out := range outcomes {
		white, black := &st.B, &st.A
		if aIsWhite(i) {
			white, black = &st.A, &st.B
		}

		st.Games++
		st.TotalPlies += out.log.Plies()
		switch out.log.Result {
		case int(board.WhiteWin):
			white.WinsAsWhite++
		case int(board.BlackWin):
			black.WinsAsBlack++
		default:
			st.Draws++
		}
		if out.log.Forfeit != "" {
			if out.log.Result == int(board.WhiteWin) {
				black.Forfeits++
			} else {
				white.Forfeits++
			}
		}

		white.Time += out.whiteTime
		white.Moves += out.whiteMoves
		black.Time += out.blackTime
		black.Moves += out.blackMoves
	}
	return st
}
