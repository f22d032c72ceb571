package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/hailam/microchess/internal/board"
	"github.com/hailam/microchess/internal/config"
	mcerrors "github.com/hailam/microchess/internal/errors"
)

// Agent chooses moves for one side of a game.
type Agent interface {
	Name() string
	// Reset clears per-game state before a new game.
	Reset()
	// Move returns a legal move for the side to move, or false when there
	// is none.
	Move(pos board.State) (board.Move, bool)
}

// Kind names an agent strategy.
type Kind string

const (
	Random    Kind = "random"
	Greedy    Kind = "greedy"
	AlphaBeta Kind = "alphabeta"
	Tactical  Kind = "tactical"
)

// DefaultSeed seeds every agent's generator unless configured otherwise.
const DefaultSeed = 8228

// Kinds lists the known strategies.
var Kinds = []Kind{Random, Greedy, AlphaBeta, Tactical}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", mcerrors.ErrUnknownAgent, s)
}

// DefaultSettings maps each search strategy to its settings.
var DefaultSettings = map[Kind]Settings{
	// One ply plus the two most forcing replies, material only.
	Greedy: {
		Depth:   2,
		Breadth: BreadthLimits{Root: 8, Frontier: 2},
		Eval:    MaterialEvaluator,
		Seed:    DefaultSeed,
	},
	AlphaBeta: {
		Depth:   4,
		Breadth: BreadthLimits{Root: 12, Shallow: 10, Deep: 8},
		Eval:    AdvanceEvaluator,
		Seed:    DefaultSeed,
	},
	Tactical: {
		Depth:         3,
		Breadth:       BreadthLimits{Root: 10, Shallow: 8, Deep: 6},
		Eval:          PositionalEvaluator,
		Extensions:    true,
		MaxExtensions: DefaultMaxExtensions,
		Danger:        true,
		Seed:          DefaultSeed,
	},
}

// RandomAgent plays a uniformly random legal move.
type RandomAgent struct {
	name string
	seed int64
	rng  *rand.Rand
}

// NewRandomAgent creates a random agent seeded with seed.
func NewRandomAgent(seed int64) *RandomAgent {
	return &RandomAgent{
		name: string(Random),
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (a *RandomAgent) Name() string { return a.name }

// Reset reseeds the generator so every game replays the same choices.
func (a *RandomAgent) Reset() {
	a.rng.Seed(a.seed)
}

func (a *RandomAgent) Move(pos board.State) (board.Move, bool) {
	moves, err := pos.LegalMoves()
	if err != nil || len(moves) == 0 {
		return board.NoMove, false
	}
	return moves[a.rng.Intn(len(moves))], true
}

// NewAgent builds the preset agent of the given kind.
func NewAgent(kind Kind, logger *zap.Logger) (Agent, error) {
	if kind == Random {
		return NewRandomAgent(DefaultSeed), nil
	}
	settings, ok := DefaultSettings[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", mcerrors.ErrUnknownAgent, kind)
	}
	return NewEngine(settings, WithName(string(kind)), WithLogger(logger)), nil
}

// ParseEvaluator returns the evaluator named by s: material, advance or
// positional.
func ParseEvaluator(s string) (Evaluator, error) {
	switch strings.ToLower(s) {
	case "material":
		return MaterialEvaluator, nil
	case "advance":
		return AdvanceEvaluator, nil
	case "positional":
		return PositionalEvaluator, nil
	}
	return nil, fmt.Errorf("%w: unknown evaluator %q", mcerrors.ErrInvalidConfig, s)
}

// NewAgentFromConfig builds an agent from its preset and applies the
// non-zero overrides in cfg.
func NewAgentFromConfig(cfg config.AgentConfig, logger *zap.Logger) (Agent, error) {
	kind, err := ParseKind(cfg.Kind)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := int64(DefaultSeed)
	if cfg.Seed != 0 {
		seed = cfg.Seed
	}
	name := cfg.Name
	if name == "" {
		name = string(kind)
	}

	if kind == Random {
		a := NewRandomAgent(seed)
		a.name = name
		return a, nil
	}

	s := DefaultSettings[kind]
	s.Seed = seed
	if cfg.Depth > 0 {
		s.Depth = cfg.Depth
	}
	if cfg.Eval != "" {
		if s.Eval, err = ParseEvaluator(cfg.Eval); err != nil {
			return nil, err
		}
	}
	if cfg.Breadth.Root > 0 {
		s.Breadth.Root = cfg.Breadth.Root
	}
	if cfg.Breadth.Deep > 0 {
		s.Breadth.Deep = cfg.Breadth.Deep
	}
	if cfg.Breadth.Shallow > 0 {
		s.Breadth.Shallow = cfg.Breadth.Shallow
	}
	if cfg.Breadth.Frontier > 0 {
		s.Breadth.Frontier = cfg.Breadth.Frontier
	}
	if cfg.Extensions != nil {
		s.Extensions = *cfg.Extensions
	}
	if cfg.MaxExtensions > 0 {
		s.MaxExtensions = cfg.MaxExtensions
	}
	if cfg.Danger != nil {
		s.Danger = *cfg.Danger
	}
	if cfg.Nodes > 0 {
		s.Nodes = cfg.Nodes
	}

	return NewEngine(s, WithName(name), WithLogger(logger)), nil
}
