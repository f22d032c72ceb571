package engine

import (
	"fmt"

	"github.com/hailam/microchess/internal/board"
	mcerrors "github.com/hailam/microchess/internal/errors"
)

// Search constants
const (
	Infinity  = 1_000_000_000
	NoScore   = -Infinity // best-so-far sentinel: no child produced a value
	MateScore = 20000     // terminal score magnitude, not scaled by depth
)

// DefaultMaxExtensions is the per-branch budget of depth-preserving steps.
const DefaultMaxExtensions = 4

// SearchOptions configures a Searcher.
type SearchOptions struct {
	Breadth BreadthLimits

	// Extensions keeps the remaining depth unchanged after captures and
	// promotions, at most MaxExtensions times along any branch.
	Extensions    bool
	MaxExtensions int

	// Nodes is a node budget; once spent, unexplored nodes are scored
	// statically. Zero means unlimited.
	Nodes uint64

	// FullWidth searches every child with an open window and never cuts
	// off. It yields plain negamax values and exists for diagnostics.
	FullWidth bool
}

// Stats counts search work since the last ResetStats.
type Stats struct {
	Nodes      uint64
	Leaves     uint64
	Cutoffs    uint64
	Extensions uint64
	CapHits    uint64 // branches stopped by the ply cap
	MaxPly     int
}

// Searcher performs negamax with alpha-beta pruning. It holds no position
// state: every call works on the immutable positions passed in.
type Searcher struct {
	eval    Evaluator
	orderer *MoveOrderer
	opts    SearchOptions

	maxPly int
	stats  Stats
	err    error
}

// NewSearcher creates a searcher.
func NewSearcher(eval Evaluator, opts SearchOptions) *Searcher {
	if opts.MaxExtensions < 0 {
		opts.MaxExtensions = 0
	}
	if !opts.Extensions {
		opts.MaxExtensions = 0
	}
	return &Searcher{
		eval:    eval,
		orderer: NewMoveOrderer(opts.Breadth),
		opts:    opts,
	}
}

// Orderer returns the move orderer used at interior nodes.
func (s *Searcher) Orderer() *MoveOrderer {
	return s.orderer
}

// Stats returns the counters accumulated since the last ResetStats.
func (s *Searcher) Stats() Stats {
	return s.stats
}

// Err returns the first internal invariant violation seen since the last
// ResetStats, or nil.
func (s *Searcher) Err() error {
	return s.err
}

// ResetStats clears counters and the recorded error.
func (s *Searcher) ResetStats() {
	s.stats = Stats{}
	s.err = nil
}

// Search returns the negamax value of pos from the perspective of sign
// (+1 White, -1 Black) searched to depth plies. Callers negate the result
// and swap the window for the opponent.
func (s *Searcher) Search(pos board.State, depth, alpha, beta, sign int) int {
	s.maxPly = max(depth, 0) + s.opts.MaxExtensions
	return s.negamax(pos, depth, 0, s.opts.MaxExtensions, alpha, beta, sign)
}

// negamax is the recursive search. ext is the extension budget left on this
// branch; depth+ext shrinks by one every ply, so ply never exceeds maxPly
// unless the bookkeeping is broken.
func (s *Searcher) negamax(pos board.State, depth, ply, ext, alpha, beta, sign int) int {
	s.stats.Nodes++
	if ply > s.stats.MaxPly {
		s.stats.MaxPly = ply
	}

	// Terminal check precedes the depth check.
	if res, ok := pos.Result(); ok {
		return int(res) * MateScore * sign
	}

	if ply > s.maxPly {
		s.stats.CapHits++
		if s.err == nil {
			s.err = fmt.Errorf("%w: ply %d beyond cap %d", mcerrors.ErrExtensionCapExceeded, ply, s.maxPly)
		}
		return s.leaf(pos, sign)
	}

	if depth <= 0 || s.outOfNodes() {
		return s.leaf(pos, sign)
	}

	moves, err := pos.LegalMoves()
	if err != nil || len(moves) == 0 {
		return s.leaf(pos, sign)
	}
	moves = Truncate(s.orderer.Order(pos, moves), s.orderer.Breadth(depth))

	best := NoScore
	for _, m := range moves {
		child, err := pos.Apply(m)
		if err != nil {
			continue
		}

		nextDepth, nextExt := depth-1, ext
		if ext > 0 && (m.IsPromotion() || m.IsCapture(pos)) {
			nextDepth, nextExt = depth, ext-1
			s.stats.Extensions++
		}

		var val int
		if s.opts.FullWidth {
			val = -s.negamax(child, nextDepth, ply+1, nextExt, -Infinity, Infinity, -sign)
		} else {
			val = -s.negamax(child, nextDepth, ply+1, nextExt, -beta, -alpha, -sign)
		}

		if val > best {
			best = val
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta && !s.opts.FullWidth {
			s.stats.Cutoffs++
			break
		}
	}

	if best == NoScore {
		return s.leaf(pos, sign)
	}
	return best
}

// leaf scores pos statically from the perspective of sign.
func (s *Searcher) leaf(pos board.State, sign int) int {
	s.stats.Leaves++
	return sign * s.eval.Evaluate(pos)
}

func (s *Searcher) outOfNodes() bool {
	return s.opts.Nodes > 0 && s.stats.Nodes > s.opts.Nodes
}
