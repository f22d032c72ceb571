package engine

import (
	"github.com/hailam/microchess/internal/board"
)

// Danger look-ahead parameters
const (
	DangerBreadth   = 6   // capturing replies examined
	DangerThreshold = 150 // swings at or below this are treated as noise
)

// DangerEstimator is a one-ply hanging-piece detector: it measures the worst
// evaluation swing an immediate capturing reply can inflict. It never recurses.
type DangerEstimator struct {
	eval      Evaluator
	breadth   int
	threshold int
}

// NewDangerEstimator creates an estimator using eval and the default limits.
func NewDangerEstimator(eval Evaluator) *DangerEstimator {
	return &DangerEstimator{
		eval:      eval,
		breadth:   DangerBreadth,
		threshold: DangerThreshold,
	}
}

// Estimate returns a non-negative penalty for child, the position reached
// after mover played a candidate move. Capturing replies are taken in
// generation order, at most DangerBreadth of them.
func (d *DangerEstimator) Estimate(child board.State, mover board.Color) int {
	replies, err := child.LegalMoves()
	if err != nil {
		return 0
	}

	var captures []board.Move
	for _, r := range replies {
		if r.IsCapture(child) {
			captures = append(captures, r)
		}
	}
	if len(captures) == 0 {
		return 0
	}
	captures = Truncate(captures, d.breadth)

	base := d.eval.Evaluate(child)
	worst := 0
	for _, r := range captures {
		after, err := child.Apply(r)
		if err != nil {
			continue
		}
		delta := d.eval.Evaluate(after) - base
		if mover == board.White {
			worst = min(worst, delta)
		} else {
			worst = max(worst, delta)
		}
	}

	if w := abs(worst); w > d.threshold {
		return w
	}
	return 0
}
