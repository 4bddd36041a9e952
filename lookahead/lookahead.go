// Package lookahead is the older, simpler move picker: an exhaustive
// fixed-depth search that adds up a corner-distance score along each line
// of play, discounted by 0.8 per ply. It has no pruning and no time budget.
package lookahead

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/equity"
	"github.com/domino14/slide2048/linetable"
	"github.com/domino14/slide2048/negamax"
)

const (
	DefaultLevels = 6
	Decay         = 0.8
)

type Solver struct {
	table  *linetable.Table
	calc   equity.Calculator
	levels int
	nodes  uint64
}

func NewSolver(table *linetable.Table, levels int) *Solver {
	if levels < 0 {
		levels = 0
	}
	return &Solver{table: table, calc: equity.CornerDistance{}, levels: levels}
}

func (s *Solver) Levels() int {
	return s.levels
}

// pick returns the best direction at b and its score. A board with no legal
// move scores negamax.LossScore.
func (s *Solver) pick(b board.Board, levels int) (board.Direction, float64) {
	best := board.NoDirection
	bestScore := negamax.LossScore
	for _, d := range board.Directions {
		child, changed := b.Apply(s.table, d)
		if !changed {
			continue
		}
		s.nodes++
		score := s.calc.Equity(child)
		if levels > 0 {
			_, sub := s.pick(child, levels-1)
			score += sub * Decay
		}
		if best == board.NoDirection || score > bestScore {
			best = d
			bestScore = score
		}
	}
	return best, bestScore
}

// Solve searches s.Levels plies below every root move. ctx is only checked
// before the search starts.
func (s *Solver) Solve(ctx context.Context, b board.Board) (*negamax.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tstart := time.Now()
	s.nodes = 0
	move, score := s.pick(b, s.levels)
	if move == board.NoDirection {
		return nil, negamax.ErrNoMove
	}
	res := &negamax.Result{
		Move:    move,
		Score:   score,
		Depth:   s.levels,
		Nodes:   s.nodes,
		Elapsed: time.Since(tstart),
		PV:      []board.Direction{move},
	}
	log.Debug().Str("move", move.String()).Float64("score", score).
		Uint64("nodes", res.Nodes).Msg("lookahead-returning")
	return res, nil
}
