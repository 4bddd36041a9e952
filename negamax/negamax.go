// Package negamax picks a move with a depth-limited alpha-beta search
// driven by iterative deepening under a soft time budget.
//
// Every level of the tree maximises over the same four slides; no random
// tile spawns are modelled. A child's value is discounted by FutureDecay per
// ply, so nearer rewards outweigh deeper ones.
package negamax

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/equity"
	"github.com/domino14/slide2048/linetable"
)

const (
	// WinScore is the value of reaching the 2048 tile. It is also the
	// beta bound of the root search.
	WinScore = 10000.0
	// LossScore is the value of a move after which nothing can move.
	LossScore = -WinScore
	// FutureDecay discounts a child's value once per ply.
	FutureDecay = 0.8

	DefaultMinSearchTime = 150 * time.Millisecond
	DefaultMaxDepth      = 20
)

var (
	ErrNoMove       = errors.New("no legal move")
	ErrInvalidDepth = errors.New("search depth must not be negative")
)

// PVLine is the principal variation: the line of best play found so far.
type PVLine struct {
	Moves []board.Direction
	score float64
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = nil
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(move board.Direction, newPVLine PVLine, score float64) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, move)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.score = score
}

// GetPVMove returns the first move of the line.
func (pvLine *PVLine) GetPVMove() board.Direction {
	if len(pvLine.Moves) == 0 {
		return board.NoDirection
	}
	return pvLine.Moves[0]
}

func (pvLine PVLine) String() string {
	parts := make([]string, len(pvLine.Moves))
	for i, m := range pvLine.Moves {
		parts[i] = m.String()
	}
	return fmt.Sprintf("%s (%.3f)", strings.Join(parts, " "), pvLine.score)
}

// Result is the outcome of a search.
type Result struct {
	Move    board.Direction
	Score   float64
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
	PV      []board.Direction
}

// Solver searches for the best move. A Solver is not safe for concurrent
// use; run one per goroutine. They may share the line table and calculator.
type Solver struct {
	table         *linetable.Table
	calc          equity.Calculator
	minSearchTime time.Duration
	maxDepth      int

	nodes uint64
}

func NewSolver(table *linetable.Table, calc equity.Calculator) *Solver {
	return &Solver{
		table:         table,
		calc:          calc,
		minSearchTime: DefaultMinSearchTime,
		maxDepth:      DefaultMaxDepth,
	}
}

// SetMinSearchTime sets the time after which no new depth is started.
func (s *Solver) SetMinSearchTime(d time.Duration) {
	s.minSearchTime = d
}

// SetMaxDepth caps iterative deepening. Depth 1 is always searched.
func (s *Solver) SetMaxDepth(d int) {
	s.maxDepth = max(d, 1)
}

func (s *Solver) MinSearchTime() time.Duration {
	return s.minSearchTime
}

func (s *Solver) MaxDepth() int {
	return s.maxDepth
}

// negamax returns the best direction and its value at b. The bool is false
// if no direction changes the board. When every legal child fails to beat
// α the returned move is NoDirection and the value is α.
func (s *Solver) negamax(b board.Board, α, β float64, depth int, pv *PVLine) (board.Direction, float64, bool) {
	best := α
	bestMove := board.NoDirection
	legal := false
	childPV := PVLine{}

	for _, d := range board.Directions {
		child, changed := b.Apply(s.table, d)
		if !changed {
			continue
		}
		legal = true
		s.nodes++

		if child.IsWin() {
			pv.Update(d, PVLine{}, WinScore)
			return d, WinScore, true
		}

		var value float64
		if depth == 0 {
			value = s.calc.Equity(child)
		} else {
			_, v, childLegal := s.negamax(child, best, β, depth-1, &childPV)
			if childLegal {
				value = v * FutureDecay
			} else {
				value = LossScore
			}
		}

		if value > best {
			best = value
			bestMove = d
			pv.Update(d, childPV, value)
		}
		if best > β {
			return bestMove, β, true // beta cut-off
		}
		childPV.Clear()
	}
	return bestMove, best, legal
}

// SearchDepth runs a single search to the given depth. Depth 0 scores each
// legal move by evaluating the board it leads to.
func (s *Solver) SearchDepth(b board.Board, depth int) (*Result, error) {
	if depth < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	tstart := time.Now()
	s.nodes = 0
	pv := PVLine{}
	move, score, legal := s.negamax(b, math.Inf(-1), WinScore, depth, &pv)
	if !legal || move == board.NoDirection {
		return nil, ErrNoMove
	}
	return &Result{
		Move:    move,
		Score:   score,
		Depth:   depth,
		Nodes:   s.nodes,
		Elapsed: time.Since(tstart),
		PV:      pv.Moves,
	}, nil
}

// Solve deepens one ply at a time from depth 1 and returns the move found at
// the deepest depth that completed. The time budget and ctx are checked only
// between depths, so the last iteration may run past the budget.
func (s *Solver) Solve(ctx context.Context, b board.Board) (*Result, error) {
	tstart := time.Now()
	s.nodes = 0
	var res *Result

	log.Debug().Str("board", b.ShortString()).Dur("min-search-time", s.minSearchTime).
		Int("max-depth", s.maxDepth).Msg("negamax-solve-config")

	for depth := 1; depth <= s.maxDepth; depth++ {
		pv := PVLine{}
		move, score, legal := s.negamax(b, math.Inf(-1), WinScore, depth, &pv)
		if !legal || move == board.NoDirection {
			log.Debug().Int("depth", depth).Msg("no-move-at-depth")
			break
		}
		res = &Result{Move: move, Score: score, Depth: depth, PV: pv.Moves}
		log.Debug().Int("depth", depth).Str("pv", pv.String()).
			Uint64("nodes", s.nodes).Msg("deepening-iteratively")

		if score >= WinScore || time.Since(tstart) >= s.minSearchTime || ctx.Err() != nil {
			break
		}
	}
	if res == nil {
		return nil, ErrNoMove
	}
	res.Nodes = s.nodes
	res.Elapsed = time.Since(tstart)
	log.Debug().Str("move", res.Move.String()).Float64("score", res.Score).
		Int("depth", res.Depth).Uint64("nodes", res.Nodes).
		Float64("time-elapsed-sec", res.Elapsed.Seconds()).Msg("solve-returning")
	return res, nil
}
