package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/config"
	"github.com/domino14/slide2048/equity"
	"github.com/domino14/slide2048/linetable"
	"github.com/domino14/slide2048/lookahead"
	"github.com/domino14/slide2048/negamax"
)

var ErrUnknownSolver = errors.New("unknown solver")

// Solver is anything that can pick a move for a board.
type Solver interface {
	Solve(ctx context.Context, b board.Board) (*negamax.Result, error)
}

// BotPlayer makes decisions with the solver named in the config. It is safe
// for concurrent use: every decision gets its own solver.
type BotPlayer struct {
	solverType    string
	table         *linetable.Table
	calc          *equity.WeightedCalculator
	minSearchTime time.Duration
	maxDepth      int
	levels        int
}

func NewBotPlayer(cfg *config.Config) (*BotPlayer, error) {
	st := cfg.GetString(config.ConfigSolver)
	if st != config.SolverNegamax && st != config.SolverLookahead {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, st)
	}
	p := &BotPlayer{
		solverType:    st,
		table:         linetable.Get(),
		calc:          equity.NewWeightedCalculator(equity.WeightsFromConfig(cfg)),
		minSearchTime: time.Duration(cfg.GetInt(config.ConfigMinSearchTime)) * time.Millisecond,
		maxDepth:      cfg.GetInt(config.ConfigMaxDepth),
		levels:        cfg.GetInt(config.ConfigLookaheadLevels),
	}
	log.Info().Str("solver", st).Dur("min-search-time", p.minSearchTime).
		Int("max-depth", p.maxDepth).Msg("bot-player-created")
	return p, nil
}

func (p *BotPlayer) SolverType() string {
	return p.solverType
}

func (p *BotPlayer) MinSearchTime() time.Duration {
	return p.minSearchTime
}

func (p *BotPlayer) newSolver(budget time.Duration) Solver {
	if p.solverType == config.SolverLookahead {
		return lookahead.NewSolver(p.table, p.levels)
	}
	s := negamax.NewSolver(p.table, p.calc)
	s.SetMinSearchTime(budget)
	if p.maxDepth > 0 {
		s.SetMaxDepth(p.maxDepth)
	}
	return s
}

// Decide picks a move with the configured time budget.
func (p *BotPlayer) Decide(ctx context.Context, b board.Board) (*Decision, error) {
	return p.DecideWithin(ctx, b, p.minSearchTime)
}

// DecideWithin picks a move with the given time budget. A negative budget
// means the configured one.
func (p *BotPlayer) DecideWithin(ctx context.Context, b board.Board, budget time.Duration) (*Decision, error) {
	if budget < 0 {
		budget = p.minSearchTime
	}
	res, err := p.newSolver(budget).Solve(ctx, b)
	if err != nil {
		return nil, err
	}
	return newDecision(res, p.solverType), nil
}

// Evaluate returns the heuristic breakdown of a board.
func (p *BotPlayer) Evaluate(b board.Board) []equity.Term {
	return p.calc.Breakdown(b)
}

// Equity is the weighted evaluation of a board.
func (p *BotPlayer) Equity(b board.Board) float64 {
	return p.calc.Equity(b)
}

// Table is the shared line table.
func (p *BotPlayer) Table() *linetable.Table {
	return p.table
}

// DecideAtDepth runs a single negamax search to a fixed depth, whatever
// the configured solver.
func (p *BotPlayer) DecideAtDepth(b board.Board, depth int) (*Decision, error) {
	res, err := negamax.NewSolver(p.table, p.calc).SearchDepth(b, depth)
	if err != nil {
		return nil, err
	}
	return newDecision(res, config.SolverNegamax), nil
}
