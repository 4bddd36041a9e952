package lookahead

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/equity"
	"github.com/domino14/slide2048/linetable"
	"github.com/domino14/slide2048/negamax"
)

func TestLevelZeroIsGreedy(t *testing.T) {
	is := is.New(t)
	table := linetable.Get()
	s := NewSolver(table, 0)

	best := board.NoDirection
	bestScore := 0.0
	for _, d := range board.Directions {
		child, ok := board.Midgame.Apply(table, d)
		if !ok {
			continue
		}
		v := equity.CornerDistance{}.Equity(child)
		if best == board.NoDirection || v > bestScore {
			best, bestScore = d, v
		}
	}
	res, err := s.Solve(context.Background(), board.Midgame)
	is.NoErr(err)
	is.Equal(res.Move, best)
	is.Equal(res.Score, bestScore)
}

func TestOnlyDown(t *testing.T) {
	is := is.New(t)
	s := NewSolver(linetable.Get(), DefaultLevels)
	res, err := s.Solve(context.Background(), board.OnlyDown)
	is.NoErr(err)
	is.Equal(res.Move, board.Down)
	is.Equal(res.Depth, DefaultLevels)
	is.True(res.Nodes > 0)
}

func TestStuck(t *testing.T) {
	is := is.New(t)
	s := NewSolver(linetable.Get(), 2)
	_, err := s.Solve(context.Background(), board.Stuck)
	is.True(errors.Is(err, negamax.ErrNoMove))
}

func TestCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSolver(linetable.Get(), 2)
	_, err := s.Solve(ctx, board.Midgame)
	is.True(errors.Is(err, context.Canceled))
}

func TestNegativeLevelsClamp(t *testing.T) {
	is := is.New(t)
	is.Equal(NewSolver(linetable.Get(), -3).Levels(), 0)
}
