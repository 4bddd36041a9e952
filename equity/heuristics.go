package equity

import (
	"math"

	"github.com/domino14/slide2048/board"
)

// FullBoardEmptyPenalty stands in for ln(0) when no cell is empty.
const FullBoardEmptyPenalty = -10.0

// DuplicationThreshold is the max exponent (32) below which duplicates
// are not penalised.
const DuplicationThreshold = 5

// Smoothness measures how far apart neighbouring tiles are, in exponent
// space: every occupied cell is compared with the nearest occupied cell to
// its right and the nearest one below it. The result is <= 0.
type Smoothness struct{}

func (Smoothness) Equity(b board.Board) float64 {
	smoothness := 0.0
	for row := 0; row < board.Dim; row++ {
		for col := 0; col < board.Dim; col++ {
			v := b.At(row, col)
			if v == 0 {
				continue
			}
			for c := col + 1; c < board.Dim; c++ {
				if t := b.At(row, c); t != 0 {
					smoothness -= math.Abs(float64(v) - float64(t))
					break
				}
			}
			for r := row + 1; r < board.Dim; r++ {
				if t := b.At(r, col); t != 0 {
					smoothness -= math.Abs(float64(v) - float64(t))
					break
				}
			}
		}
	}
	return smoothness
}

func (Smoothness) Type() string { return "Smoothness" }

// Monotonicity rewards rows and columns that only go one way. For each
// orientation it totals how much the lines go against it and keeps the
// better orientation, so the result is <= 0.
type Monotonicity struct{}

// lineMonotonicity walks the occupied cells of a line. An empty first or
// last cell is compared as 0.
func lineMonotonicity(cells [board.Dim]uint8) (dec, inc float64) {
	cur, next := 0, 1
	for next < board.Dim {
		for next < board.Dim && cells[next] == 0 {
			next++
		}
		if next >= board.Dim {
			next--
		}
		cv, nv := float64(cells[cur]), float64(cells[next])
		if cv > nv {
			dec += nv - cv
		} else if nv > cv {
			inc += cv - nv
		}
		cur = next
		next++
	}
	return dec, inc
}

func (Monotonicity) Equity(b board.Board) float64 {
	var up, down, left, right float64
	for i := 0; i < board.Dim; i++ {
		var col, row [board.Dim]uint8
		for j := 0; j < board.Dim; j++ {
			col[j] = b.At(j, i)
			row[j] = b.At(i, j)
		}
		d, u := lineMonotonicity(col)
		up += d
		down += u
		l, r := lineMonotonicity(row)
		left += l
		right += r
	}
	return math.Max(up, down) + math.Max(left, right)
}

func (Monotonicity) Type() string { return "Monotonicity" }

// EmptyCells is the natural log of the number of empty cells.
type EmptyCells struct{}

func (EmptyCells) Equity(b board.Board) float64 {
	n := b.EmptyCount()
	if n == 0 {
		return FullBoardEmptyPenalty
	}
	return math.Log(float64(n))
}

func (EmptyCells) Type() string { return "EmptyCells" }

// Duplication penalises having several copies of the tiles one and two
// steps below the largest tile. The largest tile itself is not counted.
type Duplication struct{}

func (Duplication) Equity(b board.Board) float64 {
	top := b.MaxExponent()
	if top < DuplicationThreshold {
		return 0
	}
	penalty := 0.0
	for offset := uint8(1); offset <= 2; offset++ {
		count := b.Count(top - offset)
		if count > 1 {
			penalty -= float64(count) * (0.5 / float64(offset))
		}
	}
	return penalty
}

func (Duplication) Type() string { return "Duplication" }

// MaxTile is the exponent of the largest tile.
type MaxTile struct{}

func (MaxTile) Equity(b board.Board) float64 {
	return float64(b.MaxExponent())
}

func (MaxTile) Type() string { return "MaxTile" }
