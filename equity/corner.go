package equity

import (
	"github.com/domino14/slide2048/board"
)

// cornerDistance is each cell's distance to the nearest corner.
var cornerDistance = [board.NumCells]float64{
	0, 1, 1, 0,
	1, 2, 2, 1,
	1, 2, 2, 1,
	0, 1, 1, 0,
}

// CornerDistance is the simpler score used by the lookahead solver. Each
// empty cell is worth 1, each tile costs its size relative to the largest
// tile times its distance from a corner, and every monotone row or column
// adds a quarter.
type CornerDistance struct{}

func isMonotone(a, b, c, d uint8) bool {
	return (a <= b && b <= c && c <= d) || (a >= b && b >= c && c >= d)
}

func (CornerDistance) Equity(b board.Board) float64 {
	top := float64(b.MaxExponent())
	score := 0.0
	for i, e := range b {
		if e == 0 {
			score++
			continue
		}
		score -= float64(e) / top * cornerDistance[i]
	}
	mono := 0
	for i := 0; i < board.Dim; i++ {
		if isMonotone(b.At(0, i), b.At(1, i), b.At(2, i), b.At(3, i)) {
			mono++
		}
		if isMonotone(b.At(i, 0), b.At(i, 1), b.At(i, 2), b.At(i, 3)) {
			mono++
		}
	}
	return score + float64(mono)/4
}

func (CornerDistance) Type() string { return "CornerDistance" }
