package equity

import "github.com/domino14/slide2048/board"

// Calculator scores a board; higher is better for the side choosing moves.
type Calculator interface {
	Equity(b board.Board) float64
	Type() string
}
