package bot

import (
	"time"

	"github.com/samber/lo"

	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/negamax"
)

// Decision is what the move executor needs to know about a search: the
// direction, its browser key code, and how the search went.
type Decision struct {
	Direction board.Direction `json:"-"`
	Move      string          `json:"direction"`
	KeyCode   int             `json:"key_code"`
	Score     float64         `json:"score"`
	Depth     int             `json:"depth"`
	Nodes     uint64          `json:"nodes"`
	ElapsedMS int64           `json:"elapsed_ms"`
	PV        []string        `json:"pv,omitempty"`
	Solver    string          `json:"solver"`
}

func newDecision(res *negamax.Result, solver string) *Decision {
	return &Decision{
		Direction: res.Move,
		Move:      res.Move.String(),
		KeyCode:   res.Move.KeyCode(),
		Score:     res.Score,
		Depth:     res.Depth,
		Nodes:     res.Nodes,
		ElapsedMS: res.Elapsed.Milliseconds(),
		PV:        lo.Map(res.PV, func(d board.Direction, _ int) string { return d.String() }),
		Solver:    solver,
	}
}

// Elapsed is the search time as a duration.
func (d *Decision) Elapsed() time.Duration {
	return time.Duration(d.ElapsedMS) * time.Millisecond
}
