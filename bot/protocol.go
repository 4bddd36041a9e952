package bot

import (
	"errors"
	"fmt"
	"time"

	aibot "github.com/domino14/slide2048/ai/bot"
	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/equity"
)

var ErrBotResponse = errors.New("bot returned an error")

// MaxSearchTime caps the search budget a caller may ask for.
const MaxSearchTime = 5 * time.Second

// CapBudget limits d to MaxSearchTime.
func CapBudget(d time.Duration) time.Duration {
	return min(d, MaxSearchTime)
}

// Request asks the bot about a board. Exactly one of Board (face values) or
// Exponents should be set, row-major.
type Request struct {
	Board     []int `json:"board,omitempty"`
	Exponents []int `json:"exponents,omitempty"`
	// MinSearchMS overrides the configured time budget when set.
	MinSearchMS *int `json:"min_search_ms,omitempty"`
	// Evaluate asks for the heuristic breakdown instead of a move.
	Evaluate bool `json:"evaluate,omitempty"`
}

type Response struct {
	GameID   string          `json:"game_id,omitempty"`
	Decision *aibot.Decision `json:"decision,omitempty"`
	Terms    []equity.Term   `json:"terms,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ToBoard decodes the request's board.
func (r *Request) ToBoard() (board.Board, error) {
	switch {
	case len(r.Board) > 0 && len(r.Exponents) > 0:
		return board.Board{}, errors.New("set either board or exponents, not both")
	case len(r.Exponents) > 0:
		exps := make([]uint8, len(r.Exponents))
		for i, e := range r.Exponents {
			if e < 0 || e > 255 {
				return board.Board{}, fmt.Errorf("%w: cell %d has %d", board.ErrBadExponent, i, e)
			}
			exps[i] = uint8(e)
		}
		return board.FromExponents(exps)
	default:
		return board.FromFaces(r.Board)
	}
}

// SearchBudget returns the budget the request asks for, or def when it asks
// for none, capped at MaxSearchTime.
func (r *Request) SearchBudget(def time.Duration) time.Duration {
	budget := def
	if r.MinSearchMS != nil {
		budget = time.Duration(*r.MinSearchMS) * time.Millisecond
	}
	return CapBudget(budget)
}

// LambdaEvent is the payload of a Lambda invocation. The decision is sent
// to ReplyChannel over NATS when one is given.
type LambdaEvent struct {
	GameID       string `json:"game_id"`
	Board        []int  `json:"board"`
	MinSearchMS  int    `json:"min_search_ms"`
	ReplyChannel string `json:"reply_channel"`
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}
