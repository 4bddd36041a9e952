package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	aibot "github.com/domino14/slide2048/ai/bot"
	"github.com/domino14/slide2048/board"
)

const requestTimeout = 10 * time.Second

type Client struct {
	nc      *nats.Conn
	channel string
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel}
}

// MakeRequest encodes a board as a bot request. A negative budget leaves
// the choice to the bot.
func MakeRequest(b board.Board, budget time.Duration) ([]byte, error) {
	req := Request{Board: b.Faces()}
	if budget >= 0 {
		ms := int(budget.Milliseconds())
		req.MinSearchMS = &ms
	}
	return json.Marshal(req)
}

func parseResponse(data []byte) (*aibot.Decision, error) {
	resp := Response{}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrBotResponse, resp.Error)
	}
	if resp.Decision == nil {
		return nil, fmt.Errorf("%w: empty response", ErrBotResponse)
	}
	d, err := board.ParseDirection(resp.Decision.Move)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBotResponse, err)
	}
	resp.Decision.Direction = d
	return resp.Decision, nil
}

// RequestMove sends a board to the bot and gets a decision back.
func (c *Client) RequestMove(ctx context.Context, b board.Board, budget time.Duration) (*aibot.Decision, error) {
	data, err := MakeRequest(b, budget)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := c.nc.RequestWithContext(ctx, c.channel, data)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Error().Msgf("%v for request", err)
		return nil, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))
	return parseResponse(res.Data)
}
