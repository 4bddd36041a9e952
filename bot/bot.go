// Package bot serves move decisions over NATS request/reply.
package bot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	aibot "github.com/domino14/slide2048/ai/bot"
	"github.com/domino14/slide2048/config"
)

const connectAttempts = 5

type Bot struct {
	config *config.Config
	player *aibot.BotPlayer
	memo   *decisionMemo
}

func NewBot(cfg *config.Config) (*Bot, error) {
	p, err := aibot.NewBotPlayer(cfg)
	if err != nil {
		return nil, err
	}
	return &Bot{
		config: cfg,
		player: p,
		memo:   newDecisionMemo(cfg.GetInt(config.ConfigDecisionMemoSize)),
	}, nil
}

func (bot *Bot) handle(ctx context.Context, data []byte) *Response {
	req := Request{}
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("Could not parse request", err)
	}
	b, err := req.ToBoard()
	if err != nil {
		return errorResponse("Could not read board", err)
	}
	if req.Evaluate {
		return &Response{Terms: bot.player.Evaluate(b)}
	}
	budget := req.SearchBudget(bot.player.MinSearchTime())
	if d, ok := bot.memo.get(b, budget); ok {
		log.Debug().Str("board", b.ShortString()).Msg("memo-hit")
		return &Response{Decision: d}
	}
	d, err := bot.player.DecideWithin(ctx, b, budget)
	if err != nil {
		return errorResponse("Could not decide", err)
	}
	bot.memo.put(b, budget, d)
	log.Info().Str("move", d.Move).Int("depth", d.Depth).Int64("elapsed-ms", d.ElapsedMS).Msg("decided")
	return &Response{Decision: d}
}

// encodeResponse marshals resp, falling back to an error response when resp
// cannot be encoded.
func encodeResponse(resp *Response) []byte {
	data, err := json.Marshal(resp)
	if err == nil {
		return data
	}
	log.Err(err).Msg("encode-response-failed")
	data, err = json.Marshal(errorResponse("Could not encode response", err))
	if err != nil {
		return []byte(`{"error":"Could not encode response"}`)
	}
	return data
}

// Connect dials NATS, retrying with backoff.
func Connect(ctx context.Context, url string) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.Delay(200*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			log.Err(err).Uint("attempt", n).Str("url", url).Msg("nats-connect-retry")
		}),
	)
	return nc, err
}

// Main answers requests on channel until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := Connect(ctx, bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()

	_, err = nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Msgf("RECV: %d bytes", len(m.Data))
		if err := m.Respond(encodeResponse(bot.handle(ctx, m.Data))); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Msgf("Listening on [%s]", channel)

	<-ctx.Done()
	entries, hits := bot.memo.stats()
	log.Info().Int("memo-entries", entries).Int("memo-hits", hits).Msg("bot-draining")
	return nc.Drain()
}
