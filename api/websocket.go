// Package api serves move decisions over a WebSocket, for a board reader
// and move executor running in the browser.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	aibot "github.com/domino14/slide2048/ai/bot"
	"github.com/domino14/slide2048/bot"
	"github.com/domino14/slide2048/stats"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser side runs as an extension content script on the game's
	// origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSMessage is a request from the browser. Payload is a bot.Request for
// "decide" and "evaluate".
type WSMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type WSResponse struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LatencySummary is the payload of a "stats" response.
type LatencySummary struct {
	Decisions int     `json:"decisions"`
	MeanMS    float64 `json:"mean_ms"`
	StdevMS   float64 `json:"stdev_ms"`
	MaxMS     float64 `json:"max_ms"`
}

type Server struct {
	player  *aibot.BotPlayer
	latency *stats.Recorder
}

func NewServer(player *aibot.BotPlayer) *Server {
	return &Server{player: player, latency: stats.NewRecorder(stats.DefaultSampleCap)}
}

// Latency returns the recorder of per-decision search times, in ms.
func (s *Server) Latency() *stats.Recorder {
	return s.latency
}

// Handler routes /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.WebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "solver": s.player.SolverType()})
	})
	return mux
}

type wsClient struct {
	conn     *websocket.Conn
	server   *Server
	sendChan chan WSResponse
}

func (s *Server) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Msg("websocket-upgrade-error")
		return
	}
	c := &wsClient{conn: conn, server: s, sendChan: make(chan WSResponse, sendBuffer)}
	log.Debug().Str("remote", r.RemoteAddr).Msg("websocket-connected")
	go c.writePump()
	c.readPump(r.Context())
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Msg("websocket-write-error")
			return
		}
	}
}

func (c *wsClient) readPump(ctx context.Context) {
	defer func() { close(c.sendChan) }()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("websocket-read-error")
			}
			return
		}
		c.sendChan <- c.server.handleMessage(ctx, msg)
	}
}

func errorResponse(id, msg string) WSResponse {
	return WSResponse{Type: "error", ID: id, Error: msg}
}

func (s *Server) handleMessage(ctx context.Context, msg WSMessage) WSResponse {
	switch msg.Type {
	case "ping":
		return WSResponse{Type: "pong", ID: msg.ID}
	case "stats":
		snap := s.latency.Snapshot()
		return WSResponse{Type: "stats", ID: msg.ID, Payload: LatencySummary{
			Decisions: snap.Iterations(),
			MeanMS:    snap.Mean(),
			StdevMS:   snap.Stdev(),
			MaxMS:     snap.Max(),
		}}
	case "decide", "evaluate":
	default:
		return errorResponse(msg.ID, "unknown message type")
	}

	var req bot.Request
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		return errorResponse(msg.ID, "invalid payload")
	}
	b, err := req.ToBoard()
	if err != nil {
		return errorResponse(msg.ID, err.Error())
	}
	if msg.Type == "evaluate" {
		return WSResponse{Type: "evaluation", ID: msg.ID, Payload: s.player.Evaluate(b)}
	}

	d, err := s.player.DecideWithin(ctx, b, req.SearchBudget(s.player.MinSearchTime()))
	if err != nil {
		return errorResponse(msg.ID, err.Error())
	}
	s.latency.Push(float64(d.ElapsedMS))
	return WSResponse{Type: "decision", ID: msg.ID, Payload: d}
}
