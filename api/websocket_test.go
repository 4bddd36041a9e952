package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aibot "github.com/domino14/slide2048/ai/bot"
	"github.com/domino14/slide2048/bot"
	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func dial(t *testing.T) (*Server, *websocket.Conn) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigMinSearchTime, 0)
	p, err := aibot.NewBotPlayer(&cfg)
	require.NoError(t, err)
	s := NewServer(p)

	server := httptest.NewServer(s.Handler())
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	return s, ws
}

type rawResponse struct {
	Type    string          `json:"type"`
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
	Error   string          `json:"error"`
}

func roundTrip(t *testing.T, ws *websocket.Conn, msg WSMessage) rawResponse {
	require.NoError(t, ws.WriteJSON(msg))
	ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	var resp rawResponse
	require.NoError(t, ws.ReadJSON(&resp))
	return resp
}

func payload(t *testing.T, b board.Board) json.RawMessage {
	data, err := bot.MakeRequest(b, -1)
	require.NoError(t, err)
	return data
}

func TestPing(t *testing.T) {
	_, ws := dial(t)
	resp := roundTrip(t, ws, WSMessage{Type: "ping", ID: "p1"})
	assert.Equal(t, "pong", resp.Type)
	assert.Equal(t, "p1", resp.ID)
}

func TestDecide(t *testing.T) {
	s, ws := dial(t)
	resp := roundTrip(t, ws, WSMessage{Type: "decide", ID: "d1", Payload: payload(t, board.OnlyDown)})
	require.Equal(t, "decision", resp.Type, resp.Error)

	var d aibot.Decision
	require.NoError(t, json.Unmarshal(resp.Payload, &d))
	assert.Equal(t, "down", d.Move)
	assert.Equal(t, board.KeyCodeDown, d.KeyCode)
	snap := s.Latency().Snapshot()
	assert.Equal(t, 1, snap.Iterations())

	resp = roundTrip(t, ws, WSMessage{Type: "stats", ID: "s1"})
	var sum LatencySummary
	require.NoError(t, json.Unmarshal(resp.Payload, &sum))
	assert.Equal(t, 1, sum.Decisions)
}

func TestEvaluate(t *testing.T) {
	_, ws := dial(t)
	resp := roundTrip(t, ws, WSMessage{Type: "evaluate", ID: "e1", Payload: payload(t, board.Midgame)})
	require.Equal(t, "evaluation", resp.Type, resp.Error)
	var terms []map[string]any
	require.NoError(t, json.Unmarshal(resp.Payload, &terms))
	assert.Len(t, terms, 5)
}

func TestErrors(t *testing.T) {
	_, ws := dial(t)
	for _, tc := range []struct {
		msg  WSMessage
		frag string
	}{
		{WSMessage{Type: "rollout", ID: "x"}, "unknown message type"},
		{WSMessage{Type: "decide", ID: "x", Payload: json.RawMessage(`"nope"`)}, "invalid payload"},
		{WSMessage{Type: "decide", ID: "x", Payload: json.RawMessage(`{"board":[2]}`)}, "16 cells"},
		{WSMessage{Type: "decide", ID: "x", Payload: payload(t, board.Stuck)}, "no legal move"},
	} {
		resp := roundTrip(t, ws, tc.msg)
		assert.Equal(t, "error", resp.Type)
		assert.Contains(t, resp.Error, tc.frag)
	}
}

func TestHealth(t *testing.T) {
	cfg := config.DefaultConfig()
	p, err := aibot.NewBotPlayer(&cfg)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	NewServer(p).Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"solver":"negamax"`)
}
