package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/feltworks/casino/internal/poker"
	"github.com/feltworks/casino/internal/randutil"
)

func TestServerHealth(t *testing.T) {
	srv, err := NewServer(DefaultConfig(), testLogger(), randutil.New(42))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Stop() })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.handleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func dialTestServer(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, mt MessageType, data any) {
	t.Helper()
	msg, err := NewMessage(mt, data)
	require.NoError(t, err)
	require.NoError(t, ws.WriteJSON(msg))
}

func readMessage(t *testing.T, ws *websocket.Conn) *Message {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(10*time.Second)))
	var msg Message
	require.NoError(t, ws.ReadJSON(&msg))
	return &msg
}

// readUntil scans past broadcasts until a message of the wanted type
// arrives. A protocol error fails the test immediately.
func readUntil(t *testing.T, ws *websocket.Conn, want MessageType) *Message {
	t.Helper()
	for {
		msg := readMessage(t, ws)
		if msg.Type == want {
			return msg
		}
		if msg.Type == MessageTypeError && want != MessageTypeError {
			t.Fatalf("unexpected error message: %s", msg.Data)
		}
	}
}

func TestServerPlaysHandOverWebSocket(t *testing.T) {
	srv, err := NewServer(DefaultConfig(), testLogger(), randutil.New(99), poker.WithThinkDelay(0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Stop() })

	ws := dialTestServer(t, srv)

	send(t, ws, MessageTypeJoin, JoinData{Name: "Hero"})
	joinedMsg := readUntil(t, ws, MessageTypeJoined)

	var joined JoinedData
	require.NoError(t, json.Unmarshal(joinedMsg.Data, &joined))
	require.Equal(t, 0, joined.Seat)
	require.Equal(t, "Hero", joined.Name)

	send(t, ws, MessageTypeStartHand, struct{}{})

	startMsg := readUntil(t, ws, MessageTypeHandStart)
	var start HandStartData
	require.NoError(t, json.Unmarshal(startMsg.Data, &start))
	require.Len(t, start.Hole, 2)
	require.Equal(t, 10, start.BigBlind)

	// Play passively: check when free, call when owing.
	var end HandEndData
	for {
		msg := readMessage(t, ws)
		switch msg.Type {
		case MessageTypeActionRequired:
			var prompt ActionRequiredData
			require.NoError(t, json.Unmarshal(msg.Data, &prompt))
			require.Len(t, prompt.Hole, 2)
			action := poker.Call.String()
			if slices.Contains(prompt.ValidActions, poker.Check.String()) {
				action = poker.Check.String()
			}
			send(t, ws, MessageTypeAction, ActionData{Action: action})
		case MessageTypeHandEnd:
			require.NoError(t, json.Unmarshal(msg.Data, &end))
			require.NoError(t, srv.Room().Table().ValidateChipConservation())
			require.Positive(t, end.Amount)
			return
		case MessageTypeError:
			t.Fatalf("unexpected error message: %s", msg.Data)
		}
	}
}

func TestServerRepromptsOnIllegalRaise(t *testing.T) {
	srv, err := NewServer(DefaultConfig(), testLogger(), randutil.New(12), poker.WithThinkDelay(0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Stop() })

	ws := dialTestServer(t, srv)
	send(t, ws, MessageTypeJoin, JoinData{Name: "Hero"})
	readUntil(t, ws, MessageTypeJoined)
	send(t, ws, MessageTypeStartHand, struct{}{})

	readUntil(t, ws, MessageTypeActionRequired)
	send(t, ws, MessageTypeAction, ActionData{Action: poker.Raise.String(), Amount: 1})

	// The table refuses the raise; the reason comes back and the same
	// turn is prompted again instead of resolving with a substituted
	// action.
	errMsg := readUntil(t, ws, MessageTypeError)
	var data ErrorData
	require.NoError(t, json.Unmarshal(errMsg.Data, &data))
	require.Equal(t, "invalid_action", data.Code)
	require.Contains(t, data.Message, "minimum raise")

	readUntil(t, ws, MessageTypeActionRequired)
	send(t, ws, MessageTypeAction, ActionData{Action: poker.Fold.String()})
	readUntil(t, ws, MessageTypeHandEnd)
}

func TestServerRejectsSecondSeatClaim(t *testing.T) {
	srv, err := NewServer(DefaultConfig(), testLogger(), randutil.New(7))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Stop() })

	first := dialTestServer(t, srv)
	send(t, first, MessageTypeJoin, JoinData{Name: "Hero"})
	readUntil(t, first, MessageTypeJoined)

	second := dialTestServer(t, srv)
	send(t, second, MessageTypeJoin, JoinData{Name: "Interloper"})
	errMsg := readUntil(t, second, MessageTypeError)

	var data ErrorData
	require.NoError(t, json.Unmarshal(errMsg.Data, &data))
	require.Equal(t, "join_failed", data.Code)
}

func TestServerRejectsActionFromObserver(t *testing.T) {
	srv, err := NewServer(DefaultConfig(), testLogger(), randutil.New(8))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Stop() })

	ws := dialTestServer(t, srv)
	send(t, ws, MessageTypeAction, ActionData{Action: "fold"})
	errMsg := readUntil(t, ws, MessageTypeError)

	var data ErrorData
	require.NoError(t, json.Unmarshal(errMsg.Data, &data))
	require.Equal(t, "action_failed", data.Code)
}
