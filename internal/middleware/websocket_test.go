package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysdash/internal/utils"
)

type echoInvoker struct{}

func (echoInvoker) Invoke(_ context.Context, cmd string, args json.RawMessage) (any, error) {
	switch cmd {
	case "echo":
		return json.RawMessage(args), nil
	case "boom":
		panic("kaboom")
	default:
		return nil, errors.New("unknown command: " + cmd)
	}
}

func startHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hub := NewHub(echoInvoker{}, utils.NewLogger(filepath.Join(t.TempDir(), "ws.log")))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.HandleWebSocket())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return hub, conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
	var reply map[string]any
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestHubRepliesEchoRequestID(t *testing.T) {
	hub, conn := startHub(t)

	reply := roundTrip(t, conn, `{"id":7,"cmd":"echo","args":{"name":"Ada"}}`)
	assert.Equal(t, float64(7), reply["id"])
	assert.Equal(t, map[string]any{"name": "Ada"}, reply["result"])
	assert.NotContains(t, reply, "error")

	reply = roundTrip(t, conn, `{"id":"abc","cmd":"nope"}`)
	assert.Equal(t, "abc", reply["id"])
	assert.Equal(t, "unknown command: nope", reply["error"])

	assert.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHubRejectsMalformedFrames(t *testing.T) {
	_, conn := startHub(t)

	reply := roundTrip(t, conn, `not json`)
	assert.Contains(t, reply["error"], "malformed frame")

	reply = roundTrip(t, conn, `{"id":1}`)
	assert.Equal(t, "cmd is required", reply["error"])
}

func TestHubSurvivesPanickingCommand(t *testing.T) {
	_, conn := startHub(t)

	reply := roundTrip(t, conn, `{"id":1,"cmd":"boom"}`)
	assert.Equal(t, "internal error", reply["error"])

	reply = roundTrip(t, conn, `{"id":2,"cmd":"echo","args":[1]}`)
	assert.Equal(t, []any{float64(1)}, reply["result"])
}

func TestSameOrigin(t *testing.T) {
	req := httptest.NewRequest("GET", "http://127.0.0.1:5050/ws", nil)
	assert.True(t, sameOrigin(req))

	req.Header.Set("Origin", "http://127.0.0.1:5050")
	assert.True(t, sameOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, sameOrigin(req))
}
