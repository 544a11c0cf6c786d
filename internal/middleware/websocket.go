package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"sysdash/internal/utils"
)

// Invoker runs a named command. It is implemented by the command dispatcher.
type Invoker interface {
	Invoke(ctx context.Context, cmd string, args json.RawMessage) (any, error)
}

// CommandFrame is one request read from a WebSocket client.
type CommandFrame struct {
	ID   json.RawMessage `json:"id"`
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// ReplyFrame answers exactly one CommandFrame, echoing its ID.
type ReplyFrame struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	maxFrameBytes  = 64 * 1024
	commandTimeout = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts clients without an Origin header (native shells) and
// browsers loading the view from this server.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// Hub tracks connected WebSocket clients and answers their commands. It never
// pushes unsolicited frames.
type Hub struct {
	invoker    Invoker
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *utils.Logger
}

func NewHub(invoker Invoker, logger *utils.Logger) *Hub {
	return &Hub{
		invoker:    invoker,
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes client registration until ctx is done, then closes every
// remaining connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.logf("WebSocket client connected")

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()
			h.logf("WebSocket client disconnected")

		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
					time.Now().Add(time.Second))
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return
		}
	}
}

func (h *Hub) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and serves command frames until the
// client disconnects. Frames on one connection are answered in order.
func (h *Hub) HandleWebSocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logf("WebSocket upgrade error: %v", err)
			return
		}
		conn.SetReadLimit(maxFrameBytes)

		select {
		case h.register <- conn:
		case <-h.done:
			conn.Close()
			return
		}
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()

		ctx := c.Request.Context()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					h.logf("WebSocket error: %v", err)
				}
				return
			}

			reply := h.handleFrame(ctx, data)
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(reply); err != nil {
				h.logf("WebSocket write error: %v", err)
				return
			}
		}
	}
}

func (h *Hub) handleFrame(ctx context.Context, data []byte) ReplyFrame {
	var frame CommandFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return ReplyFrame{Error: "malformed frame: " + err.Error()}
	}
	if frame.Cmd == "" {
		return ReplyFrame{ID: frame.ID, Error: "cmd is required"}
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	result, err := h.invoke(ctx, frame)
	if err != nil {
		return ReplyFrame{ID: frame.ID, Error: err.Error()}
	}
	return ReplyFrame{ID: frame.ID, Result: result}
}

// invoke recovers from a panicking command so one bad request cannot drop the connection.
func (h *Hub) invoke(ctx context.Context, frame CommandFrame) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logf("WebSocket command %q panicked: %v", frame.Cmd, r)
			result, err = nil, errors.New("internal error")
		}
	}()
	return h.invoker.Invoke(ctx, frame.Cmd, frame.Args)
}

func (h *Hub) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if h.logger != nil {
		h.logger.Write(msg)
		return
	}
	log.Println(msg)
}
