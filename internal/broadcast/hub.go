package broadcast

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/csc667-team-z-j/holdem-engine/internal/engine"
)

// Hub is a websocket-backed engine.Broadcaster. One Hub serves every
// room on the process; connections are partitioned by roomID, and a
// user may hold more than one live connection (e.g. a stale tab plus a
// fresh reconnect) — both receive every event until the stale one's
// write buffer fills and it is dropped.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]map[*Connection]bool // roomID -> set of connections

	logger *log.Logger
}

// NewHub constructs a Hub. In production, CheckOrigin should be
// restricted; it is left permissive here since this engine has no
// notion of allowed origins of its own.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns:  make(map[string]map[*Connection]bool),
		logger: logger.WithPrefix("hub"),
	}
}

// Upgrade promotes an HTTP request to a websocket connection registered
// under roomID/userID, and returns the live Connection so the caller can
// wire its incoming frames to the room's Engine.SubmitAction.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request, roomID, userID string, onMessage func([]byte)) (*Connection, error) {
	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	conn := newConnection(raw, roomID, userID, h.logger)

	h.mu.Lock()
	if h.conns[roomID] == nil {
		h.conns[roomID] = make(map[*Connection]bool)
	}
	h.conns[roomID][conn] = true
	h.mu.Unlock()

	conn.Start(onMessage, h.remove)
	return conn, nil
}

func (h *Hub) remove(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.conns[c.roomID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.conns, c.roomID)
		}
	}
}

// Broadcast implements engine.Broadcaster: every connection in the room
// receives env, best-effort.
func (h *Hub) Broadcast(roomID string, event engine.EventType, payload any) {
	env := Envelope{Type: string(event), RoomID: roomID, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[roomID] {
		c.enqueue(env)
	}
}

// SendPrivate implements engine.Broadcaster: only connections belonging
// to userID in roomID receive env, e.g. a player's own hole cards.
func (h *Hub) SendPrivate(roomID, userID string, event engine.EventType, payload any) {
	env := Envelope{Type: string(event), RoomID: roomID, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[roomID] {
		if c.userID == userID {
			c.enqueue(env)
		}
	}
}

// ConnectedUsers returns the distinct userIDs with a live connection in
// roomID, for presence/lobby display.
func (h *Hub) ConnectedUsers(roomID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := map[string]bool{}
	var out []string
	for c := range h.conns[roomID] {
		if !seen[c.userID] {
			seen[c.userID] = true
			out = append(out, c.userID)
		}
	}
	return out
}
