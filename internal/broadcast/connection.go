package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 256
)

// Connection wraps one websocket.Conn and the userID/roomID it was
// upgraded for. Writes go through a buffered channel so a slow or dead
// client never blocks the Engine goroutine that triggered the send.
type Connection struct {
	conn   *websocket.Conn
	send   chan Envelope
	userID string
	roomID string
	logger *log.Logger
	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

func newConnection(conn *websocket.Conn, roomID, userID string, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan Envelope, sendBufferSize),
		userID: userID,
		roomID: roomID,
		logger: logger.WithPrefix("broadcast"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// UserID reports the userID this connection was upgraded for.
func (c *Connection) UserID() string { return c.userID }

// RoomID reports the roomID this connection was upgraded for.
func (c *Connection) RoomID() string { return c.roomID }

// Start launches the read and write pumps on their own goroutines.
// onMessage is invoked with each inbound frame's raw bytes on the read
// pump's own goroutine; the caller is responsible for any locking it
// needs around whatever it decodes the frame into (e.g. an Engine,
// which already guards itself with its own mutex).
func (c *Connection) Start(onMessage func([]byte), onClose func(*Connection)) {
	go c.writePump()
	go c.readPump(onMessage, onClose)
}

// Close is idempotent: closing an already-closed connection is a no-op.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// enqueue delivers env to the client's write pump without blocking. A
// full buffer means the client can't keep up; the connection is closed
// rather than letting the buffer grow unbounded.
func (c *Connection) enqueue(env Envelope) {
	select {
	case c.send <- env:
	case <-c.ctx.Done():
	default:
		c.logger.Warn("send buffer full, dropping connection", "userId", c.userID)
		_ = c.Close()
	}
}

// readPump drains client frames. This engine is server-authoritative:
// incoming frames are decoded only far enough to route them to the
// owning room's Engine.SubmitAction by the caller-supplied dispatch
// func; readPump itself only owns connection liveness.
func (c *Connection) readPump(onMessage func([]byte), onClose func(*Connection)) {
	defer func() {
		_ = c.Close()
		onClose(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("read error", "error", err, "userId", c.userID)
			}
			return
		}
		if onMessage != nil {
			onMessage(raw)
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}
