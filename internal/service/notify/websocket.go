package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"shortlink/backend/internal/model"
)

var ErrChannelClosed = errors.New("channel closed")

// WebSocketChannel sends notifications as JSON text frames.
type WebSocketChannel struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func NewWebSocketChannel(conn *websocket.Conn, writeTimeout time.Duration) *WebSocketChannel {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &WebSocketChannel{
		id:           uuid.NewString(),
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

func (c *WebSocketChannel) ID() string { return c.id }

func (c *WebSocketChannel) Send(ctx context.Context, msg model.NotificationMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return websocket.JSON.Send(c.conn, msg)
}

func (c *WebSocketChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}
