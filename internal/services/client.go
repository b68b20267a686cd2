package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/owaisjunedi/dev-interview-platform/internal/config"
)

// Client wraps a single WebSocket connection with its own send goroutine.
// Enqueueing to the buffered send channel is the only way to write, so frames
// reach the peer in enqueue order.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte

	log     *slog.Logger
	metrics *Metrics

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	closeMu sync.Mutex
}

// NewClient creates a client with a fresh transport-level connection id.
func NewClient(conn *websocket.Conn, log *slog.Logger, metrics *Metrics) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		ID:      uuid.NewString(),
		conn:    conn,
		send:    make(chan []byte, config.ClientSendBufferSize),
		log:     log,
		metrics: metrics,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins the client's write pump.
func (c *Client) Start() {
	go c.writePump()
}

// Send enqueues a frame without blocking. It reports false when the buffer is
// full or the client is closed; one slow receiver must not stall the room, so
// the frame is dropped for this connection only.
func (c *Client) Send(frame []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Read blocks until the next text frame arrives, returning false when the
// connection is gone.
func (c *Client) Read(ctx context.Context) ([]byte, bool) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Close tears down the connection and stops the write pump. Safe to call more
// than once.
func (c *Client) Close() {
	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return
	}
	c.closed = true
	c.closeMu.Unlock()

	c.cancel()
	_ = c.conn.Close(websocket.StatusNormalClosure, "")
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			writeCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, frame)
			cancel()

			if err != nil {
				c.log.Warn("write failed", "connId", c.ID, "err", err)
				c.metrics.IncrementDeliveryErrors()
				return
			}
			c.metrics.IncrementMessagesSent()

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(c.ctx, config.WriteTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()

			if err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
