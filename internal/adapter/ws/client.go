package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	// sendQueueSize bounds the per-connection event backlog. A subscriber
	// that falls this far behind is evicted rather than stalling dispatch.
	sendQueueSize = 32

	writeTimeout = 5 * time.Second
)

// Client is one live subscriber connection. Socket writes are serialized
// through the send queue and the writer goroutine; the hub never blocks on a
// slow connection.
type Client struct {
	conn *websocket.Conn
	hub  *Hub
	send chan interface{}

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		conn: conn,
		hub:  hub,
		send: make(chan interface{}, sendQueueSize),
	}
}

// enqueue offers an event to the send queue without blocking. Returns false
// when the queue is full.
func (c *Client) enqueue(event interface{}) bool {
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// writePump drains the send queue onto the socket. Each write has a bounded
// timeout; the first failure evicts the connection from every group.
func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, c.conn, event)
			cancel()
			if err != nil {
				c.hub.evict(c, "write_failed")
				return
			}
		}
	}
}

// write sends one event directly with a bounded timeout. Used on the reader
// goroutine for protocol replies (handshake, pong, error) so they stay
// ordered with respect to the inbound message.
func (c *Client) write(ctx context.Context, event interface{}) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, c.conn, event)
}

// shutdown closes the underlying connection once.
func (c *Client) shutdown(reason string) {
	c.closeOnce.Do(func() {
		_ = c.conn.Close(websocket.StatusNormalClosure, reason)
	})
}
