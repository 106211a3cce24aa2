package hub

import (
	"sync"

	"github.com/google/uuid"
)

// client is one registered connection with its own outbound buffer.
// Only its writer goroutine touches conn for writes.
type client struct {
	id   string
	conn Conn
	send chan []byte

	done     chan struct{}
	stopOnce sync.Once
}

func newClient(conn Conn, buffer int) *client {
	return &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, max(buffer, 1)),
		done: make(chan struct{}),
	}
}

// offer enqueues payload without blocking and reports whether it fit.
func (c *client) offer(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
