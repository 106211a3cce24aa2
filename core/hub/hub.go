package hub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/swimlive/core/logger"
	"github.com/dmitrymomot/swimlive/core/message"
)

// Conn is the part of a WebSocket connection the hub writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Sink receives a copy of every broadcast payload.
type Sink interface {
	Publish(ctx context.Context, payload []byte) error
}

// SnapshotFunc returns the state sent to a client when it connects.
// It is called while the hub holds its client lock and must not call back into the hub.
type SnapshotFunc func() message.Message

// Hub tracks connected clients and delivers queued messages to them.
// Each client has its own buffer and writer goroutine, and the sink is fed
// from its own goroutine, so no peer can hold up the others.
type Hub struct {
	cfg      Config
	queue    *Queue
	snapshot SnapshotFunc
	sink     Sink
	sinkCh   chan []byte
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

// New creates a hub draining q. snapshot may be nil, in which case new clients
// receive nothing until the next broadcast.
func New(q *Queue, snapshot SnapshotFunc, opts ...Option) *Hub {
	h := &Hub{
		cfg:      DefaultConfig(),
		queue:    q,
		snapshot: snapshot,
		logger:   logger.NewNop(),
		clients:  make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.sink != nil {
		h.sinkCh = make(chan []byte, max(h.cfg.SinkBuffer, 1))
	}
	h.logger = h.logger.With(logger.Component("hub"))
	return h
}

// ServeHTTP upgrades the request, queues the current snapshot and keeps the
// client registered until its connection fails. Inbound frames are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logger.Error(err))
		return
	}

	id := h.join(conn, true)
	defer h.Remove(id)

	conn.SetReadLimit(h.cfg.ReadLimit)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Register adds a client and returns its id. No snapshot is sent.
func (h *Hub) Register(conn Conn) string {
	return h.join(conn, false)
}

// join registers conn. With withSnapshot the snapshot is built and queued
// under the same lock that Broadcast takes, so every later delta follows it
// and no delta falls between the two.
func (h *Hub) join(conn Conn, withSnapshot bool) string {
	c := newClient(conn, h.cfg.ClientBuffer)

	h.mu.Lock()
	if withSnapshot && h.snapshot != nil {
		if payload, err := message.Encode(h.snapshot()); err != nil {
			h.logger.Error("snapshot not encodable", logger.Error(err))
		} else {
			c.offer(payload)
		}
	}
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	go h.writeLoop(c)

	h.logger.Info("client connected", logger.ClientID(c.id), logger.Count("clients", total))
	return c.id
}

// Remove closes and forgets a client. Unknown ids are ignored.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	c.stop()
	h.logger.Info("client disconnected", logger.ClientID(id), logger.Count("clients", total))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast marshals msg once and queues it for every client without blocking.
// A client whose buffer is full is removed as too slow. The sink, if any,
// gets the payload through its own buffer; it is discarded when that is full.
func (h *Hub) Broadcast(msg message.Message) {
	payload, err := message.Encode(msg)
	if err != nil {
		h.logger.Error("message not encodable", logger.Error(err))
		return
	}

	var slow []string
	h.mu.RLock()
	for id, c := range h.clients {
		if !c.offer(payload) {
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.logger.Warn("client too slow, dropping",
			logger.ClientID(id),
			slog.String("kind", string(msg.Kind())),
		)
		h.Remove(id)
	}

	if h.sinkCh != nil {
		select {
		case h.sinkCh <- payload:
		default:
			h.logger.Warn("sink backlog full, payload discarded", slog.String("kind", string(msg.Kind())))
		}
	}
}

// Drain broadcasts every message currently queued and returns how many there were.
func (h *Hub) Drain() int {
	n := 0
	for {
		msg, ok := h.queue.next()
		if !ok {
			return n
		}
		h.Broadcast(msg)
		n++
	}
}

// Start drains the queue every DrainInterval until ctx is cancelled, then
// closes every client. The sink is fed from a separate goroutine for as long
// as Start runs.
func (h *Hub) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	if h.sinkCh != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.feedSink(ctx)
		}()
	}

	ticker := time.NewTicker(h.cfg.DrainInterval)
	defer ticker.Stop()
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.Drain()
		}
	}
}

// Run returns a function for errgroup that stops cleanly on cancellation.
func (h *Hub) Run(ctx context.Context) func() error {
	return func() error {
		err := h.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

func (h *Hub) feedSink(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-h.sinkCh:
			sctx, cancel := context.WithTimeout(ctx, h.cfg.WriteTimeout)
			err := h.sink.Publish(sctx, payload)
			cancel()
			if err != nil {
				h.logger.Warn("sink publish failed", logger.Error(err))
			}
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			if err := h.writeRaw(c.conn, payload); err != nil {
				h.logger.Debug("client write failed", logger.ClientID(c.id), logger.Error(err))
				h.Remove(c.id)
				return
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}
	if len(clients) > 0 {
		h.logger.Info("clients closed", logger.Count("clients", len(clients)))
	}
}

func (h *Hub) writeRaw(conn Conn, payload []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
