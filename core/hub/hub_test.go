package hub_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/swimlive/core/hub"
	"github.com/dmitrymomot/swimlive/core/message"
)

// fakeConn records writes and can be told to fail them.
type fakeConn struct {
	mu     sync.Mutex
	fail   bool
	writes [][]byte
	closed bool
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.writes = append(c.writes, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) state() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.writes), c.closed
}

type sinkFunc func(ctx context.Context, payload []byte) error

func (f sinkFunc) Publish(ctx context.Context, payload []byte) error { return f(ctx, payload) }

func TestHub_BroadcastToRemainder(t *testing.T) {
	t.Parallel()

	h := hub.New(hub.NewQueue(8), nil)
	good1, bad, good2 := &fakeConn{}, &fakeConn{fail: true}, &fakeConn{}
	h.Register(good1)
	h.Register(bad)
	h.Register(good2)
	require.Equal(t, 3, h.Clients())

	h.Broadcast(message.Disqualification{Lane: 4})

	for _, c := range []*fakeConn{good1, good2} {
		require.Eventually(t, func() bool { n, _ := c.state(); return n == 1 }, time.Second, time.Millisecond)
	}
	require.Eventually(t, func() bool { _, closed := bad.state(); return closed }, time.Second, time.Millisecond,
		"failing client is closed")
	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, time.Millisecond,
		"failing client is removed")
	for _, c := range []*fakeConn{good1, good2} {
		_, closed := c.state()
		assert.False(t, closed)
	}

	h.Broadcast(message.Saved{})
	require.Eventually(t, func() bool { n, _ := good1.state(); return n == 2 }, time.Second, time.Millisecond)
}

// stuckConn never completes a write until released.
type stuckConn struct {
	release chan struct{}
	once    sync.Once
}

func (c *stuckConn) WriteMessage(int, []byte) error {
	<-c.release
	return errors.New("closed")
}

func (c *stuckConn) SetWriteDeadline(time.Time) error { return nil }

func (c *stuckConn) Close() error {
	c.once.Do(func() { close(c.release) })
	return nil
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	t.Parallel()

	cfg := hub.DefaultConfig()
	cfg.ClientBuffer = 2
	h := hub.New(hub.NewQueue(8), nil, hub.WithConfig(cfg))

	stuck := &stuckConn{release: make(chan struct{})}
	healthy := &fakeConn{}
	h.Register(stuck)
	h.Register(healthy)

	start := time.Now()
	for range 5 {
		h.Broadcast(message.Saved{})
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond, "broadcast never waits on a client")

	require.Eventually(t, func() bool { n, _ := healthy.state(); return n == 5 }, time.Second, time.Millisecond)
	assert.Equal(t, 1, h.Clients(), "client with a full buffer is removed")
}

func TestHub_SinkReceivesPayload(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got []string
	)
	sink := sinkFunc(func(_ context.Context, payload []byte) error {
		mu.Lock()
		got = append(got, string(payload))
		mu.Unlock()
		return errors.New("relay down")
	})

	q := hub.NewQueue(8)
	h := hub.New(q, nil, hub.WithSink(sink))
	conn := &fakeConn{}
	h.Register(conn)

	require.NoError(t, q.Publish(message.Saved{}))
	require.NoError(t, q.Publish(message.Disqualification{Lane: 2}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx)() }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { n, _ := conn.state(); return n == 2 }, time.Second, time.Millisecond,
		"sink failure does not affect clients")
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{`{"status":"SAVED"}`, `{"disqualification":{"lane":2,"tag":"disqualification"}}`}, got)
}

func TestHub_BlockedSinkDoesNotDelayClients(t *testing.T) {
	t.Parallel()

	sink := sinkFunc(func(ctx context.Context, _ []byte) error {
		<-ctx.Done()
		return ctx.Err()
	})

	t.Run("while_running", func(t *testing.T) {
		t.Parallel()
		q := hub.NewQueue(8)
		h := hub.New(q, nil, hub.WithSink(sink))
		conn := &fakeConn{}
		h.Register(conn)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- h.Run(ctx)() }()

		for range 3 {
			require.NoError(t, q.Publish(message.Saved{}))
		}
		require.Eventually(t, func() bool { n, _ := conn.state(); return n == 3 }, 500*time.Millisecond, time.Millisecond,
			"clients are served while the sink is stuck")

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("hub did not stop")
		}
	})

	t.Run("backlog_full", func(t *testing.T) {
		t.Parallel()
		cfg := hub.DefaultConfig()
		cfg.SinkBuffer = 1
		q := hub.NewQueue(8)
		h := hub.New(q, nil, hub.WithSink(sink), hub.WithConfig(cfg))

		for range 3 {
			require.NoError(t, q.Publish(message.Saved{}))
		}
		start := time.Now()
		assert.Equal(t, 3, h.Drain())
		assert.Less(t, time.Since(start), 100*time.Millisecond, "overflowing payloads are discarded")
	})
}

func TestHub_LateJoinSeesConcurrentChange(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		state = "OLD EVENT"
		once  sync.Once
		h     *hub.Hub
	)
	snapshot := func() message.Message {
		mu.Lock()
		name := state
		mu.Unlock()
		// The event changes while the client is joining.
		once.Do(func() {
			go func() {
				mu.Lock()
				state = "NEW EVENT"
				mu.Unlock()
				h.Broadcast(message.EventHeatUpdate{EventName: "NEW EVENT", EventID: "2", HeatName: "HEAT 1"})
			}()
		})
		return message.Snapshot{EventName: name, HeatName: "HEAT 1"}
	}
	h = hub.New(hub.NewQueue(8), snapshot)

	srv := httptest.NewServer(h)
	defer srv.Close()

	conn := dial(t, srv)
	first := readJSON(t, conn)
	assert.Equal(t, "OLD EVENT", first["eventName"])
	next := readJSON(t, conn)
	assert.Equal(t, "NEW EVENT", next["eventName"], "change made during join is delivered after the snapshot")
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestHub_WebSocket(t *testing.T) {
	t.Parallel()

	snapshot := func() message.Message {
		return message.Snapshot{
			EventName: "FEMALE 100M BACKSTROKE",
			EventID:   "7",
			HeatName:  "HEAT 1",
			Timer:     message.Timer{Running: true, Time: 42.5, At: time.Now()},
		}
	}

	cfg := hub.DefaultConfig()
	cfg.DrainInterval = time.Millisecond
	q := hub.NewQueue(cfg.QueueSize)
	h := hub.New(q, snapshot, hub.WithConfig(cfg))

	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx)() }()

	first := dial(t, srv)
	snap := readJSON(t, first)
	assert.Equal(t, "FEMALE 100M BACKSTROKE", snap["eventName"])
	assert.Equal(t, 42.5, snap["timerSync"].(map[string]any)["time"])

	second := dial(t, srv)
	readJSON(t, second)

	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, first.WriteMessage(websocket.TextMessage, []byte(`{"ignored":true}`)))
	require.NoError(t, q.Publish(message.FinishTime{Lane: 3, Time: "01:02.34", Type: message.TypeFinish, TimeNumber: 1, Label: "Finish"}))

	for _, c := range []*websocket.Conn{first, second} {
		got := readJSON(t, c)
		ft := got["finishTime"].(map[string]any)
		assert.Equal(t, float64(3), ft["lane"])
		assert.Equal(t, "01:02.34", ft["time"])
	}

	require.NoError(t, second.Close())
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	require.NoError(t, first.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := first.ReadMessage()
	assert.Error(t, err, "shutdown closes client connections")
	assert.Zero(t, h.Clients())
}
