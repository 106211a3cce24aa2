package race_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/swimlive/core/display"
	"github.com/dmitrymomot/swimlive/core/message"
	"github.com/dmitrymomot/swimlive/core/race"
)

// idleReader behaves like a serial port whose read timeout keeps expiring.
type idleReader struct {
	reads atomic.Int64
}

func (r *idleReader) Read([]byte) (int, error) {
	r.reads.Add(1)
	return 0, nil
}

// flakyReader fails once before serving its data.
type flakyReader struct {
	failed bool
	data   io.Reader
}

func (r *flakyReader) Read(p []byte) (int, error) {
	if !r.failed {
		r.failed = true
		return 0, errors.New("framing error")
	}
	return r.data.Read(p)
}

func consoleStream() []byte {
	var b bytes.Buffer
	b.Write(display.EncodeRow(display.EventHeatChannel, "7    1"))
	b.Write(display.EncodeRow(display.ClockChannel, "  001000"))
	return b.Bytes()
}

func TestMachine_Start(t *testing.T) {
	t.Parallel()

	t.Run("decodes_until_eof", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		err := f.m.Start(context.Background(), bytes.NewReader(consoleStream()))
		require.NoError(t, err)

		assert.Len(t, ofType[message.EventHeatUpdate](f.pub), 1)
		syncs := ofType[message.TimerSync](f.pub)
		require.Len(t, syncs, 1)
		assert.True(t, syncs[0].Running)
	})

	t.Run("retries_after_read_error", func(t *testing.T) {
		t.Parallel()
		cfg := race.DefaultConfig()
		cfg.ErrorBackoff = time.Millisecond
		f := newFixture(t, race.WithConfig(cfg))

		src := &flakyReader{data: bytes.NewReader(consoleStream())}
		require.NoError(t, f.m.Start(context.Background(), src))
		assert.Len(t, ofType[message.EventHeatUpdate](f.pub), 1)
	})

	t.Run("stops_on_cancel", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		src := &idleReader{}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		err := f.m.Start(ctx, src)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Positive(t, src.reads.Load())
	})
}

func TestMachine_Run(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.m.Run(ctx, &idleReader{})() }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "cancellation is a clean stop")
	case <-time.After(time.Second):
		t.Fatal("machine did not stop")
	}
}
