package race

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dmitrymomot/swimlive/core/logger"
)

// Start reads console bytes from src until ctx is cancelled or src is exhausted.
// Every read attempt is followed by a Tick; the first Tick runs before any read
// so that a display already showing an event is announced immediately.
// Read errors are logged and retried after ErrorBackoff.
func (m *Machine) Start(ctx context.Context, src io.Reader) error {
	buf := make([]byte, m.cfg.ReadBufferSize)
	m.Tick()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := src.Read(buf)
		if n > 0 {
			_, _ = m.dec.Write(buf[:n])
		}
		m.Tick()

		switch {
		case errors.Is(err, io.EOF):
			m.logger.Info("console stream closed")
			return nil
		case err != nil:
			m.logger.Warn("console read failed", logger.Error(err))
			if !sleep(ctx, m.cfg.ErrorBackoff) {
				return ctx.Err()
			}
		case n == 0:
			if !sleep(ctx, m.cfg.IdleSleep) {
				return ctx.Err()
			}
		}
	}
}

// Run returns a function for errgroup that stops cleanly on cancellation.
func (m *Machine) Run(ctx context.Context, src io.Reader) func() error {
	return func() error {
		err := m.Start(ctx, src)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
