package transfer

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/dmitrymomot/swimlive/core/logger"
)

// Start reads records from src until ctx is cancelled or src is exhausted.
// Reads that time out with no data are expected and cheap.
func (r *Reassembler) Start(ctx context.Context, src io.Reader) error {
	buf := make([]byte, r.cfg.ReadBufferSize)
	lines := &lineBuffer{max: r.cfg.MaxLineBytes}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := src.Read(buf)
		if n > 0 {
			if dropped := lines.feed(buf[:n], r.handle); dropped > 0 {
				r.logger.Warn("record dropped",
					logger.Error(ErrLineTooLong),
					logger.Count("lines", dropped),
				)
			}
		}

		switch {
		case errors.Is(err, io.EOF):
			r.logger.Info("transfer stream closed", logger.Count("pending_files", len(r.pending)))
			return nil
		case err != nil:
			r.logger.Warn("transfer read failed", logger.Error(err))
			if !sleep(ctx, r.cfg.ErrorBackoff) {
				return ctx.Err()
			}
		case n == 0:
			if !sleep(ctx, r.cfg.IdleSleep) {
				return ctx.Err()
			}
		}
	}
}

// Run returns a function for errgroup that stops cleanly on cancellation.
func (r *Reassembler) Run(ctx context.Context, src io.Reader) func() error {
	return func() error {
		err := r.Start(ctx, src)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

func (r *Reassembler) handle(line []byte) {
	if err := r.HandleLine(line); err != nil {
		r.logger.Warn("record dropped", logger.Error(err))
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
