package race

import (
	"log/slog"
	"time"
)

// Option configures a Machine.
type Option func(*Machine)

// WithConfig replaces the default timing. A non-positive read buffer size keeps the default.
func WithConfig(cfg Config) Option {
	return func(m *Machine) {
		if cfg.ReadBufferSize <= 0 {
			cfg.ReadBufferSize = m.cfg.ReadBufferSize
		}
		m.cfg = cfg
	}
}

// WithLogger sets the logger for race events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}
