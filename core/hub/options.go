package hub

import (
	"log/slog"
)

// Option configures a Hub.
type Option func(*Hub)

// WithConfig replaces the default delivery settings.
func WithConfig(cfg Config) Option {
	return func(h *Hub) {
		def := DefaultConfig()
		if cfg.DrainInterval <= 0 {
			cfg.DrainInterval = def.DrainInterval
		}
		if cfg.WriteTimeout <= 0 {
			cfg.WriteTimeout = def.WriteTimeout
		}
		if cfg.ReadLimit <= 0 {
			cfg.ReadLimit = def.ReadLimit
		}
		if cfg.ClientBuffer <= 0 {
			cfg.ClientBuffer = def.ClientBuffer
		}
		if cfg.SinkBuffer <= 0 {
			cfg.SinkBuffer = def.SinkBuffer
		}
		h.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithSink forwards every broadcast payload to s as well.
func WithSink(s Sink) Option {
	return func(h *Hub) {
		h.sink = s
	}
}
