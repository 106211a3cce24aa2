package transfer

import "log/slog"

// Option configures a Reassembler.
type Option func(*Reassembler)

// WithConfig replaces the default reader settings. Non-positive sizes keep the defaults.
func WithConfig(cfg Config) Option {
	return func(r *Reassembler) {
		if cfg.MaxLineBytes <= 0 {
			cfg.MaxLineBytes = r.cfg.MaxLineBytes
		}
		if cfg.ReadBufferSize <= 0 {
			cfg.ReadBufferSize = r.cfg.ReadBufferSize
		}
		r.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reassembler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithInvalidator sets who is told when an event file is replaced.
func WithInvalidator(inv Invalidator) Option {
	return func(r *Reassembler) {
		if inv != nil {
			r.inv = inv
		}
	}
}
