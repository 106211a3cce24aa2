package transfer

import "time"

// Config tunes the transfer reader.
type Config struct {
	MaxLineBytes   int           `env:"TRANSFER_MAX_LINE_BYTES" envDefault:"4194304"`
	ReadBufferSize int           `env:"TRANSFER_READ_BUFFER_SIZE" envDefault:"4096"`
	IdleSleep      time.Duration `env:"TRANSFER_IDLE_SLEEP" envDefault:"1ms"`
	ErrorBackoff   time.Duration `env:"TRANSFER_ERROR_BACKOFF" envDefault:"100ms"`
}

// DefaultConfig returns the reader settings used with the serial link.
func DefaultConfig() Config {
	return Config{
		MaxLineBytes:   4 << 20,
		ReadBufferSize: 4096,
		IdleSleep:      time.Millisecond,
		ErrorBackoff:   100 * time.Millisecond,
	}
}
