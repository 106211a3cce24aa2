package hub

import "time"

// Config tunes delivery to clients.
type Config struct {
	QueueSize     int           `env:"HUB_QUEUE_SIZE" envDefault:"1024"`
	DrainInterval time.Duration `env:"HUB_DRAIN_INTERVAL" envDefault:"10ms"`
	WriteTimeout  time.Duration `env:"HUB_WRITE_TIMEOUT" envDefault:"2s"`
	ReadLimit     int64         `env:"HUB_READ_LIMIT" envDefault:"4096"`
	// ClientBuffer is how many payloads may wait for one client before it is dropped as too slow.
	ClientBuffer int `env:"HUB_CLIENT_BUFFER" envDefault:"256"`
	// SinkBuffer is how many payloads may wait for the sink before new ones are discarded.
	SinkBuffer int `env:"HUB_SINK_BUFFER" envDefault:"1024"`
}

// DefaultConfig returns the settings used for local display clients.
func DefaultConfig() Config {
	return Config{
		QueueSize:     1024,
		DrainInterval: 10 * time.Millisecond,
		WriteTimeout:  2 * time.Second,
		ReadLimit:     4096,
		ClientBuffer:  256,
		SinkBuffer:    1024,
	}
}
