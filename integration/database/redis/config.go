package redis

import "time"

// Config holds the relay connection settings. An empty ConnectionURL disables the relay.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`
	Channel        string        `env:"REDIS_CHANNEL" envDefault:"swimlive"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
