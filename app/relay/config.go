package relay

import (
	"github.com/dmitrymomot/swimlive/core/hub"
	"github.com/dmitrymomot/swimlive/core/race"
	"github.com/dmitrymomot/swimlive/core/roster"
	"github.com/dmitrymomot/swimlive/core/serialport"
	"github.com/dmitrymomot/swimlive/core/server"
	"github.com/dmitrymomot/swimlive/core/transfer"
	"github.com/dmitrymomot/swimlive/integration/database/redis"
)

// Config is the full relay configuration. Serial endpoints share one struct and
// are told apart by prefix, so their defaults are filled in by DefaultConfig
// rather than envDefault tags.
type Config struct {
	Console      serialport.Config `envPrefix:"CONSOLE_"`
	TransferPort serialport.Config `envPrefix:"TRANSFER_"`

	Roster   roster.Config
	Race     race.Config
	Transfer transfer.Config
	Hub      hub.Config
	Server   server.Config
	Redis    redis.Config

	AppName   string `env:"APP_NAME" envDefault:"swimlive"`
	Env       string `env:"APP_ENV" envDefault:"production"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	PublicURL string `env:"PUBLIC_URL"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Console:      serialport.ConsoleDefaults(),
		TransferPort: serialport.TransferDefaults(),
		Race:         race.DefaultConfig(),
		Transfer:     transfer.DefaultConfig(),
		Hub:          hub.DefaultConfig(),
		Server:       server.DefaultConfig(),
		AppName:      "swimlive",
		Env:          "production",
		LogLevel:     "info",
	}
}

// DisplayURL is the address display devices should open. PUBLIC_URL wins;
// otherwise it is derived from the listen address.
func (c Config) DisplayURL() string {
	if c.PublicURL != "" {
		return c.PublicURL
	}
	return "ws://" + c.Server.Addr + "/"
}
