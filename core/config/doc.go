// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package loads a .env file on first use and uses the caarlos0/env library
// for parsing environment variables into struct fields.
//
// Basic usage:
//
//	type RaceConfig struct {
//		SyncInterval time.Duration `env:"RACE_SYNC_INTERVAL" envDefault:"100ms"`
//	}
//
//	var cfg RaceConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	config.MustLoad(&cfg)
//
// Nested structs with envPrefix share field definitions, so per-prefix defaults
// are set by pre-populating the struct before calling Load:
//
//	cfg := Config{Console: serialport.Config{BaudRate: 9600, Parity: "even"}}
//	config.MustLoad(&cfg) // CONSOLE_BAUD_RATE overrides 9600 when set
package config
