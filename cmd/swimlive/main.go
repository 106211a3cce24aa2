// Command swimlive relays a pool scoring console to live scoreboard displays.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/swimlive/app/relay"
	"github.com/dmitrymomot/swimlive/core/config"
	"github.com/dmitrymomot/swimlive/core/logger"
)

func main() {
	cfg := relay.DefaultConfig()
	config.MustLoad(&cfg)

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := relay.NewApp(ctx, cfg, relay.WithLogger(log))
	if err != nil {
		log.Error("startup failed", logger.Error(err))
		os.Exit(1)
	}
	if err := app.Run(ctx); err != nil {
		log.Error("relay failed", logger.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg relay.Config) *slog.Logger {
	if cfg.Env == "development" {
		return logger.New(logger.WithDevelopment(cfg.AppName))
	}
	return logger.New(
		logger.WithProduction(cfg.AppName),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
	)
}
