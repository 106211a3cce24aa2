package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/swimlive/core/display"
	"github.com/dmitrymomot/swimlive/core/health"
	"github.com/dmitrymomot/swimlive/core/hub"
	"github.com/dmitrymomot/swimlive/core/logger"
	"github.com/dmitrymomot/swimlive/core/race"
	"github.com/dmitrymomot/swimlive/core/roster"
	"github.com/dmitrymomot/swimlive/core/serialport"
	"github.com/dmitrymomot/swimlive/core/server"
	"github.com/dmitrymomot/swimlive/core/transfer"
	"github.com/dmitrymomot/swimlive/integration/database/redis"
	"github.com/dmitrymomot/swimlive/pkg/qrcode"
)

// PortOpener opens a serial endpoint. Tests substitute in-memory streams.
type PortOpener func(serialport.Config) (io.ReadCloser, error)

// App wires the console loop, the transfer loop, the broadcast hub and the
// HTTP listener together.
type App struct {
	config   Config
	logger   *slog.Logger
	openPort PortOpener

	store       *roster.Store
	machine     *race.Machine
	reassembler *transfer.Reassembler
	queue       *hub.Queue
	hub         *hub.Hub
	server      *server.Server
	redis       *goredis.Client
}

// AppOption configures an App.
type AppOption func(*App) error

// WithLogger sets the application logger.
func WithLogger(log *slog.Logger) AppOption {
	return func(app *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = log
		return nil
	}
}

// WithPortOpener replaces the serial port opener.
func WithPortOpener(open PortOpener) AppOption {
	return func(app *App) error {
		if open == nil {
			return errors.New("port opener cannot be nil")
		}
		app.openPort = open
		return nil
	}
}

// NewApp builds every component from cfg. It creates the roster directory and,
// when REDIS_URL is set, connects the relay; both failures are fatal.
func NewApp(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	app := &App{
		config: cfg,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	if app.openPort == nil {
		app.openPort = app.openSerial
	}

	dir, err := cfg.Roster.EnsureDir()
	if err != nil {
		return nil, err
	}
	app.logger.Info("event files directory ready", slog.String("dir", dir))
	app.store = roster.NewStore(dir, roster.WithStoreLogger(app.logger))

	app.queue = hub.NewQueue(cfg.Hub.QueueSize)
	app.machine = race.NewMachine(
		display.NewDecoder(),
		app.store,
		app.queue,
		race.WithConfig(cfg.Race),
		race.WithLogger(app.logger),
	)
	app.reassembler = transfer.NewReassembler(
		dir,
		transfer.WithConfig(cfg.Transfer),
		transfer.WithLogger(app.logger),
		transfer.WithInvalidator(app.store),
	)

	hubOpts := []hub.Option{hub.WithConfig(cfg.Hub), hub.WithLogger(app.logger)}
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		relay, err := redis.NewRelay(client, cfg.Redis.Channel)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		app.redis = client
		hubOpts = append(hubOpts, hub.WithSink(relay))
		app.logger.Info("redis relay enabled", slog.String("channel", cfg.Redis.Channel))
	}
	app.hub = hub.New(app.queue, app.machine.SnapshotMessage, hubOpts...)

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(app.logger))
	if err != nil {
		app.closeRedis()
		return nil, err
	}
	app.server = srv

	return app, nil
}

// Handler returns the HTTP routes: the push channel at the root, health probes
// and the QR code of the display URL.
func (app *App) Handler() http.Handler {
	checks := []func(context.Context) error{app.store.Healthcheck}
	if app.redis != nil {
		checks = append(checks, redis.Healthcheck(app.redis))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", app.hub)
	mux.Handle("GET /live", health.Liveness())
	mux.Handle("GET /ready", health.Readiness(app.logger, checks...))
	mux.Handle("GET /qrcode.png", qrcode.Handler(app.config.DisplayURL(), qrcode.DefaultSize))
	return mux
}

// Hub exposes the broadcast hub.
func (app *App) Hub() *hub.Hub {
	return app.hub
}

// Server exposes the HTTP server, mainly so callers can read its bound address.
func (app *App) Server() *server.Server {
	return app.server
}

// Run opens both serial endpoints and runs every loop until ctx is canceled
// or one of them fails. Ports are closed on the way out.
// An unset TRANSFER_PORT disables file transfer.
func (app *App) Run(ctx context.Context) error {
	defer app.closeRedis()

	console, err := app.openPort(app.config.Console)
	if err != nil {
		return fmt.Errorf("console port: %w", err)
	}
	defer console.Close()
	app.logger.Info("console port open", slog.String("port", app.config.Console.Port))

	var files io.ReadCloser
	if app.config.TransferPort.Port != "" {
		files, err = app.openPort(app.config.TransferPort)
		if err != nil {
			return fmt.Errorf("transfer port: %w", err)
		}
		defer files.Close()
		app.logger.Info("transfer port open", slog.String("port", app.config.TransferPort.Port))
	} else {
		app.logger.Warn("transfer port not configured, file transfer disabled")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(app.machine.Run(ctx, console))
	if files != nil {
		g.Go(app.reassembler.Run(ctx, files))
	}
	g.Go(app.hub.Run(ctx))
	g.Go(app.server.Run(ctx, app.Handler()))

	app.logger.Info("relay started", slog.String("display_url", app.config.DisplayURL()))
	err = g.Wait()
	app.logger.Info("relay stopped")
	return err
}

func (app *App) openSerial(cfg serialport.Config) (io.ReadCloser, error) {
	port, err := serialport.Open(cfg)
	if err != nil {
		if ports, lerr := serialport.List(); lerr == nil {
			app.logger.Error("serial port unavailable",
				slog.String("port", cfg.Port),
				slog.Any("available", ports),
				logger.Error(err),
			)
		}
		return nil, err
	}
	return port, nil
}

func (app *App) closeRedis() {
	if app.redis == nil {
		return
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Warn("redis close failed", logger.Error(err))
	}
	app.redis = nil
}
