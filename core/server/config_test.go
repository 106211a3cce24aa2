package server_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/swimlive/core/server"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("creates server from config with defaults", func(t *testing.T) {
		t.Parallel()
		srv, err := server.NewFromConfig(server.DefaultConfig())

		require.NoError(t, err)
		assert.NotNil(t, srv)
		assert.Nil(t, srv.Addr(), "not bound before Start")
	})

	t.Run("allows overriding config values with options", func(t *testing.T) {
		t.Parallel()
		cfg := server.Config{
			Addr:            "localhost:0",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		}

		srv, err := server.NewFromConfig(cfg, server.WithShutdownTimeout(time.Second))

		require.NoError(t, err)
		assert.NotNil(t, srv)
	})

	t.Run("fails without address", func(t *testing.T) {
		t.Parallel()
		srv, err := server.NewFromConfig(server.Config{ReadTimeout: 10 * time.Second})

		assert.ErrorIs(t, err, server.ErrMissingAddress)
		assert.Nil(t, srv)
	})
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := server.DefaultConfig()

	assert.Equal(t, "localhost:8001", cfg.Addr)
	assert.Equal(t, server.DefaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, server.DefaultWriteTimeout, cfg.WriteTimeout)
	assert.Equal(t, server.DefaultIdleTimeout, cfg.IdleTimeout)
	assert.Equal(t, server.DefaultShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, server.DefaultMaxHeaderBytes, cfg.MaxHeaderBytes)
}
