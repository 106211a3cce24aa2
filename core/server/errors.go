package server

import "errors"

var (
	// ErrMissingAddress is returned when server address is not provided.
	ErrMissingAddress = errors.New("server address is required")

	// ErrServerAlreadyRunning is returned by Start on a server that is already serving.
	ErrServerAlreadyRunning = errors.New("server is already running")
)
