package hub

import "errors"

var (
	// ErrQueueFull is returned by Queue.Publish when the buffer is full.
	ErrQueueFull = errors.New("hub: message queue is full")
)
