package hub

import (
	"github.com/dmitrymomot/swimlive/core/message"
)

// Queue is the bounded hand-off between producers and the hub.
// Publish is safe for concurrent use.
type Queue struct {
	ch chan message.Message
}

// NewQueue creates a queue holding up to size messages. Sizes below one are raised to one.
func NewQueue(size int) *Queue {
	return &Queue{ch: make(chan message.Message, max(size, 1))}
}

// Publish enqueues msg without blocking.
// Returns ErrQueueFull immediately if the buffer is full.
func (q *Queue) Publish(msg message.Message) error {
	select {
	case q.ch <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return len(q.ch)
}

func (q *Queue) next() (message.Message, bool) {
	select {
	case msg := <-q.ch:
		return msg, true
	default:
		return nil, false
	}
}
