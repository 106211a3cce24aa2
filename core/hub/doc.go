// Package hub fans race messages out to display clients over WebSocket.
//
// Producers call Queue.Publish, which never blocks. Hub.Run drains the queue
// on a short interval and marshals each message once. Every client has its own
// bounded buffer drained by its own writer goroutine under a write deadline;
// a client whose write fails or whose buffer overflows is closed and removed,
// and the remaining clients still receive the message. The optional Sink is
// fed the same way from a single goroutine and never delays clients.
//
// A client connecting mid-race first receives a snapshot of the current
// state. The snapshot is queued in the same critical section that registers
// the client, so every delta broadcast afterwards follows it.
//
//	q := hub.NewQueue(cfg.QueueSize)
//	h := hub.New(q, machine.SnapshotMessage, hub.WithConfig(cfg), hub.WithLogger(log))
//	mux.Handle("/", h)
//	g.Go(h.Run(ctx))
package hub
