// Package race turns the decoded console display into timing messages.
//
// A Machine is polled after every read from the console stream. Each Tick
// compares the display with what it saw last and emits the difference:
//
//   - a new event or heat on channel 0x0C reloads the roster and resets the heat
//   - the race clock starting, running and stopping becomes TimerSync messages
//   - lane channels showing a new time become split or finish results
//   - a non-digit place code becomes a single disqualification per lane
//   - lanes switched on with a swimmer assigned are reported as active
//
// Times still showing from the previous race are ignored during the first
// second of the clock, and DQ codes during the first five seconds.
//
// The machine is owned by one goroutine. Other goroutines read its state only
// through Snapshot, which returns an immutable copy published atomically.
//
// Typical wiring:
//
//	dec := display.NewDecoder()
//	m := race.NewMachine(dec, store, queue,
//		race.WithConfig(cfg),
//		race.WithLogger(log),
//	)
//	g.Go(m.Run(ctx, port))
package race
