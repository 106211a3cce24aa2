package race

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/swimlive/core/display"
	"github.com/dmitrymomot/swimlive/core/logger"
	"github.com/dmitrymomot/swimlive/core/message"
	"github.com/dmitrymomot/swimlive/core/roster"
)

// Publisher accepts outbound messages without blocking.
type Publisher interface {
	Publish(msg message.Message) error
}

// Roster resolves event names and heat line-ups.
type Roster interface {
	EventName(id string) string
	Lanes(id, heat string) roster.Lanes
}

// Machine tracks one console and emits timing messages.
// Tick and Start must be called from a single goroutine; Snapshot is safe from any.
type Machine struct {
	cfg    Config
	dec    *display.Decoder
	buf    *display.Buffer
	roster Roster
	pub    Publisher
	logger *slog.Logger
	now    func() time.Time

	event     string
	heat      string
	eventName string
	lanes     roster.Lanes
	expected  int
	lane      [display.Lanes]laneState
	savedSent bool

	clockText string
	displayed float64
	running   bool
	offset    float64
	startedAt time.Time
	lastSync  time.Time

	active        laneSet
	pending       laneSet
	hasPending    bool
	lastLaneCheck time.Time

	dirty    bool
	snapshot atomic.Pointer[Snapshot]
	outbox   []message.Message
}

// NewMachine creates a machine reading the display decoded by dec.
func NewMachine(dec *display.Decoder, r Roster, pub Publisher, opts ...Option) *Machine {
	m := &Machine{
		cfg:      DefaultConfig(),
		dec:      dec,
		buf:      dec.Buffer(),
		roster:   r,
		pub:      pub,
		logger:   logger.NewNop(),
		now:      time.Now,
		expected: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logger.Component("race"))
	m.storeSnapshot()
	return m
}

// Snapshot returns the latest published race state.
func (m *Machine) Snapshot() *Snapshot {
	return m.snapshot.Load()
}

// SnapshotMessage returns the welcome message for a client connecting now.
func (m *Machine) SnapshotMessage() message.Message {
	return m.Snapshot().Message(m.now())
}

// Tick compares the display with the last observed state and emits messages
// for every change. It never blocks. The snapshot is updated before any of the
// tick's messages are published, so a client that joins after a message went
// out never receives a snapshot older than it.
func (m *Machine) Tick() {
	now := m.now()

	event, heat := m.buf.EventHeat()
	switch {
	case event != m.event:
		m.changeEvent(event, heat)
	case heat != m.heat:
		m.changeHeat(heat)
	}

	if clock := m.buf.Clock(); clock != m.clockText {
		m.updateClock(clock, now)
	}

	m.processLanes(now)
	m.checkActiveLanes(now)

	if m.dirty {
		m.storeSnapshot()
	}
	m.flush()
}

func (m *Machine) changeEvent(event, heat string) {
	m.event, m.heat = event, heat
	m.eventName = strings.ToUpper(m.roster.EventName(event))
	m.lanes = m.roster.Lanes(event, heat)
	m.expected = roster.ExpectedSplits(m.eventName)
	m.resetHeat()

	m.publish(message.EventHeatUpdate{
		EventName: m.eventName,
		EventID:   event,
		HeatName:  message.HeatName(heat),
		Lanes:     m.lanes,
	})
	m.logger.Info("event changed",
		logger.EventID(event),
		slog.String("name", m.eventName),
		logger.Heat(heat),
		logger.Count("expected_splits", m.expected),
	)
}

func (m *Machine) changeHeat(heat string) {
	m.heat = heat
	m.lanes = m.roster.Lanes(m.event, heat)
	m.resetHeat()

	m.publish(message.EventHeatUpdate{
		HeatName: message.HeatName(heat),
		Lanes:    m.lanes,
		HeatOnly: true,
	})
	m.logger.Info("heat changed", logger.EventID(m.event), logger.Heat(heat))
}

func (m *Machine) resetHeat() {
	m.lane = [display.Lanes]laneState{}
	m.savedSent = false
	m.dirty = true
}

func (m *Machine) updateClock(text string, now time.Time) {
	m.clockText = text
	m.displayed, _ = ParseClock(text)

	if ClockEmpty(text) {
		if m.running {
			m.stopClock(now)
		}
		return
	}

	compensated := m.displayed + m.cfg.LatencyCompensation.Seconds()
	if !m.running {
		m.running = true
		m.startedAt = now
		m.offset = compensated
		m.lastSync = now
		m.dirty = true

		m.publish(message.TimerSync{Timer: message.Timer{Running: true, Time: compensated, At: now}})
		m.publish(message.ActiveLanesUpdate{ActiveLanes: m.active.list()})
		m.logger.Info("timer started", slog.String("clock", text))
		return
	}

	if now.Sub(m.lastSync) >= m.cfg.SyncInterval {
		m.lastSync = now
		m.publish(message.TimerSync{Timer: message.Timer{Running: true, Time: compensated, At: now}})
	}
}

func (m *Machine) stopClock(now time.Time) {
	m.running = false
	m.dirty = true

	if !m.savedSent && m.complete() {
		m.savedSent = true
		m.publish(message.Saved{})
		m.logger.Info("race complete, results saved",
			logger.EventID(m.event),
			logger.Heat(m.heat),
			logger.Count("active_lanes", m.active.len()),
		)
	}

	m.publish(message.TimerSync{Timer: message.Timer{Running: false, Time: 0, At: now}})
	m.logger.Info("timer stopped")
}

// complete reports whether every active lane reported all expected times.
func (m *Machine) complete() bool {
	if m.active == 0 || m.expected <= 0 {
		return false
	}
	for lane := 1; lane <= display.Lanes; lane++ {
		if m.active.has(lane) && m.lane[lane-1].received < m.expected {
			return false
		}
	}
	return true
}

func (m *Machine) processLanes(now time.Time) {
	if !m.running {
		return
	}

	for lane := 1; lane <= display.Lanes; lane++ {
		st := &m.lane[lane-1]
		if st.dq {
			continue
		}

		r := m.buf.Lane(lane)
		if r.Place != "" && !isDigits(r.Place) {
			m.disqualify(lane, r.Place, now)
			continue
		}

		if r.Time == "" || m.displayed < m.cfg.TimeStaleWindow.Seconds() {
			continue
		}
		raw := strings.ReplaceAll(r.Time, " ", "")
		if raw == st.lastRaw {
			continue
		}
		formatted, ok := FormatLaneTime(raw)
		if !ok {
			continue
		}
		swimmer := strings.TrimSpace(m.lanes.Lane(lane).Name)
		if swimmer == "" {
			continue
		}

		st.lastRaw = raw
		st.received++

		result := message.FinishTime{
			Lane:       lane,
			Time:       formatted,
			Swimmer:    swimmer,
			TimeNumber: st.received,
		}
		if isDigits(r.Place) {
			result.Place = r.Place
		}
		if st.received < m.expected {
			result.Type = message.TypeSplit
			result.Label = fmt.Sprintf("Split %d", st.received)
		} else {
			result.Type = message.TypeFinish
			result.Label = "Finish"
		}

		m.publish(result)
		m.logger.Debug("lane time",
			logger.Lane(lane),
			slog.String("time", formatted),
			slog.String("type", result.Type),
			slog.String("place", result.Place),
		)
	}
}

// disqualify emits the DQ once the stale window has passed. Codes seen earlier
// are left over from the previous race and do not mark the lane.
func (m *Machine) disqualify(lane int, code string, now time.Time) {
	if now.Sub(m.startedAt) < m.cfg.DQStaleWindow {
		return
	}
	m.lane[lane-1].dq = true
	m.publish(message.Disqualification{Lane: lane})
	m.logger.Info("disqualification sent",
		logger.Lane(lane),
		slog.String("swimmer", m.lanes.Lane(lane).Name),
		slog.String("code", code),
	)
}

func (m *Machine) checkActiveLanes(now time.Time) {
	if !m.lastLaneCheck.IsZero() && now.Sub(m.lastLaneCheck) < m.cfg.LaneCheckInterval {
		return
	}
	m.lastLaneCheck = now

	var current laneSet
	for lane := 1; lane <= display.Lanes; lane++ {
		if m.buf.LaneOn(lane) && strings.TrimSpace(m.lanes.Lane(lane).Name) != "" {
			current = current.with(lane)
		}
	}

	if m.hasPending && current == m.pending && current != m.active {
		m.active = current
		m.dirty = true
		m.publish(message.ActiveLanesUpdate{ActiveLanes: current.list()})
		m.logger.Debug("active lanes changed", logger.Count("active_lanes", current.len()))
	}
	m.pending = current
	m.hasPending = true
}

// publish holds msg until the end of the tick.
func (m *Machine) publish(msg message.Message) {
	m.outbox = append(m.outbox, msg)
}

func (m *Machine) flush() {
	for i, msg := range m.outbox {
		if err := m.pub.Publish(msg); err != nil {
			m.logger.Warn("message dropped",
				slog.String("kind", string(msg.Kind())),
				logger.Error(err),
			)
		}
		m.outbox[i] = nil
	}
	m.outbox = m.outbox[:0]
}

func (m *Machine) storeSnapshot() {
	m.snapshot.Store(&Snapshot{
		EventID:     m.event,
		EventName:   m.eventName,
		Heat:        m.heat,
		Lanes:       m.lanes,
		Running:     m.running,
		Offset:      m.offset,
		StartedAt:   m.startedAt,
		ActiveLanes: m.active.list(),
	})
	m.dirty = false
}
