package race_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/swimlive/core/display"
	"github.com/dmitrymomot/swimlive/core/message"
	"github.com/dmitrymomot/swimlive/core/race"
	"github.com/dmitrymomot/swimlive/core/roster"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu   sync.Mutex
	msgs []message.Message
	err  error
	// onPublish, when set, runs before the message is recorded.
	onPublish func(message.Message)
}

func (r *recorder) Publish(m message.Message) error {
	if r.onPublish != nil {
		r.onPublish(m)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *recorder) all() []message.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]message.Message(nil), r.msgs...)
}

func (r *recorder) kinds() []message.Kind {
	var out []message.Kind
	for _, m := range r.all() {
		out = append(out, m.Kind())
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.msgs = nil
	r.mu.Unlock()
}

func ofType[T message.Message](r *recorder) []T {
	var out []T
	for _, m := range r.all() {
		if v, ok := m.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

type fakeEvent struct {
	name  string
	heats map[string]roster.Lanes
}

type fakeRoster map[string]fakeEvent

func (f fakeRoster) EventName(id string) string {
	if e, ok := f[id]; ok {
		return e.name
	}
	return id
}

func (f fakeRoster) Lanes(id, heat string) roster.Lanes {
	return f[id].heats[heat]
}

func lanesOf(names ...string) roster.Lanes {
	var l roster.Lanes
	for i, n := range names {
		if n != "" {
			l[i] = roster.LaneEntry{Name: n, Club: "CLB"}
		}
	}
	return l
}

func testRoster() fakeRoster {
	return fakeRoster{
		"7": {
			name: "FEMALE 100M BACKSTROKE",
			heats: map[string]roster.Lanes{
				"1": lanesOf("John SMITH", "Amy JONES"),
				"2": lanesOf("Sam BROWN"),
			},
		},
		"3": {
			name: "OPEN/MALE 50M FREESTYLE",
			heats: map[string]roster.Lanes{
				"1": lanesOf("Ann LEE", "Bo KIM"),
			},
		},
	}
}

type fixture struct {
	dec   *display.Decoder
	clock *fakeClock
	pub   *recorder
	m     *race.Machine
}

func newFixture(t *testing.T, opts ...race.Option) *fixture {
	t.Helper()
	f := &fixture{
		dec:   display.NewDecoder(),
		clock: newFakeClock(),
		pub:   &recorder{},
	}
	opts = append([]race.Option{race.WithClock(f.clock.Now)}, opts...)
	f.m = race.NewMachine(f.dec, testRoster(), f.pub, opts...)
	return f
}

func (f *fixture) write(t *testing.T, b []byte) {
	t.Helper()
	_, err := f.dec.Write(b)
	require.NoError(t, err)
}

func (f *fixture) eventHeat(t *testing.T, event, heat string) {
	t.Helper()
	f.write(t, display.EncodeRow(display.EventHeatChannel, fmt.Sprintf("%-3s  %-3s", event, heat)))
}

// setClock shows MMSSHH digits on the race clock, or blanks it for "".
func (f *fixture) setClock(t *testing.T, mmsshh string) {
	t.Helper()
	if mmsshh == "" {
		f.write(t, display.EncodeRow(display.ClockChannel, ""))
		return
	}
	f.write(t, display.EncodeRow(display.ClockChannel, "  "+mmsshh))
}

// setLane fills a lane channel: lane digit when on, one place cell, MMSSHH time.
func (f *fixture) setLane(t *testing.T, lane int, on bool, place byte, mmsshh string) {
	t.Helper()
	row := []byte("        ")
	if on {
		row[0] = byte('0' + lane)
	}
	row[1] = place
	copy(row[2:], mmsshh)
	f.write(t, display.EncodeRow(display.FirstLaneChannel+lane-1, strings.TrimRight(string(row), " ")))
}

func (f *fixture) tick(d time.Duration) {
	f.clock.Advance(d)
	f.m.Tick()
}
