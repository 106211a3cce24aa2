package race

import (
	"strings"
	"time"

	"github.com/dmitrymomot/swimlive/core/message"
	"github.com/dmitrymomot/swimlive/core/roster"
)

// Snapshot is an immutable copy of the race state for late-joining clients.
type Snapshot struct {
	EventID     string
	EventName   string
	Heat        string
	Lanes       roster.Lanes
	Running     bool
	Offset      float64
	StartedAt   time.Time
	ActiveLanes []int
}

// Message builds the welcome message, extrapolating a running clock to now.
func (s *Snapshot) Message(now time.Time) message.Snapshot {
	name := s.EventName
	if name == "" {
		name = "N/A"
	}

	timer := message.Timer{Running: s.Running, At: now}
	if s.Running {
		timer.Time = s.Offset + now.Sub(s.StartedAt).Seconds()
	}

	return message.Snapshot{
		EventName:   strings.ToUpper(name),
		EventID:     s.EventID,
		HeatName:    message.HeatName(s.Heat),
		Lanes:       s.Lanes,
		Timer:       timer,
		ActiveLanes: append([]int(nil), s.ActiveLanes...),
	}
}
