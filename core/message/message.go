package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrymomot/swimlive/core/roster"
)

// Kind names a message variant. It is used for logging only and never sent.
type Kind string

const (
	KindEventHeat   Kind = "event_heat"
	KindTimerSync   Kind = "timer_sync"
	KindFinishTime  Kind = "finish_time"
	KindDQ          Kind = "disqualification"
	KindActiveLanes Kind = "active_lanes"
	KindSaved       Kind = "saved"
	KindSnapshot    Kind = "snapshot"
)

// Message is any payload the hub can broadcast.
type Message interface {
	Kind() Kind
}

// Encode marshals m into its wire form.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", m.Kind(), err)
	}
	return data, nil
}

// Timestamp renders t as fractional Unix seconds.
func Timestamp(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

// HeatName formats a console heat code for display.
func HeatName(heat string) string {
	if heat == "" {
		return "N/A"
	}
	return "HEAT " + heat
}

// EventHeatUpdate announces a new event or a new heat within the same event.
// When HeatOnly is set only the heat name and lanes are sent.
type EventHeatUpdate struct {
	EventName string
	EventID   string
	HeatName  string
	Lanes     roster.Lanes
	HeatOnly  bool
}

func (EventHeatUpdate) Kind() Kind { return KindEventHeat }

func (m EventHeatUpdate) MarshalJSON() ([]byte, error) {
	if m.HeatOnly {
		return json.Marshal(struct {
			HeatName string       `json:"heatName"`
			Lanes    roster.Lanes `json:"lanes"`
		}{m.HeatName, m.Lanes})
	}
	return json.Marshal(struct {
		EventName   string       `json:"eventName"`
		EventID     string       `json:"eventID"`
		HeatName    string       `json:"heatName"`
		Lanes       roster.Lanes `json:"lanes"`
		EventHidden bool         `json:"eventHidden"`
	}{m.EventName, m.EventID, m.HeatName, m.Lanes, false})
}

// Timer is the clock state clients extrapolate from.
type Timer struct {
	Running bool
	Time    float64
	At      time.Time
}

func (t Timer) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Running   bool    `json:"running"`
		Time      float64 `json:"time"`
		Timestamp float64 `json:"timestamp"`
	}{t.Running, t.Time, Timestamp(t.At)})
}

// TimerSync reports the running clock or its stop.
type TimerSync struct {
	Timer
}

func (TimerSync) Kind() Kind { return KindTimerSync }

func (m TimerSync) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		TimerSync Timer `json:"timerSync"`
	}{m.Timer})
}

// Result types of a lane time.
const (
	TypeSplit  = "SPLIT"
	TypeFinish = "FINISH"
)

// FinishTime is an accepted split or finish time for one lane.
type FinishTime struct {
	Lane       int    `json:"lane"`
	Time       string `json:"time"`
	Place      string `json:"place"`
	Swimmer    string `json:"swimmer"`
	Type       string `json:"type"`
	TimeNumber int    `json:"timeNumber"`
	Label      string `json:"label"`
}

func (FinishTime) Kind() Kind { return KindFinishTime }

func (m FinishTime) MarshalJSON() ([]byte, error) {
	type body FinishTime
	return json.Marshal(struct {
		FinishTime body `json:"finishTime"`
	}{body(m)})
}

// Disqualification flags a lane once per heat.
type Disqualification struct {
	Lane int
}

func (Disqualification) Kind() Kind { return KindDQ }

func (m Disqualification) MarshalJSON() ([]byte, error) {
	type body struct {
		Lane int    `json:"lane"`
		Tag  string `json:"tag"`
	}
	return json.Marshal(struct {
		Disqualification body `json:"disqualification"`
	}{body{Lane: m.Lane, Tag: string(KindDQ)}})
}

// ActiveLanesUpdate lists the lanes switched on with a swimmer assigned.
type ActiveLanesUpdate struct {
	ActiveLanes []int
}

func (ActiveLanesUpdate) Kind() Kind { return KindActiveLanes }

func (m ActiveLanesUpdate) MarshalJSON() ([]byte, error) {
	return json.Marshal(activeLanes(m.ActiveLanes))
}

type activeLanesBody struct {
	ActiveLanes []int `json:"activeLanes"`
	TotalActive int   `json:"totalActive"`
}

func activeLanes(lanes []int) activeLanesBody {
	if lanes == nil {
		lanes = []int{}
	}
	return activeLanesBody{ActiveLanes: lanes, TotalActive: len(lanes)}
}

// Saved signals that every active lane reported all its times.
type Saved struct{}

func (Saved) Kind() Kind { return KindSaved }

func (Saved) MarshalJSON() ([]byte, error) {
	return []byte(`{"status":"SAVED"}`), nil
}

// Snapshot is the full state sent to a client when it connects.
type Snapshot struct {
	EventName   string
	EventID     string
	HeatName    string
	Lanes       roster.Lanes
	Timer       Timer
	ActiveLanes []int
}

func (Snapshot) Kind() Kind { return KindSnapshot }

func (m Snapshot) MarshalJSON() ([]byte, error) {
	active := activeLanes(m.ActiveLanes)
	return json.Marshal(struct {
		EventName   string       `json:"eventName"`
		EventID     string       `json:"eventID"`
		HeatName    string       `json:"heatName"`
		Lanes       roster.Lanes `json:"lanes"`
		TimerSync   Timer        `json:"timerSync"`
		ActiveLanes []int        `json:"activeLanes"`
		TotalActive int          `json:"totalActive"`
		EventHidden bool         `json:"eventHidden"`
	}{
		EventName:   m.EventName,
		EventID:     m.EventID,
		HeatName:    m.HeatName,
		Lanes:       m.Lanes,
		TimerSync:   m.Timer,
		ActiveLanes: active.ActiveLanes,
		TotalActive: active.TotalActive,
	})
}
