package race

import "github.com/dmitrymomot/swimlive/core/display"

// laneSet is a bitmask of lanes 1..8.
type laneSet uint16

func (s laneSet) has(lane int) bool {
	return s&(1<<lane) != 0
}

func (s laneSet) with(lane int) laneSet {
	return s | 1<<lane
}

func (s laneSet) len() int {
	n := 0
	for lane := 1; lane <= display.Lanes; lane++ {
		if s.has(lane) {
			n++
		}
	}
	return n
}

// list returns the lanes in ascending order, never nil.
func (s laneSet) list() []int {
	out := make([]int, 0, s.len())
	for lane := 1; lane <= display.Lanes; lane++ {
		if s.has(lane) {
			out = append(out, lane)
		}
	}
	return out
}

// laneState is what the machine remembers about one lane within a heat.
type laneState struct {
	received int
	lastRaw  string
	dq       bool
}
