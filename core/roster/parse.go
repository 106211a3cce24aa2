package roster

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LanesPerHeat is the number of lanes in every heat block.
const LanesPerHeat = 8

// EmptyLane is the sentinel line for an unassigned lane.
const EmptyLane = "--"

// LaneEntry is one swimmer assignment.
type LaneEntry struct {
	Name string `json:"name"`
	Club string `json:"club"`
}

// IsEmpty reports whether no swimmer is assigned.
func (e LaneEntry) IsEmpty() bool {
	return strings.TrimSpace(e.Name) == ""
}

// Heat holds the raw lane lines in lane order; empty strings are empty lanes.
type Heat [LanesPerHeat]string

func (h Heat) empty() bool {
	for _, l := range h {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// Lanes formats every lane of the heat.
func (h Heat) Lanes() Lanes {
	var out Lanes
	for i, l := range h {
		out[i] = ParseLane(l)
	}
	return out
}

var upper = cases.Upper(language.Und)

var strokes = []struct {
	prefix string
	name   string
}{
	{"back", "Backstroke"},
	{"br", "Breaststroke"},
	{"breast", "Breaststroke"},
	{"fly", "Butterfly"},
	{"butter", "Butterfly"},
	{"bu", "Butterfly"},
	{"free", "Freestyle"},
	{"fr", "Freestyle"},
	{"im", "Individual Medley"},
}

// ParseTitle turns the first line of an event file into a display name such as
// "FEMALE 100M BACKSTROKE". When no section, distance or stroke is recognised the
// cleaned line is returned uppercased.
func ParseTitle(line string) string {
	raw := strings.TrimLeft(strings.TrimSpace(line), "#")
	raw = strings.ReplaceAll(raw, " /", "/")
	raw = strings.ReplaceAll(raw, "/", " / ")
	words := strings.Fields(raw)

	var section, distance, stroke string
	for _, w := range words {
		lw := strings.ToLower(w)
		if strings.Contains(lw, "open") {
			section = "Open/Male"
			break
		}
		if strings.Contains(lw, "female") {
			section = "Female"
			break
		}
	}
	for _, w := range words {
		if _, ok := distanceToken(w); ok {
			distance = w
			break
		}
	}
words:
	for _, w := range words {
		lw := strings.ToLower(w)
		for _, s := range strokes {
			if strings.HasPrefix(lw, s.prefix) {
				stroke = s.name
				break words
			}
		}
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{section, distance, stroke} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return upper.String(raw)
	}
	return upper.String(strings.Join(parts, " "))
}

func distanceToken(w string) (int, bool) {
	if len(w) < 2 {
		return 0, false
	}
	last := w[len(w)-1]
	if last != 'm' && last != 'M' {
		return 0, false
	}
	digits := w[:len(w)-1]
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Distance returns the first "<digits>M" token of an event name in metres.
func Distance(name string) (int, bool) {
	for _, w := range strings.Fields(name) {
		if n, ok := distanceToken(w); ok {
			return n, true
		}
	}
	return 0, false
}

// ExpectedSplits is the number of times a lane reports during a race of the named
// event: one per 50m, floor division, never less than one.
func ExpectedSplits(name string) int {
	d, ok := Distance(name)
	if !ok {
		return 1
	}
	return max(d/50, 1)
}

// ParseHeats splits file lines (title included at index 0) into heats.
// Heat N occupies lines[10N-9 : 10N-1]. Enumeration stops at the first heat with
// no swimmers or when the lines run out.
func ParseHeats(lines []string) []Heat {
	if len(lines) < 10 {
		return nil
	}

	var heats []Heat
	for n := 1; ; n++ {
		start := 10*n - 9
		if start >= len(lines) {
			break
		}
		end := min(start+LanesPerHeat, len(lines))

		var h Heat
		for i := start; i < end; i++ {
			l := strings.TrimSpace(lines[i])
			if l == EmptyLane {
				l = ""
			}
			h[i-start] = l
		}
		if h.empty() {
			break
		}
		heats = append(heats, h)
	}
	return heats
}

// ParseLane formats "SURNAME,Forename   --CLUB" as {Name: "Forename SURNAME", Club: "CLUB"}.
// Lines without exactly one "--" separator yield an empty entry.
func ParseLane(line string) LaneEntry {
	if line == "" || line == EmptyLane {
		return LaneEntry{}
	}
	parts := strings.Split(line, EmptyLane)
	if len(parts) != 2 {
		return LaneEntry{}
	}
	namePart := strings.TrimSpace(parts[0])
	club := strings.TrimSpace(parts[1])

	if surname, forename, ok := strings.Cut(namePart, ","); ok {
		return LaneEntry{
			Name: strings.TrimSpace(forename) + " " + strings.TrimSpace(surname),
			Club: club,
		}
	}
	return LaneEntry{Name: namePart, Club: club}
}
