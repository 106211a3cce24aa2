package roster

import (
	"encoding/json"
	"strconv"
)

// Lanes is the roster of one heat, index 0 being lane 1.
type Lanes [LanesPerHeat]LaneEntry

// Lane returns the entry for lane 1..8, or an empty entry when out of range.
func (l Lanes) Lane(n int) LaneEntry {
	if n < 1 || n > LanesPerHeat {
		return LaneEntry{}
	}
	return l[n-1]
}

// MarshalJSON encodes the lanes as an object keyed "1".."8".
func (l Lanes) MarshalJSON() ([]byte, error) {
	m := make(map[string]LaneEntry, LanesPerHeat)
	for i, e := range l {
		m[strconv.Itoa(i+1)] = e
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the object form produced by MarshalJSON.
func (l *Lanes) UnmarshalJSON(data []byte) error {
	var m map[string]LaneEntry
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*l = Lanes{}
	for k, e := range m {
		n, err := strconv.Atoi(k)
		if err != nil || n < 1 || n > LanesPerHeat {
			continue
		}
		l[n-1] = e
	}
	return nil
}
