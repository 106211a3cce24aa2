package display

import "strings"

const (
	// Channels is the number of addressable display rows.
	Channels = 32
	// CellsPerChannel is the number of character cells in one channel.
	CellsPerChannel = 8

	// Blank is the value stored in an empty cell.
	Blank byte = 0x20
	// unset is what channel 0 shows for a zero nibble; rendered as blank.
	unset byte = '?'
)

// Fixed channel assignments of the console.
const (
	ClockChannel     = 0x00
	EventHeatChannel = 0x0C
	FirstLaneChannel = 0x01
	Lanes            = 8
)

// Buffer is the 32×8 character grid driven by the console.
// It is not safe for concurrent use; the console loop owns it.
type Buffer struct {
	cells [Channels][CellsPerChannel]byte
}

// NewBuffer returns a buffer with every cell blank.
func NewBuffer() *Buffer {
	b := &Buffer{}
	for ch := range b.cells {
		b.clear(ch)
	}
	return b
}

func (b *Buffer) clear(ch int) {
	for i := range b.cells[ch] {
		b.cells[ch][i] = Blank
	}
}

// Raw returns the stored byte for a cell, or Blank when out of range.
func (b *Buffer) Raw(ch, off int) byte {
	if ch < 0 || ch >= Channels || off < 0 || off >= CellsPerChannel {
		return Blank
	}
	return b.cells[ch][off]
}

// Row returns a copy of one channel's cells.
func (b *Buffer) Row(ch int) [CellsPerChannel]byte {
	if ch < 0 || ch >= Channels {
		var row [CellsPerChannel]byte
		for i := range row {
			row[i] = Blank
		}
		return row
	}
	return b.cells[ch]
}

// Char returns the printable character of a cell. Blank and unset cells render as a space.
func (b *Buffer) Char(ch, off int) byte {
	c := b.Raw(ch, off)
	if c == Blank || c == unset {
		return ' '
	}
	return c
}

func (b *Buffer) text(ch int, offs ...int) string {
	out := make([]byte, len(offs))
	for i, off := range offs {
		out[i] = b.Char(ch, off)
	}
	return string(out)
}

// EventHeat returns the event and heat numbers, trimmed.
func (b *Buffer) EventHeat() (event, heat string) {
	event = strings.TrimSpace(b.text(EventHeatChannel, 0, 1, 2))
	heat = strings.TrimSpace(b.text(EventHeatChannel, 5, 6, 7))
	return event, heat
}

// Clock returns the running clock as "MM:SS.HH" with blank cells as spaces, trimmed.
func (b *Buffer) Clock() string {
	c := ClockChannel
	s := b.text(c, 2, 3) + ":" + b.text(c, 4, 5) + "." + b.text(c, 6, 7)
	return strings.TrimSpace(s)
}

// LaneReadout is the content of one lane channel.
type LaneReadout struct {
	// Number is the lane-number cell, a space when blank.
	Number byte
	// Place is the trimmed place cell. A non-digit here is a DQ code.
	Place string
	// Time is "MM:SS.HH" with blank digits as '0', or empty when every digit is zero.
	Time string
}

// Lane reads the readout for lane 1..8. Out-of-range lanes yield an empty readout.
func (b *Buffer) Lane(lane int) LaneReadout {
	if lane < 1 || lane > Lanes {
		return LaneReadout{Number: ' '}
	}
	ch := FirstLaneChannel + lane - 1

	var digits [6]byte
	zero := true
	for i := range digits {
		c := b.Char(ch, i+2)
		if c == ' ' {
			c = '0'
		}
		if c != '0' {
			zero = false
		}
		digits[i] = c
	}

	r := LaneReadout{
		Number: b.Char(ch, 0),
		Place:  strings.TrimSpace(string(b.Char(ch, 1))),
	}
	if !zero {
		r.Time = string(digits[0:2]) + ":" + string(digits[2:4]) + "." + string(digits[4:6])
	}
	return r
}

// LaneOn reports whether the console shows the lane's own digit in its lane-number cell.
func (b *Buffer) LaneOn(lane int) bool {
	if lane < 1 || lane > Lanes {
		return false
	}
	return b.Lane(lane).Number == byte('0'+lane)
}
