// Package display decodes the scoring console's multiplexed display protocol.
//
// The console streams two classes of bytes. Control bytes (above 0x7F) select one of
// 32 channels and toggle data readout; a control byte above the clear threshold also
// blanks the selected channel. Data bytes carry a cell offset in the high nibble and
// a complemented digit in the low nibble.
//
// The decoded state is a Buffer of 32 channels × 8 cells. Read-only helpers extract
// the fields the race state machine needs: event and heat numbers, the race clock and
// per-lane place/time readouts.
//
//	dec := display.NewDecoder()
//	_, _ = dec.Write(chunk)
//	event, heat := dec.Buffer().EventHeat()
//	clock := dec.Buffer().Clock()
package display
