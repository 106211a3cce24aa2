package display

const (
	// ControlThreshold separates data bytes (<= threshold) from control bytes.
	ControlThreshold = 0x7F
	// ClearThreshold is the control byte value above which the channel is blanked.
	ClearThreshold = 190
)

// StreamState is the decoder's addressing state.
type StreamState struct {
	Channel     int
	DataReadout bool
}

// Decoder feeds console bytes into a Buffer.
type Decoder struct {
	buf   *Buffer
	state StreamState
}

// NewDecoder returns a decoder writing into a fresh buffer.
func NewDecoder() *Decoder {
	return &Decoder{buf: NewBuffer()}
}

// Buffer returns the decoded display.
func (d *Decoder) Buffer() *Buffer {
	return d.buf
}

// State returns the current addressing state.
func (d *Decoder) State() StreamState {
	return d.state
}

// Write decodes every byte of p. It never fails.
func (d *Decoder) Write(p []byte) (int, error) {
	for _, b := range p {
		d.DecodeByte(b)
	}
	return len(p), nil
}

// DecodeByte applies one byte of the protocol.
func (d *Decoder) DecodeByte(b byte) {
	if b > ControlThreshold {
		d.control(b)
		return
	}
	d.data(b)
}

func (d *Decoder) control(b byte) {
	d.state.DataReadout = b&1 == 0
	d.state.Channel = int((b>>1)&0x1F) ^ 0x1F

	if d.state.Channel >= Channels {
		return
	}
	if b > ClearThreshold {
		d.buf.clear(d.state.Channel)
	}
}

func (d *Decoder) data(b byte) {
	if !d.state.DataReadout {
		return
	}
	off := int(b&0xF0) >> 4
	if off >= CellsPerChannel {
		return
	}
	ch := d.state.Channel
	if ch < 0 || ch >= Channels {
		return
	}
	d.buf.cells[ch][off] = Cell(ch, b&0x0F)
}

// Cell maps a data nibble to the stored byte for a channel.
// Channels above 0 show a zero nibble as blank; everything else is the
// complemented nibble offset from '0'.
func Cell(ch int, nibble byte) byte {
	nibble &= 0x0F
	if ch > 0 && nibble == 0 {
		return Blank
	}
	return (nibble ^ 0x0F) + '0'
}
