package display

// SelectByte returns the control byte that addresses ch with data readout enabled
// and without clearing it.
func SelectByte(ch int) byte {
	return 0x80 | byte((ch^0x1F)&0x1F)<<1
}

// ClearByte returns a control byte that addresses ch, enables readout and blanks the channel.
func ClearByte(ch int) byte {
	return 0xC0 | byte((ch^0x1F)&0x1F)<<1
}

// DataByte returns the data byte that writes c at offset off.
// c must be a space or one of '0'..'>'; anything else is written as a space.
func DataByte(off int, c byte) byte {
	var nibble byte
	if c >= '0' && c <= '0'+14 {
		nibble = (c - '0') ^ 0x0F
	}
	return byte(off&0x07)<<4 | nibble
}

// EncodeRow returns the bytes that clear ch and write text into its cells from offset 0.
// Text longer than a channel is truncated. On channels above 0, decoding the result
// reproduces text made of spaces and '0'..'>'.
func EncodeRow(ch int, text string) []byte {
	if len(text) > CellsPerChannel {
		text = text[:CellsPerChannel]
	}
	out := make([]byte, 0, len(text)+1)
	out = append(out, ClearByte(ch))
	for i := 0; i < len(text); i++ {
		out = append(out, DataByte(i, text[i]))
	}
	return out
}
