package transfer

import "bytes"

// lineBuffer joins stream reads into newline-terminated lines of bounded size.
// A line that grows past max is discarded up to its terminating newline.
type lineBuffer struct {
	max        int
	buf        []byte
	discarding bool
}

// feed consumes p and calls fn for every complete, non-blank line. The slice
// passed to fn is only valid during the call. It returns the number of lines
// dropped for exceeding max.
func (b *lineBuffer) feed(p []byte, fn func(line []byte)) int {
	dropped := 0
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			if !b.discarding {
				b.buf = append(b.buf, p...)
				if len(b.buf) > b.max {
					b.buf = b.buf[:0]
					b.discarding = true
					dropped++
				}
			}
			return dropped
		}

		segment := p[:i]
		p = p[i+1:]
		if b.discarding {
			b.discarding = false
			continue
		}

		b.buf = append(b.buf, segment...)
		if len(b.buf) > b.max {
			dropped++
		} else if line := bytes.TrimSpace(b.buf); len(line) > 0 {
			fn(line)
		}
		b.buf = b.buf[:0]
	}
	return dropped
}
