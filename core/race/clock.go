package race

import (
	"strconv"
	"strings"
)

// stoppedBelow is the clock value treated as a reset display.
const stoppedBelow = 0.09

// ParseClock converts "MM:SS.H[H]" or "SS.H[H]" to seconds.
// Minutes may be blank; only the first two fraction digits count.
func ParseClock(text string) (float64, bool) {
	s := strings.TrimSpace(text)

	minutes := 0
	switch {
	case strings.Contains(s, ":") && strings.Contains(s, "."):
		parts := strings.Split(s, ":")
		if m := strings.TrimSpace(parts[0]); m != "" {
			n, err := strconv.Atoi(m)
			if err != nil {
				return 0, false
			}
			minutes = n
		}
		s = parts[1]
	case strings.Contains(s, "."):
	default:
		return 0, false
	}

	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return 0, false
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}

	frac := strings.TrimSpace(parts[1])
	var fraction float64
	switch {
	case frac == "":
		return 0, false
	case len(frac) == 1:
		n, err := strconv.Atoi(frac)
		if err != nil {
			return 0, false
		}
		fraction = float64(n) / 10
	default:
		n, err := strconv.Atoi(frac[:2])
		if err != nil {
			return 0, false
		}
		fraction = float64(n) / 100
	}

	return float64(minutes*60+seconds) + fraction, true
}

// ClockEmpty reports whether the clock text means the timer is not running:
// no non-zero digit, unparsable, or at most 0.09s.
func ClockEmpty(text string) bool {
	if nonZeroDigits(text) == 0 {
		return true
	}
	secs, ok := ParseClock(text)
	return !ok || secs <= stoppedBelow
}

func nonZeroDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '1' && c <= '9' {
			n++
		}
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatLaneTime validates a lane readout and normalises it to "MM:SS.HH".
// At least two non-zero digits are required so that a half-cleared readout
// is not reported.
func FormatLaneTime(raw string) (string, bool) {
	t := strings.ReplaceAll(raw, " ", "")
	if !strings.Contains(t, ":") || !strings.Contains(t, ".") {
		return "", false
	}
	if nonZeroDigits(t) < 2 {
		return "", false
	}

	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return "", false
	}
	sec := strings.Split(parts[1], ".")
	if len(sec) != 2 {
		return "", false
	}

	minutes := parts[0]
	if !isDigits(minutes) {
		minutes = "00"
	}
	seconds := sec[0]
	if seconds == "" {
		seconds = "00"
	}
	hundredths := sec[1]
	if hundredths == "" {
		hundredths = "00"
	}

	hundredths = (hundredths + "00")[:2]
	return zeroPad(minutes) + ":" + zeroPad(seconds) + "." + hundredths, true
}

func zeroPad(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}
