package serialport

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
)

// Mode converts the configuration to a serial mode.
func (c Config) Mode() (*serial.Mode, error) {
	parity, err := parseParity(c.Parity)
	if err != nil {
		return nil, err
	}

	var stop serial.StopBits
	switch c.StopBits {
	case 0, 1:
		stop = serial.OneStopBit
	case 2:
		stop = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidStop, c.StopBits)
	}

	dataBits := c.DataBits
	if dataBits == 0 {
		dataBits = 8
	}

	return &serial.Mode{
		BaudRate: c.BaudRate,
		Parity:   parity,
		DataBits: dataBits,
		StopBits: stop,
	}, nil
}

func parseParity(name string) (serial.Parity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "n":
		return serial.NoParity, nil
	case "even", "e":
		return serial.EvenParity, nil
	case "odd", "o":
		return serial.OddParity, nil
	case "mark", "m":
		return serial.MarkParity, nil
	case "space", "s":
		return serial.SpaceParity, nil
	default:
		return serial.NoParity, fmt.Errorf("%w: %q", ErrInvalidParity, name)
	}
}

// Open opens the configured port and applies the read timeout.
func Open(c Config) (serial.Port, error) {
	if c.Port == "" {
		return nil, ErrNoPort
	}
	mode, err := c.Mode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(c.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.Port, err)
	}
	if c.ReadTimeout > 0 {
		if err := port.SetReadTimeout(c.ReadTimeout); err != nil {
			_ = port.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", c.Port, err)
		}
	}
	return port, nil
}

// List returns the serial ports present on the machine.
func List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	return ports, nil
}
