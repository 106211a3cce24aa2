package serialport

import "errors"

var (
	ErrNoPort        = errors.New("serialport: port name is required")
	ErrInvalidParity = errors.New("serialport: unknown parity")
	ErrInvalidStop   = errors.New("serialport: unsupported stop bits")
)
