package serialport

import "time"

// Config describes one serial endpoint. It carries no prefix of its own; the
// application nests it under CONSOLE_ or TRANSFER_.
type Config struct {
	Port        string        `env:"PORT"`
	BaudRate    int           `env:"BAUD_RATE"`
	Parity      string        `env:"PARITY"`
	DataBits    int           `env:"DATA_BITS"`
	StopBits    int           `env:"STOP_BITS"`
	ReadTimeout time.Duration `env:"READ_TIMEOUT"`
}

// ConsoleDefaults returns the settings of the scoring console link.
func ConsoleDefaults() Config {
	return Config{
		BaudRate:    9600,
		Parity:      "even",
		DataBits:    8,
		StopBits:    1,
		ReadTimeout: 10 * time.Millisecond,
	}
}

// TransferDefaults returns the settings of the file transfer link.
func TransferDefaults() Config {
	return Config{
		BaudRate:    115200,
		Parity:      "none",
		DataBits:    8,
		StopBits:    1,
		ReadTimeout: 10 * time.Millisecond,
	}
}
