package race

import "time"

// Config holds the timing constants of the machine.
type Config struct {
	// Added to the displayed clock when syncing clients.
	LatencyCompensation time.Duration `env:"RACE_LATENCY_COMPENSATION" envDefault:"250ms"`
	// Minimum gap between two running TimerSync messages.
	SyncInterval time.Duration `env:"RACE_SYNC_INTERVAL" envDefault:"100ms"`
	// DQ codes are ignored for this long after the clock starts.
	DQStaleWindow time.Duration `env:"RACE_DQ_STALE_WINDOW" envDefault:"5s"`
	// Lane times are ignored while the displayed clock is below this value.
	TimeStaleWindow time.Duration `env:"RACE_TIME_STALE_WINDOW" envDefault:"1s"`
	// Active lanes are sampled at most this often.
	LaneCheckInterval time.Duration `env:"RACE_LANE_CHECK_INTERVAL" envDefault:"300ms"`

	IdleSleep      time.Duration `env:"RACE_IDLE_SLEEP" envDefault:"1ms"`
	ErrorBackoff   time.Duration `env:"RACE_ERROR_BACKOFF" envDefault:"100ms"`
	ReadBufferSize int           `env:"RACE_READ_BUFFER_SIZE" envDefault:"256"`
}

// DefaultConfig returns the timing used by the console at the pool.
func DefaultConfig() Config {
	return Config{
		LatencyCompensation: 250 * time.Millisecond,
		SyncInterval:        100 * time.Millisecond,
		DQStaleWindow:       5 * time.Second,
		TimeStaleWindow:     time.Second,
		LaneCheckInterval:   300 * time.Millisecond,
		IdleSleep:           time.Millisecond,
		ErrorBackoff:        100 * time.Millisecond,
		ReadBufferSize:      256,
	}
}
