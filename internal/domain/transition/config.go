package transition

import "time"

// Config holds the overridable constants of spec §6 this package
// consults directly (the rest of config.BookingConfig lives in
// config.Config and is translated into this shape at wiring time).
type Config struct {
	FreeCancellationWindow time.Duration
	BookingLockTimeout     time.Duration
	CurrencyRoundingScale  int32
}

// DefaultConfig matches spec §6's literal defaults.
func DefaultConfig() Config {
	return Config{
		FreeCancellationWindow: 24 * time.Hour,
		BookingLockTimeout:     2 * time.Second,
		CurrencyRoundingScale:  2,
	}
}
