package format

import "time"

// Clock supplies the current time. Injected so that the only time-dependent
// output (the queryTime fallback and processing duration) is deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
