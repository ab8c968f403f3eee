package format

import "time"

// fixedClock pins Now() so processing time and queryTime fallbacks are
// deterministic.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func testClock() fixedClock {
	return fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}
