package clock

import "time"

// Clock abstracts time retrieval so event timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the current wall-clock time in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct{ t time.Time }

// NewFixed returns a clock frozen at t, normalized to UTC.
func NewFixed(t time.Time) FixedClock { return FixedClock{t: t.UTC()} }

func (f FixedClock) Now() time.Time { return f.t }
