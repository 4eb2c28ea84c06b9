package timeutil

import "time"

// Clock provides the current time. Services take a Clock instead of
// calling time.Now directly so tests can pin the wall clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Time time.Time
}

// Now returns the pinned time.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// CurrentTimeString returns the clock's "now" as an "HH:MM" string.
func CurrentTimeString(c Clock) string {
	return TimeOfDay(c.Now())
}
