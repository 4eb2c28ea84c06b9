package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

// ErrFormat is returned when a time string is not in HH:MM format.
var ErrFormat = fmt.Errorf("time must be in HH:MM format")

const minutesPerDay = 24 * 60

var timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidTime reports whether s is a valid "HH:MM" wall-clock string.
func IsValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// TimeToMinutes converts an "HH:MM" string to minutes since midnight.
func TimeToMinutes(s string) (int, error) {
	if !timePattern.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}

	var hours, minutes int
	if _, err := fmt.Sscanf(s, "%d:%d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}

	return hours*60 + minutes, nil
}

// MinutesToTime converts minutes since midnight to an "HH:MM" string.
// Values outside [0, 1440) wrap around, so overnight arithmetic rolls
// over to the next day.
func MinutesToTime(n int) string {
	n %= minutesPerDay
	if n < 0 {
		n += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", n/60, n%60)
}

// AddMinutes adds delta minutes (possibly negative) to an "HH:MM" string.
func AddMinutes(s string, delta int) (string, error) {
	minutes, err := TimeToMinutes(s)
	if err != nil {
		return "", err
	}
	return MinutesToTime(minutes + delta), nil
}

// TimeOfDay formats t as an "HH:MM" string, truncated to the minute.
func TimeOfDay(t time.Time) string {
	return t.Format("15:04")
}
