package timeutil

import (
	"testing"
	"time"
)

func TestTimeToMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"06:30", 390},
		{"9:05", 545},
		{"12:00", 720},
		{"23:59", 1439},
	}

	for _, tc := range cases {
		got, err := TimeToMinutes(tc.in)
		if err != nil {
			t.Errorf("TimeToMinutes(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("TimeToMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTimeToMinutes_InvalidFormat(t *testing.T) {
	t.Parallel()

	invalid := []string{"", "24:00", "12:60", "noon", "12", "12:3", "1230", "-1:00"}

	for _, in := range invalid {
		if _, err := TimeToMinutes(in); err == nil {
			t.Errorf("TimeToMinutes(%q): expected error, got nil", in)
		}
	}
}

func TestMinutesToTime_Wraparound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int
		want string
	}{
		{0, "00:00"},
		{390, "06:30"},
		{1439, "23:59"},
		{1440, "00:00"},
		{1450, "00:10"},
		{-10, "23:50"},
	}

	for _, tc := range cases {
		if got := MinutesToTime(tc.in); got != tc.want {
			t.Errorf("MinutesToTime(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRoundTrip_AllMinutesOfDay(t *testing.T) {
	t.Parallel()

	for n := 0; n < 1440; n++ {
		s := MinutesToTime(n)
		got, err := TimeToMinutes(s)
		if err != nil {
			t.Fatalf("TimeToMinutes(%q): unexpected error: %v", s, err)
		}
		if got != n {
			t.Fatalf("round trip of %d via %q = %d", n, s, got)
		}
	}
}

func TestAddMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		delta int
		want  string
	}{
		{"06:30", 40, "07:10"},
		{"23:50", 20, "00:10"},
		{"00:10", -20, "23:50"},
		{"12:00", 0, "12:00"},
	}

	for _, tc := range cases {
		got, err := AddMinutes(tc.in, tc.delta)
		if err != nil {
			t.Errorf("AddMinutes(%q, %d): unexpected error: %v", tc.in, tc.delta, err)
			continue
		}
		if got != tc.want {
			t.Errorf("AddMinutes(%q, %d) = %q, want %q", tc.in, tc.delta, got, tc.want)
		}
	}

	if _, err := AddMinutes("25:00", 10); err == nil {
		t.Error("AddMinutes with invalid time: expected error, got nil")
	}
}

func TestIsValidTime(t *testing.T) {
	t.Parallel()

	if !IsValidTime("08:15") {
		t.Error("expected 08:15 to be valid")
	}
	if IsValidTime("8:75") {
		t.Error("expected 8:75 to be invalid")
	}
}

func TestCurrentTimeString(t *testing.T) {
	t.Parallel()

	clock := FixedClock{Time: time.Date(2025, 3, 14, 6, 40, 30, 0, time.UTC)}
	if got := CurrentTimeString(clock); got != "06:40" {
		t.Errorf("CurrentTimeString = %q, want %q", got, "06:40")
	}
}
