package service

import (
	"testing"

	"bustrack/internal/domain"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		minutes int
		want    string
	}{
		{0, "Arriving soon"},
		{3, "Arriving soon"},
		{4, "Arriving soon"},
		{5, "5 minutes"},
		{45, "45 minutes"},
		{59, "59 minutes"},
		{60, "1 hour"},
		{65, "1h 5m"},
		{120, "2 hours"},
		{135, "2h 15m"},
		{-3, "Arriving soon"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.minutes); got != tc.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestEstimateArrival(t *testing.T) {
	t.Parallel()

	current := &domain.Stop{LocationName: "Nittambuwa", TravelTimeToNext: 40}
	next := &domain.Stop{LocationName: "Warakapola"}

	// Travel time plus accumulated delay.
	if got := EstimateArrival(current, next, 25); got != "1h 5m" {
		t.Errorf("EstimateArrival with delay = %q, want %q", got, "1h 5m")
	}

	// Running early shortens the projection.
	if got := EstimateArrival(current, next, -37); got != "Arriving soon" {
		t.Errorf("EstimateArrival running early = %q, want %q", got, "Arriving soon")
	}

	// No travel time on the stop falls back to the default.
	bare := &domain.Stop{LocationName: "Nittambuwa"}
	if got := EstimateArrival(bare, next, 0); got != "20 minutes" {
		t.Errorf("EstimateArrival default travel = %q, want %q", got, "20 minutes")
	}

	// Unknown current stop still uses the default.
	if got := EstimateArrival(nil, next, 0); got != "20 minutes" {
		t.Errorf("EstimateArrival nil current = %q, want %q", got, "20 minutes")
	}

	// At the last stop there is nothing left to project.
	if got := EstimateArrival(current, nil, 0); got != FinalDestination {
		t.Errorf("EstimateArrival at last stop = %q, want %q", got, FinalDestination)
	}
}
