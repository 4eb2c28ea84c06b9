package domain

import "testing"

func TestClassifyDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		delay int
		want  LocationEventStatus
	}{
		{0, EventStatusOnTime},
		{10, EventStatusOnTime},
		{11, EventStatusDelayed},
		{15, EventStatusDelayed},
		{-5, EventStatusOnTime},
		{-6, EventStatusEarly},
		{-10, EventStatusEarly},
	}

	for _, tc := range cases {
		if got := ClassifyDelay(tc.delay); got != tc.want {
			t.Errorf("ClassifyDelay(%d) = %s, want %s", tc.delay, got, tc.want)
		}
	}
}

func TestLocationEvent_Open(t *testing.T) {
	t.Parallel()

	event := &LocationEvent{ActualArrival: "06:40"}
	if !event.Open() {
		t.Error("event without departure must be open")
	}

	event.ActualDeparture = "06:45"
	if event.Open() {
		t.Error("event with departure must be closed")
	}
}
