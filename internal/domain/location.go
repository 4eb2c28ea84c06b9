package domain

import "time"

// LocationEventStatus tags the state of a bus at a reported stop.
type LocationEventStatus string

const (
	EventStatusOnTime   LocationEventStatus = "on-time"
	EventStatusDelayed  LocationEventStatus = "delayed"
	EventStatusEarly    LocationEventStatus = "early"
	EventStatusArrived  LocationEventStatus = "arrived"
	EventStatusDeparted LocationEventStatus = "departed"
)

// Delay classification thresholds in minutes.
const (
	DelayedThresholdMinutes = 10
	EarlyThresholdMinutes   = -5
)

// LocationEvent records one stop-arrival report for a trip. Events are
// append-only: the only permitted update is backfilling ActualDeparture
// (and flipping Status to departed) when the next report closes the
// dwell interval. At most one event per trip is open at a time.
type LocationEvent struct {
	ID               string
	TripID           string
	StopName         string
	StopIndex        int
	ScheduledArrival string // "HH:MM"
	ActualArrival    string // "HH:MM"
	ActualDeparture  string // "HH:MM", empty while the event is open
	DelayMinutes     int
	Status           LocationEventStatus
	Notes            string
	CreatedAt        time.Time
}

// Open reports whether the bus is still dwelling at this stop.
func (e *LocationEvent) Open() bool {
	return e.ActualDeparture == ""
}

// ClassifyDelay maps a signed schedule deviation to an event status:
// more than 10 minutes late is delayed, more than 5 minutes ahead of
// schedule is early, anything between is on-time.
func ClassifyDelay(delayMinutes int) LocationEventStatus {
	switch {
	case delayMinutes > DelayedThresholdMinutes:
		return EventStatusDelayed
	case delayMinutes < EarlyThresholdMinutes:
		return EventStatusEarly
	default:
		return EventStatusOnTime
	}
}
