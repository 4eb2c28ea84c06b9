package domain

import (
	"errors"
	"time"
)

// TripStatus represents the lifecycle state of a trip.
type TripStatus string

const (
	TripStatusScheduled  TripStatus = "scheduled"
	TripStatusInProgress TripStatus = "in-progress"
	TripStatusCompleted  TripStatus = "completed"
	TripStatusCancelled  TripStatus = "cancelled"
)

// ServiceType is the fare/comfort classification of a trip.
type ServiceType string

const (
	ServiceTypeNormal     ServiceType = "normal"
	ServiceTypeSemiLuxury ServiceType = "semi-luxury"
	ServiceTypeLuxury     ServiceType = "luxury"
)

// ErrInvalidTransition is returned when a lifecycle transition is
// attempted from a terminal or incompatible state.
var ErrInvalidTransition = errors.New("invalid trip status transition")

// Trip represents one dispatched run of a bus over a route. It carries
// its own copy of the route's stop list, taken at creation time, so
// later route edits never change an in-flight trip's expected stops.
type Trip struct {
	ID                    string
	RunningNumber         string
	BusRegistrationNumber string
	RouteNumber           string
	ScheduledDeparture    string // "HH:MM"
	ScheduledArrival      string // "HH:MM"
	ActualDeparture       string // "HH:MM", empty until started
	ActualArrival         string // "HH:MM", empty until completed
	Status                TripStatus
	ServiceType           ServiceType
	Stops                 []Stop // snapshot from the route at dispatch time
	CreatedAt             time.Time
}

// Terminal reports whether the status admits no further transitions.
func (s TripStatus) Terminal() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Start moves the trip from scheduled to in-progress, recording the
// actual departure time if it is not already set.
func (t *Trip) Start(atTime string) error {
	if t.Status != TripStatusScheduled {
		return ErrInvalidTransition
	}
	t.Status = TripStatusInProgress
	if t.ActualDeparture == "" {
		t.ActualDeparture = atTime
	}
	return nil
}

// Complete moves the trip from in-progress to completed, recording the
// actual arrival time.
func (t *Trip) Complete(atTime string) error {
	if t.Status != TripStatusInProgress {
		return ErrInvalidTransition
	}
	t.Status = TripStatusCompleted
	t.ActualArrival = atTime
	return nil
}

// Cancel moves a scheduled or in-progress trip to cancelled.
func (t *Trip) Cancel() error {
	if t.Status.Terminal() {
		return ErrInvalidTransition
	}
	t.Status = TripStatusCancelled
	return nil
}

// LastStopIndex returns the index of the final stop in the trip's
// snapshot, or -1 if the snapshot is empty.
func (t *Trip) LastStopIndex() int {
	return len(t.Stops) - 1
}
