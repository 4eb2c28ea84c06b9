package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRunningNumber is returned when a running number is empty or malformed.
	ErrInvalidRunningNumber = errors.New("invalid running number")

	// ErrInvalidRegistrationNumber is returned when a bus registration number is empty.
	ErrInvalidRegistrationNumber = errors.New("invalid bus registration number")

	// ErrInvalidRouteNumber is returned when a route number is empty or malformed.
	ErrInvalidRouteNumber = errors.New("invalid route number")

	// ErrInvalidTripID is returned when a trip ID is empty.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidStopName is returned when a stop report carries no stop name.
	ErrInvalidStopName = errors.New("stop name is required")

	// ErrBusNotActive is returned when a trip is dispatched on an inactive bus.
	ErrBusNotActive = errors.New("bus is not active")

	// ErrRouteNotActive is returned when a trip is dispatched on a deactivated route.
	ErrRouteNotActive = errors.New("route is not active")

	// ErrScheduleOrder is returned when scheduled arrival is not after scheduled departure.
	ErrScheduleOrder = errors.New("scheduled arrival must be after scheduled departure")

	// ErrBusScheduleConflict is returned when a bus is already dispatched
	// on an overlapping time window.
	ErrBusScheduleConflict = errors.New("bus is already scheduled for an overlapping trip")

	// ErrDuplicateRunningNumber is returned when a trip with the running number exists.
	ErrDuplicateRunningNumber = errors.New("trip with this running number already exists")

	// ErrTooFewStops is returned when a route has fewer than two stops.
	ErrTooFewStops = errors.New("route must have at least 2 stops")

	// ErrMissingStopTime is returned when a route stop has no scheduled
	// arrival time.
	ErrMissingStopTime = errors.New("each stop must have a scheduled arrival time")

	// ErrSameOriginDestination is returned when origin and destination match.
	ErrSameOriginDestination = errors.New("origin and destination must be different")

	// ErrTripBusy is returned when another stop report for the same trip
	// is still being processed.
	ErrTripBusy = errors.New("another report for this trip is being processed")

	// ErrNoLocationData is returned when a trip has no location events yet.
	ErrNoLocationData = errors.New("no location data found")

	// ErrNoActiveTrip is returned when no in-progress trip matches the query.
	ErrNoActiveTrip = errors.New("no active trip found")

	// ErrSearchCriteria is returned when a commuter search has neither
	// origin nor destination.
	ErrSearchCriteria = errors.New("origin or destination is required")
)

// StopNotOnRouteError is returned when a reported stop name matches no
// stop in the trip's stop sequence. It carries the valid stop names so
// the operator client can correct and resubmit.
type StopNotOnRouteError struct {
	StopName    string
	RouteNumber string
	ValidStops  []string
}

func (e *StopNotOnRouteError) Error() string {
	return fmt.Sprintf("stop %q is not on route %s", e.StopName, e.RouteNumber)
}
