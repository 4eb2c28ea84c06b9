package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bustrack/internal/domain"
	"bustrack/internal/repository"
	"bustrack/internal/timeutil"
)

// recentWindow is how long after its last report a bus still counts as
// actively tracked.
const recentWindow = 15 * time.Minute

// TrackingService answers the commuter-facing read-side queries: live
// positions, per-bus and per-trip tracking, and ETA projections. It
// never writes; estimates are recomputed on every read from the latest
// location event.
type TrackingService struct {
	tripRepo     repository.TripRepository
	routeRepo    repository.RouteRepository
	locationRepo repository.LocationRepository
	clock        timeutil.Clock
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(
	tripRepo repository.TripRepository,
	routeRepo repository.RouteRepository,
	locationRepo repository.LocationRepository,
	clock timeutil.Clock,
) *TrackingService {
	return &TrackingService{
		tripRepo:     tripRepo,
		routeRepo:    routeRepo,
		locationRepo: locationRepo,
		clock:        clock,
	}
}

// BusTrackingInfo is the commuter view of one tracked bus.
type BusTrackingInfo struct {
	RouteNumber           string
	BusRegistrationNumber string
	RunningNumber         string
	LastStopLocation      string
	LastSeenTime          string
	TimeAgo               string
	NextStopLocation      string
	EstimatedArrival      string
	DelayStatus           string
	BusStatus             string // "Active" or "Last seen"
}

// TrackBus finds the in-progress trip for a bus and projects its
// position from the latest stop report.
func (s *TrackingService) TrackBus(ctx context.Context, busRegistrationNumber string) (*BusTrackingInfo, error) {
	registration := strings.ToUpper(strings.TrimSpace(busRegistrationNumber))
	if registration == "" {
		return nil, ErrInvalidRegistrationNumber
	}

	trips, err := s.tripRepo.GetAll(ctx, repository.TripFilter{
		BusRegistrationNumber: registration,
		Status:                domain.TripStatusInProgress,
	})
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, ErrNoActiveTrip
	}
	trip := trips[0]

	event, err := s.locationRepo.GetLatestByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNoLocationData
	}

	return s.buildInfo(trip, event), nil
}

// ActiveBus is one bus currently reporting on a route.
type ActiveBus struct {
	BusRegistrationNumber string
	RunningNumber         string
	ServiceType           string
	CurrentStop           string
	LastUpdated           string
	NextStop              string
	EstimatedArrival      string
	Status                string
	Notes                 string
}

// BusesOnRouteResult lists the live buses on one route.
type BusesOnRouteResult struct {
	RouteNumber string
	RouteName   string
	Origin      string
	Destination string
	ActiveBuses []ActiveBus
}

// BusesOnRoute returns every in-progress trip on the route that has
// reported a stop within the recency window.
func (s *TrackingService) BusesOnRoute(ctx context.Context, routeNumber string) (*BusesOnRouteResult, error) {
	number := strings.ToUpper(strings.TrimSpace(routeNumber))
	if number == "" {
		return nil, ErrInvalidRouteNumber
	}

	route, err := s.routeRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	trips, err := s.tripRepo.GetActiveByRoute(ctx, number)
	if err != nil {
		return nil, err
	}

	result := &BusesOnRouteResult{
		RouteNumber: route.RouteNumber,
		RouteName:   route.Name,
		Origin:      route.Origin,
		Destination: route.Destination,
	}

	for _, trip := range trips {
		event, err := s.locationRepo.GetLatestByTrip(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		if event == nil || !s.isRecent(event.CreatedAt) {
			continue
		}

		currentStop := s.stopAt(trip, event.StopIndex)
		nextStop := s.nextStop(trip, event.StopIndex)

		nextName := route.Destination
		if nextStop != nil {
			nextName = nextStop.LocationName
		}

		result.ActiveBuses = append(result.ActiveBuses, ActiveBus{
			BusRegistrationNumber: trip.BusRegistrationNumber,
			RunningNumber:         trip.RunningNumber,
			ServiceType:           string(trip.ServiceType),
			CurrentStop:           event.StopName,
			LastUpdated:           s.timeAgo(event.CreatedAt),
			NextStop:              nextName,
			EstimatedArrival:      EstimateArrival(currentStop, nextStop, event.DelayMinutes),
			Status:                string(event.Status),
			Notes:                 event.Notes,
		})
	}

	return result, nil
}

// TripTracking is the full playback view of one trip.
type TripTracking struct {
	Trip             *domain.Trip
	CurrentStop      *domain.LocationEvent
	CurrentTimeAgo   string
	NextStop         *domain.Stop
	EstimatedArrival string
	History          []*domain.LocationEvent
}

// TrackTrip returns the in-progress trip with the given running number
// together with its event history in chronological order.
func (s *TrackingService) TrackTrip(ctx context.Context, runningNumber string) (*TripTracking, error) {
	number := strings.ToUpper(strings.TrimSpace(runningNumber))
	if number == "" {
		return nil, ErrInvalidRunningNumber
	}

	trip, err := s.tripRepo.GetByRunningNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	history, err := s.locationRepo.GetByTrip(ctx, trip.ID, 50)
	if err != nil {
		return nil, err
	}

	tracking := &TripTracking{Trip: trip, History: history}
	if len(history) > 0 {
		latest := history[len(history)-1]
		tracking.CurrentStop = latest
		tracking.CurrentTimeAgo = s.timeAgo(latest.CreatedAt)
		tracking.NextStop = s.nextStop(trip, latest.StopIndex)
		tracking.EstimatedArrival = EstimateArrival(s.stopAt(trip, latest.StopIndex), tracking.NextStop, latest.DelayMinutes)
	}

	return tracking, nil
}

// LiveLocation is one trip's latest position for the live map.
type LiveLocation struct {
	Trip     *domain.Trip
	Event    *domain.LocationEvent
	TimeAgo  string
	NextStop string
}

// LiveLocations returns all in-progress trips with a recent report,
// optionally filtered to one route.
func (s *TrackingService) LiveLocations(ctx context.Context, routeNumber string) ([]LiveLocation, error) {
	filter := repository.TripFilter{Status: domain.TripStatusInProgress}
	if routeNumber != "" {
		filter.RouteNumber = strings.ToUpper(strings.TrimSpace(routeNumber))
	}

	trips, err := s.tripRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	var live []LiveLocation
	for _, trip := range trips {
		event, err := s.locationRepo.GetLatestByTrip(ctx, trip.ID)
		if err != nil {
			return nil, err
		}
		if event == nil || !s.isRecent(event.CreatedAt) {
			continue
		}

		next := ""
		if stop := s.nextStop(trip, event.StopIndex); stop != nil {
			next = stop.LocationName
		}

		live = append(live, LiveLocation{
			Trip:     trip,
			Event:    event,
			TimeAgo:  s.timeAgo(event.CreatedAt),
			NextStop: next,
		})
	}

	return live, nil
}

func (s *TrackingService) buildInfo(trip *domain.Trip, event *domain.LocationEvent) *BusTrackingInfo {
	currentStop := s.stopAt(trip, event.StopIndex)
	nextStop := s.nextStop(trip, event.StopIndex)

	nextName := FinalDestination
	if nextStop != nil {
		nextName = nextStop.LocationName
	}

	busStatus := "Last seen"
	if s.isRecent(event.CreatedAt) {
		busStatus = "Active"
	}

	return &BusTrackingInfo{
		RouteNumber:           trip.RouteNumber,
		BusRegistrationNumber: trip.BusRegistrationNumber,
		RunningNumber:         trip.RunningNumber,
		LastStopLocation:      event.StopName,
		LastSeenTime:          event.ActualArrival,
		TimeAgo:               s.timeAgo(event.CreatedAt),
		NextStopLocation:      nextName,
		EstimatedArrival:      EstimateArrival(currentStop, nextStop, event.DelayMinutes),
		DelayStatus:           string(event.Status),
		BusStatus:             busStatus,
	}
}

// nextStop reads the trip's own snapshot, not the live route, so ETA
// projections agree with what the processor validated against.
func (s *TrackingService) nextStop(trip *domain.Trip, index int) *domain.Stop {
	if index < 0 || index >= len(trip.Stops)-1 {
		return nil
	}
	return &trip.Stops[index+1]
}

func (s *TrackingService) stopAt(trip *domain.Trip, index int) *domain.Stop {
	if index < 0 || index >= len(trip.Stops) {
		return nil
	}
	return &trip.Stops[index]
}

func (s *TrackingService) isRecent(t time.Time) bool {
	return s.clock.Now().Sub(t) <= recentWindow
}

// timeAgo renders a timestamp's age in the rider-facing phrasing.
func (s *TrackingService) timeAgo(t time.Time) string {
	minutes := int(s.clock.Now().Sub(t).Minutes())

	switch {
	case minutes < 1:
		return "Just now"
	case minutes == 1:
		return "1 minute ago"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	}

	hours := minutes / 60
	switch {
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := hours / 24
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
