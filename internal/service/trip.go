package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"bustrack/internal/domain"
	"bustrack/internal/redis"
	"bustrack/internal/repository"
	"bustrack/internal/timeutil"
)

var runningNumberPattern = regexp.MustCompile(`^[A-Z]{2,10}[0-9]{1,3}$`)

// TripService handles trip dispatch and lifecycle operations.
type TripService struct {
	tripRepo            repository.TripRepository
	busRepo             repository.BusRepository
	routeRepo           repository.RouteRepository
	cacheStore          *redis.CacheStore
	liveStore           redis.LiveStoreInterface
	notificationService *NotificationService
	clock               timeutil.Clock
}

// NewTripService creates a new TripService.
func NewTripService(
	tripRepo repository.TripRepository,
	busRepo repository.BusRepository,
	routeRepo repository.RouteRepository,
	cacheStore *redis.CacheStore,
	liveStore redis.LiveStoreInterface,
	notificationService *NotificationService,
	clock timeutil.Clock,
) *TripService {
	return &TripService{
		tripRepo:            tripRepo,
		busRepo:             busRepo,
		routeRepo:           routeRepo,
		cacheStore:          cacheStore,
		liveStore:           liveStore,
		notificationService: notificationService,
		clock:               clock,
	}
}

// CreateTripRequest contains the parameters for dispatching a trip.
type CreateTripRequest struct {
	RunningNumber         string
	BusRegistrationNumber string
	RouteNumber           string
	ScheduledDeparture    string
	ScheduledArrival      string
	ServiceType           string
}

// CreateTrip dispatches a new trip. Bus and route existence are checked
// here as explicit pre-conditions before the aggregate is built, and the
// route's stop list is copied onto the trip so later route edits never
// change this trip's expected stops.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	runningNumber := strings.ToUpper(strings.TrimSpace(req.RunningNumber))
	if !runningNumberPattern.MatchString(runningNumber) {
		return nil, ErrInvalidRunningNumber
	}

	depMinutes, err := timeutil.TimeToMinutes(req.ScheduledDeparture)
	if err != nil {
		return nil, err
	}
	arrMinutes, err := timeutil.TimeToMinutes(req.ScheduledArrival)
	if err != nil {
		return nil, err
	}
	if arrMinutes <= depMinutes {
		return nil, ErrScheduleOrder
	}

	existing, err := s.tripRepo.GetByRunningNumber(ctx, runningNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRunningNumber
	}

	registration := strings.ToUpper(strings.TrimSpace(req.BusRegistrationNumber))
	bus, err := s.busRepo.GetByRegistration(ctx, registration)
	if err != nil {
		return nil, err
	}
	if bus.Status != domain.BusStatusActive {
		return nil, ErrBusNotActive
	}

	routeNumber := strings.ToUpper(strings.TrimSpace(req.RouteNumber))
	route, err := s.routeRepo.GetByNumber(ctx, routeNumber)
	if err != nil {
		return nil, err
	}
	if !route.Active {
		return nil, ErrRouteNotActive
	}

	if err := s.checkBusConflict(ctx, registration, depMinutes, arrMinutes); err != nil {
		return nil, err
	}

	serviceType := domain.ServiceType(req.ServiceType)
	if serviceType == "" {
		serviceType = domain.ServiceTypeNormal
	}

	// Snapshot of the route's stops; the trip validates stop reports
	// against this copy, never against the live route.
	stops := make([]domain.Stop, len(route.Stops))
	copy(stops, route.Stops)

	trip := &domain.Trip{
		ID:                    uuid.New().String(),
		RunningNumber:         runningNumber,
		BusRegistrationNumber: registration,
		RouteNumber:           routeNumber,
		ScheduledDeparture:    req.ScheduledDeparture,
		ScheduledArrival:      req.ScheduledArrival,
		Status:                domain.TripStatusScheduled,
		ServiceType:           serviceType,
		Stops:                 stops,
		CreatedAt:             s.clock.Now(),
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// checkBusConflict rejects dispatch when the bus already has a
// scheduled or in-progress trip overlapping the requested window.
func (s *TripService) checkBusConflict(ctx context.Context, registration string, depMinutes, arrMinutes int) error {
	activeTrips, err := s.tripRepo.GetActiveByBus(ctx, registration)
	if err != nil {
		return err
	}

	for _, trip := range activeTrips {
		existingDep, err := timeutil.TimeToMinutes(trip.ScheduledDeparture)
		if err != nil {
			continue
		}
		existingArr, err := timeutil.TimeToMinutes(trip.ScheduledArrival)
		if err != nil {
			continue
		}
		if depMinutes < existingArr && arrMinutes > existingDep {
			return ErrBusScheduleConflict
		}
	}

	return nil
}

// GetTrip retrieves a trip by storage ID, preferring cache.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetTrip(ctx, tripID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetTrip(ctx, trip)
	}

	return trip, nil
}

// GetTripByRunningNumber retrieves a trip by running number.
func (s *TripService) GetTripByRunningNumber(ctx context.Context, runningNumber string) (*domain.Trip, error) {
	number := strings.ToUpper(strings.TrimSpace(runningNumber))
	if number == "" {
		return nil, ErrInvalidRunningNumber
	}
	return s.tripRepo.GetByRunningNumber(ctx, number)
}

// GetAllTrips retrieves trips matching the filter.
func (s *TripService) GetAllTrips(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	return s.tripRepo.GetAll(ctx, filter)
}

// StartTrip explicitly moves a scheduled trip to in-progress. The same
// transition fires automatically when the first stop report arrives.
func (s *TripService) StartTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return s.transition(ctx, tripID, func(trip *domain.Trip, now string) error {
		if err := trip.Start(now); err != nil {
			return err
		}
		if s.notificationService != nil {
			_ = s.notificationService.NotifyTripStarted(ctx, trip)
		}
		return nil
	})
}

// CompleteTrip explicitly moves an in-progress trip to completed.
func (s *TripService) CompleteTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return s.transition(ctx, tripID, func(trip *domain.Trip, now string) error {
		if err := trip.Complete(now); err != nil {
			return err
		}
		if s.notificationService != nil {
			_ = s.notificationService.NotifyTripCompleted(ctx, trip)
		}
		return nil
	})
}

// CancelTrip cancels a scheduled or in-progress trip.
func (s *TripService) CancelTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	return s.transition(ctx, tripID, func(trip *domain.Trip, now string) error {
		if err := trip.Cancel(); err != nil {
			return err
		}
		if s.liveStore != nil {
			_ = s.liveStore.RemovePosition(ctx, trip.ID)
		}
		if s.notificationService != nil {
			_ = s.notificationService.NotifyTripCancelled(ctx, trip)
		}
		return nil
	})
}

func (s *TripService) transition(ctx context.Context, tripID string, apply func(*domain.Trip, string) error) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	now := timeutil.CurrentTimeString(s.clock)
	if err := apply(trip, now); err != nil {
		return nil, err
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateTrip(ctx, trip.ID)
	}

	return trip, nil
}

// SearchTripsRequest narrows commuter trip search.
type SearchTripsRequest struct {
	Origin         string
	Destination    string
	DepartureAfter string
	ServiceType    string
	Page           int
	Limit          int
}

// SearchTripsResult is one page of commuter search results.
type SearchTripsResult struct {
	Trips []*domain.Trip
	Total int
	Page  int
}

// SearchTrips finds scheduled and in-progress trips on routes matching
// the origin/destination fragments.
func (s *TripService) SearchTrips(ctx context.Context, req SearchTripsRequest) (*SearchTripsResult, error) {
	if strings.TrimSpace(req.Origin) == "" && strings.TrimSpace(req.Destination) == "" {
		return nil, ErrSearchCriteria
	}

	routes, err := s.routeRepo.Search(ctx, strings.TrimSpace(req.Origin), strings.TrimSpace(req.Destination))
	if err != nil {
		return nil, err
	}

	if len(routes) == 0 {
		return &SearchTripsResult{Page: normalizePage(req.Page)}, nil
	}

	routeNumbers := make([]string, 0, len(routes))
	for _, route := range routes {
		routeNumbers = append(routeNumbers, route.RouteNumber)
	}

	page := normalizePage(req.Page)
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	filter := repository.TripFilter{
		RouteNumbers:   routeNumbers,
		Statuses:       []domain.TripStatus{domain.TripStatusScheduled, domain.TripStatusInProgress},
		DepartureAfter: req.DepartureAfter,
		ServiceType:    domain.ServiceType(req.ServiceType),
		Limit:          limit,
		Offset:         (page - 1) * limit,
	}

	trips, err := s.tripRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	countFilter := filter
	countFilter.Limit = 0
	countFilter.Offset = 0
	total, err := s.tripRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, err
	}

	return &SearchTripsResult{Trips: trips, Total: total, Page: page}, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
