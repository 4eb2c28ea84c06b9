package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"bustrack/internal/domain"
	"bustrack/internal/redis"
	"bustrack/internal/repository"
	"bustrack/internal/timeutil"
)

// RouteService handles route definitions and schedule queries.
type RouteService struct {
	routeRepo  repository.RouteRepository
	cacheStore *redis.CacheStore
}

// NewRouteService creates a new RouteService.
func NewRouteService(routeRepo repository.RouteRepository, cacheStore *redis.CacheStore) *RouteService {
	return &RouteService{
		routeRepo:  routeRepo,
		cacheStore: cacheStore,
	}
}

// CreateRouteRequest contains the parameters for creating a route.
type CreateRouteRequest struct {
	RouteNumber     string
	Name            string
	Origin          string
	Destination     string
	TotalDistanceKm float64
	Stops           []domain.Stop
}

// CreateRoute validates and persists a new route.
func (s *RouteService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*domain.Route, error) {
	routeNumber := strings.ToUpper(strings.TrimSpace(req.RouteNumber))
	if routeNumber == "" {
		return nil, ErrInvalidRouteNumber
	}

	if err := validateStops(req.Stops); err != nil {
		return nil, err
	}

	if strings.EqualFold(strings.TrimSpace(req.Origin), strings.TrimSpace(req.Destination)) {
		return nil, ErrSameOriginDestination
	}

	route := &domain.Route{
		ID:              uuid.New().String(),
		RouteNumber:     routeNumber,
		Name:            strings.TrimSpace(req.Name),
		Origin:          strings.TrimSpace(req.Origin),
		Destination:     strings.TrimSpace(req.Destination),
		TotalDistanceKm: req.TotalDistanceKm,
		Stops:           req.Stops,
		Active:          true,
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	return route, nil
}

// GetRoute retrieves a route by number, preferring cache.
func (s *RouteService) GetRoute(ctx context.Context, routeNumber string) (*domain.Route, error) {
	number := strings.ToUpper(strings.TrimSpace(routeNumber))
	if number == "" {
		return nil, ErrInvalidRouteNumber
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetRoute(ctx, number)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	route, err := s.routeRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetRoute(ctx, route)
	}

	return route, nil
}

// GetAllRoutes retrieves routes, optionally only active ones.
func (s *RouteService) GetAllRoutes(ctx context.Context, activeOnly bool) ([]*domain.Route, error) {
	return s.routeRepo.GetAll(ctx, activeOnly)
}

// UpdateStops replaces a route's stop list. In-flight trips are
// unaffected: they carry their own snapshot taken at dispatch time.
func (s *RouteService) UpdateStops(ctx context.Context, routeNumber string, stops []domain.Stop) (*domain.Route, error) {
	number := strings.ToUpper(strings.TrimSpace(routeNumber))
	if number == "" {
		return nil, ErrInvalidRouteNumber
	}

	if err := validateStops(stops); err != nil {
		return nil, err
	}

	route, err := s.routeRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	route.Stops = stops
	if err := s.routeRepo.Update(ctx, route); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateRoute(ctx, number)
	}

	return route, nil
}

// DeactivateRoute soft-deletes a route so historical trips keep a valid
// reference.
func (s *RouteService) DeactivateRoute(ctx context.Context, routeNumber string) error {
	number := strings.ToUpper(strings.TrimSpace(routeNumber))
	if number == "" {
		return ErrInvalidRouteNumber
	}

	if err := s.routeRepo.Deactivate(ctx, number); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateRoute(ctx, number)
	}

	return nil
}

func validateStops(stops []domain.Stop) error {
	if len(stops) < 2 {
		return ErrTooFewStops
	}

	for _, stop := range stops {
		if strings.TrimSpace(stop.LocationName) == "" {
			return ErrInvalidStopName
		}
		// Every stop needs an arrival time; a timeless stop could never
		// classify a report against the schedule.
		if stop.ScheduledArrival == "" {
			return ErrMissingStopTime
		}
		if _, err := timeutil.TimeToMinutes(stop.ScheduledArrival); err != nil {
			return err
		}
		if stop.ScheduledDeparture != "" {
			if _, err := timeutil.TimeToMinutes(stop.ScheduledDeparture); err != nil {
				return err
			}
		}
	}

	return nil
}
