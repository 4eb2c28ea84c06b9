package repository

import (
	"context"

	"bustrack/internal/domain"
)

// TripFilter narrows trip listings. Zero values mean "any".
type TripFilter struct {
	Status                domain.TripStatus
	BusRegistrationNumber string
	RouteNumber           string
	ServiceType           domain.ServiceType
	DepartureAfter        string // "HH:MM"
	DepartureBefore       string // "HH:MM"
	RouteNumbers          []string
	Statuses              []domain.TripStatus
	Limit                 int
	Offset                int
}

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip, including its stop snapshot.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by storage ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetByRunningNumber retrieves a trip by its running number.
	GetByRunningNumber(ctx context.Context, runningNumber string) (*domain.Trip, error)

	// GetAll retrieves trips matching the filter, ordered by scheduled departure.
	GetAll(ctx context.Context, filter TripFilter) ([]*domain.Trip, error)

	// Count returns the number of trips matching the filter.
	Count(ctx context.Context, filter TripFilter) (int, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// GetActiveByBus retrieves scheduled or in-progress trips for a bus.
	GetActiveByBus(ctx context.Context, registrationNumber string) ([]*domain.Trip, error)

	// GetActiveByRoute retrieves in-progress trips on a route.
	GetActiveByRoute(ctx context.Context, routeNumber string) ([]*domain.Trip, error)
}
