package repository

import (
	"context"

	"bustrack/internal/domain"
)

// RouteRepository defines the persistence operations for routes.
type RouteRepository interface {
	// Create persists a new route.
	Create(ctx context.Context, route *domain.Route) error

	// GetByNumber retrieves a route by route number.
	GetByNumber(ctx context.Context, routeNumber string) (*domain.Route, error)

	// GetAll retrieves routes, optionally restricted to active ones.
	GetAll(ctx context.Context, activeOnly bool) ([]*domain.Route, error)

	// Update replaces a route's mutable fields (name, distance, stops).
	Update(ctx context.Context, route *domain.Route) error

	// Deactivate soft-deletes a route. Historical trips keep referencing it.
	Deactivate(ctx context.Context, routeNumber string) error

	// Search finds active routes whose origin/destination contain the
	// given fragments (case-insensitive). Empty fragments match anything.
	Search(ctx context.Context, origin, destination string) ([]*domain.Route, error)
}
