package repository

import (
	"context"

	"bustrack/internal/domain"
)

// LocationRepository defines the persistence operations for location
// events. Events are append-only; Update exists only to backfill the
// actual departure when the next report closes the dwell interval.
type LocationRepository interface {
	// Create appends a new location event.
	Create(ctx context.Context, event *domain.LocationEvent) error

	// GetLatestByTrip retrieves the most recently created event for a
	// trip. Returns nil if the trip has no events yet.
	GetLatestByTrip(ctx context.Context, tripID string) (*domain.LocationEvent, error)

	// GetByTrip retrieves events for a trip in creation order
	// (ascending for history playback). limit <= 0 means no limit.
	GetByTrip(ctx context.Context, tripID string, limit int) ([]*domain.LocationEvent, error)

	// Update persists changes to an existing event.
	Update(ctx context.Context, event *domain.LocationEvent) error

	// DeleteByTrip removes all events for a trip and reports how many
	// were deleted.
	DeleteByTrip(ctx context.Context, tripID string) (int64, error)
}
