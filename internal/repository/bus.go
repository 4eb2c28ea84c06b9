package repository

import (
	"context"

	"bustrack/internal/domain"
)

// BusRepository defines the persistence operations for buses.
type BusRepository interface {
	// Create persists a new bus.
	Create(ctx context.Context, bus *domain.Bus) error

	// GetByRegistration retrieves a bus by registration number.
	GetByRegistration(ctx context.Context, registrationNumber string) (*domain.Bus, error)

	// GetAll retrieves all buses.
	GetAll(ctx context.Context) ([]*domain.Bus, error)

	// UpdateStatus updates a bus's operating status.
	UpdateStatus(ctx context.Context, registrationNumber string, status domain.BusStatus) error
}
