package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"bustrack/internal/domain"
	"bustrack/internal/repository"
)

// BusService handles fleet registration.
type BusService struct {
	busRepo repository.BusRepository
}

// NewBusService creates a new BusService.
func NewBusService(busRepo repository.BusRepository) *BusService {
	return &BusService{busRepo: busRepo}
}

// RegisterBusRequest contains the parameters for registering a bus.
type RegisterBusRequest struct {
	RegistrationNumber string
	BusNumber          string
	Type               string
	Capacity           int
}

// RegisterBus adds a bus to the fleet.
func (s *BusService) RegisterBus(ctx context.Context, req RegisterBusRequest) (*domain.Bus, error) {
	registration := strings.ToUpper(strings.TrimSpace(req.RegistrationNumber))
	if registration == "" {
		return nil, ErrInvalidRegistrationNumber
	}

	existing, err := s.busRepo.GetByRegistration(ctx, registration)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	busType := domain.BusType(req.Type)
	if busType == "" {
		busType = domain.BusTypeStandard
	}

	bus := &domain.Bus{
		ID:                 uuid.New().String(),
		RegistrationNumber: registration,
		BusNumber:          strings.TrimSpace(req.BusNumber),
		Type:               busType,
		Capacity:           req.Capacity,
		Status:             domain.BusStatusActive,
	}

	if err := s.busRepo.Create(ctx, bus); err != nil {
		return nil, err
	}

	return bus, nil
}

// GetBus retrieves a bus by registration number.
func (s *BusService) GetBus(ctx context.Context, registrationNumber string) (*domain.Bus, error) {
	registration := strings.ToUpper(strings.TrimSpace(registrationNumber))
	if registration == "" {
		return nil, ErrInvalidRegistrationNumber
	}
	return s.busRepo.GetByRegistration(ctx, registration)
}

// GetAllBuses retrieves all buses.
func (s *BusService) GetAllBuses(ctx context.Context) ([]*domain.Bus, error) {
	return s.busRepo.GetAll(ctx)
}

// SetBusStatus updates a bus's operating status.
func (s *BusService) SetBusStatus(ctx context.Context, registrationNumber string, status domain.BusStatus) error {
	registration := strings.ToUpper(strings.TrimSpace(registrationNumber))
	if registration == "" {
		return ErrInvalidRegistrationNumber
	}
	return s.busRepo.UpdateStatus(ctx, registration, status)
}
