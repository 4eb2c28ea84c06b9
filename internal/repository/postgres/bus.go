package postgres

import (
	"context"
	"database/sql"
	"errors"

	"bustrack/internal/domain"
	"bustrack/internal/repository"
)

// BusRepository is a PostgreSQL implementation of repository.BusRepository.
type BusRepository struct {
	q Querier
}

// NewBusRepository creates a new PostgreSQL bus repository.
func NewBusRepository(db *sql.DB) *BusRepository {
	return &BusRepository{q: db}
}

// NewBusRepositoryWithTx creates a bus repository using a transaction.
func NewBusRepositoryWithTx(tx *sql.Tx) *BusRepository {
	return &BusRepository{q: tx}
}

// Create persists a new bus.
func (r *BusRepository) Create(ctx context.Context, bus *domain.Bus) error {
	query := `
		INSERT INTO buses (id, registration_number, bus_number, type, capacity, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		bus.ID,
		bus.RegistrationNumber,
		bus.BusNumber,
		bus.Type,
		bus.Capacity,
		bus.Status,
	)

	return err
}

// GetByRegistration retrieves a bus by registration number.
func (r *BusRepository) GetByRegistration(ctx context.Context, registrationNumber string) (*domain.Bus, error) {
	query := `
		SELECT id, registration_number, bus_number, type, capacity, status
		FROM buses WHERE registration_number = $1
	`

	var bus domain.Bus
	err := r.q.QueryRowContext(ctx, query, registrationNumber).Scan(
		&bus.ID,
		&bus.RegistrationNumber,
		&bus.BusNumber,
		&bus.Type,
		&bus.Capacity,
		&bus.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &bus, nil
}

// GetAll retrieves all buses.
func (r *BusRepository) GetAll(ctx context.Context) ([]*domain.Bus, error) {
	query := `
		SELECT id, registration_number, bus_number, type, capacity, status
		FROM buses ORDER BY registration_number
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []*domain.Bus
	for rows.Next() {
		var bus domain.Bus
		if err := rows.Scan(
			&bus.ID,
			&bus.RegistrationNumber,
			&bus.BusNumber,
			&bus.Type,
			&bus.Capacity,
			&bus.Status,
		); err != nil {
			return nil, err
		}
		buses = append(buses, &bus)
	}

	return buses, rows.Err()
}

// UpdateStatus updates a bus's operating status.
func (r *BusRepository) UpdateStatus(ctx context.Context, registrationNumber string, status domain.BusStatus) error {
	query := `UPDATE buses SET status = $1 WHERE registration_number = $2`

	result, err := r.q.ExecContext(ctx, query, status, registrationNumber)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Ensure BusRepository implements repository.BusRepository.
var _ repository.BusRepository = (*BusRepository)(nil)
