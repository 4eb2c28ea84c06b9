package postgres

import (
	"context"
	"database/sql"
	"errors"

	"bustrack/internal/domain"
	"bustrack/internal/repository"
)

// LocationRepository is a PostgreSQL implementation of
// repository.LocationRepository.
type LocationRepository struct {
	q Querier
}

// NewLocationRepository creates a new PostgreSQL location repository.
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{q: db}
}

// NewLocationRepositoryWithTx creates a location repository using a transaction.
func NewLocationRepositoryWithTx(tx *sql.Tx) *LocationRepository {
	return &LocationRepository{q: tx}
}

const locationColumns = `id, trip_id, stop_name, stop_index, scheduled_arrival,
	actual_arrival, actual_departure, delay_minutes, status, notes, created_at`

// Create appends a new location event.
func (r *LocationRepository) Create(ctx context.Context, event *domain.LocationEvent) error {
	query := `
		INSERT INTO location_events (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		event.ID,
		event.TripID,
		event.StopName,
		event.StopIndex,
		event.ScheduledArrival,
		event.ActualArrival,
		nullString(event.ActualDeparture),
		event.DelayMinutes,
		event.Status,
		event.Notes,
		event.CreatedAt,
	)

	return err
}

// GetLatestByTrip retrieves the most recently created event for a trip.
// Returns nil (not ErrNotFound) when the trip has no events yet, since a
// fresh trip legitimately has an empty history.
func (r *LocationRepository) GetLatestByTrip(ctx context.Context, tripID string) (*domain.LocationEvent, error) {
	query := `
		SELECT ` + locationColumns + ` FROM location_events
		WHERE trip_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	event, err := r.scanOne(r.q.QueryRowContext(ctx, query, tripID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return event, err
}

// GetByTrip retrieves events for a trip in creation order.
func (r *LocationRepository) GetByTrip(ctx context.Context, tripID string, limit int) ([]*domain.LocationEvent, error) {
	query := `
		SELECT ` + locationColumns + ` FROM location_events
		WHERE trip_id = $1
		ORDER BY created_at, id
	`
	args := []any{tripID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.LocationEvent
	for rows.Next() {
		event, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// Update persists changes to an existing event.
func (r *LocationRepository) Update(ctx context.Context, event *domain.LocationEvent) error {
	query := `
		UPDATE location_events
		SET actual_departure = $1, status = $2, notes = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(event.ActualDeparture),
		event.Status,
		event.Notes,
		event.ID,
	)
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

// DeleteByTrip removes all events for a trip.
func (r *LocationRepository) DeleteByTrip(ctx context.Context, tripID string) (int64, error) {
	result, err := r.q.ExecContext(ctx, `DELETE FROM location_events WHERE trip_id = $1`, tripID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *LocationRepository) scanOne(row *sql.Row) (*domain.LocationEvent, error) {
	event, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func scanEvent(scan func(dest ...any) error) (*domain.LocationEvent, error) {
	var event domain.LocationEvent
	var actualDeparture sql.NullString

	if err := scan(
		&event.ID,
		&event.TripID,
		&event.StopName,
		&event.StopIndex,
		&event.ScheduledArrival,
		&event.ActualArrival,
		&actualDeparture,
		&event.DelayMinutes,
		&event.Status,
		&event.Notes,
		&event.CreatedAt,
	); err != nil {
		return nil, err
	}

	event.ActualDeparture = actualDeparture.String
	return &event, nil
}

// Ensure LocationRepository implements repository.LocationRepository.
var _ repository.LocationRepository = (*LocationRepository)(nil)
