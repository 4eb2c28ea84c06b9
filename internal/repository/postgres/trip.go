package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"bustrack/internal/domain"
	"bustrack/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
// The trip's denormalized stop snapshot is stored as a jsonb column.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, running_number, bus_registration_number, route_number,
	scheduled_departure, scheduled_arrival, actual_departure, actual_arrival,
	status, service_type, stops, created_at`

// Create persists a new trip, including its stop snapshot.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	stops, err := json.Marshal(trip.Stops)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.q.ExecContext(ctx, query,
		trip.ID,
		trip.RunningNumber,
		trip.BusRegistrationNumber,
		trip.RouteNumber,
		trip.ScheduledDeparture,
		trip.ScheduledArrival,
		nullString(trip.ActualDeparture),
		nullString(trip.ActualArrival),
		trip.Status,
		trip.ServiceType,
		stops,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by storage ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByRunningNumber retrieves a trip by its running number.
func (r *TripRepository) GetByRunningNumber(ctx context.Context, runningNumber string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE running_number = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, runningNumber))
}

// GetAll retrieves trips matching the filter, ordered by scheduled departure.
func (r *TripRepository) GetAll(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	where, args := buildTripFilter(filter)

	query := `SELECT ` + tripColumns + ` FROM trips` + where + ` ORDER BY scheduled_departure`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET %d`, filter.Offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// Count returns the number of trips matching the filter.
func (r *TripRepository) Count(ctx context.Context, filter repository.TripFilter) (int, error) {
	where, args := buildTripFilter(filter)

	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips`+where, args...).Scan(&count)
	return count, err
}

// Update updates an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	stops, err := json.Marshal(trip.Stops)
	if err != nil {
		return err
	}

	query := `
		UPDATE trips
		SET scheduled_departure = $1, scheduled_arrival = $2, actual_departure = $3,
			actual_arrival = $4, status = $5, service_type = $6, stops = $7
		WHERE id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.ScheduledDeparture,
		trip.ScheduledArrival,
		nullString(trip.ActualDeparture),
		nullString(trip.ActualArrival),
		trip.Status,
		trip.ServiceType,
		stops,
		trip.ID,
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

// GetActiveByBus retrieves scheduled or in-progress trips for a bus.
func (r *TripRepository) GetActiveByBus(ctx context.Context, registrationNumber string) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE bus_registration_number = $1 AND status = ANY($2)
		ORDER BY scheduled_departure
	`

	active := []string{string(domain.TripStatusScheduled), string(domain.TripStatusInProgress)}
	rows, err := r.q.QueryContext(ctx, query, registrationNumber, pq.Array(active))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// GetActiveByRoute retrieves in-progress trips on a route.
func (r *TripRepository) GetActiveByRoute(ctx context.Context, routeNumber string) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE route_number = $1 AND status = $2
		ORDER BY scheduled_departure
	`

	rows, err := r.q.QueryContext(ctx, query, routeNumber, domain.TripStatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func buildTripFilter(filter repository.TripFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Status != "" {
		add(`status = $%d`, filter.Status)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		add(`status = ANY($%d)`, pq.Array(statuses))
	}
	if filter.BusRegistrationNumber != "" {
		add(`bus_registration_number = $%d`, filter.BusRegistrationNumber)
	}
	if filter.RouteNumber != "" {
		add(`route_number = $%d`, filter.RouteNumber)
	}
	if len(filter.RouteNumbers) > 0 {
		add(`route_number = ANY($%d)`, pq.Array(filter.RouteNumbers))
	}
	if filter.ServiceType != "" {
		add(`service_type = $%d`, filter.ServiceType)
	}
	if filter.DepartureAfter != "" {
		add(`scheduled_departure >= $%d`, filter.DepartureAfter)
	}
	if filter.DepartureBefore != "" {
		add(`scheduled_departure <= $%d`, filter.DepartureBefore)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conditions, ` AND `), args
}

func (r *TripRepository) scanOne(row *sql.Row) (*domain.Trip, error) {
	var trip domain.Trip
	var actualDeparture, actualArrival sql.NullString
	var stops []byte

	err := row.Scan(
		&trip.ID,
		&trip.RunningNumber,
		&trip.BusRegistrationNumber,
		&trip.RouteNumber,
		&trip.ScheduledDeparture,
		&trip.ScheduledArrival,
		&actualDeparture,
		&actualArrival,
		&trip.Status,
		&trip.ServiceType,
		&stops,
		&trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	trip.ActualDeparture = actualDeparture.String
	trip.ActualArrival = actualArrival.String

	if err := json.Unmarshal(stops, &trip.Stops); err != nil {
		return nil, err
	}

	return &trip, nil
}

func (r *TripRepository) scanRows(rows *sql.Rows) ([]*domain.Trip, error) {
	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		var actualDeparture, actualArrival sql.NullString
		var stops []byte

		if err := rows.Scan(
			&trip.ID,
			&trip.RunningNumber,
			&trip.BusRegistrationNumber,
			&trip.RouteNumber,
			&trip.ScheduledDeparture,
			&trip.ScheduledArrival,
			&actualDeparture,
			&actualArrival,
			&trip.Status,
			&trip.ServiceType,
			&stops,
			&trip.CreatedAt,
		); err != nil {
			return nil, err
		}

		trip.ActualDeparture = actualDeparture.String
		trip.ActualArrival = actualArrival.String

		if err := json.Unmarshal(stops, &trip.Stops); err != nil {
			return nil, err
		}

		trips = append(trips, &trip)
	}

	return trips, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
