package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"bustrack/internal/domain"
	"bustrack/internal/repository"
)

// RouteRepository is a PostgreSQL implementation of repository.RouteRepository.
// Stops are stored as a jsonb column; array order is the stop sequence.
type RouteRepository struct {
	q Querier
}

// NewRouteRepository creates a new PostgreSQL route repository.
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{q: db}
}

// NewRouteRepositoryWithTx creates a route repository using a transaction.
func NewRouteRepositoryWithTx(tx *sql.Tx) *RouteRepository {
	return &RouteRepository{q: tx}
}

// Create persists a new route.
func (r *RouteRepository) Create(ctx context.Context, route *domain.Route) error {
	stops, err := json.Marshal(route.Stops)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO routes (id, route_number, name, origin, destination, total_distance_km, stops, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.q.ExecContext(ctx, query,
		route.ID,
		route.RouteNumber,
		route.Name,
		route.Origin,
		route.Destination,
		route.TotalDistanceKm,
		stops,
		route.Active,
	)

	return err
}

// GetByNumber retrieves a route by route number.
func (r *RouteRepository) GetByNumber(ctx context.Context, routeNumber string) (*domain.Route, error) {
	query := `
		SELECT id, route_number, name, origin, destination, total_distance_km, stops, active
		FROM routes WHERE route_number = $1
	`

	return r.scanOne(r.q.QueryRowContext(ctx, query, routeNumber))
}

// GetAll retrieves routes, optionally restricted to active ones.
func (r *RouteRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domain.Route, error) {
	query := `
		SELECT id, route_number, name, origin, destination, total_distance_km, stops, active
		FROM routes
	`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY route_number`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

// Update replaces a route's mutable fields.
func (r *RouteRepository) Update(ctx context.Context, route *domain.Route) error {
	stops, err := json.Marshal(route.Stops)
	if err != nil {
		return err
	}

	query := `
		UPDATE routes
		SET name = $1, origin = $2, destination = $3, total_distance_km = $4, stops = $5, active = $6
		WHERE route_number = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		route.Name,
		route.Origin,
		route.Destination,
		route.TotalDistanceKm,
		stops,
		route.Active,
		route.RouteNumber,
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

// Deactivate soft-deletes a route.
func (r *RouteRepository) Deactivate(ctx context.Context, routeNumber string) error {
	query := `UPDATE routes SET active = false WHERE route_number = $1`

	result, err := r.q.ExecContext(ctx, query, routeNumber)
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

// Search finds active routes by origin/destination fragments.
func (r *RouteRepository) Search(ctx context.Context, origin, destination string) ([]*domain.Route, error) {
	query := `
		SELECT id, route_number, name, origin, destination, total_distance_km, stops, active
		FROM routes
		WHERE active = true AND origin ILIKE '%' || $1 || '%' AND destination ILIKE '%' || $2 || '%'
		ORDER BY route_number
	`

	rows, err := r.q.QueryContext(ctx, query, origin, destination)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *RouteRepository) scanOne(row *sql.Row) (*domain.Route, error) {
	var route domain.Route
	var stops []byte

	err := row.Scan(
		&route.ID,
		&route.RouteNumber,
		&route.Name,
		&route.Origin,
		&route.Destination,
		&route.TotalDistanceKm,
		&stops,
		&route.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(stops, &route.Stops); err != nil {
		return nil, err
	}

	return &route, nil
}

func (r *RouteRepository) scanRows(rows *sql.Rows) ([]*domain.Route, error) {
	var routes []*domain.Route
	for rows.Next() {
		var route domain.Route
		var stops []byte

		if err := rows.Scan(
			&route.ID,
			&route.RouteNumber,
			&route.Name,
			&route.Origin,
			&route.Destination,
			&route.TotalDistanceKm,
			&stops,
			&route.Active,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(stops, &route.Stops); err != nil {
			return nil, err
		}

		routes = append(routes, &route)
	}

	return routes, rows.Err()
}

// Ensure RouteRepository implements repository.RouteRepository.
var _ repository.RouteRepository = (*RouteRepository)(nil)
