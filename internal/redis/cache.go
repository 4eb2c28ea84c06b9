package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"bustrack/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	RouteCacheTTL = 5 * time.Minute  // Routes change rarely
	TripCacheTTL  = 30 * time.Second // Trips mutate on every stop report
)

// Key prefixes
const (
	routeCachePrefix = "cache:route:"
	tripCachePrefix  = "cache:trip:"
)

// GetRoute retrieves a route from cache by route number.
func (s *CacheStore) GetRoute(ctx context.Context, routeNumber string) (*domain.Route, error) {
	key := routeCachePrefix + routeNumber
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var route domain.Route
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// SetRoute stores a route in cache.
func (s *CacheStore) SetRoute(ctx context.Context, route *domain.Route) error {
	key := routeCachePrefix + route.RouteNumber
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, RouteCacheTTL).Err()
}

// InvalidateRoute removes a route from cache.
func (s *CacheStore) InvalidateRoute(ctx context.Context, routeNumber string) error {
	return s.client.Del(ctx, routeCachePrefix+routeNumber).Err()
}

// GetTrip retrieves a trip from cache by storage ID.
func (s *CacheStore) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	key := tripCachePrefix + tripID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var trip domain.Trip
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// SetTrip stores a trip in cache.
func (s *CacheStore) SetTrip(ctx context.Context, trip *domain.Trip) error {
	key := tripCachePrefix + trip.ID
	data, err := json.Marshal(trip)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, TripCacheTTL).Err()
}

// InvalidateTrip removes a trip from cache.
func (s *CacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	return s.client.Del(ctx, tripCachePrefix+tripID).Err()
}
