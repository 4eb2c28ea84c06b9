package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// liveTTL bounds how long a stop report counts as a live position.
// A trip with no report inside this window drops off the live map.
const liveTTL = 15 * time.Minute

const livePrefix = "live:trip:"

// LivePosition is the latest stop report for a trip, kept in Redis for
// the read-side live queries so they avoid a history scan per trip.
type LivePosition struct {
	TripID     string    `json:"trip_id"`
	StopName   string    `json:"stop_name"`
	StopIndex  int       `json:"stop_index"`
	Status     string    `json:"status"`
	ReportedAt time.Time `json:"reported_at"`
}

// LiveStore tracks the latest stop report per trip.
type LiveStore struct {
	client *redis.Client
}

// NewLiveStore creates a new LiveStore.
func NewLiveStore(client *redis.Client) *LiveStore {
	return &LiveStore{client: client}
}

// SetPosition stores the latest position for a trip with the live TTL.
func (s *LiveStore) SetPosition(ctx context.Context, pos *LivePosition) error {
	data, err := json.Marshal(pos)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, livePrefix+pos.TripID, data, liveTTL).Err()
}

// GetPosition retrieves the latest live position for a trip.
// Returns nil when the trip has no recent report.
func (s *LiveStore) GetPosition(ctx context.Context, tripID string) (*LivePosition, error) {
	data, err := s.client.Get(ctx, livePrefix+tripID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var pos LivePosition
	if err := json.Unmarshal(data, &pos); err != nil {
		return nil, err
	}
	return &pos, nil
}

// RemovePosition drops a trip from the live map, e.g. on cancellation.
func (s *LiveStore) RemovePosition(ctx context.Context, tripID string) error {
	return s.client.Del(ctx, livePrefix+tripID).Err()
}
