package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"bustrack/internal/domain"
	"bustrack/internal/redis"
	"bustrack/internal/repository"
	"bustrack/internal/repository/postgres"
	"bustrack/internal/timeutil"
)

// tripLockTTL bounds how long a stop report may hold the per-trip lock.
const tripLockTTL = 10 * time.Second

// LocationService is the location event processor: it validates stop
// reports against the trip's stop snapshot, computes schedule deviation,
// closes the previous dwell interval, appends the new event, and drives
// the trip lifecycle.
//
// Reports for one trip depend on "the most recently created event" being
// well-defined, so each report takes a per-trip Redis lock before
// touching storage, and all writes for one report run inside a single
// transaction.
type LocationService struct {
	db                  *sql.DB
	tripRepo            repository.TripRepository
	locationRepo        repository.LocationRepository
	lockStore           redis.LockStoreInterface
	cacheStore          *redis.CacheStore
	liveStore           redis.LiveStoreInterface
	notificationService *NotificationService
	clock               timeutil.Clock
}

// NewLocationService creates a new LocationService. db may be nil, in
// which case writes go through the injected repositories without a
// transaction (used by tests with in-memory repositories).
func NewLocationService(
	db *sql.DB,
	tripRepo repository.TripRepository,
	locationRepo repository.LocationRepository,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	liveStore redis.LiveStoreInterface,
	notificationService *NotificationService,
	clock timeutil.Clock,
) *LocationService {
	return &LocationService{
		db:                  db,
		tripRepo:            tripRepo,
		locationRepo:        locationRepo,
		lockStore:           lockStore,
		cacheStore:          cacheStore,
		liveStore:           liveStore,
		notificationService: notificationService,
		clock:               clock,
	}
}

// RecordArrivalRequest is an inbound stop report. Either TripID or
// RunningNumber identifies the trip.
type RecordArrivalRequest struct {
	TripID            string
	RunningNumber     string
	StopName          string
	ActualArrivalTime string // "HH:MM"; empty means "now"
	Notes             string
}

// RecordArrivalResult carries the appended event and the updated trip.
type RecordArrivalResult struct {
	Event *domain.LocationEvent
	Trip  *domain.Trip
}

// RecordArrival processes one stop-arrival report.
func (s *LocationService) RecordArrival(ctx context.Context, req RecordArrivalRequest) (*RecordArrivalResult, error) {
	stopName := strings.TrimSpace(req.StopName)
	if stopName == "" {
		return nil, ErrInvalidStopName
	}

	actualArrival := req.ActualArrivalTime
	if actualArrival == "" {
		actualArrival = timeutil.CurrentTimeString(s.clock)
	} else if _, err := timeutil.TimeToMinutes(actualArrival); err != nil {
		return nil, err
	}

	trip, err := s.resolveTrip(ctx, req)
	if err != nil {
		return nil, err
	}

	// Serialize reports per trip: two concurrent reports would race on
	// closing the open event, leaving two events open or backfilling
	// the wrong departure.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireTripLock(ctx, trip.ID, tripLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrTripBusy
		}
		defer func() {
			_ = s.lockStore.ReleaseTripLock(ctx, trip.ID)
		}()
	}

	// The resolved trip only pinned the lock key. Another report may
	// have advanced the lifecycle while we waited for the lock, so
	// re-read under it; Start/Complete must see current state.
	trip, err = s.tripRepo.GetByID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	// All business validation happens before any write. The stop is
	// matched against the trip's own snapshot, not the live route.
	stopIndex, ok := domain.MatchStop(trip.Stops, stopName)
	if !ok {
		return nil, &StopNotOnRouteError{
			StopName:    stopName,
			RouteNumber: trip.RouteNumber,
			ValidStops:  domain.StopNames(trip.Stops),
		}
	}

	matched := trip.Stops[stopIndex]
	scheduledArrival := matched.ScheduledArrival
	if scheduledArrival == "" && stopIndex == 0 {
		// The origin stop may carry no explicit time; the trip's
		// scheduled departure stands in for it.
		scheduledArrival = trip.ScheduledDeparture
	}

	delayMinutes, err := computeDelay(actualArrival, scheduledArrival)
	if err != nil {
		return nil, err
	}

	event := &domain.LocationEvent{
		ID:               uuid.New().String(),
		TripID:           trip.ID,
		StopName:         matched.LocationName,
		StopIndex:        stopIndex,
		ScheduledArrival: scheduledArrival,
		ActualArrival:    actualArrival,
		DelayMinutes:     delayMinutes,
		Status:           domain.ClassifyDelay(delayMinutes),
		Notes:            strings.TrimSpace(req.Notes),
		CreatedAt:        s.clock.Now(),
	}

	if err := s.applyReport(ctx, trip, event, actualArrival, stopIndex); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateTrip(ctx, trip.ID)
	}
	if s.liveStore != nil {
		_ = s.liveStore.SetPosition(ctx, &redis.LivePosition{
			TripID:     trip.ID,
			StopName:   event.StopName,
			StopIndex:  event.StopIndex,
			Status:     string(event.Status),
			ReportedAt: event.CreatedAt,
		})
	}
	s.notify(ctx, trip, event)

	return &RecordArrivalResult{Event: event, Trip: trip}, nil
}

// applyReport runs the write phase: close the previous open event,
// append the new one, advance the lifecycle, persist the trip. With a
// database handle the whole phase is one transaction, so a mid-write
// fault cannot leave the previous event closed without its successor.
func (s *LocationService) applyReport(ctx context.Context, trip *domain.Trip, event *domain.LocationEvent, actualArrival string, stopIndex int) error {
	if s.db == nil {
		return s.writeReport(ctx, s.tripRepo, s.locationRepo, trip, event, actualArrival, stopIndex)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	txTripRepo := postgres.NewTripRepositoryWithTx(tx)
	txLocationRepo := postgres.NewLocationRepositoryWithTx(tx)

	if err := s.writeReport(ctx, txTripRepo, txLocationRepo, trip, event, actualArrival, stopIndex); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *LocationService) writeReport(
	ctx context.Context,
	tripRepo repository.TripRepository,
	locationRepo repository.LocationRepository,
	trip *domain.Trip,
	event *domain.LocationEvent,
	actualArrival string,
	stopIndex int,
) error {
	// Close the previous dwell interval. The new report's arrival time
	// doubles as the previous stop's departure time.
	previous, err := locationRepo.GetLatestByTrip(ctx, trip.ID)
	if err != nil {
		return err
	}
	if previous != nil && previous.Open() {
		previous.ActualDeparture = actualArrival
		previous.Status = domain.EventStatusDeparted
		if err := locationRepo.Update(ctx, previous); err != nil {
			return err
		}
	}

	if err := locationRepo.Create(ctx, event); err != nil {
		return err
	}

	tripChanged := false
	if trip.Status == domain.TripStatusScheduled {
		if err := trip.Start(actualArrival); err != nil {
			return err
		}
		tripChanged = true
	}
	if stopIndex == trip.LastStopIndex() {
		if err := trip.Complete(actualArrival); err != nil {
			return err
		}
		tripChanged = true
	}

	if tripChanged {
		if err := tripRepo.Update(ctx, trip); err != nil {
			return err
		}
	}

	return nil
}

func (s *LocationService) resolveTrip(ctx context.Context, req RecordArrivalRequest) (*domain.Trip, error) {
	if req.TripID != "" {
		return s.tripRepo.GetByID(ctx, req.TripID)
	}
	if req.RunningNumber != "" {
		return s.tripRepo.GetByRunningNumber(ctx, strings.ToUpper(strings.TrimSpace(req.RunningNumber)))
	}
	return nil, ErrInvalidTripID
}

func (s *LocationService) notify(ctx context.Context, trip *domain.Trip, event *domain.LocationEvent) {
	if s.notificationService == nil {
		return
	}
	if trip.Status == domain.TripStatusInProgress && event.StopIndex == 0 {
		_ = s.notificationService.NotifyTripStarted(ctx, trip)
	}
	if event.Status == domain.EventStatusDelayed {
		_ = s.notificationService.NotifyDelay(ctx, trip, event)
	}
	if trip.Status == domain.TripStatusCompleted {
		_ = s.notificationService.NotifyTripCompleted(ctx, trip)
	}
}

// GetHistory returns a trip's location events in creation order.
func (s *LocationService) GetHistory(ctx context.Context, tripID string, limit int) ([]*domain.LocationEvent, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	if limit <= 0 {
		limit = 100
	}
	return s.locationRepo.GetByTrip(ctx, tripID, limit)
}

// GetLatest returns a trip's most recent location event.
func (s *LocationService) GetLatest(ctx context.Context, tripID string) (*domain.LocationEvent, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}
	event, err := s.locationRepo.GetLatestByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNoLocationData
	}
	return event, nil
}

// DeleteHistory removes all events for a trip and reports the count.
func (s *LocationService) DeleteHistory(ctx context.Context, tripID string) (int64, error) {
	if tripID == "" {
		return 0, ErrInvalidTripID
	}
	if s.liveStore != nil {
		_ = s.liveStore.RemovePosition(ctx, tripID)
	}
	return s.locationRepo.DeleteByTrip(ctx, tripID)
}

func computeDelay(actual, scheduled string) (int, error) {
	actualMinutes, err := timeutil.TimeToMinutes(actual)
	if err != nil {
		return 0, err
	}
	scheduledMinutes, err := timeutil.TimeToMinutes(scheduled)
	if err != nil {
		return 0, err
	}
	return actualMinutes - scheduledMinutes, nil
}
