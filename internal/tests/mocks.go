package tests

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"bustrack/internal/domain"
	"bustrack/internal/redis"
	"bustrack/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK BUS REPOSITORY
// ──────────────────────────────────────────────

// MockBusRepository is a mock implementation of BusRepository.
type MockBusRepository struct {
	mu    sync.RWMutex
	buses map[string]*domain.Bus

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockBusRepository creates a new mock bus repository.
func NewMockBusRepository() *MockBusRepository {
	return &MockBusRepository{
		buses: make(map[string]*domain.Bus),
	}
}

// AddBus adds a bus to the mock repository.
func (m *MockBusRepository) AddBus(bus *domain.Bus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[bus.RegistrationNumber] = bus
}

func (m *MockBusRepository) Create(ctx context.Context, bus *domain.Bus) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buses[bus.RegistrationNumber] = bus
	return nil
}

func (m *MockBusRepository) GetByRegistration(ctx context.Context, registrationNumber string) (*domain.Bus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bus, ok := m.buses[registrationNumber]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *bus
	return &copy, nil
}

func (m *MockBusRepository) GetAll(ctx context.Context) ([]*domain.Bus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buses := make([]*domain.Bus, 0, len(m.buses))
	for _, b := range m.buses {
		copy := *b
		buses = append(buses, &copy)
	}
	sort.Slice(buses, func(i, j int) bool {
		return buses[i].RegistrationNumber < buses[j].RegistrationNumber
	})
	return buses, nil
}

func (m *MockBusRepository) UpdateStatus(ctx context.Context, registrationNumber string, status domain.BusStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bus, ok := m.buses[registrationNumber]
	if !ok {
		return repository.ErrNotFound
	}
	bus.Status = status
	return nil
}

// ──────────────────────────────────────────────
// MOCK ROUTE REPOSITORY
// ──────────────────────────────────────────────

// MockRouteRepository is a mock implementation of RouteRepository.
type MockRouteRepository struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	SearchError error
}

// NewMockRouteRepository creates a new mock route repository.
func NewMockRouteRepository() *MockRouteRepository {
	return &MockRouteRepository{
		routes: make(map[string]*domain.Route),
	}
}

// AddRoute adds a route to the mock repository.
func (m *MockRouteRepository) AddRoute(route *domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.RouteNumber] = route
}

func (m *MockRouteRepository) Create(ctx context.Context, route *domain.Route) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[route.RouteNumber] = route
	return nil
}

func (m *MockRouteRepository) GetByNumber(ctx context.Context, routeNumber string) (*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	route, ok := m.routes[routeNumber]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *route
	return &copy, nil
}

func (m *MockRouteRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domain.Route, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	routes := make([]*domain.Route, 0, len(m.routes))
	for _, r := range m.routes {
		if activeOnly && !r.Active {
			continue
		}
		copy := *r
		routes = append(routes, &copy)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].RouteNumber < routes[j].RouteNumber
	})
	return routes, nil
}

func (m *MockRouteRepository) Update(ctx context.Context, route *domain.Route) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.routes[route.RouteNumber]; !ok {
		return repository.ErrNotFound
	}
	copy := *route
	m.routes[route.RouteNumber] = &copy
	return nil
}

func (m *MockRouteRepository) Deactivate(ctx context.Context, routeNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	route, ok := m.routes[routeNumber]
	if !ok {
		return repository.ErrNotFound
	}
	route.Active = false
	return nil
}

func (m *MockRouteRepository) Search(ctx context.Context, origin, destination string) ([]*domain.Route, error) {
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matches []*domain.Route
	for _, r := range m.routes {
		if !r.Active {
			continue
		}
		if origin != "" && !strings.Contains(strings.ToLower(r.Origin), strings.ToLower(origin)) {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(r.Destination), strings.ToLower(destination)) {
			continue
		}
		copy := *r
		matches = append(matches, &copy)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].RouteNumber < matches[j].RouteNumber
	})
	return matches, nil
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip adds a trip to the mock repository.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

// GetTrip returns the stored trip without copying, for assertions.
func (m *MockTripRepository) GetTrip(id string) *domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trips[id]
}

// CountTrips returns the number of stored trips.
func (m *MockTripRepository) CountTrips() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trips)
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	trip, ok := m.trips[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *trip
	return &copy, nil
}

func (m *MockTripRepository) GetByRunningNumber(ctx context.Context, runningNumber string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trips {
		if t.RunningNumber == runningNumber {
			copy := *t
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockTripRepository) GetAll(ctx context.Context, filter repository.TripFilter) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trips []*domain.Trip
	for _, t := range m.trips {
		if !matchesFilter(t, filter) {
			continue
		}
		copy := *t
		trips = append(trips, &copy)
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].ScheduledDeparture < trips[j].ScheduledDeparture
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(trips) {
			return nil, nil
		}
		trips = trips[filter.Offset:]
	}
	if filter.Limit > 0 && len(trips) > filter.Limit {
		trips = trips[:filter.Limit]
	}
	return trips, nil
}

func (m *MockTripRepository) Count(ctx context.Context, filter repository.TripFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, t := range m.trips {
		if matchesFilter(t, filter) {
			count++
		}
	}
	return count, nil
}

func (m *MockTripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[trip.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *trip
	m.trips[trip.ID] = &copy
	return nil
}

func (m *MockTripRepository) GetActiveByBus(ctx context.Context, registrationNumber string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trips []*domain.Trip
	for _, t := range m.trips {
		if t.BusRegistrationNumber != registrationNumber {
			continue
		}
		if t.Status != domain.TripStatusScheduled && t.Status != domain.TripStatusInProgress {
			continue
		}
		copy := *t
		trips = append(trips, &copy)
	}
	return trips, nil
}

func (m *MockTripRepository) GetActiveByRoute(ctx context.Context, routeNumber string) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var trips []*domain.Trip
	for _, t := range m.trips {
		if t.RouteNumber != routeNumber || t.Status != domain.TripStatusInProgress {
			continue
		}
		copy := *t
		trips = append(trips, &copy)
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].RunningNumber < trips[j].RunningNumber
	})
	return trips, nil
}

func matchesFilter(t *domain.Trip, f repository.TripFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.BusRegistrationNumber != "" && t.BusRegistrationNumber != f.BusRegistrationNumber {
		return false
	}
	if f.RouteNumber != "" && t.RouteNumber != f.RouteNumber {
		return false
	}
	if f.ServiceType != "" && t.ServiceType != f.ServiceType {
		return false
	}
	if f.DepartureAfter != "" && t.ScheduledDeparture < f.DepartureAfter {
		return false
	}
	if f.DepartureBefore != "" && t.ScheduledDeparture > f.DepartureBefore {
		return false
	}
	if len(f.RouteNumbers) > 0 {
		found := false
		for _, rn := range f.RouteNumbers {
			if t.RouteNumber == rn {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if t.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ──────────────────────────────────────────────
// MOCK LOCATION REPOSITORY
// ──────────────────────────────────────────────

// MockLocationRepository is a mock implementation of LocationRepository.
type MockLocationRepository struct {
	mu     sync.RWMutex
	events []*domain.LocationEvent

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockLocationRepository creates a new mock location repository.
func NewMockLocationRepository() *MockLocationRepository {
	return &MockLocationRepository{}
}

// AddEvent appends an event to the mock repository.
func (m *MockLocationRepository) AddEvent(event *domain.LocationEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// CountEvents returns the number of stored events for a trip.
func (m *MockLocationRepository) CountEvents(tripID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.events {
		if e.TripID == tripID {
			count++
		}
	}
	return count
}

// EventAt returns the i-th stored event for a trip, in creation order.
func (m *MockLocationRepository) EventAt(tripID string, i int) *domain.LocationEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.events {
		if e.TripID != tripID {
			continue
		}
		if n == i {
			return e
		}
		n++
	}
	return nil
}

func (m *MockLocationRepository) Create(ctx context.Context, event *domain.LocationEvent) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *event
	m.events = append(m.events, &copy)
	return nil
}

func (m *MockLocationRepository) GetLatestByTrip(ctx context.Context, tripID string) (*domain.LocationEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].TripID == tripID {
			copy := *m.events[i]
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockLocationRepository) GetByTrip(ctx context.Context, tripID string, limit int) ([]*domain.LocationEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.LocationEvent
	for _, e := range m.events {
		if e.TripID != tripID {
			continue
		}
		copy := *e
		events = append(events, &copy)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockLocationRepository) Update(ctx context.Context, event *domain.LocationEvent) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.events {
		if e.ID == event.ID {
			copy := *event
			m.events[i] = &copy
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockLocationRepository) DeleteByTrip(ctx context.Context, tripID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.LocationEvent
	var deleted int64
	for _, e := range m.events {
		if e.TripID == tripID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return deleted, nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

// HoldLock pre-acquires a trip lock, simulating a concurrent holder.
func (m *MockLockStore) HoldLock(tripID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[tripID] = true
}

func (m *MockLockStore) AcquireTripLock(ctx context.Context, tripID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[tripID] {
		return false, nil
	}
	m.locks[tripID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseTripLock(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, tripID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LIVE STORE
// ──────────────────────────────────────────────

// MockLiveStore is a mock implementation of LiveStoreInterface.
type MockLiveStore struct {
	mu        sync.RWMutex
	positions map[string]*redis.LivePosition

	// Counters for verification
	SetCallCount    int32
	RemoveCallCount int32
}

// NewMockLiveStore creates a new mock live store.
func NewMockLiveStore() *MockLiveStore {
	return &MockLiveStore{
		positions: make(map[string]*redis.LivePosition),
	}
}

// Position returns the stored position for a trip, or nil.
func (m *MockLiveStore) Position(tripID string) *redis.LivePosition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.positions[tripID]
}

func (m *MockLiveStore) SetPosition(ctx context.Context, pos *redis.LivePosition) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *pos
	m.positions[pos.TripID] = &copy
	return nil
}

func (m *MockLiveStore) GetPosition(ctx context.Context, tripID string) (*redis.LivePosition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pos, ok := m.positions[tripID]
	if !ok {
		return nil, nil
	}
	copy := *pos
	return &copy, nil
}

func (m *MockLiveStore) RemovePosition(ctx context.Context, tripID string) error {
	atomic.AddInt32(&m.RemoveCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions, tripID)
	return nil
}
