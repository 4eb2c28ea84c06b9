package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"bustrack/internal/domain"
	"bustrack/internal/service"
	"bustrack/internal/timeutil"
)

// ──────────────────────────────────────────────
// TRIP DISPATCH
// ──────────────────────────────────────────────

type dispatchFixture struct {
	tripRepo  *MockTripRepository
	busRepo   *MockBusRepository
	routeRepo *MockRouteRepository
	liveStore *MockLiveStore
	svc       *service.TripService
}

func newDispatchFixture() *dispatchFixture {
	tripRepo := NewMockTripRepository()
	busRepo := NewMockBusRepository()
	routeRepo := NewMockRouteRepository()
	liveStore := NewMockLiveStore()

	busRepo.AddBus(&domain.Bus{
		ID:                 "bus-1",
		RegistrationNumber: "NA-1234",
		Status:             domain.BusStatusActive,
	})
	routeRepo.AddRoute(&domain.Route{
		ID:          "route-1",
		RouteNumber: "CK-1",
		Name:        "Colombo - Kandy",
		Origin:      "Colombo",
		Destination: "Kandy",
		Active:      true,
		Stops: []domain.Stop{
			{LocationName: "Colombo", TravelTimeToNext: 40},
			{LocationName: "Nittambuwa", ScheduledArrival: "06:40"},
			{LocationName: "Kandy", ScheduledArrival: "10:10"},
		},
	})

	clock := timeutil.FixedClock{Time: time.Date(2025, 3, 14, 5, 30, 0, 0, time.UTC)}
	svc := service.NewTripService(
		tripRepo, busRepo, routeRepo, nil, liveStore,
		service.NewNotificationService(), clock,
	)

	return &dispatchFixture{
		tripRepo:  tripRepo,
		busRepo:   busRepo,
		routeRepo: routeRepo,
		liveStore: liveStore,
		svc:       svc,
	}
}

func validDispatch() service.CreateTripRequest {
	return service.CreateTripRequest{
		RunningNumber:         "CKN1",
		BusRegistrationNumber: "NA-1234",
		RouteNumber:           "CK-1",
		ScheduledDeparture:    "06:00",
		ScheduledArrival:      "10:10",
		ServiceType:           "luxury",
	}
}

func TestCreateTrip_SnapshotsRouteStops(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	trip, err := f.svc.CreateTrip(ctx, validDispatch())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.Status != domain.TripStatusScheduled {
		t.Errorf("status = %s, want scheduled", trip.Status)
	}
	if len(trip.Stops) != 3 {
		t.Fatalf("snapshot has %d stops, want 3", len(trip.Stops))
	}

	// Editing the route afterwards must not touch the dispatched trip.
	route, _ := f.routeRepo.GetByNumber(ctx, "CK-1")
	route.Stops = append(route.Stops, domain.Stop{LocationName: "Katugastota"})
	_ = f.routeRepo.Update(ctx, route)

	stored := f.tripRepo.GetTrip(trip.ID)
	if len(stored.Stops) != 3 {
		t.Errorf("trip snapshot grew to %d stops after route edit", len(stored.Stops))
	}
}

func TestCreateTrip_NormalizesInput(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()

	req := validDispatch()
	req.RunningNumber = "  ckn1 "
	req.BusRegistrationNumber = "na-1234"
	req.RouteNumber = "ck-1"

	trip, err := f.svc.CreateTrip(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.RunningNumber != "CKN1" {
		t.Errorf("running number = %q, want CKN1", trip.RunningNumber)
	}
	if trip.BusRegistrationNumber != "NA-1234" {
		t.Errorf("registration = %q, want NA-1234", trip.BusRegistrationNumber)
	}
}

func TestCreateTrip_InvalidRunningNumber(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()

	for _, number := range []string{"", "C1", "CKN", "1234", "CKN1234"} {
		req := validDispatch()
		req.RunningNumber = number
		if _, err := f.svc.CreateTrip(context.Background(), req); !errors.Is(err, service.ErrInvalidRunningNumber) {
			t.Errorf("running number %q: err = %v, want ErrInvalidRunningNumber", number, err)
		}
	}
}

func TestCreateTrip_ScheduleOrder(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()

	req := validDispatch()
	req.ScheduledDeparture = "10:10"
	req.ScheduledArrival = "06:00"
	if _, err := f.svc.CreateTrip(context.Background(), req); !errors.Is(err, service.ErrScheduleOrder) {
		t.Errorf("err = %v, want ErrScheduleOrder", err)
	}

	req = validDispatch()
	req.ScheduledArrival = req.ScheduledDeparture
	if _, err := f.svc.CreateTrip(context.Background(), req); !errors.Is(err, service.ErrScheduleOrder) {
		t.Errorf("equal times: err = %v, want ErrScheduleOrder", err)
	}
}

func TestCreateTrip_DuplicateRunningNumber(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateTrip(ctx, validDispatch()); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}

	req := validDispatch()
	req.ScheduledDeparture = "14:00"
	req.ScheduledArrival = "18:00"
	if _, err := f.svc.CreateTrip(ctx, req); !errors.Is(err, service.ErrDuplicateRunningNumber) {
		t.Errorf("err = %v, want ErrDuplicateRunningNumber", err)
	}
}

func TestCreateTrip_InactiveBus(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	f.busRepo.AddBus(&domain.Bus{
		RegistrationNumber: "NB-5678",
		Status:             domain.BusStatusInactive,
	})

	req := validDispatch()
	req.BusRegistrationNumber = "NB-5678"
	if _, err := f.svc.CreateTrip(context.Background(), req); !errors.Is(err, service.ErrBusNotActive) {
		t.Errorf("err = %v, want ErrBusNotActive", err)
	}
}

func TestCreateTrip_InactiveRoute(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	f.routeRepo.AddRoute(&domain.Route{
		RouteNumber: "CK-9",
		Active:      false,
		Stops:       []domain.Stop{{LocationName: "A"}, {LocationName: "B"}},
	})

	req := validDispatch()
	req.RouteNumber = "CK-9"
	if _, err := f.svc.CreateTrip(context.Background(), req); !errors.Is(err, service.ErrRouteNotActive) {
		t.Errorf("err = %v, want ErrRouteNotActive", err)
	}
}

func TestCreateTrip_BusScheduleConflict(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateTrip(ctx, validDispatch()); err != nil {
		t.Fatalf("first dispatch: %v", err)
	}

	// Overlapping window on the same bus.
	req := validDispatch()
	req.RunningNumber = "CKN2"
	req.ScheduledDeparture = "09:00"
	req.ScheduledArrival = "13:00"
	if _, err := f.svc.CreateTrip(ctx, req); !errors.Is(err, service.ErrBusScheduleConflict) {
		t.Errorf("err = %v, want ErrBusScheduleConflict", err)
	}

	// Back-to-back windows do not conflict.
	req = validDispatch()
	req.RunningNumber = "CKN3"
	req.ScheduledDeparture = "10:10"
	req.ScheduledArrival = "14:00"
	if _, err := f.svc.CreateTrip(ctx, req); err != nil {
		t.Errorf("adjacent window: unexpected error: %v", err)
	}
}

// ──────────────────────────────────────────────
// TRIP LIFECYCLE VIA SERVICE
// ──────────────────────────────────────────────

func TestTripLifecycle_StartCompleteThroughService(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	trip, err := f.svc.CreateTrip(ctx, validDispatch())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	started, err := f.svc.StartTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != domain.TripStatusInProgress {
		t.Errorf("status = %s, want in-progress", started.Status)
	}
	// Fixture clock pins the wall time at 05:30.
	if started.ActualDeparture != "05:30" {
		t.Errorf("actual departure = %q, want %q", started.ActualDeparture, "05:30")
	}

	completed, err := f.svc.CompleteTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.TripStatusCompleted {
		t.Errorf("status = %s, want completed", completed.Status)
	}
}

func TestTripLifecycle_CompleteScheduled_Fails(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	trip, err := f.svc.CreateTrip(ctx, validDispatch())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if _, err := f.svc.CompleteTrip(ctx, trip.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestTripLifecycle_CancelRemovesLivePosition(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	trip, err := f.svc.CreateTrip(ctx, validDispatch())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	cancelled, err := f.svc.CancelTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.TripStatusCancelled {
		t.Errorf("status = %s, want cancelled", cancelled.Status)
	}
	if f.liveStore.RemoveCallCount != 1 {
		t.Errorf("remove position calls = %d, want 1", f.liveStore.RemoveCallCount)
	}

	if _, err := f.svc.CancelTrip(ctx, trip.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("cancel again: err = %v, want ErrInvalidTransition", err)
	}
}

// ──────────────────────────────────────────────
// COMMUTER SEARCH
// ──────────────────────────────────────────────

func TestSearchTrips_ByOriginAndDestination(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	if _, err := f.svc.CreateTrip(ctx, validDispatch()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	result, err := f.svc.SearchTrips(ctx, service.SearchTripsRequest{
		Origin:      "colombo",
		Destination: "kandy",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || len(result.Trips) != 1 {
		t.Fatalf("total = %d, trips = %d, want 1 each", result.Total, len(result.Trips))
	}
	if result.Trips[0].RunningNumber != "CKN1" {
		t.Errorf("running number = %q, want CKN1", result.Trips[0].RunningNumber)
	}
}

func TestSearchTrips_ExcludesFinishedTrips(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	f.tripRepo.AddTrip(&domain.Trip{
		ID:                 "trip-done",
		RunningNumber:      "CKN8",
		RouteNumber:        "CK-1",
		ScheduledDeparture: "05:00",
		ScheduledArrival:   "09:00",
		Status:             domain.TripStatusCompleted,
	})

	result, err := f.svc.SearchTrips(ctx, service.SearchTripsRequest{Origin: "colombo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("total = %d, want 0", result.Total)
	}
}

func TestSearchTrips_RequiresCriteria(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()

	if _, err := f.svc.SearchTrips(context.Background(), service.SearchTripsRequest{}); !errors.Is(err, service.ErrSearchCriteria) {
		t.Errorf("err = %v, want ErrSearchCriteria", err)
	}
}

func TestSearchTrips_NoMatchingRoutes(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()

	result, err := f.svc.SearchTrips(context.Background(), service.SearchTripsRequest{Origin: "Jaffna"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Trips) != 0 {
		t.Errorf("expected empty result, got total=%d trips=%d", result.Total, len(result.Trips))
	}
}
