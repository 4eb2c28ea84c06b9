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
// COMMUTER TRACKING READS
// ──────────────────────────────────────────────

var trackingNow = time.Date(2025, 3, 14, 7, 0, 0, 0, time.UTC)

type trackingFixture struct {
	tripRepo     *MockTripRepository
	routeRepo    *MockRouteRepository
	locationRepo *MockLocationRepository
	svc          *service.TrackingService
}

func newTrackingFixture() *trackingFixture {
	tripRepo := NewMockTripRepository()
	routeRepo := NewMockRouteRepository()
	locationRepo := NewMockLocationRepository()

	routeRepo.AddRoute(&domain.Route{
		RouteNumber: "CK-1",
		Name:        "Colombo - Kandy",
		Origin:      "Colombo",
		Destination: "Kandy",
		Active:      true,
	})

	svc := service.NewTrackingService(
		tripRepo, routeRepo, locationRepo,
		timeutil.FixedClock{Time: trackingNow},
	)

	return &trackingFixture{
		tripRepo:     tripRepo,
		routeRepo:    routeRepo,
		locationRepo: locationRepo,
		svc:          svc,
	}
}

func (f *trackingFixture) addInProgressTrip(id, runningNumber, registration string) *domain.Trip {
	trip := &domain.Trip{
		ID:                    id,
		RunningNumber:         runningNumber,
		BusRegistrationNumber: registration,
		RouteNumber:           "CK-1",
		ScheduledDeparture:    "06:00",
		ScheduledArrival:      "10:10",
		Status:                domain.TripStatusInProgress,
		ServiceType:           domain.ServiceTypeNormal,
		Stops: []domain.Stop{
			{LocationName: "Colombo", TravelTimeToNext: 40},
			{LocationName: "Nittambuwa", ScheduledArrival: "06:40", TravelTimeToNext: 35},
			{LocationName: "Kandy", ScheduledArrival: "10:10"},
		},
	}
	f.tripRepo.AddTrip(trip)
	return trip
}

func (f *trackingFixture) addReport(tripID string, stopIndex int, stopName, arrival string, delay int, age time.Duration) {
	f.locationRepo.AddEvent(&domain.LocationEvent{
		ID:            tripID + "-" + stopName,
		TripID:        tripID,
		StopName:      stopName,
		StopIndex:     stopIndex,
		ActualArrival: arrival,
		DelayMinutes:  delay,
		Status:        domain.ClassifyDelay(delay),
		CreatedAt:     trackingNow.Add(-age),
	})
}

func TestTrackBus_ActiveWithRecentReport(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()
	f.addInProgressTrip("trip-1", "CKN1", "NA-1234")
	f.addReport("trip-1", 1, "Nittambuwa", "06:48", 8, 5*time.Minute)

	info, err := f.svc.TrackBus(context.Background(), "na-1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info.BusStatus != "Active" {
		t.Errorf("bus status = %q, want Active", info.BusStatus)
	}
	if info.LastStopLocation != "Nittambuwa" {
		t.Errorf("last stop = %q, want Nittambuwa", info.LastStopLocation)
	}
	if info.NextStopLocation != "Kandy" {
		t.Errorf("next stop = %q, want Kandy", info.NextStopLocation)
	}
	if info.TimeAgo != "5 minutes ago" {
		t.Errorf("time ago = %q, want %q", info.TimeAgo, "5 minutes ago")
	}
	// 35 minutes travel plus 8 minutes accumulated delay.
	if info.EstimatedArrival != "43 minutes" {
		t.Errorf("eta = %q, want %q", info.EstimatedArrival, "43 minutes")
	}
}

func TestTrackBus_StaleReportShowsLastSeen(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()
	f.addInProgressTrip("trip-1", "CKN1", "NA-1234")
	f.addReport("trip-1", 1, "Nittambuwa", "06:48", 8, 20*time.Minute)

	info, err := f.svc.TrackBus(context.Background(), "NA-1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.BusStatus != "Last seen" {
		t.Errorf("bus status = %q, want Last seen", info.BusStatus)
	}
}

func TestTrackBus_AtLastStop(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()
	f.addInProgressTrip("trip-1", "CKN1", "NA-1234")
	f.addReport("trip-1", 2, "Kandy", "10:15", 5, time.Minute)

	info, err := f.svc.TrackBus(context.Background(), "NA-1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.NextStopLocation != "Final destination" {
		t.Errorf("next stop = %q, want Final destination", info.NextStopLocation)
	}
	if info.EstimatedArrival != "Final destination" {
		t.Errorf("eta = %q, want Final destination", info.EstimatedArrival)
	}
}

func TestTrackBus_NoActiveTrip(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()

	if _, err := f.svc.TrackBus(context.Background(), "NA-1234"); !errors.Is(err, service.ErrNoActiveTrip) {
		t.Errorf("err = %v, want ErrNoActiveTrip", err)
	}
}

func TestTrackBus_NoReportsYet(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()
	f.addInProgressTrip("trip-1", "CKN1", "NA-1234")

	if _, err := f.svc.TrackBus(context.Background(), "NA-1234"); !errors.Is(err, service.ErrNoLocationData) {
		t.Errorf("err = %v, want ErrNoLocationData", err)
	}
}

func TestBusesOnRoute_FiltersStaleReports(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()
	f.addInProgressTrip("trip-1", "CKN1", "NA-1234")
	f.addInProgressTrip("trip-2", "CKN2", "NB-5678")
	f.addInProgressTrip("trip-3", "CKN3", "NC-9012")
	f.addReport("trip-1", 0, "Colombo", "06:05", 5, 2*time.Minute)
	f.addReport("trip-2", 1, "Nittambuwa", "06:48", 8, time.Hour)
	// trip-3 has never reported.

	result, err := f.svc.BusesOnRoute(context.Background(), "ck-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RouteName != "Colombo - Kandy" {
		t.Errorf("route name = %q", result.RouteName)
	}
	if len(result.ActiveBuses) != 1 {
		t.Fatalf("active buses = %d, want 1", len(result.ActiveBuses))
	}
	bus := result.ActiveBuses[0]
	if bus.RunningNumber != "CKN1" {
		t.Errorf("running number = %q, want CKN1", bus.RunningNumber)
	}
	if bus.NextStop != "Nittambuwa" {
		t.Errorf("next stop = %q, want Nittambuwa", bus.NextStop)
	}
	// 40 minutes travel plus 5 minutes delay.
	if bus.EstimatedArrival != "45 minutes" {
		t.Errorf("eta = %q, want %q", bus.EstimatedArrival, "45 minutes")
	}
}

func TestBusesOnRoute_UnknownRoute(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()

	if _, err := f.svc.BusesOnRoute(context.Background(), "CK-99"); err == nil {
		t.Error("expected error for unknown route")
	}
}

func TestTrackTrip_HistoryAndProjection(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()
	f.addInProgressTrip("trip-1", "CKN1", "NA-1234")
	f.addReport("trip-1", 0, "Colombo", "06:05", 5, 25*time.Minute)
	f.addReport("trip-1", 1, "Nittambuwa", "06:48", 8, 3*time.Minute)

	tracking, err := f.svc.TrackTrip(context.Background(), "ckn1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tracking.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(tracking.History))
	}
	if tracking.History[0].StopName != "Colombo" {
		t.Errorf("history[0] = %q, want Colombo", tracking.History[0].StopName)
	}
	if tracking.CurrentStop == nil || tracking.CurrentStop.StopName != "Nittambuwa" {
		t.Fatalf("current stop = %+v", tracking.CurrentStop)
	}
	if tracking.CurrentTimeAgo != "3 minutes ago" {
		t.Errorf("time ago = %q, want %q", tracking.CurrentTimeAgo, "3 minutes ago")
	}
	if tracking.NextStop == nil || tracking.NextStop.LocationName != "Kandy" {
		t.Errorf("next stop = %+v", tracking.NextStop)
	}
}

func TestTrackTrip_NoReports(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()
	f.addInProgressTrip("trip-1", "CKN1", "NA-1234")

	tracking, err := f.svc.TrackTrip(context.Background(), "CKN1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tracking.CurrentStop != nil {
		t.Error("expected no current stop")
	}
	if len(tracking.History) != 0 {
		t.Errorf("history length = %d, want 0", len(tracking.History))
	}
}

func TestLiveLocations_RouteFilter(t *testing.T) {
	t.Parallel()

	f := newTrackingFixture()
	f.addInProgressTrip("trip-1", "CKN1", "NA-1234")
	f.addReport("trip-1", 0, "Colombo", "06:05", 5, time.Minute)

	other := f.addInProgressTrip("trip-2", "GLX1", "NB-5678")
	other.RouteNumber = "CG-2"
	f.addReport("trip-2", 0, "Colombo", "06:10", 10, time.Minute)

	all, err := f.svc.LiveLocations(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all live = %d, want 2", len(all))
	}

	filtered, err := f.svc.LiveLocations(context.Background(), "CK-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("filtered live = %d, want 1", len(filtered))
	}
	if filtered[0].Trip.RunningNumber != "CKN1" {
		t.Errorf("running number = %q, want CKN1", filtered[0].Trip.RunningNumber)
	}
	if filtered[0].TimeAgo != "1 minute ago" {
		t.Errorf("time ago = %q, want %q", filtered[0].TimeAgo, "1 minute ago")
	}
}
