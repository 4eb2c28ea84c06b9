package tests

import (
	"context"
	"errors"
	"testing"

	"bustrack/internal/domain"
	"bustrack/internal/service"
	"bustrack/internal/timeutil"
)

// ──────────────────────────────────────────────
// FLEET REGISTRY
// ──────────────────────────────────────────────

func TestRegisterBus_NormalizesRegistration(t *testing.T) {
	t.Parallel()

	busRepo := NewMockBusRepository()
	svc := service.NewBusService(busRepo)

	bus, err := svc.RegisterBus(context.Background(), service.RegisterBusRequest{
		RegistrationNumber: "  na-1234 ",
		BusNumber:          "15",
		Capacity:           54,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bus.RegistrationNumber != "NA-1234" {
		t.Errorf("registration = %q, want NA-1234", bus.RegistrationNumber)
	}
	if bus.Status != domain.BusStatusActive {
		t.Errorf("status = %s, want active", bus.Status)
	}
	if bus.Type != domain.BusTypeStandard {
		t.Errorf("type = %s, want standard default", bus.Type)
	}
}

func TestRegisterBus_IdempotentOnExisting(t *testing.T) {
	t.Parallel()

	busRepo := NewMockBusRepository()
	svc := service.NewBusService(busRepo)
	ctx := context.Background()

	first, err := svc.RegisterBus(ctx, service.RegisterBusRequest{RegistrationNumber: "NA-1234"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.RegisterBus(ctx, service.RegisterBusRequest{RegistrationNumber: "na-1234", Capacity: 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second registration created a new bus: %q vs %q", second.ID, first.ID)
	}
	if busRepo.CreateCallCount != 1 {
		t.Errorf("create calls = %d, want 1", busRepo.CreateCallCount)
	}
}

func TestSetBusStatus(t *testing.T) {
	t.Parallel()

	busRepo := NewMockBusRepository()
	busRepo.AddBus(&domain.Bus{RegistrationNumber: "NA-1234", Status: domain.BusStatusActive})
	svc := service.NewBusService(busRepo)
	ctx := context.Background()

	if err := svc.SetBusStatus(ctx, "na-1234", domain.BusStatusInactive); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bus, err := svc.GetBus(ctx, "NA-1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bus.Status != domain.BusStatusInactive {
		t.Errorf("status = %s, want inactive", bus.Status)
	}
}

// ──────────────────────────────────────────────
// ROUTE MANAGEMENT
// ──────────────────────────────────────────────

func validRoute() service.CreateRouteRequest {
	return service.CreateRouteRequest{
		RouteNumber:     "ck-1",
		Name:            "Colombo - Kandy",
		Origin:          "Colombo",
		Destination:     "Kandy",
		TotalDistanceKm: 115.5,
		Stops: []domain.Stop{
			{LocationName: "Colombo", ScheduledArrival: "06:00", ScheduledDeparture: "06:00"},
			{LocationName: "Nittambuwa", ScheduledArrival: "06:40"},
			{LocationName: "Kandy", ScheduledArrival: "10:10"},
		},
	}
}

func TestCreateRoute(t *testing.T) {
	t.Parallel()

	routeRepo := NewMockRouteRepository()
	svc := service.NewRouteService(routeRepo, nil)

	route, err := svc.CreateRoute(context.Background(), validRoute())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.RouteNumber != "CK-1" {
		t.Errorf("route number = %q, want CK-1", route.RouteNumber)
	}
	if !route.Active {
		t.Error("new route must be active")
	}
}

func TestCreateRoute_Validation(t *testing.T) {
	t.Parallel()

	routeRepo := NewMockRouteRepository()
	svc := service.NewRouteService(routeRepo, nil)
	ctx := context.Background()

	req := validRoute()
	req.Stops = req.Stops[:1]
	if _, err := svc.CreateRoute(ctx, req); !errors.Is(err, service.ErrTooFewStops) {
		t.Errorf("one stop: err = %v, want ErrTooFewStops", err)
	}

	req = validRoute()
	req.Destination = "colombo"
	if _, err := svc.CreateRoute(ctx, req); !errors.Is(err, service.ErrSameOriginDestination) {
		t.Errorf("same endpoints: err = %v, want ErrSameOriginDestination", err)
	}

	req = validRoute()
	req.Stops[1].ScheduledArrival = ""
	if _, err := svc.CreateRoute(ctx, req); !errors.Is(err, service.ErrMissingStopTime) {
		t.Errorf("timeless stop: err = %v, want ErrMissingStopTime", err)
	}

	req = validRoute()
	req.Stops[1].ScheduledArrival = "26:00"
	if _, err := svc.CreateRoute(ctx, req); !errors.Is(err, timeutil.ErrFormat) {
		t.Errorf("bad stop time: err = %v, want ErrFormat", err)
	}

	req = validRoute()
	req.Stops[1].LocationName = "  "
	if _, err := svc.CreateRoute(ctx, req); !errors.Is(err, service.ErrInvalidStopName) {
		t.Errorf("blank stop name: err = %v, want ErrInvalidStopName", err)
	}
}

func TestUpdateStops_ReplacesStopList(t *testing.T) {
	t.Parallel()

	routeRepo := NewMockRouteRepository()
	svc := service.NewRouteService(routeRepo, nil)
	ctx := context.Background()

	if _, err := svc.CreateRoute(ctx, validRoute()); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateStops(ctx, "CK-1", []domain.Stop{
		{LocationName: "Colombo", ScheduledArrival: "06:00", ScheduledDeparture: "06:00"},
		{LocationName: "Kegalle", ScheduledArrival: "08:00"},
		{LocationName: "Kandy", ScheduledArrival: "10:10"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Stops) != 3 || updated.Stops[1].LocationName != "Kegalle" {
		t.Errorf("unexpected stops: %+v", updated.Stops)
	}
}

func TestDeactivateRoute(t *testing.T) {
	t.Parallel()

	routeRepo := NewMockRouteRepository()
	svc := service.NewRouteService(routeRepo, nil)
	ctx := context.Background()

	if _, err := svc.CreateRoute(ctx, validRoute()); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeactivateRoute(ctx, "ck-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Deactivated routes drop out of the active listing but remain
	// retrievable for historical trips.
	active, err := svc.GetAllRoutes(ctx, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active routes = %d, want 0", len(active))
	}

	route, err := svc.GetRoute(ctx, "CK-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Active {
		t.Error("route should be inactive")
	}
}
