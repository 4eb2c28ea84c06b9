package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bustrack/internal/domain"
	"bustrack/internal/service"
)

// RouteHandler handles HTTP requests for routes.
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// StopRequest is one stop in a route creation/update request.
type StopRequest struct {
	LocationName       string `json:"location_name"`
	ScheduledArrival   string `json:"scheduled_arrival"`
	ScheduledDeparture string `json:"scheduled_departure,omitempty"`
	TravelTimeToNext   int    `json:"travel_time_to_next,omitempty"`
}

// CreateRouteRequest is the HTTP request body for creating a route.
type CreateRouteRequest struct {
	RouteNumber     string        `json:"route_number"`
	Name            string        `json:"name"`
	Origin          string        `json:"origin"`
	Destination     string        `json:"destination"`
	TotalDistanceKm float64       `json:"total_distance_km"`
	Stops           []StopRequest `json:"stops"`
}

// UpdateStopsRequest is the HTTP request body for replacing a route's stops.
type UpdateStopsRequest struct {
	Stops []StopRequest `json:"stops"`
}

// RouteResponse is the HTTP response for route data.
type RouteResponse struct {
	ID              string        `json:"id"`
	RouteNumber     string        `json:"route_number"`
	Name            string        `json:"name"`
	Origin          string        `json:"origin"`
	Destination     string        `json:"destination"`
	TotalDistanceKm float64       `json:"total_distance_km"`
	Stops           []domain.Stop `json:"stops"`
	TotalStops      int           `json:"total_stops"`
	Active          bool          `json:"active"`
}

func routeResponse(route *domain.Route) RouteResponse {
	return RouteResponse{
		ID:              route.ID,
		RouteNumber:     route.RouteNumber,
		Name:            route.Name,
		Origin:          route.Origin,
		Destination:     route.Destination,
		TotalDistanceKm: route.TotalDistanceKm,
		Stops:           route.Stops,
		TotalStops:      len(route.Stops),
		Active:          route.Active,
	}
}

func toDomainStops(stops []StopRequest) []domain.Stop {
	result := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		result = append(result, domain.Stop{
			LocationName:       s.LocationName,
			ScheduledArrival:   s.ScheduledArrival,
			ScheduledDeparture: s.ScheduledDeparture,
			TravelTimeToNext:   s.TravelTimeToNext,
		})
	}
	return result
}

// Create handles POST /v1/routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	route, err := h.routeService.CreateRoute(c.Request.Context(), service.CreateRouteRequest{
		RouteNumber:     req.RouteNumber,
		Name:            req.Name,
		Origin:          req.Origin,
		Destination:     req.Destination,
		TotalDistanceKm: req.TotalDistanceKm,
		Stops:           toDomainStops(req.Stops),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, routeResponse(route))
}

// Get handles GET /v1/routes/:routeNumber
func (h *RouteHandler) Get(c *gin.Context) {
	route, err := h.routeService.GetRoute(c.Request.Context(), c.Param("routeNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, routeResponse(route))
}

// GetAll handles GET /v1/routes
func (h *RouteHandler) GetAll(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	routes, err := h.routeService.GetAllRoutes(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RouteResponse, 0, len(routes))
	for _, route := range routes {
		response = append(response, routeResponse(route))
	}

	respondJSON(c, http.StatusOK, response)
}

// UpdateStops handles PUT /v1/routes/:routeNumber/stops
func (h *RouteHandler) UpdateStops(c *gin.Context) {
	var req UpdateStopsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	route, err := h.routeService.UpdateStops(c.Request.Context(), c.Param("routeNumber"), toDomainStops(req.Stops))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, routeResponse(route))
}

// Deactivate handles POST /v1/routes/:routeNumber/deactivate
func (h *RouteHandler) Deactivate(c *gin.Context) {
	if err := h.routeService.DeactivateRoute(c.Request.Context(), c.Param("routeNumber")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"active": false})
}
