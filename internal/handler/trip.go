package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bustrack/internal/domain"
	"bustrack/internal/repository"
	"bustrack/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request body for dispatching a trip.
type CreateTripRequest struct {
	RunningNumber         string `json:"running_number"`
	BusRegistrationNumber string `json:"bus_registration_number"`
	RouteNumber           string `json:"route_number"`
	ScheduledDeparture    string `json:"scheduled_departure"`
	ScheduledArrival      string `json:"scheduled_arrival"`
	ServiceType           string `json:"service_type,omitempty"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID                    string        `json:"id"`
	RunningNumber         string        `json:"running_number"`
	BusRegistrationNumber string        `json:"bus_registration_number"`
	RouteNumber           string        `json:"route_number"`
	ScheduledDeparture    string        `json:"scheduled_departure"`
	ScheduledArrival      string        `json:"scheduled_arrival"`
	ActualDeparture       string        `json:"actual_departure,omitempty"`
	ActualArrival         string        `json:"actual_arrival,omitempty"`
	Status                string        `json:"status"`
	ServiceType           string        `json:"service_type"`
	Stops                 []domain.Stop `json:"stops,omitempty"`
}

func tripResponse(trip *domain.Trip, includeStops bool) TripResponse {
	response := TripResponse{
		ID:                    trip.ID,
		RunningNumber:         trip.RunningNumber,
		BusRegistrationNumber: trip.BusRegistrationNumber,
		RouteNumber:           trip.RouteNumber,
		ScheduledDeparture:    trip.ScheduledDeparture,
		ScheduledArrival:      trip.ScheduledArrival,
		ActualDeparture:       trip.ActualDeparture,
		ActualArrival:         trip.ActualArrival,
		Status:                string(trip.Status),
		ServiceType:           string(trip.ServiceType),
	}
	if includeStops {
		response.Stops = trip.Stops
	}
	return response
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		RunningNumber:         req.RunningNumber,
		BusRegistrationNumber: req.BusRegistrationNumber,
		RouteNumber:           req.RouteNumber,
		ScheduledDeparture:    req.ScheduledDeparture,
		ScheduledArrival:      req.ScheduledArrival,
		ServiceType:           req.ServiceType,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripResponse(trip, true))
}

// Get handles GET /v1/trips/:id
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip, true))
}

// GetByRunningNumber handles GET /v1/trips/running/:runningNumber
func (h *TripHandler) GetByRunningNumber(c *gin.Context) {
	trip, err := h.tripService.GetTripByRunningNumber(c.Request.Context(), c.Param("runningNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip, true))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	filter := repository.TripFilter{
		Status:                domain.TripStatus(c.Query("status")),
		BusRegistrationNumber: c.Query("bus"),
		RouteNumber:           c.Query("route"),
		ServiceType:           domain.ServiceType(c.Query("service_type")),
		DepartureAfter:        c.Query("departure_after"),
		DepartureBefore:       c.Query("departure_before"),
	}

	trips, err := h.tripService.GetAllTrips(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, tripResponse(trip, false))
	}

	respondJSON(c, http.StatusOK, response)
}

// Start handles POST /v1/trips/:id/start
func (h *TripHandler) Start(c *gin.Context) {
	trip, err := h.tripService.StartTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip, false))
}

// Complete handles POST /v1/trips/:id/complete
func (h *TripHandler) Complete(c *gin.Context) {
	trip, err := h.tripService.CompleteTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip, false))
}

// Cancel handles POST /v1/trips/:id/cancel
func (h *TripHandler) Cancel(c *gin.Context) {
	trip, err := h.tripService.CancelTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, tripResponse(trip, false))
}

// SearchResponse is one page of commuter trip search results.
type SearchResponse struct {
	Trips []TripResponse `json:"trips"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Count int            `json:"count"`
}

// Search handles GET /v1/trips/search
func (h *TripHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.tripService.SearchTrips(c.Request.Context(), service.SearchTripsRequest{
		Origin:         c.Query("origin"),
		Destination:    c.Query("destination"),
		DepartureAfter: c.Query("departure_after"),
		ServiceType:    c.Query("service_type"),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := SearchResponse{
		Total: result.Total,
		Page:  result.Page,
		Count: len(result.Trips),
	}
	for _, trip := range result.Trips {
		response.Trips = append(response.Trips, tripResponse(trip, false))
	}

	respondJSON(c, http.StatusOK, response)
}
