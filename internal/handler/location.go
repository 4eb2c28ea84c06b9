package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bustrack/internal/domain"
	"bustrack/internal/service"
)

// LocationHandler handles HTTP requests for location events.
type LocationHandler struct {
	locationService *service.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locationService *service.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// RecordArrivalRequest is the HTTP request body for a stop report.
type RecordArrivalRequest struct {
	TripID            string `json:"trip_id,omitempty"`
	RunningNumber     string `json:"running_number,omitempty"`
	StopName          string `json:"stop_name"`
	ActualArrivalTime string `json:"actual_arrival_time,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// LocationEventResponse is the HTTP representation of a location event.
type LocationEventResponse struct {
	ID               string `json:"id"`
	TripID           string `json:"trip_id"`
	StopName         string `json:"stop_name"`
	StopIndex        int    `json:"stop_index"`
	ScheduledArrival string `json:"scheduled_arrival"`
	ActualArrival    string `json:"actual_arrival"`
	ActualDeparture  string `json:"actual_departure,omitempty"`
	DelayMinutes     int    `json:"delay_minutes"`
	Status           string `json:"status"`
	Notes            string `json:"notes,omitempty"`
	CreatedAt        string `json:"created_at"`
}

func eventResponse(event *domain.LocationEvent) LocationEventResponse {
	return LocationEventResponse{
		ID:               event.ID,
		TripID:           event.TripID,
		StopName:         event.StopName,
		StopIndex:        event.StopIndex,
		ScheduledArrival: event.ScheduledArrival,
		ActualArrival:    event.ActualArrival,
		ActualDeparture:  event.ActualDeparture,
		DelayMinutes:     event.DelayMinutes,
		Status:           string(event.Status),
		Notes:            event.Notes,
		CreatedAt:        event.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// RecordArrivalResponse is the HTTP response for a recorded stop report.
type RecordArrivalResponse struct {
	Event LocationEventResponse `json:"event"`
	Trip  TripResponse          `json:"trip"`
}

// Record handles POST /v1/locations
func (h *LocationHandler) Record(c *gin.Context) {
	var req RecordArrivalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.locationService.RecordArrival(c.Request.Context(), service.RecordArrivalRequest{
		TripID:            req.TripID,
		RunningNumber:     req.RunningNumber,
		StopName:          req.StopName,
		ActualArrivalTime: req.ActualArrivalTime,
		Notes:             req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RecordArrivalResponse{
		Event: eventResponse(result.Event),
		Trip:  tripResponse(result.Trip, false),
	})
}

// History handles GET /v1/locations/trip/:tripId
func (h *LocationHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := h.locationService.GetHistory(c.Request.Context(), c.Param("tripId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LocationEventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, eventResponse(event))
	}

	respondJSON(c, http.StatusOK, gin.H{"count": len(response), "locations": response})
}

// Latest handles GET /v1/locations/trip/:tripId/latest
func (h *LocationHandler) Latest(c *gin.Context) {
	event, err := h.locationService.GetLatest(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, eventResponse(event))
}

// DeleteHistory handles DELETE /v1/locations/trip/:tripId
func (h *LocationHandler) DeleteHistory(c *gin.Context) {
	deleted, err := h.locationService.DeleteHistory(c.Request.Context(), c.Param("tripId"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"deleted_count": deleted})
}
