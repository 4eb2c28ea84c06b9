package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bustrack/internal/service"
)

// TrackingHandler handles the commuter-facing tracking queries.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// BusTrackingResponse is the commuter view of one tracked bus.
type BusTrackingResponse struct {
	RouteNumber           string `json:"route_number"`
	BusRegistrationNumber string `json:"bus_registration_number"`
	RunningNumber         string `json:"running_number"`
	LastStopLocation      string `json:"last_stop_location"`
	LastSeenTime          string `json:"last_seen_time"`
	TimeAgo               string `json:"time_ago"`
	NextStopLocation      string `json:"next_stop_location"`
	EstimatedArrival      string `json:"estimated_arrival"`
	DelayStatus           string `json:"delay_status"`
	BusStatus             string `json:"bus_status"`
}

// TrackBus handles GET /v1/tracking/bus/:registration
func (h *TrackingHandler) TrackBus(c *gin.Context) {
	info, err := h.trackingService.TrackBus(c.Request.Context(), c.Param("registration"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BusTrackingResponse{
		RouteNumber:           info.RouteNumber,
		BusRegistrationNumber: info.BusRegistrationNumber,
		RunningNumber:         info.RunningNumber,
		LastStopLocation:      info.LastStopLocation,
		LastSeenTime:          info.LastSeenTime,
		TimeAgo:               info.TimeAgo,
		NextStopLocation:      info.NextStopLocation,
		EstimatedArrival:      info.EstimatedArrival,
		DelayStatus:           info.DelayStatus,
		BusStatus:             info.BusStatus,
	})
}

// ActiveBusResponse is one live bus on a route.
type ActiveBusResponse struct {
	BusRegistrationNumber string `json:"bus_registration_number"`
	RunningNumber         string `json:"running_number"`
	ServiceType           string `json:"service_type"`
	CurrentStop           string `json:"current_stop"`
	LastUpdated           string `json:"last_updated"`
	NextStop              string `json:"next_stop"`
	EstimatedArrival      string `json:"estimated_arrival"`
	Status                string `json:"status"`
	Notes                 string `json:"notes,omitempty"`
}

// BusesOnRouteResponse lists the live buses on one route.
type BusesOnRouteResponse struct {
	RouteNumber      string              `json:"route_number"`
	RouteName        string              `json:"route_name"`
	Origin           string              `json:"origin"`
	Destination      string              `json:"destination"`
	ActiveBuses      []ActiveBusResponse `json:"active_buses"`
	TotalActiveBuses int                 `json:"total_active_buses"`
}

// BusesOnRoute handles GET /v1/tracking/route/:routeNumber
func (h *TrackingHandler) BusesOnRoute(c *gin.Context) {
	result, err := h.trackingService.BusesOnRoute(c.Request.Context(), c.Param("routeNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := BusesOnRouteResponse{
		RouteNumber: result.RouteNumber,
		RouteName:   result.RouteName,
		Origin:      result.Origin,
		Destination: result.Destination,
		ActiveBuses: make([]ActiveBusResponse, 0, len(result.ActiveBuses)),
	}
	for _, bus := range result.ActiveBuses {
		response.ActiveBuses = append(response.ActiveBuses, ActiveBusResponse{
			BusRegistrationNumber: bus.BusRegistrationNumber,
			RunningNumber:         bus.RunningNumber,
			ServiceType:           bus.ServiceType,
			CurrentStop:           bus.CurrentStop,
			LastUpdated:           bus.LastUpdated,
			NextStop:              bus.NextStop,
			EstimatedArrival:      bus.EstimatedArrival,
			Status:                bus.Status,
			Notes:                 bus.Notes,
		})
	}
	response.TotalActiveBuses = len(response.ActiveBuses)

	respondJSON(c, http.StatusOK, response)
}

// TripTrackingResponse is the playback view of one trip.
type TripTrackingResponse struct {
	Trip             TripResponse            `json:"trip"`
	CurrentLocation  *LocationEventResponse  `json:"current_location,omitempty"`
	CurrentTimeAgo   string                  `json:"current_time_ago,omitempty"`
	NextStop         string                  `json:"next_stop,omitempty"`
	EstimatedArrival string                  `json:"estimated_arrival,omitempty"`
	RouteHistory     []LocationEventResponse `json:"route_history"`
	TotalPoints      int                     `json:"total_points"`
}

// TrackTrip handles GET /v1/tracking/trip/:runningNumber
func (h *TrackingHandler) TrackTrip(c *gin.Context) {
	tracking, err := h.trackingService.TrackTrip(c.Request.Context(), c.Param("runningNumber"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := TripTrackingResponse{
		Trip:         tripResponse(tracking.Trip, true),
		RouteHistory: make([]LocationEventResponse, 0, len(tracking.History)),
	}
	for _, event := range tracking.History {
		response.RouteHistory = append(response.RouteHistory, eventResponse(event))
	}
	response.TotalPoints = len(response.RouteHistory)

	if tracking.CurrentStop != nil {
		current := eventResponse(tracking.CurrentStop)
		response.CurrentLocation = &current
		response.CurrentTimeAgo = tracking.CurrentTimeAgo
		response.EstimatedArrival = tracking.EstimatedArrival
		if tracking.NextStop != nil {
			response.NextStop = tracking.NextStop.LocationName
		}
	}

	respondJSON(c, http.StatusOK, response)
}

// LiveLocationResponse is one live trip position.
type LiveLocationResponse struct {
	Trip     TripResponse          `json:"trip"`
	Location LocationEventResponse `json:"location"`
	TimeAgo  string                `json:"time_ago"`
	NextStop string                `json:"next_stop,omitempty"`
}

// Live handles GET /v1/tracking/live
func (h *TrackingHandler) Live(c *gin.Context) {
	live, err := h.trackingService.LiveLocations(c.Request.Context(), c.Query("route"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]LiveLocationResponse, 0, len(live))
	for _, entry := range live {
		response = append(response, LiveLocationResponse{
			Trip:     tripResponse(entry.Trip, false),
			Location: eventResponse(entry.Event),
			TimeAgo:  entry.TimeAgo,
			NextStop: entry.NextStop,
		})
	}

	respondJSON(c, http.StatusOK, gin.H{"live_locations": response, "count": len(response)})
}
