package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bustrack/internal/domain"
	"bustrack/internal/service"
)

// BusHandler handles HTTP requests for buses.
type BusHandler struct {
	busService *service.BusService
}

// NewBusHandler creates a new BusHandler.
func NewBusHandler(busService *service.BusService) *BusHandler {
	return &BusHandler{busService: busService}
}

// RegisterBusRequest is the HTTP request body for registering a bus.
type RegisterBusRequest struct {
	RegistrationNumber string `json:"registration_number"`
	BusNumber          string `json:"bus_number"`
	Type               string `json:"type,omitempty"`
	Capacity           int    `json:"capacity"`
}

// UpdateBusStatusRequest is the HTTP request body for setting bus status.
type UpdateBusStatusRequest struct {
	Status string `json:"status"`
}

// BusResponse is the HTTP response for bus data.
type BusResponse struct {
	ID                 string `json:"id"`
	RegistrationNumber string `json:"registration_number"`
	BusNumber          string `json:"bus_number"`
	Type               string `json:"type"`
	Capacity           int    `json:"capacity"`
	Status             string `json:"status"`
}

func busResponse(bus *domain.Bus) BusResponse {
	return BusResponse{
		ID:                 bus.ID,
		RegistrationNumber: bus.RegistrationNumber,
		BusNumber:          bus.BusNumber,
		Type:               string(bus.Type),
		Capacity:           bus.Capacity,
		Status:             string(bus.Status),
	}
}

// Register handles POST /v1/buses/register
func (h *BusHandler) Register(c *gin.Context) {
	var req RegisterBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	bus, err := h.busService.RegisterBus(c.Request.Context(), service.RegisterBusRequest{
		RegistrationNumber: req.RegistrationNumber,
		BusNumber:          req.BusNumber,
		Type:               req.Type,
		Capacity:           req.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, busResponse(bus))
}

// Get handles GET /v1/buses/:registration
func (h *BusHandler) Get(c *gin.Context) {
	bus, err := h.busService.GetBus(c.Request.Context(), c.Param("registration"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, busResponse(bus))
}

// GetAll handles GET /v1/buses
func (h *BusHandler) GetAll(c *gin.Context) {
	buses, err := h.busService.GetAllBuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BusResponse, 0, len(buses))
	for _, bus := range buses {
		response = append(response, busResponse(bus))
	}

	respondJSON(c, http.StatusOK, response)
}

// UpdateStatus handles POST /v1/buses/:registration/status
func (h *BusHandler) UpdateStatus(c *gin.Context) {
	var req UpdateBusStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status := domain.BusStatus(req.Status)
	if status != domain.BusStatusActive && status != domain.BusStatusInactive {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "status must be active or inactive"})
		return
	}

	if err := h.busService.SetBusStatus(c.Request.Context(), c.Param("registration"), status); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": string(status)})
}
