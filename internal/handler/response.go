package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bustrack/internal/domain"
	"bustrack/internal/repository"
	"bustrack/internal/service"
	"bustrack/internal/timeutil"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error      string   `json:"error"`
	ValidStops []string `json:"valid_stops,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	var stopErr *service.StopNotOnRouteError
	if errors.As(err, &stopErr) {
		// Return the valid stop names so the operator client can
		// correct the report and resubmit.
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:      stopErr.Error(),
			ValidStops: stopErr.ValidStops,
		})
		return
	}

	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoLocationData),
		errors.Is(err, service.ErrNoActiveTrip):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, timeutil.ErrFormat),
		errors.Is(err, service.ErrInvalidRunningNumber),
		errors.Is(err, service.ErrInvalidRegistrationNumber),
		errors.Is(err, service.ErrInvalidRouteNumber),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidStopName),
		errors.Is(err, service.ErrScheduleOrder),
		errors.Is(err, service.ErrTooFewStops),
		errors.Is(err, service.ErrMissingStopTime),
		errors.Is(err, service.ErrSameOriginDestination),
		errors.Is(err, service.ErrSearchCriteria):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, service.ErrDuplicateRunningNumber),
		errors.Is(err, service.ErrBusScheduleConflict),
		errors.Is(err, service.ErrTripBusy):
		return http.StatusConflict

	// Business rule errors
	case errors.Is(err, service.ErrBusNotActive),
		errors.Is(err, service.ErrRouteNotActive):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
