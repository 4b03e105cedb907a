package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parking/internal/repository"
	"parking/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
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
		errors.Is(err, service.ErrVehicleNotFound),
		errors.Is(err, service.ErrEntranceNotFound),
		errors.Is(err, service.ErrSpaceNotFound),
		errors.Is(err, service.ErrTicketNotFound):
		return http.StatusNotFound

	// Business-rule violations - Bad Request
	case errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidEntranceID),
		errors.Is(err, service.ErrInvalidSpaceID),
		errors.Is(err, service.ErrInvalidPlateNumber),
		errors.Is(err, service.ErrInvalidSize),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrVehicleAlreadyParked),
		errors.Is(err, service.ErrVehicleNotParked),
		errors.Is(err, service.ErrSpaceOccupied),
		errors.Is(err, service.ErrTicketHasActiveSession),
		errors.Is(err, service.ErrNoActiveSession),
		errors.Is(err, service.ErrSpaceAlreadyAssigned):
		return http.StatusBadRequest

	// Garage-level availability gates
	case errors.Is(err, service.ErrParkingClosed),
		errors.Is(err, service.ErrNoSpaceAvailable):
		return http.StatusMethodNotAllowed

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
