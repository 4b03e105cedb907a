package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parking/internal/domain"
	"parking/internal/repository"
	"parking/internal/service"
)

// VehicleHandler handles HTTP requests for vehicles, including the entry
// and exit operations.
type VehicleHandler struct {
	garageService *service.GarageService
	vehicleRepo   repository.VehicleRepository
	clock         service.Clock
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(garageService *service.GarageService, vehicleRepo repository.VehicleRepository, clock service.Clock) *VehicleHandler {
	return &VehicleHandler{
		garageService: garageService,
		vehicleRepo:   vehicleRepo,
		clock:         clock,
	}
}

// RegisterVehicleRequest is the HTTP request body for vehicle registration.
type RegisterVehicleRequest struct {
	PlateNumber string `json:"plate_number"`
	Size        string `json:"size"`
}

// VehicleResponse is the HTTP response for vehicle data.
type VehicleResponse struct {
	ID          string `json:"id"`
	PlateNumber string `json:"plate_number"`
	Size        string `json:"size"`
}

// EnterRequest is the HTTP request body for vehicle entry.
type EnterRequest struct {
	EntranceID string `json:"entrance_id"`
}

// EnterResponse is the HTTP response for vehicle entry.
type EnterResponse struct {
	Entrance EntranceResponse `json:"entrance"`
	Space    SpaceResponse    `json:"space"`
	Ticket   TicketResponse   `json:"ticket"`
	Session  SessionResponse  `json:"session"`
}

// ExitResponse is the HTTP response for vehicle exit.
type ExitResponse struct {
	Ticket    TicketResponse    `json:"ticket"`
	Session   SessionResponse   `json:"session"`
	Breakdown []SessionResponse `json:"breakdown"`
}

// CostPreviewResponse is the HTTP response for a cost preview.
type CostPreviewResponse struct {
	Cost           float64 `json:"cost"`
	TotalHours     float64 `json:"total_hours"`
	HoursBeingPaid float64 `json:"hours_being_paid"`
}

// Register handles POST /v1/vehicles/register
func (h *VehicleHandler) Register(c *gin.Context) {
	var req RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.PlateNumber == "" {
		respondError(c, service.ErrInvalidPlateNumber)
		return
	}

	size, ok := domain.ParseSize(req.Size)
	if !ok {
		respondError(c, service.ErrInvalidSize)
		return
	}

	// Check if the plate is already registered
	existing, err := h.vehicleRepo.GetByPlateNumber(c.Request.Context(), req.PlateNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Vehicle already registered",
			"vehicle": vehicleResponse(existing),
		})
		return
	}

	vehicle := &domain.Vehicle{
		ID:          uuid.New().String(),
		PlateNumber: req.PlateNumber,
		Size:        size,
		CreatedAt:   h.clock.Now(),
	}

	if err := h.vehicleRepo.Create(c.Request.Context(), vehicle); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, vehicleResponse(vehicle))
}

// GetAll handles GET /v1/vehicles
func (h *VehicleHandler) GetAll(c *gin.Context) {
	vehicles, err := h.vehicleRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var response []VehicleResponse
	for _, v := range vehicles {
		response = append(response, vehicleResponse(v))
	}

	c.JSON(http.StatusOK, response)
}

// Enter handles POST /v1/vehicles/:id/enter
func (h *VehicleHandler) Enter(c *gin.Context) {
	vehicleID := c.Param("id")

	var req EnterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.garageService.Enter(c.Request.Context(), req.EntranceID, vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, EnterResponse{
		Entrance: entranceResponse(result.Entrance),
		Space:    spaceWithDistanceResponse(result.Space),
		Ticket:   ticketResponse(result.Ticket),
		Session:  sessionResponse(result.Session),
	})
}

// Exit handles POST /v1/vehicles/:id/exit
func (h *VehicleHandler) Exit(c *gin.Context) {
	vehicleID := c.Param("id")

	result, err := h.garageService.Exit(c.Request.Context(), vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := ExitResponse{
		Ticket:  ticketResponse(result.Ticket),
		Session: sessionResponse(result.Session),
	}
	for _, s := range result.Breakdown {
		response.Breakdown = append(response.Breakdown, sessionResponse(s))
	}

	respondJSON(c, http.StatusOK, response)
}

// CostPreview handles GET /v1/vehicles/:id/cost
func (h *VehicleHandler) CostPreview(c *gin.Context) {
	vehicleID := c.Param("id")

	result, err := h.garageService.CostPreview(c.Request.Context(), vehicleID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CostPreviewResponse{
		Cost:           result.Cost,
		TotalHours:     result.TotalHours,
		HoursBeingPaid: result.HoursBeingPaid,
	})
}

func vehicleResponse(v *domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          v.ID,
		PlateNumber: v.PlateNumber,
		Size:        v.Size.String(),
	}
}
