package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parking/internal/domain"
	"parking/internal/repository"
	"parking/internal/service"
)

// EntranceHandler handles HTTP requests for entrances and entrance-space
// assignments.
type EntranceHandler struct {
	garageService *service.GarageService
	entranceRepo  repository.EntranceRepository
}

// NewEntranceHandler creates a new EntranceHandler.
func NewEntranceHandler(garageService *service.GarageService, entranceRepo repository.EntranceRepository) *EntranceHandler {
	return &EntranceHandler{
		garageService: garageService,
		entranceRepo:  entranceRepo,
	}
}

// CreateEntranceRequest is the HTTP request body for creating an entrance.
type CreateEntranceRequest struct {
	Name string `json:"name"`
}

// EntranceResponse is the HTTP response for entrance data.
type EntranceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AssignSpaceRequest is the HTTP request body for assigning a space to an
// entrance.
type AssignSpaceRequest struct {
	SpaceID  string `json:"space_id"`
	Distance int    `json:"distance"`
}

// AssignSpaceResponse is the HTTP response for a space assignment.
type AssignSpaceResponse struct {
	ID         string `json:"id"`
	EntranceID string `json:"entrance_id"`
	SpaceID    string `json:"space_id"`
	Distance   int    `json:"distance"`
}

// Create handles POST /v1/entrances
func (h *EntranceHandler) Create(c *gin.Context) {
	var req CreateEntranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	entrance, err := h.garageService.CreateEntrance(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, entranceResponse(entrance))
}

// GetAll handles GET /v1/entrances
func (h *EntranceHandler) GetAll(c *gin.Context) {
	entrances, err := h.entranceRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var response []EntranceResponse
	for _, e := range entrances {
		response = append(response, entranceResponse(e))
	}

	c.JSON(http.StatusOK, response)
}

// AssignSpace handles POST /v1/entrances/:id/spaces
func (h *EntranceHandler) AssignSpace(c *gin.Context) {
	entranceID := c.Param("id")

	var req AssignSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	link, err := h.garageService.AssignSpace(c.Request.Context(), entranceID, req.SpaceID, req.Distance)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, AssignSpaceResponse{
		ID:         link.ID,
		EntranceID: link.EntranceID,
		SpaceID:    link.SpaceID,
		Distance:   link.Distance,
	})
}

func entranceResponse(e *domain.Entrance) EntranceResponse {
	return EntranceResponse{
		ID:   e.ID,
		Name: e.Name,
	}
}
