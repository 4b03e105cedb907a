package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parking/internal/domain"
	"parking/internal/repository"
	"parking/internal/service"
)

// SpaceHandler handles HTTP requests for spaces.
type SpaceHandler struct {
	spaceRepo repository.SpaceRepository
	clock     service.Clock
}

// NewSpaceHandler creates a new SpaceHandler.
func NewSpaceHandler(spaceRepo repository.SpaceRepository, clock service.Clock) *SpaceHandler {
	return &SpaceHandler{
		spaceRepo: spaceRepo,
		clock:     clock,
	}
}

// CreateSpaceRequest is the HTTP request body for creating a space.
type CreateSpaceRequest struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

// SpaceResponse is the HTTP response for space data.
type SpaceResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Distance *int   `json:"distance,omitempty"`
}

// Create handles POST /v1/spaces
func (h *SpaceHandler) Create(c *gin.Context) {
	var req CreateSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	size, ok := domain.ParseSize(req.Size)
	if !ok {
		respondError(c, service.ErrInvalidSize)
		return
	}

	space := &domain.Space{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Size:      size,
		CreatedAt: h.clock.Now(),
	}

	if err := h.spaceRepo.Create(c.Request.Context(), space); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, SpaceResponse{
		ID:   space.ID,
		Name: space.Name,
		Size: space.Size.String(),
	})
}

// GetAll handles GET /v1/spaces
func (h *SpaceHandler) GetAll(c *gin.Context) {
	spaces, err := h.spaceRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var response []SpaceResponse
	for _, s := range spaces {
		response = append(response, SpaceResponse{
			ID:   s.ID,
			Name: s.Name,
			Size: s.Size.String(),
		})
	}

	c.JSON(http.StatusOK, response)
}

func spaceWithDistanceResponse(s *domain.SpaceWithDistance) SpaceResponse {
	distance := s.Distance
	return SpaceResponse{
		ID:       s.ID,
		Name:     s.Name,
		Size:     s.Size.String(),
		Distance: &distance,
	}
}
