package service

import (
	"context"

	"parking/internal/domain"
	"parking/internal/repository"
)

// CatalogService answers read-only queries over the space/entrance
// assignment graph: which spaces are reachable from an entrance, at what
// distance, and whether a space's size class permits a vehicle size.
type CatalogService struct {
	spaceRepo repository.SpaceRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(spaceRepo repository.SpaceRepository) *CatalogService {
	return &CatalogService{spaceRepo: spaceRepo}
}

// SpacesForEntrance retrieves all spaces assigned to the entrance with
// their distances. Existence of the entrance itself is the caller's check.
func (s *CatalogService) SpacesForEntrance(ctx context.Context, entranceID string) ([]*domain.SpaceWithDistance, error) {
	if entranceID == "" {
		return nil, ErrInvalidEntranceID
	}

	return s.spaceRepo.GetByEntranceID(ctx, entranceID)
}

// SizeCompatible reports whether a vehicle of vehicleSize may park in a
// space of spaceSize: true iff vehicleSize <= spaceSize under the ordinal
// Small < Medium < Large.
func (s *CatalogService) SizeCompatible(vehicleSize, spaceSize domain.Size) bool {
	return vehicleSize.Fits(spaceSize)
}
