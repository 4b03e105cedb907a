package service

import (
	"context"
	"sort"

	"parking/internal/domain"
)

// SelectorService picks a legal, vacant space for an incoming vehicle at a
// given entrance. Deterministic, no mutation.
type SelectorService struct {
	catalog   *CatalogService
	occupancy *OccupancyService
}

// NewSelectorService creates a new SelectorService.
func NewSelectorService(catalog *CatalogService, occupancy *OccupancyService) *SelectorService {
	return &SelectorService{
		catalog:   catalog,
		occupancy: occupancy,
	}
}

// SelectSpace returns a vacant, size-compatible space reachable from the
// entrance, or nil when none is available (not an error: the caller
// decides how to report it).
//
// Candidates are sorted ascending by distance and the last one is taken,
// which selects the farthest space. This matches the reference behavior;
// see DESIGN.md before "fixing" it to nearest-first.
func (s *SelectorService) SelectSpace(ctx context.Context, entranceID string, vehicleSize domain.Size) (*domain.SpaceWithDistance, error) {
	spaces, err := s.catalog.SpacesForEntrance(ctx, entranceID)
	if err != nil {
		return nil, err
	}

	var candidates []*domain.SpaceWithDistance
	for _, space := range spaces {
		if !s.catalog.SizeCompatible(vehicleSize, space.Size) {
			continue
		}

		vacant, err := s.occupancy.IsVacant(ctx, space.ID)
		if err != nil {
			return nil, err
		}
		if !vacant {
			continue
		}

		candidates = append(candidates, space)
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})

	return candidates[len(candidates)-1], nil
}
