package service

import (
	"context"

	"parking/internal/repository"
)

// OccupancyService determines whether a space is currently occupied. A
// space has no independent "occupied" flag; occupancy is derived from the
// presence of a started parking session for the space. Pure read, no side
// effects.
type OccupancyService struct {
	sessionRepo repository.SessionRepository
}

// NewOccupancyService creates a new OccupancyService.
func NewOccupancyService(sessionRepo repository.SessionRepository) *OccupancyService {
	return &OccupancyService{sessionRepo: sessionRepo}
}

// IsVacant reports whether no started session exists for the space.
func (s *OccupancyService) IsVacant(ctx context.Context, spaceID string) (bool, error) {
	if spaceID == "" {
		return false, ErrInvalidSpaceID
	}

	session, err := s.sessionRepo.GetStartedBySpaceID(ctx, spaceID)
	if err != nil {
		return false, err
	}

	return session == nil, nil
}

// IsOccupied is the negation of IsVacant.
func (s *OccupancyService) IsOccupied(ctx context.Context, spaceID string) (bool, error) {
	vacant, err := s.IsVacant(ctx, spaceID)
	if err != nil {
		return false, err
	}

	return !vacant, nil
}
