package repository

import (
	"context"

	"parking/internal/domain"
)

// SpaceRepository defines the persistence operations for spaces.
type SpaceRepository interface {
	// Create persists a new space.
	Create(ctx context.Context, space *domain.Space) error

	// GetByID retrieves a space by ID.
	GetByID(ctx context.Context, id string) (*domain.Space, error)

	// GetAll retrieves all spaces.
	GetAll(ctx context.Context) ([]*domain.Space, error)

	// GetByEntranceID retrieves all spaces assigned to the entrance,
	// each with its distance from that entrance.
	GetByEntranceID(ctx context.Context, entranceID string) ([]*domain.SpaceWithDistance, error)
}
