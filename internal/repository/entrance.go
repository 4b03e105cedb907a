package repository

import (
	"context"

	"parking/internal/domain"
)

// EntranceRepository defines the persistence operations for entrances.
type EntranceRepository interface {
	// Create persists a new entrance.
	Create(ctx context.Context, entrance *domain.Entrance) error

	// GetByID retrieves an entrance by ID.
	GetByID(ctx context.Context, id string) (*domain.Entrance, error)

	// GetAll retrieves all entrances.
	GetAll(ctx context.Context) ([]*domain.Entrance, error)

	// Count returns the number of configured entrances.
	Count(ctx context.Context) (int, error)
}

// EntranceSpaceRepository defines the persistence operations for
// entrance-space assignments.
type EntranceSpaceRepository interface {
	// Create persists a new assignment. Returns ErrConflict if the space
	// is already assigned to the entrance.
	Create(ctx context.Context, link *domain.EntranceSpace) error

	// GetByEntranceID retrieves all assignments for an entrance.
	GetByEntranceID(ctx context.Context, entranceID string) ([]*domain.EntranceSpace, error)

	// Exists reports whether the space is already assigned to the entrance.
	Exists(ctx context.Context, entranceID, spaceID string) (bool, error)
}
