package postgres

import (
	"context"
	"database/sql"

	"parking/internal/domain"
	"parking/internal/repository"
)

// EntranceSpaceRepository is a PostgreSQL implementation of
// repository.EntranceSpaceRepository.
type EntranceSpaceRepository struct {
	q Querier
}

// NewEntranceSpaceRepository creates a new PostgreSQL entrance-space repository.
func NewEntranceSpaceRepository(db *sql.DB) *EntranceSpaceRepository {
	return &EntranceSpaceRepository{q: db}
}

// Create persists a new assignment. The (entrance_id, space_id) unique
// constraint rejects double assignment; the violation surfaces as
// repository.ErrConflict.
func (r *EntranceSpaceRepository) Create(ctx context.Context, link *domain.EntranceSpace) error {
	query := `
		INSERT INTO entrance_spaces (id, entrance_id, space_id, distance, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		link.ID,
		link.EntranceID,
		link.SpaceID,
		link.Distance,
		link.CreatedAt,
	)

	return mapWriteError(err)
}

// GetByEntranceID retrieves all assignments for an entrance.
func (r *EntranceSpaceRepository) GetByEntranceID(ctx context.Context, entranceID string) ([]*domain.EntranceSpace, error) {
	query := `
		SELECT id, entrance_id, space_id, distance, created_at
		FROM entrance_spaces WHERE entrance_id = $1 ORDER BY created_at
	`

	rows, err := r.q.QueryContext(ctx, query, entranceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*domain.EntranceSpace
	for rows.Next() {
		var link domain.EntranceSpace
		if err := rows.Scan(&link.ID, &link.EntranceID, &link.SpaceID, &link.Distance, &link.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, &link)
	}

	return links, rows.Err()
}

// Exists reports whether the space is already assigned to the entrance.
func (r *EntranceSpaceRepository) Exists(ctx context.Context, entranceID, spaceID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM entrance_spaces WHERE entrance_id = $1 AND space_id = $2
		)
	`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, entranceID, spaceID).Scan(&exists)
	return exists, err
}

// Ensure EntranceSpaceRepository implements repository.EntranceSpaceRepository.
var _ repository.EntranceSpaceRepository = (*EntranceSpaceRepository)(nil)
