package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parking/internal/domain"
	"parking/internal/repository"
)

// SpaceRepository is a PostgreSQL implementation of repository.SpaceRepository.
type SpaceRepository struct {
	q Querier
}

// NewSpaceRepository creates a new PostgreSQL space repository.
func NewSpaceRepository(db *sql.DB) *SpaceRepository {
	return &SpaceRepository{q: db}
}

// Create persists a new space.
func (r *SpaceRepository) Create(ctx context.Context, space *domain.Space) error {
	query := `
		INSERT INTO spaces (id, name, size, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.ExecContext(ctx, query, space.ID, space.Name, int(space.Size), space.CreatedAt)
	return mapWriteError(err)
}

// GetByID retrieves a space by ID.
func (r *SpaceRepository) GetByID(ctx context.Context, id string) (*domain.Space, error) {
	query := `
		SELECT id, name, size, created_at
		FROM spaces WHERE id = $1
	`

	var space domain.Space
	var size int

	err := r.q.QueryRowContext(ctx, query, id).Scan(&space.ID, &space.Name, &size, &space.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	space.Size = domain.Size(size)
	return &space, nil
}

// GetAll retrieves all spaces.
func (r *SpaceRepository) GetAll(ctx context.Context) ([]*domain.Space, error) {
	query := `
		SELECT id, name, size, created_at
		FROM spaces ORDER BY created_at
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spaces []*domain.Space
	for rows.Next() {
		var space domain.Space
		var size int

		if err := rows.Scan(&space.ID, &space.Name, &size, &space.CreatedAt); err != nil {
			return nil, err
		}

		space.Size = domain.Size(size)
		spaces = append(spaces, &space)
	}

	return spaces, rows.Err()
}

// GetByEntranceID retrieves all spaces assigned to the entrance, each with
// its distance from that entrance.
func (r *SpaceRepository) GetByEntranceID(ctx context.Context, entranceID string) ([]*domain.SpaceWithDistance, error) {
	query := `
		SELECT s.id, s.name, s.size, s.created_at, es.distance
		FROM spaces s
		JOIN entrance_spaces es ON es.space_id = s.id
		WHERE es.entrance_id = $1
		ORDER BY es.distance
	`

	rows, err := r.q.QueryContext(ctx, query, entranceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spaces []*domain.SpaceWithDistance
	for rows.Next() {
		var space domain.SpaceWithDistance
		var size int

		if err := rows.Scan(&space.ID, &space.Name, &size, &space.CreatedAt, &space.Distance); err != nil {
			return nil, err
		}

		space.Size = domain.Size(size)
		spaces = append(spaces, &space)
	}

	return spaces, rows.Err()
}

// Ensure SpaceRepository implements repository.SpaceRepository.
var _ repository.SpaceRepository = (*SpaceRepository)(nil)
