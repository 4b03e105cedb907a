package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parking/internal/domain"
	"parking/internal/repository"
)

// EntranceRepository is a PostgreSQL implementation of repository.EntranceRepository.
type EntranceRepository struct {
	q Querier
}

// NewEntranceRepository creates a new PostgreSQL entrance repository.
func NewEntranceRepository(db *sql.DB) *EntranceRepository {
	return &EntranceRepository{q: db}
}

// Create persists a new entrance.
func (r *EntranceRepository) Create(ctx context.Context, entrance *domain.Entrance) error {
	query := `
		INSERT INTO entrances (id, name, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.q.ExecContext(ctx, query, entrance.ID, entrance.Name, entrance.CreatedAt)
	return mapWriteError(err)
}

// GetByID retrieves an entrance by ID.
func (r *EntranceRepository) GetByID(ctx context.Context, id string) (*domain.Entrance, error) {
	query := `
		SELECT id, name, created_at
		FROM entrances WHERE id = $1
	`

	var entrance domain.Entrance
	err := r.q.QueryRowContext(ctx, query, id).Scan(&entrance.ID, &entrance.Name, &entrance.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &entrance, nil
}

// GetAll retrieves all entrances.
func (r *EntranceRepository) GetAll(ctx context.Context) ([]*domain.Entrance, error) {
	query := `
		SELECT id, name, created_at
		FROM entrances ORDER BY created_at
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entrances []*domain.Entrance
	for rows.Next() {
		var entrance domain.Entrance
		if err := rows.Scan(&entrance.ID, &entrance.Name, &entrance.CreatedAt); err != nil {
			return nil, err
		}
		entrances = append(entrances, &entrance)
	}

	return entrances, rows.Err()
}

// Count returns the number of configured entrances.
func (r *EntranceRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM entrances`).Scan(&count)
	return count, err
}

// Ensure EntranceRepository implements repository.EntranceRepository.
var _ repository.EntranceRepository = (*EntranceRepository)(nil)
