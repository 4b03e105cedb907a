package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parking/internal/domain"
	"parking/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, plate_number, size, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.q.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.PlateNumber,
		int(vehicle.Size),
		vehicle.CreatedAt,
	)

	return mapWriteError(err)
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `
		SELECT id, plate_number, size, created_at
		FROM vehicles WHERE id = $1
	`

	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByPlateNumber retrieves a vehicle by plate number.
func (r *VehicleRepository) GetByPlateNumber(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `
		SELECT id, plate_number, size, created_at
		FROM vehicles WHERE plate_number = $1
	`

	return r.scanOne(r.q.QueryRowContext(ctx, query, plate))
}

// GetAll retrieves all vehicles.
func (r *VehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, plate_number, size, created_at
		FROM vehicles ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		var size int

		if err := rows.Scan(&vehicle.ID, &vehicle.PlateNumber, &size, &vehicle.CreatedAt); err != nil {
			return nil, err
		}

		vehicle.Size = domain.Size(size)
		vehicles = append(vehicles, &vehicle)
	}

	return vehicles, rows.Err()
}

func (r *VehicleRepository) scanOne(row *sql.Row) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	var size int

	err := row.Scan(&vehicle.ID, &vehicle.PlateNumber, &size, &vehicle.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	vehicle.Size = domain.Size(size)
	return &vehicle, nil
}

// Ensure VehicleRepository implements repository.VehicleRepository.
var _ repository.VehicleRepository = (*VehicleRepository)(nil)
