package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parking/internal/domain"
	"parking/internal/repository"
)

// TicketRepository is a PostgreSQL implementation of repository.TicketRepository.
type TicketRepository struct {
	q Querier
}

// NewTicketRepository creates a new PostgreSQL ticket repository.
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{q: db}
}

// NewTicketRepositoryWithTx creates a ticket repository using a transaction.
func NewTicketRepositoryWithTx(tx *sql.Tx) *TicketRepository {
	return &TicketRepository{q: tx}
}

// Create persists a new ticket. The partial unique index on
// (vehicle_id) WHERE status = 'ACTIVE' rejects a second active ticket for
// the same vehicle; the violation surfaces as repository.ErrConflict.
// The serial ticket number is assigned by the database.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		INSERT INTO tickets (id, vehicle_id, status, completed_at, total_cost, actual_hours, paid_hours, remaining_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING number
	`

	var completedAt sql.NullTime
	if !ticket.CompletedAt.IsZero() {
		completedAt = sql.NullTime{Time: ticket.CompletedAt, Valid: true}
	}

	err := r.q.QueryRowContext(ctx, query,
		ticket.ID,
		ticket.VehicleID,
		ticket.Status,
		completedAt,
		ticket.TotalCost,
		ticket.ActualHours,
		ticket.PaidHours,
		ticket.RemainingHours,
		ticket.CreatedAt,
	).Scan(&ticket.Number)

	return mapWriteError(err)
}

// GetByID retrieves a ticket by ID.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := selectTicket + ` WHERE id = $1`

	ticket, err := scanTicket(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return ticket, nil
}

// GetActiveByVehicleID retrieves the active ticket for a vehicle.
// There should only be one, but order by creation time descending and take
// the most recent just to be sure. Returns nil if no active ticket exists.
func (r *TicketRepository) GetActiveByVehicleID(ctx context.Context, vehicleID string) (*domain.Ticket, error) {
	query := selectTicket + `
		WHERE vehicle_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	ticket, err := scanTicket(r.q.QueryRowContext(ctx, query, vehicleID, domain.TicketStatusActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return ticket, nil
}

// GetLastCompletedByVehicleID retrieves the vehicle's most recently
// completed ticket. Returns nil if the vehicle has no completed tickets.
func (r *TicketRepository) GetLastCompletedByVehicleID(ctx context.Context, vehicleID string) (*domain.Ticket, error) {
	query := selectTicket + `
		WHERE vehicle_id = $1 AND status = $2 AND completed_at IS NOT NULL
		ORDER BY completed_at DESC
		LIMIT 1
	`

	ticket, err := scanTicket(r.q.QueryRowContext(ctx, query, vehicleID, domain.TicketStatusCompleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return ticket, nil
}

// Update updates an existing ticket. Reactivating a completed ticket can
// also trip the one-active-ticket index, so conflicts are mapped here too.
func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	query := `
		UPDATE tickets
		SET status = $1, completed_at = $2, total_cost = $3, actual_hours = $4, paid_hours = $5, remaining_hours = $6
		WHERE id = $7
	`

	var completedAt sql.NullTime
	if !ticket.CompletedAt.IsZero() {
		completedAt = sql.NullTime{Time: ticket.CompletedAt, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		ticket.Status,
		completedAt,
		ticket.TotalCost,
		ticket.ActualHours,
		ticket.PaidHours,
		ticket.RemainingHours,
		ticket.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

const selectTicket = `
	SELECT id, number, vehicle_id, status, completed_at, total_cost, actual_hours, paid_hours, remaining_hours, created_at
	FROM tickets
`

func scanTicket(row *sql.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var completedAt sql.NullTime

	err := row.Scan(
		&ticket.ID,
		&ticket.Number,
		&ticket.VehicleID,
		&ticket.Status,
		&completedAt,
		&ticket.TotalCost,
		&ticket.ActualHours,
		&ticket.PaidHours,
		&ticket.RemainingHours,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		ticket.CompletedAt = completedAt.Time
	}

	return &ticket, nil
}

// Ensure TicketRepository implements repository.TicketRepository.
var _ repository.TicketRepository = (*TicketRepository)(nil)
