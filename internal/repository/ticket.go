package repository

import (
	"context"

	"parking/internal/domain"
)

// TicketRepository defines the persistence operations for tickets.
type TicketRepository interface {
	// Create persists a new ticket. Returns ErrConflict if the vehicle
	// already has an active ticket.
	Create(ctx context.Context, ticket *domain.Ticket) error

	// GetByID retrieves a ticket by ID.
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)

	// GetActiveByVehicleID retrieves the active ticket for a vehicle,
	// most recently created first. Returns nil if none exists.
	GetActiveByVehicleID(ctx context.Context, vehicleID string) (*domain.Ticket, error)

	// GetLastCompletedByVehicleID retrieves the vehicle's most recently
	// completed ticket, by completion time descending. Returns nil if the
	// vehicle has no completed tickets.
	GetLastCompletedByVehicleID(ctx context.Context, vehicleID string) (*domain.Ticket, error)

	// Update updates an existing ticket.
	Update(ctx context.Context, ticket *domain.Ticket) error
}
