package repository

import (
	"context"

	"parking/internal/domain"
)

// SessionRepository defines the persistence operations for parking sessions.
type SessionRepository interface {
	// Create persists a new session. Returns ErrConflict if the space or
	// the ticket already has a started session.
	Create(ctx context.Context, session *domain.ParkingSession) error

	// GetByID retrieves a session by ID.
	GetByID(ctx context.Context, id string) (*domain.ParkingSession, error)

	// GetStartedByTicketID retrieves the started session of a ticket.
	// Returns nil if the ticket has no started session.
	GetStartedByTicketID(ctx context.Context, ticketID string) (*domain.ParkingSession, error)

	// GetStartedBySpaceID retrieves the started session occupying a space.
	// Returns nil if the space is vacant.
	GetStartedBySpaceID(ctx context.Context, spaceID string) (*domain.ParkingSession, error)

	// GetByTicketID retrieves all sessions of a ticket, oldest first.
	GetByTicketID(ctx context.Context, ticketID string) ([]*domain.ParkingSession, error)

	// Update updates an existing session.
	Update(ctx context.Context, session *domain.ParkingSession) error
}
