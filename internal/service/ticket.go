package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"parking/internal/domain"
	"parking/internal/repository"
	"parking/internal/repository/postgres"
)

// TicketLedgerService issues, reuses, and completes tickets, and owns the
// cumulative billing counters carried across possibly-multiple sessions of
// the same ticket.
type TicketLedgerService struct {
	db          *sql.DB
	ticketRepo  repository.TicketRepository
	sessionRepo repository.SessionRepository
	rates       RateConfig
	clock       Clock
}

// NewTicketLedgerService creates a new TicketLedgerService.
func NewTicketLedgerService(
	db *sql.DB,
	ticketRepo repository.TicketRepository,
	sessionRepo repository.SessionRepository,
	rates RateConfig,
	clock Clock,
) *TicketLedgerService {
	return &TicketLedgerService{
		db:          db,
		ticketRepo:  ticketRepo,
		sessionRepo: sessionRepo,
		rates:       rates,
		clock:       clock,
	}
}

// ActiveTicketFor returns the vehicle's active ticket, or nil if it has
// none. Should more than one exist, the most recently created wins.
func (s *TicketLedgerService) ActiveTicketFor(ctx context.Context, vehicleID string) (*domain.Ticket, error) {
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}

	return s.ticketRepo.GetActiveByVehicleID(ctx, vehicleID)
}

// TicketFor issues or reuses a ticket for a vehicle on entry. A ticket
// completed within the continuity window is reactivated with its counters
// preserved, so a short break in one continuous stay is not re-charged the
// flat-rate minimum. Otherwise a fresh ticket is created with zero
// counters.
func (s *TicketLedgerService) TicketFor(ctx context.Context, vehicle *domain.Vehicle) (*domain.Ticket, error) {
	last, err := s.ticketRepo.GetLastCompletedByVehicleID(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	if last != nil && now.Sub(last.CompletedAt) <= s.rates.ContinuityWindow {
		last.Status = domain.TicketStatusActive
		last.CompletedAt = time.Time{}

		if err := s.ticketRepo.Update(ctx, last); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrVehicleAlreadyParked
			}
			return nil, err
		}

		return last, nil
	}

	ticket := &domain.Ticket{
		ID:        uuid.New().String(),
		VehicleID: vehicle.ID,
		Status:    domain.TicketStatusActive,
		CreatedAt: now,
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrVehicleAlreadyParked
		}
		return nil, err
	}

	return ticket, nil
}

// CompleteCheckout persists the ended session and applies its cost and
// hours onto the ticket's cumulative counters, marking the ticket
// completed. Both writes happen in one transaction so the stored session
// never drifts from the value returned at stop time.
func (s *TicketLedgerService) CompleteCheckout(ctx context.Context, ticket *domain.Ticket, result *CostResult) (*domain.Ticket, error) {
	if result == nil || result.Session == nil || result.Session.Status != domain.SessionStatusEnded {
		return nil, ErrNoActiveSession
	}

	session := result.Session

	ticket.TotalCost += session.Cost
	ticket.ActualHours += session.PaidHours
	ticket.PaidHours += math.Ceil(session.PaidHours)
	ticket.RemainingHours = ticket.PaidHours - ticket.ActualHours
	ticket.Status = domain.TicketStatusCompleted
	ticket.CompletedAt = session.EndedAt

	// Without a database handle (in-memory stores) the writes are applied
	// sequentially through the plain repositories.
	if s.db == nil {
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			return nil, err
		}
		if err := s.ticketRepo.Update(ctx, ticket); err != nil {
			return nil, err
		}
		return ticket, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txSessionRepo := postgres.NewSessionRepositoryWithTx(tx)
	txTicketRepo := postgres.NewTicketRepositoryWithTx(tx)

	if err = txSessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	if err = txTicketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return ticket, nil
}

// Sessions returns all sessions of a ticket, oldest first. Used for the
// checkout breakdown.
func (s *TicketLedgerService) Sessions(ctx context.Context, ticketID string) ([]*domain.ParkingSession, error) {
	return s.sessionRepo.GetByTicketID(ctx, ticketID)
}

// Ticket retrieves a ticket by ID.
func (s *TicketLedgerService) Ticket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}
