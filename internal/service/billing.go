package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"parking/internal/domain"
	"parking/internal/repository"
)

// RateConfig is the immutable rate table for the garage. It is passed in
// at construction instead of living in module-level constants so tests can
// vary rates without process-wide state.
type RateConfig struct {
	FlatRate      float64 // minimum charge for a sub-daily stay
	FlatRateHours float64 // hours covered by the flat rate
	DailyRate     float64 // charge per full 24-hour block

	// Hourly rate by space size class.
	HourlySmall  float64
	HourlyMedium float64
	HourlyLarge  float64

	// ContinuityWindow is the maximum gap after checkout during which a
	// new entry reuses the completed ticket instead of issuing a new one.
	ContinuityWindow time.Duration
}

// DefaultRateConfig returns the garage's standard rates.
func DefaultRateConfig() RateConfig {
	return RateConfig{
		FlatRate:         40,
		FlatRateHours:    3,
		DailyRate:        5000,
		HourlySmall:      20,
		HourlyMedium:     60,
		HourlyLarge:      100,
		ContinuityWindow: 60 * time.Minute,
	}
}

// HourlyRate returns the hourly rate for a space size class.
func (c RateConfig) HourlyRate(size domain.Size) float64 {
	switch size {
	case domain.SizeMedium:
		return c.HourlyMedium
	case domain.SizeLarge:
		return c.HourlyLarge
	default:
		return c.HourlySmall
	}
}

// CostResult is the outcome of pricing a ticket's active session.
type CostResult struct {
	// Cost is the incremental amount to charge for this session.
	Cost float64

	// TotalHours is the session's elapsed hours, rounded to 3 decimals.
	TotalHours float64

	// HoursBeingPaid is the portion of TotalHours actually charged in
	// this session; the rest was covered by the ticket's remaining-hours
	// buffer.
	HoursBeingPaid float64

	// Session is the priced session. After Stop it carries the final
	// ended-state fields, which the ticket ledger persists at checkout.
	Session *domain.ParkingSession
}

// BillingService starts sessions and prices them under the tiered-rate
// policy: flat rate for the first hours, hourly overage, daily rate per
// 24-hour block, and carry-over of already-paid hours across continuous
// re-entries.
type BillingService struct {
	sessionRepo  repository.SessionRepository
	entranceRepo repository.EntranceRepository
	spaceRepo    repository.SpaceRepository
	rates        RateConfig
	clock        Clock
}

// NewBillingService creates a new BillingService.
func NewBillingService(
	sessionRepo repository.SessionRepository,
	entranceRepo repository.EntranceRepository,
	spaceRepo repository.SpaceRepository,
	rates RateConfig,
	clock Clock,
) *BillingService {
	return &BillingService{
		sessionRepo:  sessionRepo,
		entranceRepo: entranceRepo,
		spaceRepo:    spaceRepo,
		rates:        rates,
		clock:        clock,
	}
}

// Start creates a started parking session for (ticket, entrance, space).
// The space-occupancy check is the caller's responsibility before invoking
// Start; the partial unique index on started sessions per space is the
// backstop for races, surfacing as ErrSpaceOccupied.
func (s *BillingService) Start(ctx context.Context, ticketID, entranceID, spaceID string) (*domain.ParkingSession, error) {
	if _, err := s.entranceRepo.GetByID(ctx, entranceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntranceNotFound
		}
		return nil, err
	}

	if _, err := s.spaceRepo.GetByID(ctx, spaceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}

	existing, err := s.sessionRepo.GetStartedByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTicketHasActiveSession
	}

	session := &domain.ParkingSession{
		ID:         uuid.New().String(),
		TicketID:   ticketID,
		EntranceID: entranceID,
		SpaceID:    spaceID,
		Status:     domain.SessionStatusStarted,
		StartedAt:  s.clock.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSpaceOccupied
		}
		return nil, err
	}

	return session, nil
}

// CalculateCost prices the ticket's active session as of sessionEndTime.
// Pure computation over the stored state; callable independently for cost
// previews without ending the session.
func (s *BillingService) CalculateCost(ctx context.Context, ticket *domain.Ticket, sessionEndTime time.Time) (*CostResult, error) {
	session, err := s.sessionRepo.GetStartedByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	space, err := s.spaceRepo.GetByID(ctx, session.SpaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpaceNotFound
		}
		return nil, err
	}

	totalHours := elapsedHours(session.StartedAt, sessionEndTime)

	// The session is fully absorbed by previously paid-but-unused hours:
	// no new charge.
	if ticket.RemainingHours >= totalHours {
		return &CostResult{
			Cost:           0,
			TotalHours:     totalHours,
			HoursBeingPaid: totalHours,
			Session:        session,
		}, nil
	}

	roundedTotalHours := math.Ceil(ticket.ActualHours + totalHours)
	unpaidHours := totalHours - ticket.RemainingHours
	hourly := s.rates.HourlyRate(space.Size)

	var cost float64
	if roundedTotalHours >= 24 {
		// Daily tier. Subtracting the amount already billed reconciles the
		// daily blocks against the ticket's whole history, not just this
		// session.
		days := math.Floor(roundedTotalHours / 24)
		cost = days*s.rates.DailyRate + (roundedTotalHours-days*24)*hourly - ticket.TotalCost
	} else {
		roundedUnpaidHours := math.Ceil(unpaidHours)

		if ticket.PaidHours >= s.rates.FlatRateHours {
			// The flat-rate allotment was exhausted by prior sessions.
			cost = roundedUnpaidHours * hourly
		} else {
			excess := roundedUnpaidHours - s.rates.FlatRateHours
			if excess < 0 {
				excess = 0
			}
			cost = excess*hourly + s.rates.FlatRate
		}
	}

	return &CostResult{
		Cost:           cost,
		TotalHours:     totalHours,
		HoursBeingPaid: unpaidHours,
		Session:        session,
	}, nil
}

// Stop prices the ticket's active session as of now and fixes the session's
// final fields. The ended session and the ticket's cumulative counters are
// persisted together by the ticket ledger at checkout, so the stored values
// always match what Stop returned.
func (s *BillingService) Stop(ctx context.Context, ticket *domain.Ticket) (*CostResult, error) {
	now := s.clock.Now()

	result, err := s.CalculateCost(ctx, ticket, now)
	if err != nil {
		return nil, err
	}

	result.Session.Status = domain.SessionStatusEnded
	result.Session.EndedAt = now
	result.Session.Cost = result.Cost
	result.Session.TotalHours = result.TotalHours
	result.Session.PaidHours = result.HoursBeingPaid

	return result, nil
}

// elapsedHours computes elapsed time in hours from whole seconds, rounded
// to 3 decimal places (half up at the 4th).
func elapsedHours(start, end time.Time) float64 {
	seconds := int64(end.Sub(start) / time.Second)
	return math.Round(float64(seconds)/3600*1000) / 1000
}
