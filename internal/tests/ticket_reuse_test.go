package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"parking/internal/domain"
	"parking/internal/repository"
	"parking/internal/service"
)

// ──────────────────────────────────────────────
// 3. TICKET LEDGER AND CONTINUITY WINDOW
// ──────────────────────────────────────────────

func newLedger(ticketRepo *MockTicketRepository, sessionRepo *MockSessionRepository, clock *FakeClock) *service.TicketLedgerService {
	return service.NewTicketLedgerService(nil, ticketRepo, sessionRepo, service.DefaultRateConfig(), clock)
}

func TestTicketLedger_FirstEntryIssuesFreshTicket(t *testing.T) {
	t.Parallel()

	ticketRepo := NewMockTicketRepository()
	clock := NewFakeClock(baseTime)
	ledger := newLedger(ticketRepo, NewMockSessionRepository(), clock)

	vehicle := &domain.Vehicle{ID: "vehicle-1", PlateNumber: "ABC-123", Size: domain.SizeSmall}

	ticket, err := ledger.TicketFor(context.Background(), vehicle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ticket.Status != domain.TicketStatusActive {
		t.Errorf("expected ACTIVE ticket, got %s", ticket.Status)
	}
	if ticket.TotalCost != 0 || ticket.PaidHours != 0 || ticket.RemainingHours != 0 {
		t.Errorf("expected zero counters, got %+v", ticket)
	}
	if ticket.Number == 0 {
		t.Error("expected an assigned ticket number")
	}
}

func TestTicketLedger_ReusesTicketWithinContinuityWindow(t *testing.T) {
	t.Parallel()

	ticketRepo := NewMockTicketRepository()
	clock := NewFakeClock(baseTime)
	ledger := newLedger(ticketRepo, NewMockSessionRepository(), clock)

	completed := &domain.Ticket{
		ID:             "ticket-old",
		VehicleID:      "vehicle-1",
		Status:         domain.TicketStatusCompleted,
		CompletedAt:    baseTime.Add(-43 * time.Minute),
		TotalCost:      40,
		ActualHours:    0.833,
		PaidHours:      1,
		RemainingHours: 0.167,
	}
	ticketRepo.AddTicket(completed)

	vehicle := &domain.Vehicle{ID: "vehicle-1", PlateNumber: "ABC-123", Size: domain.SizeSmall}

	ticket, err := ledger.TicketFor(context.Background(), vehicle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ticket.ID != "ticket-old" {
		t.Errorf("expected reactivated ticket-old, got %s", ticket.ID)
	}
	if ticket.Status != domain.TicketStatusActive {
		t.Errorf("expected ACTIVE ticket, got %s", ticket.Status)
	}
	if !ticket.CompletedAt.IsZero() {
		t.Errorf("expected CompletedAt to be cleared, got %v", ticket.CompletedAt)
	}
	if ticket.TotalCost != 40 || ticket.RemainingHours != 0.167 {
		t.Errorf("expected counters preserved, got %+v", ticket)
	}
}

func TestTicketLedger_FreshTicketAfterContinuityWindow(t *testing.T) {
	t.Parallel()

	ticketRepo := NewMockTicketRepository()
	clock := NewFakeClock(baseTime)
	ledger := newLedger(ticketRepo, NewMockSessionRepository(), clock)

	ticketRepo.AddTicket(&domain.Ticket{
		ID:          "ticket-old",
		VehicleID:   "vehicle-1",
		Status:      domain.TicketStatusCompleted,
		CompletedAt: baseTime.Add(-2 * time.Hour),
		TotalCost:   40,
		PaidHours:   2,
	})

	vehicle := &domain.Vehicle{ID: "vehicle-1", PlateNumber: "ABC-123", Size: domain.SizeSmall}

	ticket, err := ledger.TicketFor(context.Background(), vehicle)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ticket.ID == "ticket-old" {
		t.Error("expected a fresh ticket, got the old one")
	}
	if ticket.TotalCost != 0 || ticket.PaidHours != 0 {
		t.Errorf("expected zero counters, got %+v", ticket)
	}
	if ticketRepo.CountTickets() != 2 {
		t.Errorf("expected 2 tickets, got %d", ticketRepo.CountTickets())
	}
}

func TestTicketLedger_ReactivationConflictMeansAlreadyParked(t *testing.T) {
	t.Parallel()

	ticketRepo := NewMockTicketRepository()
	clock := NewFakeClock(baseTime)
	ledger := newLedger(ticketRepo, NewMockSessionRepository(), clock)

	ticketRepo.AddTicket(&domain.Ticket{
		ID:          "ticket-old",
		VehicleID:   "vehicle-1",
		Status:      domain.TicketStatusCompleted,
		CompletedAt: baseTime.Add(-10 * time.Minute),
	})
	ticketRepo.UpdateError = repository.ErrConflict

	vehicle := &domain.Vehicle{ID: "vehicle-1", PlateNumber: "ABC-123", Size: domain.SizeSmall}

	_, err := ledger.TicketFor(context.Background(), vehicle)
	if !errors.Is(err, service.ErrVehicleAlreadyParked) {
		t.Errorf("expected ErrVehicleAlreadyParked, got %v", err)
	}
}

func TestTicketLedger_DoubleActiveTicketRejected(t *testing.T) {
	t.Parallel()

	ticketRepo := NewMockTicketRepository()
	clock := NewFakeClock(baseTime)
	ledger := newLedger(ticketRepo, NewMockSessionRepository(), clock)

	ticketRepo.AddTicket(&domain.Ticket{
		ID:        "ticket-active",
		VehicleID: "vehicle-1",
		Status:    domain.TicketStatusActive,
	})

	vehicle := &domain.Vehicle{ID: "vehicle-1", PlateNumber: "ABC-123", Size: domain.SizeSmall}

	// The uniqueness rule on active tickets is the backstop when the
	// caller's active-ticket check raced.
	_, err := ledger.TicketFor(context.Background(), vehicle)
	if !errors.Is(err, service.ErrVehicleAlreadyParked) {
		t.Errorf("expected ErrVehicleAlreadyParked, got %v", err)
	}
}

func TestTicketLedger_CompleteCheckoutAppliesCounters(t *testing.T) {
	t.Parallel()

	ticketRepo := NewMockTicketRepository()
	sessionRepo := NewMockSessionRepository()
	clock := NewFakeClock(baseTime)
	ledger := newLedger(ticketRepo, sessionRepo, clock)

	ticket := &domain.Ticket{ID: "ticket-1", VehicleID: "vehicle-1", Status: domain.TicketStatusActive}
	ticketRepo.AddTicket(ticket)

	endedAt := baseTime.Add(3*time.Hour + 20*time.Minute)
	session := &domain.ParkingSession{
		ID:         "session-1",
		TicketID:   "ticket-1",
		SpaceID:    "space-1",
		Status:     domain.SessionStatusEnded,
		StartedAt:  baseTime,
		EndedAt:    endedAt,
		Cost:       60,
		TotalHours: 3.333,
		PaidHours:  3.333,
	}
	sessionRepo.AddSession(session)

	result := &service.CostResult{Cost: 60, TotalHours: 3.333, HoursBeingPaid: 3.333, Session: session}

	finalized, err := ledger.CompleteCheckout(context.Background(), ticket, result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if finalized.Status != domain.TicketStatusCompleted {
		t.Errorf("expected COMPLETED ticket, got %s", finalized.Status)
	}
	if !finalized.CompletedAt.Equal(endedAt) {
		t.Errorf("expected CompletedAt %v, got %v", endedAt, finalized.CompletedAt)
	}
	if finalized.TotalCost != 60 {
		t.Errorf("expected total cost 60, got %v", finalized.TotalCost)
	}
	if finalized.PaidHours != 4 {
		t.Errorf("expected 4 paid hours, got %v", finalized.PaidHours)
	}
	if !almostEqual(finalized.RemainingHours, 0.667) {
		t.Errorf("expected 0.667 remaining hours, got %v", finalized.RemainingHours)
	}

	// Both writes hit the stores.
	stored := ticketRepo.GetTicket("ticket-1")
	if stored.Status != domain.TicketStatusCompleted {
		t.Errorf("ticket not persisted as COMPLETED: %s", stored.Status)
	}
	if sessionRepo.GetSession("session-1").Status != domain.SessionStatusEnded {
		t.Error("session not persisted as ENDED")
	}
}

func TestTicketLedger_CompleteCheckoutRejectsUnstoppedSession(t *testing.T) {
	t.Parallel()

	ledger := newLedger(NewMockTicketRepository(), NewMockSessionRepository(), NewFakeClock(baseTime))

	ticket := &domain.Ticket{ID: "ticket-1", VehicleID: "vehicle-1", Status: domain.TicketStatusActive}
	result := &service.CostResult{
		Session: &domain.ParkingSession{ID: "session-1", Status: domain.SessionStatusStarted},
	}

	_, err := ledger.CompleteCheckout(context.Background(), ticket, result)
	if !errors.Is(err, service.ErrNoActiveSession) {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestTicketLedger_ActiveTicketForRequiresVehicleID(t *testing.T) {
	t.Parallel()

	ledger := newLedger(NewMockTicketRepository(), NewMockSessionRepository(), NewFakeClock(baseTime))

	_, err := ledger.ActiveTicketFor(context.Background(), "")
	if !errors.Is(err, service.ErrInvalidVehicleID) {
		t.Errorf("expected ErrInvalidVehicleID, got %v", err)
	}
}
