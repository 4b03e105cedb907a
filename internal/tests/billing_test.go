package tests

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"parking/internal/domain"
	"parking/internal/service"
)

// ──────────────────────────────────────────────
// 1. TIERED-RATE BILLING
// ──────────────────────────────────────────────

var baseTime = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

type billingFixture struct {
	sessionRepo  *MockSessionRepository
	entranceRepo *MockEntranceRepository
	spaceRepo    *MockSpaceRepository
	clock        *FakeClock
	billing      *service.BillingService
}

func newBillingFixture() *billingFixture {
	linkRepo := NewMockEntranceSpaceRepository()
	sessionRepo := NewMockSessionRepository()
	entranceRepo := NewMockEntranceRepository()
	spaceRepo := NewMockSpaceRepository(linkRepo)
	clock := NewFakeClock(baseTime)

	entranceRepo.AddEntrance(&domain.Entrance{ID: "entrance-1", Name: "North"})

	return &billingFixture{
		sessionRepo:  sessionRepo,
		entranceRepo: entranceRepo,
		spaceRepo:    spaceRepo,
		clock:        clock,
		billing:      service.NewBillingService(sessionRepo, entranceRepo, spaceRepo, service.DefaultRateConfig(), clock),
	}
}

// startSession seeds a space of the given size and a started session for
// the ticket, beginning at baseTime.
func (f *billingFixture) startSession(ticketID string, size domain.Size) {
	f.spaceRepo.AddSpace(&domain.Space{ID: "space-" + ticketID, Name: "A1", Size: size})
	f.sessionRepo.AddSession(&domain.ParkingSession{
		ID:         "session-" + ticketID,
		TicketID:   ticketID,
		EntranceID: "entrance-1",
		SpaceID:    "space-" + ticketID,
		Status:     domain.SessionStatusStarted,
		StartedAt:  baseTime,
	})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBilling_FlatRateCoversShortStay(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	ticket := &domain.Ticket{ID: "ticket-1", VehicleID: "vehicle-1", Status: domain.TicketStatusActive}
	f.startSession(ticket.ID, domain.SizeSmall)

	result, err := f.billing.CalculateCost(context.Background(), ticket, baseTime.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(result.Cost, 40) {
		t.Errorf("expected cost 40, got %v", result.Cost)
	}
	if !almostEqual(result.TotalHours, 2) {
		t.Errorf("expected 2 total hours, got %v", result.TotalHours)
	}
}

func TestBilling_HourlyOverageBySpaceSize(t *testing.T) {
	t.Parallel()

	// 3h20m = 3.333 hours: one rounded hour past the flat-rate window,
	// charged at the space's hourly rate.
	cases := []struct {
		name string
		size domain.Size
		want float64
	}{
		{"small", domain.SizeSmall, 60},
		{"medium", domain.SizeMedium, 100},
		{"large", domain.SizeLarge, 140},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newBillingFixture()
			ticket := &domain.Ticket{ID: "ticket-1", VehicleID: "vehicle-1", Status: domain.TicketStatusActive}
			f.startSession(ticket.ID, tc.size)

			end := baseTime.Add(3*time.Hour + 20*time.Minute)
			result, err := f.billing.CalculateCost(context.Background(), ticket, end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !almostEqual(result.Cost, tc.want) {
				t.Errorf("expected cost %v, got %v", tc.want, result.Cost)
			}
			if !almostEqual(result.TotalHours, 3.333) {
				t.Errorf("expected 3.333 total hours, got %v", result.TotalHours)
			}
		})
	}
}

func TestBilling_DailyRatePerFullBlock(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	ticket := &domain.Ticket{ID: "ticket-1", VehicleID: "vehicle-1", Status: domain.TicketStatusActive}
	f.startSession(ticket.ID, domain.SizeSmall)

	result, err := f.billing.CalculateCost(context.Background(), ticket, baseTime.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(result.Cost, 5000) {
		t.Errorf("expected cost 5000, got %v", result.Cost)
	}
}

func TestBilling_DailyRatePlusHourlyRemainder(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	ticket := &domain.Ticket{ID: "ticket-1", VehicleID: "vehicle-1", Status: domain.TicketStatusActive}
	f.startSession(ticket.ID, domain.SizeSmall)

	// 30h40m = 30.667 hours, rounded up to 31: one daily block plus 7
	// hours at the small rate.
	end := baseTime.Add(30*time.Hour + 40*time.Minute)
	result, err := f.billing.CalculateCost(context.Background(), ticket, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(result.Cost, 5140) {
		t.Errorf("expected cost 5140, got %v", result.Cost)
	}
}

func TestBilling_DailyTierSubtractsAlreadyBilled(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	// Reactivated ticket that already paid 100 over 3.333 hours. The new
	// session pushes the cumulative stay over the daily boundary.
	ticket := &domain.Ticket{
		ID:             "ticket-1",
		VehicleID:      "vehicle-1",
		Status:         domain.TicketStatusActive,
		TotalCost:      100,
		ActualHours:    3.333,
		PaidHours:      4,
		RemainingHours: 0.667,
	}
	f.startSession(ticket.ID, domain.SizeSmall)

	// ceil(3.333 + 21) = 25 hours: one daily block + 1 hour, minus the
	// 100 already billed.
	result, err := f.billing.CalculateCost(context.Background(), ticket, baseTime.Add(21*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(result.Cost, 4920) {
		t.Errorf("expected cost 4920, got %v", result.Cost)
	}
}

func TestBilling_CarryOverAbsorbsShortSession(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	ticket := &domain.Ticket{
		ID:             "ticket-1",
		VehicleID:      "vehicle-1",
		Status:         domain.TicketStatusActive,
		TotalCost:      60,
		ActualHours:    1.1,
		PaidHours:      4,
		RemainingHours: 2.9,
	}
	f.startSession(ticket.ID, domain.SizeSmall)

	result, err := f.billing.CalculateCost(context.Background(), ticket, baseTime.Add(50*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(result.Cost, 0) {
		t.Errorf("expected no charge, got %v", result.Cost)
	}
	if !almostEqual(result.TotalHours, 0.833) {
		t.Errorf("expected 0.833 total hours, got %v", result.TotalHours)
	}
}

func TestBilling_CarryOverPartialAbsorption(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	ticket := &domain.Ticket{
		ID:             "ticket-1",
		VehicleID:      "vehicle-1",
		Status:         domain.TicketStatusActive,
		TotalCost:      60,
		ActualHours:    1.1,
		PaidHours:      4,
		RemainingHours: 2.9,
	}
	f.startSession(ticket.ID, domain.SizeSmall)

	// 5h33m = 5.55 hours; 2.9 are covered, leaving 2.65 unpaid, rounded
	// up to 3 hours at the small rate. The flat-rate allotment was
	// already exhausted on this ticket.
	end := baseTime.Add(5*time.Hour + 33*time.Minute)
	result, err := f.billing.CalculateCost(context.Background(), ticket, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(result.Cost, 60) {
		t.Errorf("expected cost 60, got %v", result.Cost)
	}
	if !almostEqual(result.HoursBeingPaid, 2.65) {
		t.Errorf("expected 2.65 hours being paid, got %v", result.HoursBeingPaid)
	}
}

func TestBilling_ElapsedHoursIgnoresSubSecond(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	ticket := &domain.Ticket{ID: "ticket-1", VehicleID: "vehicle-1", Status: domain.TicketStatusActive}
	f.startSession(ticket.ID, domain.SizeSmall)

	// 900ms short of two hours truncates to 7199 whole seconds, which
	// rounds back to 2.000 at 3 decimals.
	end := baseTime.Add(2*time.Hour - 900*time.Millisecond)
	result, err := f.billing.CalculateCost(context.Background(), ticket, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !almostEqual(result.TotalHours, 2) {
		t.Errorf("expected 7199s to round to 2.000 hours, got %v", result.TotalHours)
	}
}

func TestBilling_CostWithoutActiveSession(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	ticket := &domain.Ticket{ID: "ticket-1", VehicleID: "vehicle-1", Status: domain.TicketStatusActive}

	_, err := f.billing.CalculateCost(context.Background(), ticket, baseTime.Add(time.Hour))
	if !errors.Is(err, service.ErrNoActiveSession) {
		t.Errorf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestBilling_StopFixesSessionFields(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	ticket := &domain.Ticket{ID: "ticket-1", VehicleID: "vehicle-1", Status: domain.TicketStatusActive}
	f.startSession(ticket.ID, domain.SizeSmall)

	f.clock.Set(baseTime.Add(2 * time.Hour))
	result, err := f.billing.Stop(context.Background(), ticket)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session := result.Session
	if session.Status != domain.SessionStatusEnded {
		t.Errorf("expected session status %s, got %s", domain.SessionStatusEnded, session.Status)
	}
	if !session.EndedAt.Equal(baseTime.Add(2 * time.Hour)) {
		t.Errorf("unexpected EndedAt: %v", session.EndedAt)
	}
	if !almostEqual(session.Cost, 40) {
		t.Errorf("expected session cost 40, got %v", session.Cost)
	}
	if !almostEqual(session.TotalHours, 2) {
		t.Errorf("expected session total hours 2, got %v", session.TotalHours)
	}
}

func TestBilling_StartRejectsSecondSessionOnTicket(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	f.startSession("ticket-1", domain.SizeSmall)
	f.spaceRepo.AddSpace(&domain.Space{ID: "space-2", Name: "A2", Size: domain.SizeSmall})

	_, err := f.billing.Start(context.Background(), "ticket-1", "entrance-1", "space-2")
	if !errors.Is(err, service.ErrTicketHasActiveSession) {
		t.Errorf("expected ErrTicketHasActiveSession, got %v", err)
	}
}

func TestBilling_StartOnRacedSpaceReportsOccupied(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	f.spaceRepo.AddSpace(&domain.Space{ID: "space-1", Name: "A1", Size: domain.SizeSmall})

	// Another entry won the space between selection and insert.
	f.sessionRepo.AddSession(&domain.ParkingSession{
		ID:       "session-other",
		TicketID: "ticket-other",
		SpaceID:  "space-1",
		Status:   domain.SessionStatusStarted,
	})

	_, err := f.billing.Start(context.Background(), "ticket-1", "entrance-1", "space-1")
	if !errors.Is(err, service.ErrSpaceOccupied) {
		t.Errorf("expected ErrSpaceOccupied, got %v", err)
	}
}

func TestBilling_StartUnknownEntrance(t *testing.T) {
	t.Parallel()

	f := newBillingFixture()
	f.spaceRepo.AddSpace(&domain.Space{ID: "space-1", Name: "A1", Size: domain.SizeSmall})

	_, err := f.billing.Start(context.Background(), "ticket-1", "entrance-missing", "space-1")
	if !errors.Is(err, service.ErrEntranceNotFound) {
		t.Errorf("expected ErrEntranceNotFound, got %v", err)
	}
}
