package domain

import "time"

// TicketStatus represents the current status of a ticket.
type TicketStatus string

const (
	TicketStatusActive    TicketStatus = "ACTIVE"
	TicketStatusCompleted TicketStatus = "COMPLETED"
)

// Ticket is the billing record for one parking episode of a vehicle. A
// completed ticket can be reactivated when the vehicle re-enters within
// the continuity window, so its hour counters accumulate across sessions.
type Ticket struct {
	ID        string
	Number    int64
	VehicleID string
	Status    TicketStatus

	// CompletedAt is set only while the ticket is COMPLETED. It is cleared
	// again when the ticket is reactivated.
	CompletedAt time.Time

	// TotalCost is the amount billed across all sessions of this ticket.
	TotalCost float64

	// ActualHours is the unrounded elapsed hours billed so far.
	ActualHours float64

	// PaidHours is the ceiling-rounded hours already charged for.
	PaidHours float64

	// RemainingHours = PaidHours - ActualHours, the paid-but-unused buffer
	// that absorbs short follow-up sessions at no extra charge.
	RemainingHours float64

	CreatedAt time.Time
}
