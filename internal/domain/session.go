package domain

import "time"

// SessionStatus represents the current status of a parking session.
type SessionStatus string

const (
	SessionStatusStarted SessionStatus = "STARTED"
	SessionStatusEnded   SessionStatus = "ENDED"
)

// ParkingSession is one physical occupancy of a single space under a
// single ticket. A ticket has at most one STARTED session, and so does a
// space; both are enforced by partial unique indexes in the database on
// top of the in-process checks.
type ParkingSession struct {
	ID         string
	TicketID   string
	EntranceID string
	SpaceID    string
	Status     SessionStatus
	StartedAt  time.Time
	EndedAt    time.Time

	// Cost, TotalHours and PaidHours are fixed when the session ends.
	// TotalHours is the elapsed hours of the session; PaidHours is the
	// portion actually charged (the rest was covered by the ticket's
	// remaining-hours buffer).
	Cost       float64
	TotalHours float64
	PaidHours  float64
}
