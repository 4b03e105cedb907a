package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parking/internal/domain"
	"parking/internal/repository"
)

// SessionRepository is a PostgreSQL implementation of repository.SessionRepository.
type SessionRepository struct {
	q Querier
}

// NewSessionRepository creates a new PostgreSQL session repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{q: db}
}

// NewSessionRepositoryWithTx creates a session repository using a transaction.
func NewSessionRepositoryWithTx(tx *sql.Tx) *SessionRepository {
	return &SessionRepository{q: tx}
}

// Create persists a new session. Partial unique indexes on (space_id) and
// (ticket_id) WHERE status = 'STARTED' reject double occupancy and a second
// active session per ticket; violations surface as repository.ErrConflict.
func (r *SessionRepository) Create(ctx context.Context, session *domain.ParkingSession) error {
	query := `
		INSERT INTO parking_sessions (id, ticket_id, entrance_id, space_id, status, started_at, ended_at, cost, total_hours, paid_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var endedAt sql.NullTime
	if !session.EndedAt.IsZero() {
		endedAt = sql.NullTime{Time: session.EndedAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		session.ID,
		session.TicketID,
		session.EntranceID,
		session.SpaceID,
		session.Status,
		session.StartedAt,
		endedAt,
		session.Cost,
		session.TotalHours,
		session.PaidHours,
	)

	return mapWriteError(err)
}

// GetByID retrieves a session by ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.ParkingSession, error) {
	query := selectSession + ` WHERE id = $1`

	session, err := scanSession(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return session, nil
}

// GetStartedByTicketID retrieves the started session of a ticket.
// Returns nil if the ticket has no started session.
func (r *SessionRepository) GetStartedByTicketID(ctx context.Context, ticketID string) (*domain.ParkingSession, error) {
	query := selectSession + ` WHERE ticket_id = $1 AND status = $2 LIMIT 1`

	session, err := scanSession(r.q.QueryRowContext(ctx, query, ticketID, domain.SessionStatusStarted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return session, nil
}

// GetStartedBySpaceID retrieves the started session occupying a space.
// Returns nil if the space is vacant.
func (r *SessionRepository) GetStartedBySpaceID(ctx context.Context, spaceID string) (*domain.ParkingSession, error) {
	query := selectSession + ` WHERE space_id = $1 AND status = $2 LIMIT 1`

	session, err := scanSession(r.q.QueryRowContext(ctx, query, spaceID, domain.SessionStatusStarted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return session, nil
}

// GetByTicketID retrieves all sessions of a ticket, oldest first.
func (r *SessionRepository) GetByTicketID(ctx context.Context, ticketID string) ([]*domain.ParkingSession, error) {
	query := selectSession + ` WHERE ticket_id = $1 ORDER BY started_at`

	rows, err := r.q.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*domain.ParkingSession
	for rows.Next() {
		var session domain.ParkingSession
		var endedAt sql.NullTime

		if err := rows.Scan(
			&session.ID,
			&session.TicketID,
			&session.EntranceID,
			&session.SpaceID,
			&session.Status,
			&session.StartedAt,
			&endedAt,
			&session.Cost,
			&session.TotalHours,
			&session.PaidHours,
		); err != nil {
			return nil, err
		}

		if endedAt.Valid {
			session.EndedAt = endedAt.Time
		}
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

// Update updates an existing session.
func (r *SessionRepository) Update(ctx context.Context, session *domain.ParkingSession) error {
	query := `
		UPDATE parking_sessions
		SET status = $1, ended_at = $2, cost = $3, total_hours = $4, paid_hours = $5
		WHERE id = $6
	`

	var endedAt sql.NullTime
	if !session.EndedAt.IsZero() {
		endedAt = sql.NullTime{Time: session.EndedAt, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		session.Status,
		endedAt,
		session.Cost,
		session.TotalHours,
		session.PaidHours,
		session.ID,
	)
	if err != nil {
		return err
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

const selectSession = `
	SELECT id, ticket_id, entrance_id, space_id, status, started_at, ended_at, cost, total_hours, paid_hours
	FROM parking_sessions
`

func scanSession(row *sql.Row) (*domain.ParkingSession, error) {
	var session domain.ParkingSession
	var endedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.TicketID,
		&session.EntranceID,
		&session.SpaceID,
		&session.Status,
		&session.StartedAt,
		&endedAt,
		&session.Cost,
		&session.TotalHours,
		&session.PaidHours,
	)
	if err != nil {
		return nil, err
	}

	if endedAt.Valid {
		session.EndedAt = endedAt.Time
	}

	return &session, nil
}

// Ensure SessionRepository implements repository.SessionRepository.
var _ repository.SessionRepository = (*SessionRepository)(nil)
