package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parking/internal/domain"
	"parking/internal/service"
)

// TicketHandler handles HTTP requests for tickets.
type TicketHandler struct {
	ledger *service.TicketLedgerService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(ledger *service.TicketLedgerService) *TicketHandler {
	return &TicketHandler{ledger: ledger}
}

// TicketResponse is the HTTP response for ticket data.
type TicketResponse struct {
	ID             string  `json:"id"`
	Number         int64   `json:"number"`
	VehicleID      string  `json:"vehicle_id"`
	Status         string  `json:"status"`
	CompletedAt    string  `json:"completed_at,omitempty"`
	TotalCost      float64 `json:"total_cost"`
	ActualHours    float64 `json:"actual_hours"`
	PaidHours      float64 `json:"paid_hours"`
	RemainingHours float64 `json:"remaining_hours"`
}

// SessionResponse is the HTTP response for parking-session data.
type SessionResponse struct {
	ID         string  `json:"id"`
	TicketID   string  `json:"ticket_id"`
	EntranceID string  `json:"entrance_id"`
	SpaceID    string  `json:"space_id"`
	Status     string  `json:"status"`
	StartedAt  string  `json:"started_at"`
	EndedAt    string  `json:"ended_at,omitempty"`
	Cost       float64 `json:"cost"`
	TotalHours float64 `json:"total_hours"`
	PaidHours  float64 `json:"paid_hours"`
}

// GetTicket handles GET /v1/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID := c.Param("id")

	ticket, err := h.ledger.Ticket(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}

	sessions, err := h.ledger.Sessions(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"ticket": ticketResponse(ticket)}
	var breakdown []SessionResponse
	for _, s := range sessions {
		breakdown = append(breakdown, sessionResponse(s))
	}
	response["sessions"] = breakdown

	respondJSON(c, http.StatusOK, response)
}

func ticketResponse(t *domain.Ticket) TicketResponse {
	response := TicketResponse{
		ID:             t.ID,
		Number:         t.Number,
		VehicleID:      t.VehicleID,
		Status:         string(t.Status),
		TotalCost:      t.TotalCost,
		ActualHours:    t.ActualHours,
		PaidHours:      t.PaidHours,
		RemainingHours: t.RemainingHours,
	}

	if !t.CompletedAt.IsZero() {
		response.CompletedAt = t.CompletedAt.Format(time.RFC3339)
	}

	return response
}

func sessionResponse(s *domain.ParkingSession) SessionResponse {
	response := SessionResponse{
		ID:         s.ID,
		TicketID:   s.TicketID,
		EntranceID: s.EntranceID,
		SpaceID:    s.SpaceID,
		Status:     string(s.Status),
		StartedAt:  s.StartedAt.Format(time.RFC3339),
		Cost:       s.Cost,
		TotalHours: s.TotalHours,
		PaidHours:  s.PaidHours,
	}

	if !s.EndedAt.IsZero() {
		response.EndedAt = s.EndedAt.Format(time.RFC3339)
	}

	return response
}
