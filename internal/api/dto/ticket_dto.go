package dto

import (
	"time"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// TicketRequest payload for create and full replace.
type TicketRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Status      string `json:"status" form:"status"`
	Priority    string `json:"priority" form:"priority"`
}

// TicketPatchRequest payload for partial updates. Absent fields are left
// unchanged.
type TicketPatchRequest struct {
	Title       *string `json:"title" form:"title"`
	Description *string `json:"description" form:"description"`
	Status      *string `json:"status" form:"status"`
	Priority    *string `json:"priority" form:"priority"`
}

// TicketResponse is the wire form of a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"userId"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   *time.Time            `json:"updatedAt,omitempty"`
}

// DeleteTicketResponse reports the outcome of a delete.
type DeleteTicketResponse struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

// DashboardResponse carries the status counts.
type DashboardResponse struct {
	Counts domain.StatusCounts `json:"counts"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		UserID:      t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
