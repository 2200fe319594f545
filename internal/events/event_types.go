package events

import (
	"time"

	"github.com/spec-kit/ticket-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventNoticeEmitted    EventType = "notice_emitted"
	EventAccountCreated   EventType = "account_created"
	EventSessionStarted   EventType = "session_started"
	EventSessionEnded     EventType = "session_ended"
	EventTicketCreated    EventType = "ticket_created"
	EventTicketUpdated    EventType = "ticket_updated"
	EventTicketDeleted    EventType = "ticket_deleted"
	EventContactSubmitted EventType = "contact_submitted"
)

// TicketEvents are the ticket lifecycle events.
var TicketEvents = []EventType{EventTicketCreated, EventTicketUpdated, EventTicketDeleted}

// SessionEvents are the session lifecycle events.
var SessionEvents = []EventType{EventSessionStarted, EventSessionEnded}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NoticePayload carries a user-facing notice.
type NoticePayload struct {
	Notice domain.Notice `json:"notice"`
}

// AccountPayload identifies an account.
type AccountPayload struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
}

// TicketPayload summarizes a ticket change.
type TicketPayload struct {
	TicketID  string                `json:"ticket_id"`
	Title     string                `json:"title,omitempty"`
	Status    domain.TicketStatus   `json:"status,omitempty"`
	Priority  domain.TicketPriority `json:"priority,omitempty"`
	OldStatus domain.TicketStatus   `json:"old_status,omitempty"`
}

// ContactPayload summarizes a contact submission.
type ContactPayload struct {
	MessageID string `json:"message_id"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
}
