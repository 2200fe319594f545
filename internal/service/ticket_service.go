package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/repository"
	"github.com/spec-kit/ticket-desk/internal/validation"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

// TicketInput is the raw create form.
type TicketInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// TicketPatch carries the fields to change. Nil fields keep their value.
type TicketPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
}

func (p TicketPatch) apply(current domain.Ticket) TicketInput {
	in := TicketInput{
		Title:       current.Title,
		Description: current.Description,
		Status:      string(current.Status),
		Priority:    string(current.Priority),
	}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.Priority != nil {
		in.Priority = *p.Priority
	}
	return in
}

func (in TicketInput) values() validation.Values {
	return validation.Values{
		validation.FieldTitle:       in.Title,
		validation.FieldDescription: in.Description,
		validation.FieldStatus:      in.Status,
		validation.FieldPriority:    in.Priority,
	}
}

func (in TicketInput) priority() domain.TicketPriority {
	if in.Priority == "" {
		return domain.TicketPriorityMedium
	}
	return domain.TicketPriority(in.Priority)
}

// TicketService owns ticket workflows. Every operation is scoped to the
// session it is given.
type TicketService struct {
	tickets  repository.TicketRepository
	notifier *NotificationService
	clock    clock.Clock
	logger   *zap.Logger
}

// TicketDependencies groups the collaborators of TicketService.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	Notifications *NotificationService
	Clock         clock.Clock
	Logger        *zap.Logger
}

// NewTicketService creates a ticket service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:  deps.TicketRepo,
		notifier: deps.Notifications,
		clock:    clk,
		logger:   logger,
	}
}

// Create validates and stores a new ticket owned by the session's account.
func (s *TicketService) Create(ctx context.Context, session *domain.Session, in TicketInput) (*domain.Ticket, error) {
	if err := requireSession(ctx, s.notifier, session); err != nil {
		return nil, err
	}
	if errs := validation.TicketForm.Validate(in.values()); !errs.Valid() {
		return nil, rejectForm(ctx, s.notifier, validation.TicketForm, errs)
	}

	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		OwnerID:     session.UserID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      domain.TicketStatus(in.Status),
		Priority:    in.priority(),
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: session.UserID,
		Payload: events.TicketPayload{
			TicketID: ticket.ID,
			Title:    ticket.Title,
			Status:   ticket.Status,
			Priority: ticket.Priority,
		},
	})
	s.notifier.Notify(ctx, domain.Notice{Message: MsgTicketCreated, Kind: domain.NoticeSuccess})
	return ticket, nil
}

// Update merges patch into the owned ticket with the given id and validates
// the result. Unknown or foreign ids are reported as not found.
func (s *TicketService) Update(ctx context.Context, session *domain.Session, id string, patch TicketPatch) (*domain.Ticket, error) {
	if err := requireSession(ctx, s.notifier, session); err != nil {
		return nil, err
	}

	var oldStatus domain.TicketStatus
	var invalid error
	updated, err := s.tickets.UpdateForOwner(ctx, id, session.UserID, func(t *domain.Ticket) error {
		merged := patch.apply(*t)
		if errs := validation.TicketForm.Validate(merged.values()); !errs.Valid() {
			invalid = rejectForm(ctx, s.notifier, validation.TicketForm, errs)
			return invalid
		}
		oldStatus = t.Status
		now := s.clock.Now().UTC()
		t.Title = strings.TrimSpace(merged.Title)
		t.Description = strings.TrimSpace(merged.Description)
		t.Status = domain.TicketStatus(merged.Status)
		t.Priority = merged.priority()
		t.UpdatedAt = &now
		return nil
	})
	switch {
	case invalid != nil:
		return nil, invalid
	case errors.Is(err, repository.ErrNotFound):
		s.notifier.Notify(ctx, domain.Notice{Message: MsgTicketNotFound, Kind: domain.NoticeError})
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	case err != nil:
		return nil, err
	}

	s.notifier.Publish(ctx, events.Event{
		Type:    events.EventTicketUpdated,
		ActorID: session.UserID,
		Payload: events.TicketPayload{
			TicketID:  updated.ID,
			Title:     updated.Title,
			Status:    updated.Status,
			Priority:  updated.Priority,
			OldStatus: oldStatus,
		},
	})
	s.notifier.Notify(ctx, domain.Notice{Message: MsgTicketUpdated, Kind: domain.NoticeSuccess})
	return updated, nil
}

// Delete removes the owned ticket with the given id and reports whether one
// was removed. Deleting a missing ticket is not an error.
func (s *TicketService) Delete(ctx context.Context, session *domain.Session, id string) (bool, error) {
	if err := requireSession(ctx, s.notifier, session); err != nil {
		return false, err
	}
	removed, err := s.tickets.DeleteForOwner(ctx, id, session.UserID)
	if err != nil {
		return false, err
	}
	if removed {
		s.notifier.Publish(ctx, events.Event{
			Type:    events.EventTicketDeleted,
			ActorID: session.UserID,
			Payload: events.TicketPayload{TicketID: id},
		})
	} else {
		s.logger.Debug("delete matched no ticket", zap.String("ticket_id", id), zap.String("user_id", session.UserID))
	}
	s.notifier.Notify(ctx, domain.Notice{Message: MsgTicketDeleted, Kind: domain.NoticeSuccess})
	return removed, nil
}

// List returns the session's tickets in insertion order.
func (s *TicketService) List(ctx context.Context, session *domain.Session) ([]domain.Ticket, error) {
	if err := requireSession(ctx, s.notifier, session); err != nil {
		return nil, err
	}
	return s.tickets.ListByOwner(ctx, session.UserID)
}

// Get returns one owned ticket.
func (s *TicketService) Get(ctx context.Context, session *domain.Session, id string) (*domain.Ticket, error) {
	if err := requireSession(ctx, s.notifier, session); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetForOwner(ctx, id, session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return ticket, err
}

// Dashboard counts the session's tickets by status.
func (s *TicketService) Dashboard(ctx context.Context, session *domain.Session) (domain.StatusCounts, error) {
	tickets, err := s.List(ctx, session)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	return CountByStatus(tickets), nil
}

// CountByStatus tallies tickets by status. Unknown statuses only count
// towards the total.
func CountByStatus(tickets []domain.Ticket) domain.StatusCounts {
	counts := domain.StatusCounts{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			counts.Open++
		case domain.TicketStatusInProgress:
			counts.InProgress++
		case domain.TicketStatusClosed:
			counts.Closed++
		}
	}
	return counts
}
