package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// TicketMutation edits a loaded ticket in place.
type TicketMutation func(ticket *domain.Ticket) error

// TicketRepository encapsulates ticket persistence. Every lookup is scoped
// to an owner: a ticket that exists under another owner is reported as
// ErrNotFound.
type TicketRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error)
	GetForOwner(ctx context.Context, id, ownerID string) (*domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	UpdateForOwner(ctx context.Context, id, ownerID string, mutate TicketMutation) (*domain.Ticket, error)
	DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error)
}

type ticketRepository struct {
	blobs  persistence.BlobStore
	logger *zap.Logger
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(blobs persistence.BlobStore, logger *zap.Logger) TicketRepository {
	return &ticketRepository{blobs: blobs, logger: logger}
}

func (r *ticketRepository) all(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	found, err := loadDocument(ctx, r.blobs, r.logger, KeyTickets, &tickets)
	if err != nil {
		return nil, err
	}
	if !found || tickets == nil {
		return []domain.Ticket{}, nil
	}
	return tickets, nil
}

// ListByOwner returns owned tickets in stored order.
func (r *ticketRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Ticket, error) {
	tickets, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.OwnedBy(ownerID) {
			owned = append(owned, ticket)
		}
	}
	return owned, nil
}

func (r *ticketRepository) GetForOwner(ctx context.Context, id, ownerID string) (*domain.Ticket, error) {
	tickets, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == id && tickets[i].OwnedBy(ownerID) {
			ticket := tickets[i]
			return &ticket, nil
		}
	}
	return nil, ErrNotFound
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	tickets, err := r.all(ctx)
	if err != nil {
		return err
	}
	tickets = append(tickets, *ticket)
	return saveDocument(ctx, r.blobs, KeyTickets, tickets)
}

// UpdateForOwner applies mutate to the matching ticket and saves the whole
// list. The ticket keeps its id and owner whatever mutate does. Nothing is
// written when no owned ticket matches or mutate fails.
func (r *ticketRepository) UpdateForOwner(ctx context.Context, id, ownerID string, mutate TicketMutation) (*domain.Ticket, error) {
	tickets, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID != id || !tickets[i].OwnedBy(ownerID) {
			continue
		}
		updated := tickets[i]
		if err := mutate(&updated); err != nil {
			return nil, err
		}
		updated.ID = tickets[i].ID
		updated.OwnerID = tickets[i].OwnerID
		tickets[i] = updated
		if err := saveDocument(ctx, r.blobs, KeyTickets, tickets); err != nil {
			return nil, err
		}
		return &updated, nil
	}
	return nil, ErrNotFound
}

// DeleteForOwner removes the matching ticket. It reports whether anything
// was removed and skips the write when nothing was.
func (r *ticketRepository) DeleteForOwner(ctx context.Context, id, ownerID string) (bool, error) {
	tickets, err := r.all(ctx)
	if err != nil {
		return false, err
	}
	kept := tickets[:0]
	removed := false
	for _, ticket := range tickets {
		if ticket.ID == id && ticket.OwnedBy(ownerID) {
			removed = true
			continue
		}
		kept = append(kept, ticket)
	}
	if !removed {
		return false, nil
	}
	return true, saveDocument(ctx, r.blobs, KeyTickets, kept)
}
