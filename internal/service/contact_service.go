package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/repository"
	"github.com/spec-kit/ticket-desk/internal/validation"
)

// ContactInput is the raw contact form.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService accepts contact form submissions.
type ContactService struct {
	messages repository.ContactRepository
	notifier *NotificationService
	clock    clock.Clock
}

// NewContactService creates the service.
func NewContactService(messages repository.ContactRepository, notifier *NotificationService, clk clock.Clock) *ContactService {
	if clk == nil {
		clk = clock.Real()
	}
	return &ContactService{messages: messages, notifier: notifier, clock: clk}
}

// Submit validates and records a contact message.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*domain.ContactMessage, error) {
	if errs := validation.ContactForm.Validate(in.values()); !errs.Valid() {
		return nil, rejectForm(ctx, s.notifier, validation.ContactForm, errs)
	}

	msg := domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.messages.Append(ctx, msg); err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, events.Event{
		Type:    events.EventContactSubmitted,
		Payload: events.ContactPayload{MessageID: msg.ID, Email: msg.Email, Subject: msg.Subject},
	})
	s.notifier.Notify(ctx, domain.Notice{Message: MsgContactSent, Kind: domain.NoticeSuccess})
	return &msg, nil
}

func (in ContactInput) values() validation.Values {
	return validation.Values{
		validation.FieldName:    in.Name,
		validation.FieldEmail:   in.Email,
		validation.FieldSubject: in.Subject,
		validation.FieldMessage: in.Message,
	}
}
