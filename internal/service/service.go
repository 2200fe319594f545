package service

import (
	"context"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/validation"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

// User-facing notice texts.
const (
	MsgFixFields      = "Please fix the highlighted fields and try again."
	MsgLoginSuccess   = "Login successful! Welcome back."
	MsgSignupSuccess  = "Account created successfully! Welcome aboard."
	MsgEmailExists    = "Email already exists. Please use a different email."
	MsgLoggedOut      = "You have been logged out successfully."
	MsgTicketCreated  = "Ticket created successfully!"
	MsgTicketUpdated  = "Ticket updated successfully!"
	MsgTicketDeleted  = "Ticket deleted successfully!"
	MsgTicketNotFound = "Ticket not found."
	MsgContactSent    = "Message sent successfully! Thank you for reaching out."
)

// rejectForm turns failed field checks into a VALIDATION_FAILED error and
// emits the matching error notice.
func rejectForm(ctx context.Context, notifier *NotificationService, form validation.Form, errs validation.Errors) error {
	first, _ := form.FirstInvalid(errs)
	notifier.Notify(ctx, domain.Notice{Message: MsgFixFields, Kind: domain.NoticeError})
	return apperrors.NewFieldValidationError(MsgFixFields, errs.Details(), first)
}

func requireSession(ctx context.Context, notifier *NotificationService, session *domain.Session) error {
	if session == nil || session.UserID == "" {
		notifier.Notify(ctx, domain.Notice{Message: apperrors.MsgSessionExpired, Kind: domain.NoticeError})
		return apperrors.NewSessionExpired()
	}
	return nil
}
