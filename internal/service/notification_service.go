package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
)

// NotificationService is the notification boundary: services hand it
// notices and domain events, and it fans them out to the request collector
// and the dispatcher subscribers. A nil *NotificationService drops everything.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	clock      clock.Clock
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, clk clock.Clock) *NotificationService {
	if clk == nil {
		clk = clock.Real()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		clock:      clk,
	}
}

// Notify emits a user-facing notice.
func (n *NotificationService) Notify(ctx context.Context, notice domain.Notice) {
	if n == nil {
		return
	}
	if collector, ok := events.CollectorFrom(ctx); ok {
		collector.Add(notice)
	}
	n.Publish(ctx, events.Event{
		Type:    events.EventNoticeEmitted,
		Payload: events.NoticePayload{Notice: notice},
	})
}

// Publish stamps and dispatches a domain event. Subscriber failures are
// logged and never reach the caller.
func (n *NotificationService) Publish(ctx context.Context, event events.Event) {
	if n == nil || n.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = n.clock.Now()
	}
	if err := n.dispatcher.Publish(ctx, event); err != nil {
		n.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n == nil || n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventNoticeEmitted, n.handleNotice)
	n.dispatcher.Subscribe(events.EventAccountCreated, n.handleAccountCreated)
	events.SubscribeAll(n.dispatcher, n.handleSession, events.SessionEvents...)
	events.SubscribeAll(n.dispatcher, n.handleTicketChange, events.TicketEvents...)
	n.dispatcher.Subscribe(events.EventContactSubmitted, n.handleContactSubmitted)
}

func (n *NotificationService) handleNotice(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.NoticePayload)
	n.logger.Debug("NoticeEmitted",
		zap.String("kind", string(payload.Notice.Kind)),
		zap.String("message", payload.Notice.Message))
	return nil
}

func (n *NotificationService) handleAccountCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("AccountCreated", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSession(_ context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("actor_id", event.ActorID))
	return nil
}

func (n *NotificationService) handleTicketChange(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type), zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleContactSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ContactSubmitted", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
