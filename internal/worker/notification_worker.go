package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// dispatcher. Delivery is synchronous with the publishing request; there is
// no background queue to drain on shutdown.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		logger.Warn("notification worker disabled")
		return
	}
	notifications.RegisterHandlers()
	logger.Info("notification worker started")
}
