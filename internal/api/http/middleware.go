package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/observability"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

// RegisterMiddlewares attaches global middlewares. The request logger wraps
// everything so it records the status written by the error renderer.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(noticeCollectorMiddleware())
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func noticeCollectorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, _ := events.WithCollector(c.UserContext())
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
				}
				err = renderError(c, domainErr)
			}
		}()
		return c.Next()
	}
}

func renderError(c *fiber.Ctx, domainErr *apperrors.DomainError) error {
	ctx := c.UserContext()
	if domainErr.Code == apperrors.CodeSessionExpired {
		ensureNotice(ctx, domain.Notice{Message: apperrors.MsgSessionExpired, Kind: domain.NoticeError})
	}

	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}
	return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
		"error":   body,
		"notices": events.NoticesFrom(ctx),
	})
}

// ensureNotice adds notice unless an identical one was already raised.
func ensureNotice(ctx context.Context, notice domain.Notice) {
	collector, ok := events.CollectorFrom(ctx)
	if !ok {
		return
	}
	for _, existing := range collector.Notices() {
		if existing == notice {
			return
		}
	}
	collector.Add(notice)
}
