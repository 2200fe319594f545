package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/auth"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

// respond writes the success envelope with the notices raised while
// handling the request.
func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"data":    data,
		"notices": events.NoticesFrom(c.UserContext()),
	})
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	return nil
}

func currentSession(c *fiber.Ctx) *domain.Session {
	session, _ := auth.SessionFromContext(c)
	return session
}
