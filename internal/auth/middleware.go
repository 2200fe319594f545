package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-desk/internal/domain"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

const sessionKey = "auth_session"

// SessionCookie carries the token for clients that do not send headers.
const SessionCookie = "ticketapp_session"

// SessionResolver turns a token into its live session.
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// AuthMiddleware guards routes that need an active session.
type AuthMiddleware struct {
	sessions SessionResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Handle rejects requests without a valid session with SESSION_EXPIRED so
// clients can send the user back to the login view.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := TokenFromRequest(c)
	if token == "" {
		return apperrors.NewSessionExpired()
	}

	session, err := m.sessions.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// TokenFromRequest reads the bearer token, falling back to the session cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(SessionCookie)
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok
}
