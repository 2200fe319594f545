package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/domain"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

func TestTokenRoundTrip(t *testing.T) {
	clk := clock.Fake(time.Now())
	tm := NewTokenManager("secret", time.Hour, clk)

	token, issued, expires, err := tm.GenerateToken("u1", "a@b.com", "A")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, expires.Sub(issued))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.NotEmpty(t, claims.ID)

	again, _, _, err := tm.GenerateToken("u1", "a@b.com", "A")
	require.NoError(t, err)
	assert.NotEqual(t, token, again)
}

func TestTokenRejections(t *testing.T) {
	clk := clock.Fake(time.Now())
	tm := NewTokenManager("secret", time.Minute, clk)
	token, _, _, err := tm.GenerateToken("u1", "a@b.com", "A")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Minute, clk).ParseToken(token)
	assert.Error(t, err)

	clk.Advance(2 * time.Minute)
	_, err = tm.ParseToken(token)
	assert.Error(t, err)

	_, err = tm.ParseToken("garbage")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := Hasher(bcrypt.MinCost)("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, ComparePassword(hash, "secret1"))
	assert.Error(t, ComparePassword(hash, "secret2"))
}

type stubResolver map[string]*domain.Session

func (s stubResolver) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	if session, ok := s[token]; ok {
		return session, nil
	}
	return nil, apperrors.NewSessionExpired()
}

func newGuardedApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	guard := NewAuthMiddleware(stubResolver{"good": {UserID: "u1"}})
	app.Get("/private", guard.Handle, func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusTeapot)
		}
		return c.SendString(session.UserID)
	})
	return app
}

func TestMiddlewareGuardsRoutes(t *testing.T) {
	app := newGuardedApp()

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"bad scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic good") }, http.StatusUnauthorized},
		{"unknown token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"}) }, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			tc.setup(req)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
