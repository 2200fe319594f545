package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/auth"
	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/repository"
	"github.com/spec-kit/ticket-desk/internal/validation"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

// SignupInput is the raw signup form.
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

func (in SignupInput) values() validation.Values {
	return validation.Values{
		validation.FieldName:            in.Name,
		validation.FieldEmail:           in.Email,
		validation.FieldPassword:        in.Password,
		validation.FieldConfirmPassword: in.ConfirmPassword,
	}
}

// AuthService coordinates registration, login and session lookup.
type AuthService struct {
	accounts   repository.AccountRepository
	sessions   repository.SessionRepository
	notifier   *NotificationService
	tokenMgr   *auth.TokenManager
	clock      clock.Clock
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AccountRepo   repository.AccountRepository
	SessionRepo   repository.SessionRepository
	Notifications *NotificationService
	Clock         clock.Clock
	Logger        *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		sessions:   deps.SessionRepo,
		notifier:   deps.Notifications,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL(), clk),
		clock:      clk,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Signup registers an account and opens a session for it. Email uniqueness
// is case-sensitive.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.Account, *domain.Session, error) {
	values := in.values()
	if errs := validation.SignupForm.Validate(values); !errs.Valid() {
		return nil, nil, rejectForm(ctx, s.notifier, validation.SignupForm, errs)
	}

	email := strings.TrimSpace(in.Email)
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.notifier.Notify(ctx, domain.Notice{Message: MsgEmailExists, Kind: domain.NoticeError})
			return nil, nil, apperrors.NewConflict(MsgEmailExists, map[string]any{
				"fields":        map[string]any{validation.FieldEmail: MsgEmailExists},
				"first_invalid": validation.FieldEmail,
			})
		}
		return nil, nil, err
	}
	s.notifier.Publish(ctx, events.Event{
		Type:    events.EventAccountCreated,
		ActorID: account.ID,
		Payload: events.AccountPayload{AccountID: account.ID, Email: account.Email},
	})

	session, err := s.openSession(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	s.notifier.Notify(ctx, domain.Notice{Message: MsgSignupSuccess, Kind: domain.NoticeSuccess})
	return account, session, nil
}

// Login checks credentials and opens a session. Unknown emails and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	values := validation.Values{
		validation.FieldEmail:    email,
		validation.FieldPassword: password,
	}
	if errs := validation.LoginForm.Validate(values); !errs.Valid() {
		return nil, rejectForm(ctx, s.notifier, validation.LoginForm, errs)
	}

	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if account == nil || auth.ComparePassword(account.PasswordHash, password) != nil {
		s.notifier.Notify(ctx, domain.Notice{Message: apperrors.MsgInvalidCredentials, Kind: domain.NoticeError})
		return nil, apperrors.NewInvalidCredentials()
	}

	session, err := s.openSession(ctx, account)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, domain.Notice{Message: MsgLoginSuccess, Kind: domain.NoticeSuccess})
	return session, nil
}

// Logout revokes the session behind token. It succeeds whether or not such
// a session exists.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token != "" {
		session, err := s.sessions.Get(ctx, token)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		removed, err := s.sessions.Delete(ctx, token)
		if err != nil {
			return err
		}
		if removed && session != nil {
			s.notifier.Publish(ctx, events.Event{Type: events.EventSessionEnded, ActorID: session.UserID})
		}
	}
	s.notifier.Notify(ctx, domain.Notice{Message: MsgLoggedOut, Kind: domain.NoticeSuccess})
	return nil
}

// Authenticate resolves a token into its live session. Any failure yields
// SESSION_EXPIRED.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	expired := func() (*domain.Session, error) {
		s.notifier.Notify(ctx, domain.Notice{Message: apperrors.MsgSessionExpired, Kind: domain.NoticeError})
		return nil, apperrors.NewSessionExpired()
	}
	if token == "" {
		return expired()
	}
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return expired()
	}
	session, err := s.sessions.Get(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return expired()
	}
	if err != nil {
		return nil, err
	}
	if session.UserID != claims.UserID || session.Expired(s.clock.Now()) {
		return expired()
	}
	// Sessions outlive accounts removed from storage.
	if _, err := s.accounts.GetByID(ctx, session.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return expired()
		}
		return nil, err
	}
	return session, nil
}

func (s *AuthService) openSession(ctx context.Context, account *domain.Account) (*domain.Session, error) {
	token, issuedAt, expiresAt, err := s.tokenMgr.GenerateToken(account.ID, account.Email, account.Name)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	session := domain.Session{
		UserID:    account.ID,
		Email:     account.Email,
		Name:      account.Name,
		Token:     token,
		CreatedAt: issuedAt,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Debug("session opened", zap.String("user_id", account.ID), zap.Time("expires_at", expiresAt))
	s.notifier.Publish(ctx, events.Event{Type: events.EventSessionStarted, ActorID: account.ID})
	return &session, nil
}

