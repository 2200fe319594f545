package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/auth"
	"github.com/spec-kit/ticket-desk/internal/clock"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/events"
	"github.com/spec-kit/ticket-desk/internal/persistence"
	"github.com/spec-kit/ticket-desk/internal/repository"
	"github.com/spec-kit/ticket-desk/internal/validation"
	apperrors "github.com/spec-kit/ticket-desk/pkg/util"
)

type fixture struct {
	clock    *clock.FakeClock
	blobs    *persistence.MemoryStore
	accounts repository.AccountRepository
	events   []events.Event
	auth     *AuthService
	tickets  *TicketService
	contact  *ContactService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 60,
		BcryptCost:        4,
	}}
	f := &fixture{
		clock: clock.Fake(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		blobs: persistence.NewMemoryStore(),
	}
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	record := func(_ context.Context, e events.Event) error {
		f.events = append(f.events, e)
		return nil
	}
	events.SubscribeAll(dispatcher, record, events.SessionEvents...)
	events.SubscribeAll(dispatcher, record, events.TicketEvents...)
	events.SubscribeAll(dispatcher, record, events.EventAccountCreated, events.EventContactSubmitted)
	notifier := NewNotificationService(dispatcher, logger, cfg.Notification, f.clock)

	f.accounts = repository.NewAccountRepository(f.blobs, logger, repository.AccountOptions{
		Hash:     auth.Hasher(cfg.Auth.BcryptCost),
		SeedDemo: true,
	})
	f.auth = NewAuthService(cfg, AuthDependencies{
		AccountRepo:   f.accounts,
		SessionRepo:   repository.NewSessionRepository(f.blobs, logger),
		Notifications: notifier,
		Clock:         f.clock,
		Logger:        logger,
	})
	f.tickets = NewTicketService(TicketDependencies{
		TicketRepo:    repository.NewTicketRepository(f.blobs, logger),
		Notifications: notifier,
		Clock:         f.clock,
		Logger:        logger,
	})
	f.contact = NewContactService(repository.NewContactRepository(f.blobs, logger), notifier, f.clock)
	return f
}

func (f *fixture) signup(t *testing.T, name, email, password string) *domain.Session {
	t.Helper()
	_, session, err := f.auth.Signup(context.Background(), SignupInput{
		Name: name, Email: email, Password: password, ConfirmPassword: password,
	})
	require.NoError(t, err)
	return session
}

func (f *fixture) eventTypes() []events.EventType {
	var out []events.EventType
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

func strPtr(s string) *string { return &s }

func domainError(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de
}

func TestSignupThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx, collector := events.WithCollector(context.Background())

	account, session, err := f.auth.Signup(ctx, SignupInput{
		Name: " ", Email: "a@b.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.Error(t, err)
	assert.Nil(t, account)
	assert.Nil(t, session)

	account, session, err = f.auth.Signup(ctx, SignupInput{
		Name: "A", Email: "a@b.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, account.ID, session.UserID)
	assert.Equal(t, "A", session.Name)
	assert.NotEqual(t, "secret1", account.PasswordHash)

	login, err := f.auth.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, login.UserID)
	assert.NotEqual(t, session.Token, login.Token)

	notices := collector.Notices()
	require.Len(t, notices, 3)
	assert.Equal(t, domain.Notice{Message: MsgFixFields, Kind: domain.NoticeError}, notices[0])
	assert.Equal(t, domain.Notice{Message: MsgSignupSuccess, Kind: domain.NoticeSuccess}, notices[1])
	assert.Equal(t, domain.Notice{Message: MsgLoginSuccess, Kind: domain.NoticeSuccess}, notices[2])
	assert.Equal(t, []events.EventType{
		events.EventAccountCreated, events.EventSessionStarted, events.EventSessionStarted,
	}, f.eventTypes())
}

func TestSignupCreateDashboardScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.signup(t, "A", "a@b.com", "secret1")
	require.NotEmpty(t, session.UserID)

	_, err := f.tickets.Create(ctx, session, TicketInput{Title: "Fix bug", Status: "open"})
	require.NoError(t, err)

	list, err := f.tickets.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.TicketStatusOpen, list[0].Status)

	counts, err := f.tickets.Dashboard(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Open)
	assert.Equal(t, 0, counts.InProgress)
	assert.Equal(t, 0, counts.Closed)
}

func TestLoginDemoAccount(t *testing.T) {
	f := newFixture(t)
	session, err := f.auth.Login(context.Background(), domain.DemoAccount.Email, domain.DemoAccount.Password)
	require.NoError(t, err)
	assert.Equal(t, domain.DemoAccount.ID, session.UserID)
	assert.Equal(t, domain.DemoAccount.Name, session.Name)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "Ann", "a@b.com", "secret1")

	before, err := f.accounts.List(ctx)
	require.NoError(t, err)

	_, _, err = f.auth.Signup(ctx, SignupInput{
		Name: "Other", Email: "a@b.com", Password: "secret2", ConfirmPassword: "secret2",
	})
	de := domainError(t, err)
	assert.Equal(t, apperrors.CodeConflict, de.Code)
	assert.Equal(t, MsgEmailExists, de.Message)

	after, err := f.accounts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))

	// uniqueness is case-sensitive
	f.signup(t, "Ann", "A@b.com", "secret1")
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.auth.Signup(context.Background(), SignupInput{
		Name: "Ann", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret2",
	})
	de := domainError(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, de.Code)
	assert.Equal(t, validation.FieldEmail, de.Details["first_invalid"])
	fields := de.Details["fields"].(map[string]any)
	assert.Equal(t, "Email is invalid", fields[validation.FieldEmail])
	assert.Equal(t, "Passwords do not match", fields[validation.FieldConfirmPassword])
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "Ann", "a@b.com", "secret1")

	for name, creds := range map[string][2]string{
		"wrong password": {"a@b.com", "secret2"},
		"unknown email":  {"nobody@b.com", "secret1"},
		"email case":     {"A@B.com", "secret1"},
	} {
		t.Run(name, func(t *testing.T) {
			ctx, collector := events.WithCollector(context.Background())
			session, err := f.auth.Login(ctx, creds[0], creds[1])
			assert.Nil(t, session)
			de := domainError(t, err)
			assert.Equal(t, apperrors.CodeInvalidCredentials, de.Code)
			assert.Equal(t, "Invalid email or password. Please try again.", de.Message)
			assert.Equal(t, []domain.Notice{{Message: de.Message, Kind: domain.NoticeError}}, collector.Notices())
		})
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.signup(t, "Ann", "a@b.com", "secret1")

	got, err := f.auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)

	_, err = f.auth.Authenticate(ctx, "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSessionExpired))

	_, err = f.auth.Authenticate(ctx, "garbage")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSessionExpired))

	f.clock.Advance(2 * time.Hour)
	_, err = f.auth.Authenticate(ctx, session.Token)
	de := domainError(t, err)
	assert.Equal(t, apperrors.CodeSessionExpired, de.Code)
	assert.Equal(t, apperrors.LoginPath, de.Details["redirect"])
}

func TestAuthenticateRejectsSessionOfUnknownAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account := &domain.Account{ID: "ghost", Email: "g@b.com", Name: "Ghost"}
	session, err := f.auth.openSession(ctx, account)
	require.NoError(t, err)

	_, err = f.auth.Authenticate(ctx, session.Token)
	de := domainError(t, err)
	assert.Equal(t, apperrors.CodeSessionExpired, de.Code)
	assert.Equal(t, apperrors.LoginPath, de.Details["redirect"])
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	ctx, collector := events.WithCollector(context.Background())
	session := f.signup(t, "Ann", "a@b.com", "secret1")

	require.NoError(t, f.auth.Logout(ctx, session.Token))
	_, err := f.auth.Authenticate(context.Background(), session.Token)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSessionExpired))

	// logging out twice or without a token still succeeds
	require.NoError(t, f.auth.Logout(ctx, session.Token))
	require.NoError(t, f.auth.Logout(ctx, ""))
	assert.Len(t, collector.Notices(), 3)
	assert.Equal(t, MsgLoggedOut, collector.Notices()[0].Message)

	ended := 0
	for _, et := range f.eventTypes() {
		if et == events.EventSessionEnded {
			ended++
		}
	}
	assert.Equal(t, 1, ended)
}

func TestCreateListAndDashboard(t *testing.T) {
	f := newFixture(t)
	ctx, collector := events.WithCollector(context.Background())
	session := f.signup(t, "Ann", "a@b.com", "secret1")

	ticket, err := f.tickets.Create(ctx, session, TicketInput{Title: "Fix bug", Status: "open"})
	require.NoError(t, err)
	assert.Equal(t, session.UserID, ticket.OwnerID)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.True(t, f.clock.Now().Equal(ticket.CreatedAt))
	assert.Nil(t, ticket.UpdatedAt)
	assert.NotEmpty(t, ticket.ID)

	list, err := f.tickets.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.TicketStatusOpen, list[0].Status)

	counts, err := f.tickets.Dashboard(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCounts{Open: 1, Total: 1}, counts)

	assert.Equal(t, []domain.Notice{{Message: MsgTicketCreated, Kind: domain.NoticeSuccess}}, collector.Notices())
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	session := f.signup(t, "Ann", "a@b.com", "secret1")

	_, err := f.tickets.Create(context.Background(), session, TicketInput{Title: "   ", Status: "done"})
	de := domainError(t, err)
	assert.Equal(t, apperrors.CodeValidationFailed, de.Code)
	assert.Equal(t, validation.FieldTitle, de.Details["first_invalid"])
	fields := de.Details["fields"].(map[string]any)
	assert.Equal(t, "Title is required", fields[validation.FieldTitle])
	assert.Equal(t, "Status must be one of: open, in_progress, closed", fields[validation.FieldStatus])

	list, err := f.tickets.List(context.Background(), session)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTicketsAreScopedToSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.signup(t, "Ann", "a@b.com", "secret1")
	bob := f.signup(t, "Bob", "b@b.com", "secret1")

	ticket, err := f.tickets.Create(ctx, ann, TicketInput{Title: "Ann's", Status: "open"})
	require.NoError(t, err)

	bobs, err := f.tickets.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	_, err = f.tickets.Get(ctx, bob, ticket.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	_, err = f.tickets.Update(ctx, bob, ticket.ID, TicketPatch{Title: strPtr("hijack")})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	removed, err := f.tickets.Delete(ctx, bob, ticket.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := f.tickets.Get(ctx, ann, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann's", got.Title)

	_, err = f.tickets.List(ctx, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeSessionExpired))
}

func TestUpdateKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.signup(t, "Ann", "a@b.com", "secret1")
	ticket, err := f.tickets.Create(ctx, session, TicketInput{Title: "Fix bug", Description: "d", Status: "open", Priority: "high"})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	updated, err := f.tickets.Update(ctx, session, ticket.ID, TicketPatch{Status: strPtr("in_progress")})
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, updated.ID)
	assert.Equal(t, ticket.OwnerID, updated.OwnerID)
	assert.Equal(t, "Fix bug", updated.Title)
	assert.Equal(t, "d", updated.Description)
	assert.Equal(t, domain.TicketPriorityHigh, updated.Priority)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	assert.True(t, ticket.CreatedAt.Equal(updated.CreatedAt))
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, f.clock.Now().Equal(*updated.UpdatedAt))

	_, err = f.tickets.Update(ctx, session, ticket.ID, TicketPatch{Title: strPtr("")})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	stored, err := f.tickets.Get(ctx, session, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fix bug", stored.Title)

	_, err = f.tickets.Update(ctx, session, "missing", TicketPatch{Title: strPtr("x")})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	counts, err := f.tickets.Dashboard(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCounts{InProgress: 1, Total: 1}, counts)
}

func TestDeleteIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	session := f.signup(t, "Ann", "a@b.com", "secret1")
	keep, err := f.tickets.Create(ctx, session, TicketInput{Title: "keep", Status: "open"})
	require.NoError(t, err)
	drop, err := f.tickets.Create(ctx, session, TicketInput{Title: "drop", Status: "closed"})
	require.NoError(t, err)

	removed, err := f.tickets.Delete(ctx, session, drop.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.tickets.Delete(ctx, session, drop.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	list, err := f.tickets.List(ctx, session)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus([]domain.Ticket{
		{Status: domain.TicketStatusOpen},
		{Status: domain.TicketStatusOpen},
		{Status: domain.TicketStatusClosed},
		{Status: "archived"},
	})
	assert.Equal(t, domain.StatusCounts{Open: 2, Closed: 1, Total: 4}, counts)
}

func TestContactSubmit(t *testing.T) {
	f := newFixture(t)
	ctx, collector := events.WithCollector(context.Background())

	_, err := f.contact.Submit(ctx, ContactInput{Name: "Ann", Email: "a@b.com", Subject: "Hello", Message: "hi"})
	de := domainError(t, err)
	assert.Equal(t, validation.FieldMessage, de.Details["first_invalid"])
	fields := de.Details["fields"].(map[string]any)
	assert.Equal(t, "Message must be at least 10 characters.", fields[validation.FieldMessage])
	assert.Empty(t, f.events)

	msg, err := f.contact.Submit(ctx, ContactInput{Name: "Ann", Email: "a@b.com", Subject: "Hello", Message: "hello there!"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.Subject)
	assert.Equal(t, []events.EventType{events.EventContactSubmitted}, f.eventTypes())

	assert.Equal(t, []domain.Notice{
		{Message: MsgFixFields, Kind: domain.NoticeError},
		{Message: MsgContactSent, Kind: domain.NoticeSuccess},
	}, collector.Notices())
}

func TestNotifyWithoutCollector(t *testing.T) {
	var nilService *NotificationService
	assert.NotPanics(t, func() {
		nilService.Notify(context.Background(), domain.Notice{Message: "x", Kind: domain.NoticeInfo})
	})

	dispatcher := events.NewInMemoryDispatcher()
	var got []events.Event
	dispatcher.Subscribe(events.EventNoticeEmitted, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return errors.New("subscriber failure is swallowed")
	})
	n := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{}, nil)
	n.Notify(context.Background(), domain.Notice{Message: "hello", Kind: domain.NoticeInfo})

	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
	assert.Equal(t, "hello", got[0].Payload.(events.NoticePayload).Notice.Message)
}
