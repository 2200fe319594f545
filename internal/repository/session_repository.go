package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// SessionRepository tracks active sessions by token.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) (bool, error)
}

type sessionRepository struct {
	blobs  persistence.BlobStore
	logger *zap.Logger
}

// NewSessionRepository returns a SessionRepository over the sessions document.
func NewSessionRepository(blobs persistence.BlobStore, logger *zap.Logger) SessionRepository {
	return &sessionRepository{blobs: blobs, logger: logger}
}

func (r *sessionRepository) all(ctx context.Context) (map[string]domain.Session, error) {
	var sessions map[string]domain.Session
	found, err := loadDocument(ctx, r.blobs, r.logger, KeySessions, &sessions)
	if err != nil {
		return nil, err
	}
	if !found || sessions == nil {
		return map[string]domain.Session{}, nil
	}
	return sessions, nil
}

// Create stores the session and drops sessions already expired at its
// creation time.
func (r *sessionRepository) Create(ctx context.Context, session domain.Session) error {
	sessions, err := r.all(ctx)
	if err != nil {
		return err
	}
	for token, existing := range sessions {
		if existing.Expired(session.CreatedAt) {
			delete(sessions, token)
		}
	}
	sessions[session.Token] = session
	return saveDocument(ctx, r.blobs, KeySessions, sessions)
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	sessions, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	session, ok := sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) (bool, error) {
	sessions, err := r.all(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := sessions[token]; !ok {
		return false, nil
	}
	delete(sessions, token)
	return true, saveDocument(ctx, r.blobs, KeySessions, sessions)
}
