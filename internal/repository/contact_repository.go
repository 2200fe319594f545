package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// ContactRepository keeps accepted contact form messages.
type ContactRepository interface {
	Append(ctx context.Context, msg domain.ContactMessage) error
	List(ctx context.Context) ([]domain.ContactMessage, error)
}

type contactRepository struct {
	blobs  persistence.BlobStore
	logger *zap.Logger
}

// NewContactRepository returns a ContactRepository over the contact document.
func NewContactRepository(blobs persistence.BlobStore, logger *zap.Logger) ContactRepository {
	return &contactRepository{blobs: blobs, logger: logger}
}

func (r *contactRepository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	var msgs []domain.ContactMessage
	found, err := loadDocument(ctx, r.blobs, r.logger, KeyContactMessages, &msgs)
	if err != nil {
		return nil, err
	}
	if !found || msgs == nil {
		return []domain.ContactMessage{}, nil
	}
	return msgs, nil
}

func (r *contactRepository) Append(ctx context.Context, msg domain.ContactMessage) error {
	msgs, err := r.List(ctx)
	if err != nil {
		return err
	}
	return saveDocument(ctx, r.blobs, KeyContactMessages, append(msgs, msg))
}
