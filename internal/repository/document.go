package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// Document keys shared by every backend.
const (
	KeyAccounts        = "ticketapp_users"
	KeyTickets         = "ticketapp_tickets"
	KeySessions        = "ticketapp_sessions"
	KeyContactMessages = "ticketapp_contact_messages"
)

var (
	// ErrNotFound means no record matched the lookup, including records that
	// exist but belong to another account.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken means an account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
)

// loadDocument reads and decodes the document under key. A missing document
// reports found=false; an undecodable one is logged and also treated as
// missing so callers fall back to their default collection.
func loadDocument(ctx context.Context, blobs persistence.BlobStore, logger *zap.Logger, key string, dst any) (found bool, err error) {
	data, err := blobs.Load(ctx, key)
	if errors.Is(err, persistence.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), dst); err != nil {
		logger.Warn("discarding unreadable document", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func saveDocument(ctx context.Context, blobs persistence.BlobStore, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := blobs.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
