package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/config"
)

// ErrNotFound is returned by Load when no document is stored under the key.
var ErrNotFound = errors.New("document not found")

// BlobStore persists whole JSON documents by key. Save replaces the stored
// document atomically; there is no partial update and no coordination between
// concurrent read-modify-write cycles, so the last writer wins.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the blob store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (BlobStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverFile:
		logger.Info("using file document store", zap.String("dir", cfg.Store.DataDir))
		return NewFileStore(cfg.Store.DataDir)
	case config.StoreDriverMemory:
		logger.Warn("using in-memory document store; data is lost on restart")
		return NewMemoryStore(), nil
	case config.StoreDriverRedis:
		return NewRedisStore(NewRedis(cfg.Redis, logger), cfg.Store.KeyPrefix), nil
	case config.StoreDriverPostgres:
		if cfg.Postgres.DSN == "" {
			return nil, errors.New("POSTGRES_DSN is required for the postgres store")
		}
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return NewPostgresStore(pg), nil
	case config.StoreDriverSQLite:
		logger.Info("using sqlite document store", zap.String("path", cfg.SQLite.Path))
		return OpenSQLite(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
