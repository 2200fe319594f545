package repository

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/persistence"
)

// PasswordHasher turns a plaintext password into a stored hash.
type PasswordHasher func(password string) (string, error)

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	List(ctx context.Context) ([]domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// AccountOptions tune the default account collection.
type AccountOptions struct {
	Hash     PasswordHasher
	SeedDemo bool
}

type accountRepository struct {
	blobs  persistence.BlobStore
	logger *zap.Logger
	opts   AccountOptions

	seedOnce sync.Once
	seedHash string
	seedErr  error
}

// NewAccountRepository returns an AccountRepository over the accounts document.
func NewAccountRepository(blobs persistence.BlobStore, logger *zap.Logger, opts AccountOptions) AccountRepository {
	return &accountRepository{blobs: blobs, logger: logger, opts: opts}
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	found, err := loadDocument(ctx, r.blobs, r.logger, KeyAccounts, &accounts)
	if err != nil {
		return nil, err
	}
	if !found {
		accounts, err = r.defaults()
		if err != nil {
			return nil, err
		}
	}

	upgraded, err := r.upgradeLegacy(accounts)
	if err != nil {
		return nil, err
	}
	// persist the seed or upgraded hashes so they are computed once
	if !found && r.opts.SeedDemo || upgraded {
		if err := saveDocument(ctx, r.blobs, KeyAccounts, accounts); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	accounts, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, existing := range accounts {
		if existing.Email == account.Email {
			return ErrEmailTaken
		}
	}
	account.LegacyPassword = ""
	accounts = append(accounts, *account)
	return saveDocument(ctx, r.blobs, KeyAccounts, accounts)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.find(ctx, func(a domain.Account) bool { return a.ID == id })
}

// GetByEmail matches the stored email exactly; case differences do not match.
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.find(ctx, func(a domain.Account) bool { return a.Email == email })
}

func (r *accountRepository) find(ctx context.Context, match func(domain.Account) bool) (*domain.Account, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if match(accounts[i]) {
			account := accounts[i]
			return &account, nil
		}
	}
	return nil, ErrNotFound
}

func (r *accountRepository) defaults() ([]domain.Account, error) {
	if !r.opts.SeedDemo {
		return []domain.Account{}, nil
	}
	r.seedOnce.Do(func() {
		r.seedHash, r.seedErr = r.opts.Hash(domain.DemoAccount.Password)
	})
	if r.seedErr != nil {
		return nil, r.seedErr
	}
	return []domain.Account{{
		ID:           domain.DemoAccount.ID,
		Email:        domain.DemoAccount.Email,
		Name:         domain.DemoAccount.Name,
		PasswordHash: r.seedHash,
	}}, nil
}

// upgradeLegacy hashes plaintext passwords left by older documents.
func (r *accountRepository) upgradeLegacy(accounts []domain.Account) (bool, error) {
	upgraded := false
	for i := range accounts {
		if accounts[i].LegacyPassword == "" {
			continue
		}
		if accounts[i].PasswordHash == "" {
			hash, err := r.opts.Hash(accounts[i].LegacyPassword)
			if err != nil {
				return false, err
			}
			accounts[i].PasswordHash = hash
		}
		accounts[i].LegacyPassword = ""
		upgraded = true
	}
	if upgraded {
		r.logger.Info("upgraded plaintext account passwords")
	}
	return upgraded, nil
}
