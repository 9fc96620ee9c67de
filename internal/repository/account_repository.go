package repository

import (
	"context"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/store"
)

// AccountRepository defines the interface for account directory persistence.
// The directory is stored as a single document mapping email to account.
type AccountRepository interface {
	Load(ctx context.Context) (map[string]*domain.Account, error)
	Save(ctx context.Context, accounts map[string]*domain.Account) error
}

type accountRepository struct {
	store store.Store
}

// NewAccountRepository creates a new instance of AccountRepository
func NewAccountRepository(s store.Store) AccountRepository {
	return &accountRepository{store: s}
}

func (r *accountRepository) Load(ctx context.Context) (map[string]*domain.Account, error) {
	accounts, _, err := loadDocument[map[string]*domain.Account](ctx, r.store, KeyAccounts)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = make(map[string]*domain.Account)
	}
	return accounts, nil
}

func (r *accountRepository) Save(ctx context.Context, accounts map[string]*domain.Account) error {
	return saveDocument(ctx, r.store, KeyAccounts, accounts)
}
