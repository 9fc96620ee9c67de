package repository

import (
	"context"
	"fmt"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/store"
)

// SessionRepository defines the interface for per-account session persistence
type SessionRepository interface {
	Load(ctx context.Context, email string) (*domain.Session, error)
	Save(ctx context.Context, email string, session *domain.Session) error
	Delete(ctx context.Context, email string) error
}

type sessionRepository struct {
	store store.Store
}

// NewSessionRepository creates a new instance of SessionRepository
func NewSessionRepository(s store.Store) SessionRepository {
	return &sessionRepository{store: s}
}

// Load returns the account's session, or an empty one
func (r *sessionRepository) Load(ctx context.Context, email string) (*domain.Session, error) {
	session, found, err := loadDocument[*domain.Session](ctx, r.store, SessionKey(email))
	if err != nil {
		return nil, err
	}
	if !found || session == nil {
		session = &domain.Session{}
	}
	return session, nil
}

func (r *sessionRepository) Save(ctx context.Context, email string, session *domain.Session) error {
	return saveDocument(ctx, r.store, SessionKey(email), session)
}

func (r *sessionRepository) Delete(ctx context.Context, email string) error {
	if err := r.store.Remove(ctx, SessionKey(email)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
