package repository

import (
	"context"
	"errors"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/store"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
)

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

type refreshTokenRepository struct {
	store store.Store
}

// NewRefreshTokenRepository creates a new instance of RefreshTokenRepository
func NewRefreshTokenRepository(s store.Store) RefreshTokenRepository {
	return &refreshTokenRepository{store: s}
}

// Create stores a new refresh token under its own key
func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return saveDocument(ctx, r.store, RefreshTokenKey(token.Token), token)
}

// FindByToken retrieves a refresh token by its token string
func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, found, err := loadDocument[*domain.RefreshToken](ctx, r.store, RefreshTokenKey(token))
	if err != nil {
		return nil, err
	}
	if !found || refreshToken == nil {
		return nil, ErrRefreshTokenNotFound
	}

	if refreshToken.Revoked {
		return nil, ErrRefreshTokenRevoked
	}

	return refreshToken, nil
}

// Revoke marks a refresh token as revoked
func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, found, err := loadDocument[*domain.RefreshToken](ctx, r.store, RefreshTokenKey(token))
	if err != nil {
		return err
	}
	if !found || refreshToken == nil {
		return ErrRefreshTokenNotFound
	}

	refreshToken.Revoked = true
	return saveDocument(ctx, r.store, RefreshTokenKey(token), refreshToken)
}
