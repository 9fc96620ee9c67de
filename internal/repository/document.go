package repository

import (
	"context"
	"errors"
	"fmt"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/store"
)

// Store keys
const (
	KeyProducts            = "products"
	KeyOrders              = "orders"
	KeyAccounts            = "accounts"
	KeyReviews             = "reviews"
	keySessionPrefix       = "session:"
	keyRefreshTokenPrefix  = "refresh_token:"
	currentDocumentVersion = 1
)

// SessionKey is the key holding an account's cart, wishlist and recently viewed list
func SessionKey(email string) string {
	return keySessionPrefix + email
}

// RefreshTokenKey is the key holding a refresh token record
func RefreshTokenKey(token string) string {
	return keyRefreshTokenPrefix + token
}

// document wraps every persisted value with a schema version
type document[T any] struct {
	Version int `json:"version"`
	Data    T   `json:"data"`
}

// loadDocument reads key into a T. found is false when the key does not exist.
func loadDocument[T any](ctx context.Context, s store.Store, key string) (data T, found bool, err error) {
	var doc document[T]
	if err := store.GetJSON(ctx, s, key, &doc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return data, false, nil
		}
		return data, false, fmt.Errorf("failed to load %s: %w", key, err)
	}

	if doc.Version != currentDocumentVersion {
		return data, false, fmt.Errorf("%s has version %d: %w", key, doc.Version, domain.ErrUnsupportedStateVersion)
	}

	return doc.Data, true, nil
}

func saveDocument[T any](ctx context.Context, s store.Store, key string, data T) error {
	doc := document[T]{Version: currentDocumentVersion, Data: data}
	if err := store.SetJSON(ctx, s, key, doc); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
