package repository

import (
	"context"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/store"
)

// ProductRepository defines the interface for catalog persistence
type ProductRepository interface {
	Load(ctx context.Context) ([]*domain.Product, error)
	Save(ctx context.Context, products []*domain.Product) error
}

type productRepository struct {
	store store.Store
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(s store.Store) ProductRepository {
	return &productRepository{store: s}
}

// Load returns the persisted catalog, or an empty one if nothing was saved yet
func (r *productRepository) Load(ctx context.Context) ([]*domain.Product, error) {
	products, _, err := loadDocument[[]*domain.Product](ctx, r.store, KeyProducts)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Save replaces the persisted catalog
func (r *productRepository) Save(ctx context.Context, products []*domain.Product) error {
	return saveDocument(ctx, r.store, KeyProducts, products)
}
