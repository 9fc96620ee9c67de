package repository

import (
	"context"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/store"
)

// OrderRepository defines the interface for order ledger persistence
type OrderRepository interface {
	Load(ctx context.Context) ([]*domain.Order, error)
	Save(ctx context.Context, orders []*domain.Order) error
}

type orderRepository struct {
	store store.Store
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(s store.Store) OrderRepository {
	return &orderRepository{store: s}
}

func (r *orderRepository) Load(ctx context.Context) ([]*domain.Order, error) {
	orders, _, err := loadDocument[[]*domain.Order](ctx, r.store, KeyOrders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Save(ctx context.Context, orders []*domain.Order) error {
	return saveDocument(ctx, r.store, KeyOrders, orders)
}
