package repository

import (
	"context"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/store"
)

// ReviewRepository defines the interface for product review persistence
type ReviewRepository interface {
	Load(ctx context.Context) ([]*domain.Review, error)
	Save(ctx context.Context, reviews []*domain.Review) error
}

type reviewRepository struct {
	store store.Store
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(s store.Store) ReviewRepository {
	return &reviewRepository{store: s}
}

func (r *reviewRepository) Load(ctx context.Context) ([]*domain.Review, error) {
	reviews, _, err := loadDocument[[]*domain.Review](ctx, r.store, KeyReviews)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Save(ctx context.Context, reviews []*domain.Review) error {
	return saveDocument(ctx, r.store, KeyReviews, reviews)
}
