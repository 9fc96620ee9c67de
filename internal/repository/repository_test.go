package repository

import (
	"context"
	"testing"
	"time"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/store"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Feature: storefront, Property: Product persistence preserves attributes
func TestProperty_ProductPersistencePreservesAttributes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("saving and loading the catalog preserves every product attribute", prop.ForAll(
		func(name string, cents int64, stock int, discontinued bool) bool {
			ctx := context.Background()
			repo := NewProductRepository(store.NewMemoryStore())

			product := &domain.Product{
				ID:           "M001",
				Name:         name,
				Price:        decimal.New(cents, -2),
				Category:     domain.CategoryMens,
				Sizes:        []string{"S", "M"},
				Colors:       []string{"Navy"},
				Discontinued: discontinued,
				CreatedAt:    time.Now().UTC().Truncate(time.Second),
				UpdatedAt:    time.Now().UTC().Truncate(time.Second),
			}
			product.SetStock(stock)

			if err := repo.Save(ctx, []*domain.Product{product}); err != nil {
				t.Logf("FAIL: Failed to save catalog: %v", err)
				return false
			}

			loaded, err := repo.Load(ctx)
			if err != nil || len(loaded) != 1 {
				t.Logf("FAIL: Failed to load catalog: %v", err)
				return false
			}

			got := loaded[0]
			if !got.Price.Equal(product.Price) {
				t.Logf("FAIL: Price mismatch. Expected %s, got %s", product.Price, got.Price)
				return false
			}

			return got.Name == product.Name &&
				got.StockQuantity == product.StockQuantity &&
				got.InStock == product.InStock &&
				got.Discontinued == product.Discontinued &&
				got.CreatedAt.Equal(product.CreatedAt) &&
				len(got.Sizes) == 2 && got.Colors[0] == "Navy"
		},
		gen.AlphaString(),
		gen.Int64Range(1, 10_000_000),
		gen.IntRange(0, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLoad_MissingDocumentsAreEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	products, err := NewProductRepository(s).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	accounts, err := NewAccountRepository(s).Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)

	session, err := NewSessionRepository(s).Load(ctx, "thandi@example.co.za")
	require.NoError(t, err)
	assert.Empty(t, session.Cart)
}

func TestLoad_RejectsUnknownVersion(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyOrders, []byte(`{"version":7,"data":[]}`)))

	_, err := NewOrderRepository(s).Load(ctx)
	assert.ErrorIs(t, err, domain.ErrUnsupportedStateVersion)
}

func TestLoad_RejectsCorruptDocument(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyReviews, []byte(`not json`)))

	_, err := NewReviewRepository(s).Load(ctx)
	assert.Error(t, err)
}

func TestSessionRepository_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	repo := NewSessionRepository(s)
	email := "sipho@example.co.za"

	session := &domain.Session{
		Cart: []domain.CartLine{{
			LineKey:  domain.LineKey{ProductID: "M001", Size: "M", Color: "Navy"},
			Name:     "Classic Crew Neck Tee",
			Price:    decimal.RequireFromString("449.99"),
			Quantity: 3,
		}},
		Wishlist: []string{"W001"},
	}
	require.NoError(t, repo.Save(ctx, email, session))
	assert.Equal(t, []string{SessionKey(email)}, s.Keys())

	loaded, err := repo.Load(ctx, email)
	require.NoError(t, err)
	require.Len(t, loaded.Cart, 1)
	assert.Equal(t, 3, loaded.Cart[0].Quantity)
	assert.Equal(t, []string{"W001"}, loaded.Wishlist)

	require.NoError(t, repo.Delete(ctx, email))
	assert.Empty(t, s.Keys())
}

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository(store.NewMemoryStore())

	token := &domain.RefreshToken{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, token))

	found, err := repo.FindByToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, token.AccountID, found.AccountID)

	require.NoError(t, repo.Revoke(ctx, token.Token))
	_, err = repo.FindByToken(ctx, token.Token)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)

	assert.ErrorIs(t, repo.Revoke(ctx, "unknown"), ErrRefreshTokenNotFound)
	_, err = repo.FindByToken(ctx, "unknown")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
}
