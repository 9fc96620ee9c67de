package domain

import "github.com/shopspring/decimal"

// LineKey is the composite identity of a cart line
type LineKey struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// CartLine is one (product, size, color) selection with a quantity.
// Price is captured when the line is created and never re-priced.
type CartLine struct {
	LineKey
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// LineTotal is price times quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Session holds the per-account state that is not shared across accounts
type Session struct {
	Cart           []CartLine `json:"cart"`
	Wishlist       []string   `json:"wishlist"`
	RecentlyViewed []string   `json:"recently_viewed"`
}
