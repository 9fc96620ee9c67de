package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed storefront departments
type Category string

const (
	CategoryMens        Category = "mens"
	CategoryWomens      Category = "womens"
	CategoryBaby        Category = "baby"
	CategoryAccessories Category = "accessories"
)

// Categories lists every department in display order
var Categories = []Category{CategoryMens, CategoryWomens, CategoryBaby, CategoryAccessories}

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !slices.Contains(Categories, c) {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// IDPrefix is the letter used for generated product ids in this category
func (c Category) IDPrefix() string {
	switch c {
	case CategoryMens:
		return "M"
	case CategoryWomens:
		return "W"
	case CategoryBaby:
		return "B"
	default:
		return "A"
	}
}

// Product represents a product in the catalog
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      Category        `json:"category"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	InStock       bool            `json:"in_stock"`
	Sizes         []string        `json:"sizes,omitempty"`
	Colors        []string        `json:"colors,omitempty"`
	Discontinued  bool            `json:"discontinued"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// SetStock assigns the quantity and re-derives InStock from it.
func (p *Product) SetStock(quantity int) {
	p.StockQuantity = quantity
	p.InStock = quantity > 0
}

// Available reports whether the product can be added to a cart
func (p *Product) Available() bool {
	return !p.Discontinued && p.InStock
}

// AcceptsVariant checks size and color against the offered variants. A product
// that declares variants requires a selection; one that declares none rejects any.
func (p *Product) AcceptsVariant(size, color string) bool {
	return acceptsLabel(p.Sizes, size) && acceptsLabel(p.Colors, color)
}

func acceptsLabel(offered []string, chosen string) bool {
	if len(offered) == 0 {
		return chosen == ""
	}
	return slices.Contains(offered, chosen)
}

// Clone returns a deep copy safe to hand out of the catalog
func (p *Product) Clone() *Product {
	c := *p
	c.Sizes = slices.Clone(p.Sizes)
	c.Colors = slices.Clone(p.Colors)
	return &c
}
