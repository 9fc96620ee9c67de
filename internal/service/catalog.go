package service

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"mzansi-store/internal/domain"

	"github.com/shopspring/decimal"
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductFilter selects and orders a page of the catalog
type ProductFilter struct {
	Category            domain.Category
	Query               string
	InStockOnly         bool
	IncludeDiscontinued bool
	SortBy              string
	SortOrder           SortOrder
	Page                int
	PageSize            int
}

// ProductUpdate carries the admin-editable product attributes. Nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *domain.Category
	ImageURL    *string
	Sizes       []string
	Colors      []string
}

// Catalog is the authoritative product list and owns all stock state.
// It is not safe for concurrent use; Storefront serialises access.
type Catalog struct {
	products map[string]*domain.Product
	order    []string
	now      func() time.Time
}

// NewCatalog builds a catalog from products in display order
func NewCatalog(products []*domain.Product, now func() time.Time) *Catalog {
	c := &Catalog{
		products: make(map[string]*domain.Product, len(products)),
		now:      now,
	}
	for _, p := range products {
		p.SetStock(p.StockQuantity)
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

// Len is the number of products, including discontinued ones
func (c *Catalog) Len() int {
	return len(c.order)
}

// Get returns the live product. Callers must not retain it outside the lock.
func (c *Catalog) Get(id string) (*domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrProductNotFound)
	}
	return p, nil
}

// Products returns every product in display order
func (c *Catalog) Products() []*domain.Product {
	out := make([]*domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// Reserve takes amount units out of stock for a cart. It never clamps.
func (c *Catalog) Reserve(id string, amount int) error {
	p, err := c.Get(id)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return domain.ErrInvalidQuantity
	}
	if amount > p.StockQuantity {
		return fmt.Errorf("product %s has %d left, %d requested: %w", id, p.StockQuantity, amount, domain.ErrInsufficientStock)
	}

	p.SetStock(p.StockQuantity - amount)
	p.UpdatedAt = c.now()
	return nil
}

// Release returns amount units of a reservation to stock
func (c *Catalog) Release(id string, amount int) error {
	p, err := c.Get(id)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return domain.ErrInvalidQuantity
	}

	p.SetStock(p.StockQuantity + amount)
	p.UpdatedAt = c.now()
	return nil
}

// SetStock is the absolute admin override
func (c *Catalog) SetStock(id string, quantity int) (*domain.Product, error) {
	p, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	p.SetStock(quantity)
	p.UpdatedAt = c.now()
	return p, nil
}

// Create validates and adds a product, generating an id when none is given
func (c *Catalog) Create(p *domain.Product) (*domain.Product, error) {
	if _, err := domain.ParseCategory(string(p.Category)); err != nil {
		return nil, err
	}
	if !p.Price.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}
	if p.StockQuantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	if p.ID == "" {
		p.ID = c.NextID(p.Category)
	}
	if _, exists := c.products[p.ID]; exists {
		return nil, fmt.Errorf("product %s: %w", p.ID, domain.ErrProductExists)
	}

	now := c.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Discontinued = false
	p.SetStock(p.StockQuantity)

	c.products[p.ID] = p
	c.order = append(c.order, p.ID)
	return p, nil
}

// Update applies the non-nil fields of u
func (c *Catalog) Update(id string, u ProductUpdate) (*domain.Product, error) {
	p, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	if u.Price != nil && !u.Price.IsPositive() {
		return nil, domain.ErrInvalidPrice
	}
	if u.Category != nil {
		if _, err := domain.ParseCategory(string(*u.Category)); err != nil {
			return nil, err
		}
	}

	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.Sizes != nil {
		p.Sizes = slices.Clone(u.Sizes)
	}
	if u.Colors != nil {
		p.Colors = slices.Clone(u.Colors)
	}
	p.UpdatedAt = c.now()
	return p, nil
}

// Discontinue soft-deletes a product so historical orders still resolve
func (c *Catalog) Discontinue(id string) (*domain.Product, error) {
	p, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	p.Discontinued = true
	p.UpdatedAt = c.now()
	return p, nil
}

// NextID generates the next free id for a category, e.g. M004
func (c *Catalog) NextID(category domain.Category) string {
	prefix := category.IDPrefix()
	highest := 0
	for id := range c.products {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if n, err := strconv.Atoi(id[len(prefix):]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, highest+1)
}

// List returns one page of matching products plus the total number of matches
func (c *Catalog) List(f ProductFilter) ([]*domain.Product, int) {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	matches := make([]*domain.Product, 0, len(c.order))
	for _, id := range c.order {
		p := c.products[id]
		if p.Discontinued && !f.IncludeDiscontinued {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.InStockOnly && !p.InStock {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		matches = append(matches, p)
	}

	sortProducts(matches, f.SortBy, f.SortOrder)

	total := len(matches)
	if f.PageSize <= 0 {
		return matches, total
	}
	page := max(f.Page, 1)
	start := min((page-1)*f.PageSize, total)
	end := min(start+f.PageSize, total)
	return matches[start:end], total
}

// sortProducts orders by the requested field; unknown fields keep display order
func sortProducts(products []*domain.Product, sortBy string, order SortOrder) {
	var compare func(a, b *domain.Product) int
	switch sortBy {
	case "name":
		compare = func(a, b *domain.Product) int { return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case "price":
		compare = func(a, b *domain.Product) int { return a.Price.Cmp(b.Price) }
	case "stock":
		compare = func(a, b *domain.Product) int { return cmp.Compare(a.StockQuantity, b.StockQuantity) }
	case "created_at":
		compare = func(a, b *domain.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return
	}

	if order == SortOrderDesc {
		asc := compare
		compare = func(a, b *domain.Product) int { return asc(b, a) }
	}
	slices.SortStableFunc(products, compare)
}

// LowStock lists active products at or below threshold
func (c *Catalog) LowStock(threshold int) []*domain.Product {
	var out []*domain.Product
	for _, id := range c.order {
		p := c.products[id]
		if !p.Discontinued && p.StockQuantity <= threshold {
			out = append(out, p)
		}
	}
	return out
}
