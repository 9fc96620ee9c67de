package service

import (
	"fmt"
	"slices"

	"mzansi-store/internal/domain"
)

// Cart is one account's line items. Every quantity held in a line is reserved
// in the catalog: adding reserves, removing releases, and quantity changes
// adjust the reservation by the difference.
type Cart struct {
	lines   []domain.CartLine
	catalog *Catalog
}

// NewCart wraps existing lines
func NewCart(lines []domain.CartLine, catalog *Catalog) *Cart {
	return &Cart{lines: lines, catalog: catalog}
}

// Lines returns a copy of the cart lines
func (c *Cart) Lines() []domain.CartLine {
	return slices.Clone(c.lines)
}

// Len is the number of lines
func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) find(key domain.LineKey) int {
	return slices.IndexFunc(c.lines, func(l domain.CartLine) bool { return l.LineKey == key })
}

// AddItem reserves quantity units and merges them into the line with the same
// (product, size, color), or appends a new line priced at the current price.
func (c *Cart) AddItem(productID string, quantity int, size, color string) (domain.CartLine, error) {
	if quantity <= 0 {
		return domain.CartLine{}, domain.ErrInvalidQuantity
	}

	product, err := c.catalog.Get(productID)
	if err != nil {
		return domain.CartLine{}, err
	}
	if product.Discontinued {
		return domain.CartLine{}, fmt.Errorf("product %s: %w", productID, domain.ErrProductUnavailable)
	}
	if !product.AcceptsVariant(size, color) {
		return domain.CartLine{}, fmt.Errorf("product %s size %q color %q: %w", productID, size, color, domain.ErrInvalidVariant)
	}

	if err := c.catalog.Reserve(productID, quantity); err != nil {
		return domain.CartLine{}, err
	}

	key := domain.LineKey{ProductID: productID, Size: size, Color: color}
	if i := c.find(key); i >= 0 {
		c.lines[i].Quantity += quantity
		return c.lines[i], nil
	}

	line := domain.CartLine{
		LineKey:  key,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: quantity,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// UpdateQuantity sets a line's quantity, reserving or releasing the difference.
// A quantity of zero or less removes the line.
func (c *Cart) UpdateQuantity(key domain.LineKey, quantity int) (domain.CartLine, error) {
	if quantity <= 0 {
		return domain.CartLine{}, c.RemoveItem(key)
	}

	i := c.find(key)
	if i < 0 {
		return domain.CartLine{}, domain.ErrCartLineNotFound
	}

	delta := quantity - c.lines[i].Quantity
	switch {
	case delta > 0:
		if err := c.catalog.Reserve(key.ProductID, delta); err != nil {
			return domain.CartLine{}, err
		}
	case delta < 0:
		if err := c.catalog.Release(key.ProductID, -delta); err != nil {
			return domain.CartLine{}, err
		}
	}

	c.lines[i].Quantity = quantity
	return c.lines[i], nil
}

// RemoveItem drops a line and releases its reservation
func (c *Cart) RemoveItem(key domain.LineKey) error {
	i := c.find(key)
	if i < 0 {
		return domain.ErrCartLineNotFound
	}

	if err := c.catalog.Release(key.ProductID, c.lines[i].Quantity); err != nil {
		return err
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	return nil
}

// RemoveProduct drops every line of a product, releasing each reservation.
// It returns the number of lines removed.
func (c *Cart) RemoveProduct(productID string) (int, error) {
	removed := 0
	for i := len(c.lines) - 1; i >= 0; i-- {
		if c.lines[i].ProductID != productID {
			continue
		}
		if err := c.RemoveItem(c.lines[i].LineKey); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Clear empties the cart without releasing stock. Used after checkout,
// where the reservation has become a sale.
func (c *Cart) Clear() {
	c.lines = nil
}

// Reserved is the total quantity of a product held across the cart's lines
func (c *Cart) Reserved(productID string) int {
	total := 0
	for _, l := range c.lines {
		if l.ProductID == productID {
			total += l.Quantity
		}
	}
	return total
}
