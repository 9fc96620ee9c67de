package service

import (
	"mzansi-store/internal/domain"

	"github.com/shopspring/decimal"
)

// Pricing holds the checkout rules: VAT on the subtotal and a flat shipping
// fee that is waived once the subtotal exceeds the threshold.
type Pricing struct {
	VATRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// DefaultPricing is 15% VAT with R99.99 shipping, free above R500
var DefaultPricing = Pricing{
	VATRate:               decimal.RequireFromString("0.15"),
	FreeShippingThreshold: decimal.RequireFromString("500"),
	FlatShippingFee:       decimal.RequireFromString("99.99"),
}

// Price computes the totals for a set of cart lines
func (p Pricing) Price(lines []domain.CartLine) domain.Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	shipping := p.FlatShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(p.VATRate).Round(2)

	return domain.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
