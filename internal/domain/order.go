package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the delivery state of an order
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
)

// orderStatusFlow is the only path an order travels
var orderStatusFlow = []OrderStatus{StatusProcessing, StatusShipped, StatusDelivered}

// ParseOrderStatus validates a status name
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !slices.Contains(orderStatusFlow, status) {
		return "", ErrInvalidOrderStatus
	}
	return status, nil
}

// CanAdvanceTo reports whether next lies strictly later in the flow
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from := slices.Index(orderStatusFlow, s)
	to := slices.Index(orderStatusFlow, next)
	return from >= 0 && to > from
}

// OrderStatuses lists every status in flow order
func OrderStatuses() []OrderStatus {
	return slices.Clone(orderStatusFlow)
}

// ShippingInfo is the delivery address captured at checkout
type ShippingInfo struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

// Totals is the priced breakdown of a set of cart lines
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Order is a frozen snapshot of a cart at checkout. Only Status changes afterwards.
type Order struct {
	ID             string       `json:"id"`
	AccountEmail   string       `json:"account_email"`
	Items          []CartLine   `json:"items"`
	Totals
	ShippingInfo   ShippingInfo `json:"shipping_info"`
	PaymentMethod  string       `json:"payment_method"`
	Status         OrderStatus  `json:"status"`
	TrackingNumber string       `json:"tracking_number"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Clone returns a copy that does not share the item slice
func (o *Order) Clone() *Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}
