package service

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"mzansi-store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the single source of truth for placed orders, keyed by id.
// Accounts reference orders by id and resolve them here.
type Ledger struct {
	orders map[string]*domain.Order
	order  []string
	now    func() time.Time
}

// NewLedger builds a ledger from persisted orders, oldest first
func NewLedger(orders []*domain.Order, now func() time.Time) *Ledger {
	l := &Ledger{orders: make(map[string]*domain.Order, len(orders)), now: now}
	for _, o := range orders {
		l.orders[o.ID] = o
		l.order = append(l.order, o.ID)
	}
	return l
}

// Create snapshots lines into a new Processing order and appends it
func (l *Ledger) Create(email string, lines []domain.CartLine, totals domain.Totals, shipping domain.ShippingInfo, paymentLabel string) *domain.Order {
	now := l.now()
	o := &domain.Order{
		ID:             uuid.NewString(),
		AccountEmail:   email,
		Items:          slices.Clone(lines),
		Totals:         totals,
		ShippingInfo:   shipping,
		PaymentMethod:  paymentLabel,
		Status:         domain.StatusProcessing,
		TrackingNumber: newTrackingNumber(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	l.orders[o.ID] = o
	l.order = append(l.order, o.ID)
	return o
}

// newTrackingNumber derives a courier-style reference from a random UUID
func newTrackingNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "MZ" + strings.ToUpper(raw[:12]) + "ZA"
}

func (l *Ledger) Get(id string) (*domain.Order, error) {
	o, ok := l.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, domain.ErrOrderNotFound)
	}
	return o, nil
}

// AdvanceStatus moves an order forward along Processing → Shipped → Delivered
func (l *Ledger) AdvanceStatus(id string, status domain.OrderStatus) (*domain.Order, error) {
	o, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanAdvanceTo(status) {
		return nil, fmt.Errorf("order %s from %s to %s: %w", id, o.Status, status, domain.ErrInvalidStatusTransition)
	}

	o.Status = status
	o.UpdatedAt = l.now()
	return o, nil
}

// Resolve looks up orders by id, newest first. Unknown ids are skipped.
func (l *Ledger) Resolve(ids []string) []*domain.Order {
	out := make([]*domain.Order, 0, len(ids))
	// ids are in placement order, so walking backwards breaks timestamp ties correctly
	for i := len(ids) - 1; i >= 0; i-- {
		if o, ok := l.orders[ids[i]]; ok {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out
}

// All returns every order, newest first
func (l *Ledger) All() []*domain.Order {
	return l.Resolve(l.order)
}

// Orders returns every order oldest first, the persisted order
func (l *Ledger) Orders() []*domain.Order {
	out := make([]*domain.Order, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.orders[id])
	}
	return out
}

// Revenue is the sum of all order totals
func (l *Ledger) Revenue() decimal.Decimal {
	sum := decimal.Zero
	for _, o := range l.orders {
		sum = sum.Add(o.Total)
	}
	return sum
}

// CountByStatus tallies orders per status
func (l *Ledger) CountByStatus() map[domain.OrderStatus]int {
	counts := make(map[domain.OrderStatus]int, 3)
	for _, s := range domain.OrderStatuses() {
		counts[s] = 0
	}
	for _, o := range l.orders {
		counts[o.Status]++
	}
	return counts
}

func (l *Ledger) Len() int {
	return len(l.order)
}

func sortNewestFirst(orders []*domain.Order) {
	slices.SortStableFunc(orders, func(a, b *domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
