package domain

import (
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Role is fixed when an account is created
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// PaymentKind distinguishes saved payment methods
type PaymentKind string

const (
	PaymentCard PaymentKind = "card"
	PaymentEFT  PaymentKind = "eft"
)

// PaymentMethod is a saved card or EFT descriptor. Full numbers are never kept.
type PaymentMethod struct {
	ID        string      `json:"id"`
	Kind      PaymentKind `json:"kind"`
	Holder    string      `json:"holder"`
	Brand     string      `json:"brand,omitempty"`
	Bank      string      `json:"bank,omitempty"`
	LastFour  string      `json:"last_four"`
	Expiry    string      `json:"expiry,omitempty"`
	IsDefault bool        `json:"is_default"`
}

// Label is the human readable description stored on orders
func (m PaymentMethod) Label() string {
	if m.Kind == PaymentEFT {
		return "EFT " + m.Bank + " ****" + m.LastFour
	}
	return m.Brand + " ****" + m.LastFour
}

// NewCardPaymentMethod validates a card number and keeps only brand and last four digits
func NewCardPaymentMethod(holder, number, expiry string) (PaymentMethod, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, number)
	if len(digits) != 16 || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return PaymentMethod{}, ErrInvalidCardNumber
	}
	return PaymentMethod{
		ID:       uuid.NewString(),
		Kind:     PaymentCard,
		Holder:   holder,
		Brand:    cardBrand(digits),
		LastFour: digits[12:],
		Expiry:   expiry,
	}, nil
}

// NewEFTPaymentMethod records a bank account for EFT payments
func NewEFTPaymentMethod(holder, bank, accountNumber string) (PaymentMethod, error) {
	if bank == "" || len(accountNumber) < 4 {
		return PaymentMethod{}, ErrInvalidPaymentMethod
	}
	return PaymentMethod{
		ID:       uuid.NewString(),
		Kind:     PaymentEFT,
		Holder:   holder,
		Bank:     bank,
		LastFour: accountNumber[len(accountNumber)-4:],
	}, nil
}

func cardBrand(digits string) string {
	switch {
	case digits[0] == '4':
		return "Visa"
	case digits[0] == '5' || digits[0] == '2':
		return "Mastercard"
	case strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37"):
		return "Amex"
	default:
		return "Card"
	}
}

// Account is an entry of the account directory, keyed by lowercased email.
// Orders live in the ledger; the account only references them by id.
type Account struct {
	ID             uuid.UUID       `json:"id"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"password_hash"`
	Name           string          `json:"name"`
	Address        string          `json:"address"`
	Phone          string          `json:"phone"`
	Role           Role            `json:"role"`
	PaymentMethods []PaymentMethod `json:"payment_methods"`
	OrderIDs       []string        `json:"order_ids"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NormalizeEmail produces the directory key for an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAdmin reports whether the account carries the admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// DefaultPaymentMethod returns the default method, if any
func (a *Account) DefaultPaymentMethod() (PaymentMethod, bool) {
	for _, m := range a.PaymentMethods {
		if m.IsDefault {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// PaymentMethod finds a saved method by id
func (a *Account) PaymentMethod(id string) (PaymentMethod, bool) {
	for _, m := range a.PaymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// Clone returns a deep copy
func (a *Account) Clone() *Account {
	c := *a
	c.PaymentMethods = slices.Clone(a.PaymentMethods)
	c.OrderIDs = slices.Clone(a.OrderIDs)
	return &c
}

// RefreshToken represents a stored refresh token
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `json:"revoked"`
}

// Review is a customer rating of a product
type Review struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	AccountEmail string    `json:"account_email"`
	AuthorName   string    `json:"author_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}
