package service

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"mzansi-store/internal/domain"

	"github.com/google/uuid"
)

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name    *string
	Address *string
	Phone   *string
}

// Directory maps lowercased email to account
type Directory struct {
	accounts map[string]*domain.Account
	byID     map[uuid.UUID]string
	now      func() time.Time
}

func NewDirectory(accounts map[string]*domain.Account, now func() time.Time) *Directory {
	d := &Directory{
		accounts: make(map[string]*domain.Account, len(accounts)),
		byID:     make(map[uuid.UUID]string, len(accounts)),
		now:      now,
	}
	for _, a := range accounts {
		email := domain.NormalizeEmail(a.Email)
		a.Email = email
		d.accounts[email] = a
		d.byID[a.ID] = email
	}
	return d
}

// Create adds an account with the given role. The email is normalised first.
func (d *Directory) Create(email, passwordHash, name string, role domain.Role) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if _, exists := d.accounts[email]; exists {
		return nil, domain.ErrAccountExists
	}

	now := d.now()
	a := &domain.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	d.accounts[email] = a
	d.byID[a.ID] = email
	return a, nil
}

func (d *Directory) Get(email string) (*domain.Account, error) {
	a, ok := d.accounts[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func (d *Directory) GetByID(id uuid.UUID) (*domain.Account, error) {
	email, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return d.accounts[email], nil
}

// AttachOrder records an order reference on the account
func (d *Directory) AttachOrder(email, orderID string) error {
	a, err := d.Get(email)
	if err != nil {
		return err
	}
	a.OrderIDs = append(a.OrderIDs, orderID)
	a.UpdatedAt = d.now()
	return nil
}

func (d *Directory) UpdateProfile(email string, u ProfileUpdate) (*domain.Account, error) {
	a, err := d.Get(email)
	if err != nil {
		return nil, err
	}
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.Address != nil {
		a.Address = *u.Address
	}
	if u.Phone != nil {
		a.Phone = *u.Phone
	}
	a.UpdatedAt = d.now()
	return a, nil
}

// AddPaymentMethod saves m. The first method saved, or one flagged as
// default, becomes the only default.
func (d *Directory) AddPaymentMethod(email string, m domain.PaymentMethod) (*domain.Account, error) {
	a, err := d.Get(email)
	if err != nil {
		return nil, err
	}

	if len(a.PaymentMethods) == 0 {
		m.IsDefault = true
	}
	if m.IsDefault {
		for i := range a.PaymentMethods {
			a.PaymentMethods[i].IsDefault = false
		}
	}
	a.PaymentMethods = append(a.PaymentMethods, m)
	a.UpdatedAt = d.now()
	return a, nil
}

// SetDefaultPaymentMethod makes id the only default
func (d *Directory) SetDefaultPaymentMethod(email, id string) (*domain.Account, error) {
	a, err := d.Get(email)
	if err != nil {
		return nil, err
	}
	if _, ok := a.PaymentMethod(id); !ok {
		return nil, domain.ErrPaymentMethodNotFound
	}

	for i := range a.PaymentMethods {
		a.PaymentMethods[i].IsDefault = a.PaymentMethods[i].ID == id
	}
	a.UpdatedAt = d.now()
	return a, nil
}

// RemovePaymentMethod deletes id. Removing the default promotes the first remaining method.
func (d *Directory) RemovePaymentMethod(email, id string) (*domain.Account, error) {
	a, err := d.Get(email)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(a.PaymentMethods, func(m domain.PaymentMethod) bool { return m.ID == id })
	if i < 0 {
		return nil, domain.ErrPaymentMethodNotFound
	}

	wasDefault := a.PaymentMethods[i].IsDefault
	a.PaymentMethods = slices.Delete(a.PaymentMethods, i, i+1)
	if wasDefault && len(a.PaymentMethods) > 0 {
		a.PaymentMethods[0].IsDefault = true
	}
	a.UpdatedAt = d.now()
	return a, nil
}

// ResolvePaymentMethod picks the saved method with id, or the default when id is empty
func (d *Directory) ResolvePaymentMethod(email, id string) (domain.PaymentMethod, error) {
	a, err := d.Get(email)
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	if id == "" {
		m, ok := a.DefaultPaymentMethod()
		if !ok {
			return domain.PaymentMethod{}, domain.ErrPaymentMethodRequired
		}
		return m, nil
	}
	m, ok := a.PaymentMethod(id)
	if !ok {
		return domain.PaymentMethod{}, fmt.Errorf("payment method %s: %w", id, domain.ErrPaymentMethodNotFound)
	}
	return m, nil
}

// List returns all accounts sorted by email
func (d *Directory) List() []*domain.Account {
	out := make([]*domain.Account, 0, len(d.accounts))
	for _, a := range d.accounts {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *domain.Account) int { return cmp.Compare(a.Email, b.Email) })
	return out
}

// Accounts exposes the underlying map for persistence
func (d *Directory) Accounts() map[string]*domain.Account {
	return d.accounts
}

func (d *Directory) Len() int {
	return len(d.accounts)
}
