package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrNotPersisted wraps save-point failures. The in-memory change has been
// applied and stays queued; the next successful save point writes it.
var ErrNotPersisted = errors.New("change applied but not yet persisted")

// Repositories groups the persistence boundary of the storefront
type Repositories struct {
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Accounts repository.AccountRepository
	Reviews  repository.ReviewRepository
	Sessions repository.SessionRepository
}

// Options configures a Storefront
type Options struct {
	Pricing             Pricing
	RecentlyViewedLimit int
	LowStockThreshold   int
	Now                 func() time.Time
}

// CartView is a cart with its priced totals
type CartView struct {
	Lines     []domain.CartLine `json:"lines"`
	Totals    domain.Totals     `json:"totals"`
	ItemCount int               `json:"item_count"`
}

// AddItemInput selects a product variant to add to a cart
type AddItemInput struct {
	ProductID string
	Quantity  int
	Size      string
	Color     string
}

// ReviewSummary lists a product's reviews with the average rating
type ReviewSummary struct {
	Reviews       []*domain.Review `json:"reviews"`
	Count         int              `json:"count"`
	AverageRating float64          `json:"average_rating"`
}

// Dashboard is the admin overview of the store
type Dashboard struct {
	OrderCount     int                        `json:"order_count"`
	Revenue        decimal.Decimal            `json:"revenue"`
	OrdersByStatus map[domain.OrderStatus]int `json:"orders_by_status"`
	ProductCount   int                        `json:"product_count"`
	AccountCount   int                        `json:"account_count"`
	LowStock       []*domain.Product          `json:"low_stock"`
}

type session struct {
	cart     *Cart
	wishlist *Wishlist
	recent   []string
}

func (s *session) snapshot() *domain.Session {
	return &domain.Session{
		Cart:           s.cart.Lines(),
		Wishlist:       s.wishlist.IDs(),
		RecentlyViewed: slices.Clone(s.recent),
	}
}

type dirtySet struct {
	catalog   bool
	ledger    bool
	directory bool
	reviews   bool
	sessions  map[string]bool
}

// Storefront owns the whole application state: catalog, order ledger,
// account directory, reviews and per-account sessions. Every operation runs
// under one lock and ends at a save point that writes the aggregates it touched.
type Storefront struct {
	mu sync.Mutex

	repos   Repositories
	pricing Pricing
	opts    Options
	logger  *zap.Logger
	now     func() time.Time

	catalog   *Catalog
	ledger    *Ledger
	directory *Directory
	reviews   []*domain.Review
	sessions  map[string]*session
	dirty     dirtySet
}

// NewStorefront creates an empty storefront. Call Load before use.
func NewStorefront(repos Repositories, opts Options, logger *zap.Logger) *Storefront {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.RecentlyViewedLimit <= 0 {
		opts.RecentlyViewedLimit = 10
	}

	return &Storefront{
		repos:     repos,
		pricing:   opts.Pricing,
		opts:      opts,
		logger:    logger,
		now:       now,
		catalog:   NewCatalog(nil, now),
		ledger:    NewLedger(nil, now),
		directory: NewDirectory(nil, now),
		sessions:  make(map[string]*session),
		dirty:     dirtySet{sessions: make(map[string]bool)},
	}
}

// Load restores catalog, ledger, directory and reviews from the store
func (s *Storefront) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.repos.Products.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	orders, err := s.repos.Orders.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	accounts, err := s.repos.Accounts.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	reviews, err := s.repos.Reviews.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}

	s.catalog = NewCatalog(products, s.now)
	s.ledger = NewLedger(orders, s.now)
	s.directory = NewDirectory(accounts, s.now)
	s.reviews = reviews
	s.sessions = make(map[string]*session)

	s.logger.Info("Storefront state loaded",
		zap.Int("products", s.catalog.Len()),
		zap.Int("orders", s.ledger.Len()),
		zap.Int("accounts", s.directory.Len()),
		zap.Int("reviews", len(s.reviews)),
	)
	return nil
}

// Seed installs products when the catalog is empty. It reports whether it seeded.
func (s *Storefront) Seed(ctx context.Context, products []*domain.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog.Len() > 0 {
		return false, nil
	}

	s.catalog = NewCatalog(products, s.now)
	s.dirty.catalog = true
	s.logger.Info("Seeded empty catalog", zap.Int("products", len(products)))
	return true, s.flush(ctx)
}

// flush is the save point: it writes every dirty aggregate. Aggregates that
// fail stay dirty and are retried by the next save point.
func (s *Storefront) flush(ctx context.Context) error {
	var errs []error

	if s.dirty.catalog {
		if err := s.repos.Products.Save(ctx, s.catalog.Products()); err != nil {
			errs = append(errs, err)
		} else {
			s.dirty.catalog = false
		}
	}
	if s.dirty.ledger {
		if err := s.repos.Orders.Save(ctx, s.ledger.Orders()); err != nil {
			errs = append(errs, err)
		} else {
			s.dirty.ledger = false
		}
	}
	if s.dirty.directory {
		if err := s.repos.Accounts.Save(ctx, s.directory.Accounts()); err != nil {
			errs = append(errs, err)
		} else {
			s.dirty.directory = false
		}
	}
	if s.dirty.reviews {
		if err := s.repos.Reviews.Save(ctx, s.reviews); err != nil {
			errs = append(errs, err)
		} else {
			s.dirty.reviews = false
		}
	}
	for email := range s.dirty.sessions {
		sess, ok := s.sessions[email]
		if !ok {
			delete(s.dirty.sessions, email)
			continue
		}
		if err := s.repos.Sessions.Save(ctx, email, sess.snapshot()); err != nil {
			errs = append(errs, err)
		} else {
			delete(s.dirty.sessions, email)
		}
	}

	if len(errs) == 0 {
		return nil
	}

	err := errors.Join(errs...)
	s.logger.Error("Save point failed, changes remain queued", zap.Error(err))
	return fmt.Errorf("%w: %w", ErrNotPersisted, err)
}

// session returns the cached session for an existing account, loading it on first use
func (s *Storefront) session(ctx context.Context, email string) (string, *session, error) {
	account, err := s.directory.Get(email)
	if err != nil {
		return "", nil, err
	}
	email = account.Email

	if sess, ok := s.sessions[email]; ok {
		return email, sess, nil
	}

	stored, err := s.repos.Sessions.Load(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to load session: %w", err)
	}
	sess := &session{
		cart:     NewCart(stored.Cart, s.catalog),
		wishlist: NewWishlist(stored.Wishlist),
		recent:   stored.RecentlyViewed,
	}
	s.sessions[email] = sess
	return email, sess, nil
}

func (s *Storefront) cartView(c *Cart) *CartView {
	lines := c.Lines()
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return &CartView{Lines: lines, Totals: s.pricing.Price(lines), ItemCount: count}
}

// ---- Catalog ----

// ListProducts returns one page of the catalog and the total match count
func (s *Storefront) ListProducts(ctx context.Context, f ProductFilter) ([]*domain.Product, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, total := s.catalog.List(f)
	return cloneProducts(page), total
}

// Product returns a single product, including discontinued ones
func (s *Storefront) Product(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// CreateProduct adds a product to the catalog
func (s *Storefront) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.catalog.Create(p.Clone())
	if err != nil {
		return nil, err
	}
	s.dirty.catalog = true
	s.logger.Info("Product created", zap.String("product_id", created.ID), zap.String("category", string(created.Category)))
	return created.Clone(), s.flush(ctx)
}

// UpdateProduct edits product attributes. Existing cart lines keep their price.
func (s *Storefront) UpdateProduct(ctx context.Context, id string, u ProductUpdate) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.Update(id, u)
	if err != nil {
		return nil, err
	}
	s.dirty.catalog = true
	s.logger.Info("Product updated", zap.String("product_id", id))
	return p.Clone(), s.flush(ctx)
}

// SetStock overrides the stock level of a product
func (s *Storefront) SetStock(ctx context.Context, id string, quantity int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.SetStock(id, quantity)
	if err != nil {
		return nil, err
	}
	s.dirty.catalog = true
	s.logger.Info("Stock set", zap.String("product_id", id), zap.Int("stock", quantity))
	return p.Clone(), s.flush(ctx)
}

// DiscontinueProduct soft-deletes a product and removes it from every cart
// (releasing the reservations), wishlist and recently viewed list.
func (s *Storefront) DiscontinueProduct(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.catalog.Get(id); err != nil {
		return nil, err
	}

	for _, account := range s.directory.List() {
		email, sess, err := s.session(ctx, account.Email)
		if err != nil {
			return nil, err
		}
		removed, err := sess.cart.RemoveProduct(id)
		if err != nil {
			return nil, err
		}
		changed := removed > 0
		if sess.wishlist.Remove(id) {
			changed = true
		}
		if i := slices.Index(sess.recent, id); i >= 0 {
			sess.recent = slices.Delete(sess.recent, i, i+1)
			changed = true
		}
		if changed {
			s.dirty.sessions[email] = true
			s.dirty.catalog = true
		}
	}

	p, err := s.catalog.Discontinue(id)
	if err != nil {
		return nil, err
	}
	s.dirty.catalog = true
	s.logger.Info("Product discontinued", zap.String("product_id", id))
	return p.Clone(), s.flush(ctx)
}

// ViewProduct returns a product and records it in the account's recently viewed list
func (s *Storefront) ViewProduct(ctx context.Context, email, productID string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.Get(productID)
	if err != nil {
		return nil, err
	}
	email, sess, err := s.session(ctx, email)
	if err != nil {
		return nil, err
	}

	if i := slices.Index(sess.recent, productID); i >= 0 {
		sess.recent = slices.Delete(sess.recent, i, i+1)
	}
	sess.recent = slices.Insert(sess.recent, 0, productID)
	if len(sess.recent) > s.opts.RecentlyViewedLimit {
		sess.recent = sess.recent[:s.opts.RecentlyViewedLimit]
	}
	s.dirty.sessions[email] = true
	return p.Clone(), s.flush(ctx)
}

// RecentlyViewed lists the account's recently viewed products, most recent first
func (s *Storefront) RecentlyViewed(ctx context.Context, email string) ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, sess, err := s.session(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.resolveProducts(sess.recent), nil
}

func (s *Storefront) resolveProducts(ids []string) []*domain.Product {
	out := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, err := s.catalog.Get(id); err == nil && !p.Discontinued {
			out = append(out, p.Clone())
		}
	}
	return out
}

// ---- Cart ----

// Cart returns the account's cart with totals
func (s *Storefront) Cart(ctx context.Context, email string) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, sess, err := s.session(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.cartView(sess.cart), nil
}

// AddToCart reserves stock and adds the selection to the account's cart
func (s *Storefront) AddToCart(ctx context.Context, email string, in AddItemInput) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, sess, err := s.session(ctx, email)
	if err != nil {
		return nil, err
	}
	line, err := sess.cart.AddItem(in.ProductID, in.Quantity, in.Size, in.Color)
	if err != nil {
		s.logger.Debug("Add to cart rejected",
			zap.String("email", email),
			zap.String("product_id", in.ProductID),
			zap.Int("quantity", in.Quantity),
			zap.Error(err),
		)
		return nil, err
	}

	s.dirty.catalog = true
	s.dirty.sessions[email] = true
	s.logger.Info("Item added to cart",
		zap.String("email", email),
		zap.String("product_id", line.ProductID),
		zap.Int("line_quantity", line.Quantity),
	)
	return s.cartView(sess.cart), s.flush(ctx)
}

// UpdateCartItem sets a line's quantity, adjusting the reservation by the difference
func (s *Storefront) UpdateCartItem(ctx context.Context, email string, key domain.LineKey, quantity int) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, sess, err := s.session(ctx, email)
	if err != nil {
		return nil, err
	}
	if _, err := sess.cart.UpdateQuantity(key, quantity); err != nil {
		return nil, err
	}

	s.dirty.catalog = true
	s.dirty.sessions[email] = true
	s.logger.Info("Cart quantity updated",
		zap.String("email", email),
		zap.String("product_id", key.ProductID),
		zap.Int("quantity", quantity),
	)
	return s.cartView(sess.cart), s.flush(ctx)
}

// RemoveCartItem drops a line and releases its stock
func (s *Storefront) RemoveCartItem(ctx context.Context, email string, key domain.LineKey) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, sess, err := s.session(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := sess.cart.RemoveItem(key); err != nil {
		return nil, err
	}

	s.dirty.catalog = true
	s.dirty.sessions[email] = true
	s.logger.Info("Item removed from cart", zap.String("email", email), zap.String("product_id", key.ProductID))
	return s.cartView(sess.cart), s.flush(ctx)
}

// ---- Wishlist ----

// ToggleWishlist adds or removes a product and reports whether it is now saved
func (s *Storefront) ToggleWishlist(ctx context.Context, email, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.catalog.Get(productID)
	if err != nil {
		return false, err
	}
	email, sess, err := s.session(ctx, email)
	if err != nil {
		return false, err
	}
	if p.Discontinued && !sess.wishlist.IsMember(productID) {
		return false, domain.ErrProductUnavailable
	}

	member := sess.wishlist.Toggle(productID)
	s.dirty.sessions[email] = true
	return member, s.flush(ctx)
}

// Wishlist lists the saved products
func (s *Storefront) Wishlist(ctx context.Context, email string) ([]*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, sess, err := s.session(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.resolveProducts(sess.wishlist.IDs()), nil
}

// InWishlist reports whether a product is saved
func (s *Storefront) InWishlist(ctx context.Context, email, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, sess, err := s.session(ctx, email)
	if err != nil {
		return false, err
	}
	return sess.wishlist.IsMember(productID), nil
}

// ---- Orders ----

// Checkout turns the account's cart into a Processing order and clears the cart.
// An empty paymentMethodID selects the account's default payment method.
func (s *Storefront) Checkout(ctx context.Context, email string, shipping domain.ShippingInfo, paymentMethodID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, sess, err := s.session(ctx, email)
	if err != nil {
		return nil, err
	}
	if sess.cart.Len() == 0 {
		return nil, domain.ErrEmptyCart
	}
	method, err := s.directory.ResolvePaymentMethod(email, paymentMethodID)
	if err != nil {
		return nil, err
	}

	lines := sess.cart.Lines()
	order := s.ledger.Create(email, lines, s.pricing.Price(lines), shipping, method.Label())
	if err := s.directory.AttachOrder(email, order.ID); err != nil {
		return nil, err
	}
	sess.cart.Clear()

	s.dirty.ledger = true
	s.dirty.directory = true
	s.dirty.sessions[email] = true
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("email", email),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("lines", len(order.Items)),
	)
	return order.Clone(), s.flush(ctx)
}

// Orders lists an account's orders, newest first, resolved from the ledger
func (s *Storefront) Orders(ctx context.Context, email string) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.directory.Get(email)
	if err != nil {
		return nil, err
	}
	return cloneOrders(s.ledger.Resolve(account.OrderIDs)), nil
}

// Order returns one order to its owner or to an admin. Other callers get ErrOrderNotFound.
func (s *Storefront) Order(ctx context.Context, email, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.directory.Get(email)
	if err != nil {
		return nil, err
	}
	order, err := s.ledger.Get(orderID)
	if err != nil {
		return nil, err
	}
	if order.AccountEmail != account.Email && !account.IsAdmin() {
		return nil, fmt.Errorf("order %s: %w", orderID, domain.ErrOrderNotFound)
	}
	return order.Clone(), nil
}

// AllOrders lists every order, newest first
func (s *Storefront) AllOrders(ctx context.Context) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneOrders(s.ledger.All())
}

// AdvanceOrderStatus moves an order forward. Account views resolve orders
// from the ledger, so every view reflects the new status immediately.
func (s *Storefront) AdvanceOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.ledger.AdvanceStatus(orderID, status)
	if err != nil {
		return nil, err
	}
	s.dirty.ledger = true
	s.logger.Info("Order status advanced", zap.String("order_id", orderID), zap.String("status", string(status)))
	return order.Clone(), s.flush(ctx)
}

// ---- Accounts ----

// RegisterAccount adds an account with an already hashed password
func (s *Storefront) RegisterAccount(ctx context.Context, email, passwordHash, name string, role domain.Role) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.directory.Create(email, passwordHash, name, role)
	if err != nil {
		return nil, err
	}
	s.dirty.directory = true
	s.logger.Info("Account registered", zap.String("account_id", account.ID.String()), zap.String("role", string(role)))
	return account.Clone(), s.flush(ctx)
}

// Account looks an account up by email
func (s *Storefront) Account(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.directory.Get(email)
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

// AccountByID looks an account up by its surrogate id
func (s *Storefront) AccountByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.directory.GetByID(id)
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

// Accounts lists the directory sorted by email
func (s *Storefront) Accounts(ctx context.Context) []*domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.directory.List()
	out := make([]*domain.Account, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}

func (s *Storefront) UpdateProfile(ctx context.Context, email string, u ProfileUpdate) (*domain.Account, error) {
	return s.mutateAccount(ctx, func() (*domain.Account, error) {
		return s.directory.UpdateProfile(email, u)
	})
}

func (s *Storefront) AddPaymentMethod(ctx context.Context, email string, m domain.PaymentMethod) (*domain.Account, error) {
	return s.mutateAccount(ctx, func() (*domain.Account, error) {
		return s.directory.AddPaymentMethod(email, m)
	})
}

func (s *Storefront) SetDefaultPaymentMethod(ctx context.Context, email, id string) (*domain.Account, error) {
	return s.mutateAccount(ctx, func() (*domain.Account, error) {
		return s.directory.SetDefaultPaymentMethod(email, id)
	})
}

func (s *Storefront) RemovePaymentMethod(ctx context.Context, email, id string) (*domain.Account, error) {
	return s.mutateAccount(ctx, func() (*domain.Account, error) {
		return s.directory.RemovePaymentMethod(email, id)
	})
}

func (s *Storefront) mutateAccount(ctx context.Context, fn func() (*domain.Account, error)) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := fn()
	if err != nil {
		return nil, err
	}
	s.dirty.directory = true
	return a.Clone(), s.flush(ctx)
}

// ---- Reviews ----

// AddReview records a 1–5 star review of a product
func (s *Storefront) AddReview(ctx context.Context, email, productID string, rating int, comment string) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	if _, err := s.catalog.Get(productID); err != nil {
		return nil, err
	}
	account, err := s.directory.Get(email)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:           uuid.NewString(),
		ProductID:    productID,
		AccountEmail: account.Email,
		AuthorName:   account.Name,
		Rating:       rating,
		Comment:      comment,
		CreatedAt:    s.now(),
	}
	s.reviews = append(s.reviews, review)
	s.dirty.reviews = true

	c := *review
	return &c, s.flush(ctx)
}

// Reviews lists a product's reviews, newest first
func (s *Storefront) Reviews(ctx context.Context, productID string) (*ReviewSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.catalog.Get(productID); err != nil {
		return nil, err
	}

	summary := &ReviewSummary{Reviews: []*domain.Review{}}
	sum := 0
	for i := len(s.reviews) - 1; i >= 0; i-- {
		r := s.reviews[i]
		if r.ProductID != productID {
			continue
		}
		c := *r
		summary.Reviews = append(summary.Reviews, &c)
		sum += r.Rating
	}
	summary.Count = len(summary.Reviews)
	if summary.Count > 0 {
		avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(summary.Count))).Round(1)
		summary.AverageRating = avg.InexactFloat64()
	}
	return summary, nil
}

// ---- Admin ----

// Dashboard summarises orders, revenue, accounts and low stock
func (s *Storefront) Dashboard(ctx context.Context) *Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Dashboard{
		OrderCount:     s.ledger.Len(),
		Revenue:        s.ledger.Revenue(),
		OrdersByStatus: s.ledger.CountByStatus(),
		ProductCount:   s.catalog.Len(),
		AccountCount:   s.directory.Len(),
		LowStock:       cloneProducts(s.catalog.LowStock(s.opts.LowStockThreshold)),
	}
}

func cloneProducts(products []*domain.Product) []*domain.Product {
	out := make([]*domain.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

func cloneOrders(orders []*domain.Order) []*domain.Order {
	out := make([]*domain.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
