package transport

import (
	"context"
	"errors"
	"net/http"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/middleware"
	"mzansi-store/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Storefront is the application state the handlers operate on
type Storefront interface {
	ListProducts(ctx context.Context, f service.ProductFilter) ([]*domain.Product, int)
	Product(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, u service.ProductUpdate) (*domain.Product, error)
	SetStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
	DiscontinueProduct(ctx context.Context, id string) (*domain.Product, error)
	ViewProduct(ctx context.Context, email, productID string) (*domain.Product, error)
	RecentlyViewed(ctx context.Context, email string) ([]*domain.Product, error)

	Cart(ctx context.Context, email string) (*service.CartView, error)
	AddToCart(ctx context.Context, email string, in service.AddItemInput) (*service.CartView, error)
	UpdateCartItem(ctx context.Context, email string, key domain.LineKey, quantity int) (*service.CartView, error)
	RemoveCartItem(ctx context.Context, email string, key domain.LineKey) (*service.CartView, error)

	ToggleWishlist(ctx context.Context, email, productID string) (bool, error)
	Wishlist(ctx context.Context, email string) ([]*domain.Product, error)

	Checkout(ctx context.Context, email string, shipping domain.ShippingInfo, paymentMethodID string) (*domain.Order, error)
	Orders(ctx context.Context, email string) ([]*domain.Order, error)
	Order(ctx context.Context, email, orderID string) (*domain.Order, error)
	AllOrders(ctx context.Context) []*domain.Order
	AdvanceOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)

	Account(ctx context.Context, email string) (*domain.Account, error)
	Accounts(ctx context.Context) []*domain.Account
	UpdateProfile(ctx context.Context, email string, u service.ProfileUpdate) (*domain.Account, error)
	AddPaymentMethod(ctx context.Context, email string, m domain.PaymentMethod) (*domain.Account, error)
	SetDefaultPaymentMethod(ctx context.Context, email, id string) (*domain.Account, error)
	RemovePaymentMethod(ctx context.Context, email, id string) (*domain.Account, error)

	AddReview(ctx context.Context, email, productID string, rating int, comment string) (*domain.Review, error)
	Reviews(ctx context.Context, productID string) (*service.ReviewSummary, error)
	Dashboard(ctx context.Context) *service.Dashboard
}

// statusFor maps service and domain errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotPersisted):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCartLineNotFound),
		errors.Is(err, domain.ErrPaymentMethodNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProductExists),
		errors.Is(err, domain.ErrAccountExists),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidVariant),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidCardNumber),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrInvalidOrderStatus),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrPaymentMethodRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Unexpected errors are logged and masked.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		logger.Error("Failed to "+action, zap.Error(err))
		middleware.RespondWithError(w, status, "failed to "+action)
	case http.StatusServiceUnavailable:
		logger.Error("Change not persisted", zap.String("action", action), zap.Error(err))
		middleware.RespondWithError(w, status, "change accepted but could not be saved, please retry")
	default:
		logger.Debug("Request rejected", zap.String("action", action), zap.Error(err))
		middleware.RespondWithError(w, status, rootMessage(err))
	}
}

// rootMessage is the innermost wrapped error text, i.e. the domain sentinel
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// decodeRequest decodes and validates a JSON body, writing the 400 response itself
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v any) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.String("path", r.URL.Path), zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// callerEmail is the authenticated account's email from the token
func callerEmail(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok || email == "" {
		logger.Error("User email not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return email, true
}

// callerID is the authenticated account's id from the token
func callerID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	raw, ok := middleware.GetUserID(r.Context())
	if !ok {
		logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Error("Invalid user ID format", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}
