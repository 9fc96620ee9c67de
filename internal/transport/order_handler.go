package transport

import (
	"net/http"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ShippingRequest is the delivery address captured at checkout
type ShippingRequest struct {
	FullName   string `json:"full_name" validate:"required,max=100"`
	Address    string `json:"address" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=100"`
	Province   string `json:"province" validate:"required,max=50"`
	PostalCode string `json:"postal_code" validate:"required,len=4,numeric"`
	Phone      string `json:"phone" validate:"required,max=20"`
}

// CheckoutRequest places an order from the caller's cart.
// An empty payment_method_id uses the account's default method.
type CheckoutRequest struct {
	ShippingInfo    ShippingRequest `json:"shipping_info" validate:"required"`
	PaymentMethodID string          `json:"payment_method_id"`
}

// UpdateStatusRequest advances an order
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

// OrderHandler serves checkout and order history
type OrderHandler struct {
	storefront Storefront
	logger     *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(storefront Storefront, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{storefront: storefront, logger: logger}
}

// RegisterRoutes registers the customer order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Checkout)
		r.Get("/", h.ListOrders)
		r.Get("/{orderID}", h.GetOrder)
	})
}

// RegisterAdminRoutes registers order administration, the account list and the dashboard
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/orders", h.ListAllOrders)
	r.Put("/orders/{orderID}/status", h.UpdateStatus)
	r.Get("/accounts", h.ListAccounts)
	r.Get("/dashboard", h.Dashboard)
}

// Checkout converts the cart into an order
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}
	var req CheckoutRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	order, err := h.storefront.Checkout(r.Context(), email, domain.ShippingInfo{
		FullName:   req.ShippingInfo.FullName,
		Address:    req.ShippingInfo.Address,
		City:       req.ShippingInfo.City,
		Province:   req.ShippingInfo.Province,
		PostalCode: req.ShippingInfo.PostalCode,
		Phone:      req.ShippingInfo.Phone,
	}, req.PaymentMethodID)
	if err != nil {
		respondError(w, h.logger, err, "place order")
		return
	}
	middleware.RespondWithData(w, http.StatusCreated, order, "order placed")
}

// ListOrders returns the caller's orders, newest first
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.storefront.Orders(r.Context(), email)
	if err != nil {
		respondError(w, h.logger, err, "list orders")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, orders, "")
}

// GetOrder returns one order. Orders belonging to someone else read as not found.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	order, err := h.storefront.Order(r.Context(), email, chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, h.logger, err, "get order")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, order, "")
}

// ListAllOrders returns every order in the ledger
func (h *OrderHandler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithData(w, http.StatusOK, h.storefront.AllOrders(r.Context()), "")
}

// UpdateStatus moves an order forward through Processing, Shipped and Delivered
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(w, h.logger, err, "update order status")
		return
	}

	order, err := h.storefront.AdvanceOrderStatus(r.Context(), chi.URLParam(r, "orderID"), status)
	if err != nil {
		respondError(w, h.logger, err, "update order status")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, order, "order status updated")
}

// ListAccounts returns every registered account
func (h *OrderHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts := h.storefront.Accounts(r.Context())
	profiles := make([]AccountProfile, 0, len(accounts))
	for _, a := range accounts {
		profiles = append(profiles, newAccountProfile(a))
	}
	middleware.RespondWithData(w, http.StatusOK, profiles, "")
}

// Dashboard returns the admin summary
func (h *OrderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithData(w, http.StatusOK, h.storefront.Dashboard(r.Context()), "")
}
