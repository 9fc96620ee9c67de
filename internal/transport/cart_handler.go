package transport

import (
	"net/http"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/middleware"
	"mzansi-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddCartItemRequest adds a product variant to the cart
type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1,lte=100"`
	Size      string `json:"size" validate:"max=20"`
	Color     string `json:"color" validate:"max=30"`
}

// UpdateCartItemRequest sets a line's quantity. Zero or less removes the line.
type UpdateCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"lte=100"`
}

// WishlistToggleResponse reports membership after a toggle
type WishlistToggleResponse struct {
	ProductID  string `json:"product_id"`
	InWishlist bool   `json:"in_wishlist"`
}

// CartHandler serves the caller's cart and wishlist
type CartHandler struct {
	storefront Storefront
	logger     *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(storefront Storefront, logger *zap.Logger) *CartHandler {
	return &CartHandler{storefront: storefront, logger: logger}
}

// RegisterRoutes registers the cart and wishlist routes. All of them require authentication.
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Put("/items", h.UpdateItem)
		r.Delete("/items", h.RemoveItem)
	})

	r.Route("/api/wishlist", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.GetWishlist)
		r.Post("/{productID}", h.ToggleWishlist)
	})
}

// GetCart returns the cart lines with priced totals
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	view, err := h.storefront.Cart(r.Context(), email)
	if err != nil {
		respondError(w, h.logger, err, "get cart")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, view, "")
}

// AddItem reserves stock and merges into an existing line with the same variant
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	view, err := h.storefront.AddToCart(r.Context(), email, service.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		respondError(w, h.logger, err, "add item to cart")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, view, "item added to cart")
}

// UpdateItem changes a line's quantity
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	key := domain.LineKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
	view, err := h.storefront.UpdateCartItem(r.Context(), email, key, req.Quantity)
	if err != nil {
		respondError(w, h.logger, err, "update cart item")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, view, "cart updated")
}

// RemoveItem handles DELETE /api/cart/items?product_id=&size=&color=
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	query := r.URL.Query()
	key := domain.LineKey{
		ProductID: query.Get("product_id"),
		Size:      query.Get("size"),
		Color:     query.Get("color"),
	}
	if key.ProductID == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	view, err := h.storefront.RemoveCartItem(r.Context(), email, key)
	if err != nil {
		respondError(w, h.logger, err, "remove cart item")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, view, "item removed from cart")
}

// GetWishlist lists the wishlisted products that are still for sale
func (h *CartHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	products, err := h.storefront.Wishlist(r.Context(), email)
	if err != nil {
		respondError(w, h.logger, err, "get wishlist")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, products, "")
}

// ToggleWishlist adds the product if absent and removes it if present
func (h *CartHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productID")

	added, err := h.storefront.ToggleWishlist(r.Context(), email, productID)
	if err != nil {
		respondError(w, h.logger, err, "toggle wishlist")
		return
	}

	message := "removed from wishlist"
	if added {
		message = "added to wishlist"
	}
	middleware.RespondWithData(w, http.StatusOK, WishlistToggleResponse{ProductID: productID, InWishlist: added}, message)
}
