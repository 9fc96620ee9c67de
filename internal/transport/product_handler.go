package transport

import (
	"net/http"
	"strconv"
	"strings"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/middleware"
	"mzansi-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductRequest is the admin payload for creating a product
type ProductRequest struct {
	ID            string          `json:"id" validate:"omitempty,alphanum,max=10"`
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=2000"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category" validate:"required,category"`
	ImageURL      string          `json:"image_url" validate:"omitempty,max=500"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
	Sizes         []string        `json:"sizes" validate:"dive,required"`
	Colors        []string        `json:"colors" validate:"dive,required"`
}

// UpdateProductRequest edits product attributes; omitted fields are kept
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitnil,min=1,max=200"`
	Description *string          `json:"description" validate:"omitnil,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category" validate:"omitnil,category"`
	ImageURL    *string          `json:"image_url" validate:"omitnil,max=500"`
	Sizes       []string         `json:"sizes" validate:"omitempty,dive,required"`
	Colors      []string         `json:"colors" validate:"omitempty,dive,required"`
}

// SetStockRequest overrides a product's stock level
type SetStockRequest struct {
	StockQuantity *int `json:"stock_quantity" validate:"required,gte=0"`
}

// ReviewRequest rates a product
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// ProductPage is one page of the catalog
type ProductPage struct {
	Products   []*domain.Product `json:"products"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// ProductHandler serves the catalog, reviews and admin product management
type ProductHandler struct {
	storefront Storefront
	logger     *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(storefront Storefront, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{storefront: storefront, logger: logger}
}

// RegisterRoutes registers the public and authenticated catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{productID}", h.GetProduct)
		r.Get("/{productID}/reviews", h.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/{productID}/view", h.ViewProduct)
			r.Post("/{productID}/reviews", h.AddReview)
		})
	})

	r.With(authMiddleware).Get("/api/recently-viewed", h.RecentlyViewed)
}

// RegisterAdminRoutes registers product management under an admin-only router
func (h *ProductHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Put("/{productID}", h.UpdateProduct)
		r.Delete("/{productID}", h.DiscontinueProduct)
		r.Put("/{productID}/stock", h.SetStock)
	})
}

// ListProducts handles GET /api/products?category=&q=&in_stock=&include_discontinued=&sort_by=&sort_order=&page=&page_size=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := service.ProductFilter{
		Query:               query.Get("q"),
		InStockOnly:         query.Get("in_stock") == "true",
		IncludeDiscontinued: query.Get("include_discontinued") == "true",
		SortBy:              query.Get("sort_by"),
		SortOrder:           service.SortOrder(strings.ToUpper(query.Get("sort_order"))),
		Page:                1,
		PageSize:            defaultPageSize,
	}

	if raw := query.Get("category"); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Category = category
	}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			middleware.RespondWithError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		filter.Page = page
	}
	if raw := query.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > maxPageSize {
			middleware.RespondWithError(w, http.StatusBadRequest, "page_size must be between 1 and 100")
			return
		}
		filter.PageSize = size
	}

	products, total := h.storefront.ListProducts(r.Context(), filter)
	middleware.RespondWithData(w, http.StatusOK, ProductPage{
		Products:   products,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: (total + filter.PageSize - 1) / filter.PageSize,
	}, "")
}

// GetProduct returns a product, discontinued ones included so old orders can link to them
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.storefront.Product(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, h.logger, err, "get product")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, product, "")
}

// ViewProduct records the product in the caller's recently viewed list
func (h *ProductHandler) ViewProduct(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	product, err := h.storefront.ViewProduct(r.Context(), email, chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, h.logger, err, "record product view")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, product, "")
}

// RecentlyViewed lists the caller's recently viewed products
func (h *ProductHandler) RecentlyViewed(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	products, err := h.storefront.RecentlyViewed(r.Context(), email)
	if err != nil {
		respondError(w, h.logger, err, "list recently viewed products")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, products, "")
}

// ListReviews returns a product's reviews and average rating
func (h *ProductHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	summary, err := h.storefront.Reviews(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, h.logger, err, "list reviews")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, summary, "")
}

// AddReview records the caller's review
func (h *ProductHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}
	var req ReviewRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	review, err := h.storefront.AddReview(r.Context(), email, chi.URLParam(r, "productID"), req.Rating, req.Comment)
	if err != nil {
		respondError(w, h.logger, err, "add review")
		return
	}
	middleware.RespondWithData(w, http.StatusCreated, review, "review added")
}

// CreateProduct adds a product. An empty id is generated from the category.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product, err := h.storefront.CreateProduct(r.Context(), &domain.Product{
		ID:            strings.ToUpper(req.ID),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      domain.Category(req.Category),
		ImageURL:      req.ImageURL,
		StockQuantity: req.StockQuantity,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
	})
	if err != nil {
		respondError(w, h.logger, err, "create product")
		return
	}
	middleware.RespondWithData(w, http.StatusCreated, product, "product created")
}

// UpdateProduct edits product attributes. Stock is changed through SetStock.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	update := service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		update.Category = &category
	}

	product, err := h.storefront.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), update)
	if err != nil {
		respondError(w, h.logger, err, "update product")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, product, "product updated")
}

// DiscontinueProduct soft-deletes a product and pulls it from every cart and wishlist
func (h *ProductHandler) DiscontinueProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.storefront.DiscontinueProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, h.logger, err, "discontinue product")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, product, "product discontinued")
}

// SetStock overrides the stock level
func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req SetStockRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	product, err := h.storefront.SetStock(r.Context(), chi.URLParam(r, "productID"), *req.StockQuantity)
	if err != nil {
		respondError(w, h.logger, err, "set stock")
		return
	}
	middleware.RespondWithData(w, http.StatusOK, product, "stock updated")
}
