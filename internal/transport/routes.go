package transport

import (
	"net/http"

	"mzansi-store/internal/middleware"
	"mzansi-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// API groups the HTTP handlers of the store
type API struct {
	Users    *UserHandler
	Products *ProductHandler
	Carts    *CartHandler
	Orders   *OrderHandler
}

// NewAPI builds every handler over the same storefront
func NewAPI(userService service.UserService, storefront Storefront, logger *zap.Logger) *API {
	return &API{
		Users:    NewUserHandler(userService, storefront, logger),
		Products: NewProductHandler(storefront, logger),
		Carts:    NewCartHandler(storefront, logger),
		Orders:   NewOrderHandler(storefront, logger),
	}
}

// Mount registers the public, authenticated and /api/admin routes on r
func (a *API) Mount(r chi.Router, authMiddleware func(http.Handler) http.Handler, logger *zap.Logger) {
	a.Users.RegisterRoutes(r, authMiddleware)
	a.Products.RegisterRoutes(r, authMiddleware)
	a.Carts.RegisterRoutes(r, authMiddleware)
	a.Orders.RegisterRoutes(r, authMiddleware)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin(logger))
		a.Products.RegisterAdminRoutes(r)
		a.Orders.RegisterAdminRoutes(r)
	})
}
