package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mzansi-store/internal/config"
	"mzansi-store/internal/database"
	custommiddleware "mzansi-store/internal/middleware"
	"mzansi-store/internal/repository"
	"mzansi-store/internal/seed"
	"mzansi-store/internal/service"
	"mzansi-store/internal/store"
	"mzansi-store/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  store.Store
	db     *database.Service
	redis  *redis.Client
}

// NewServer opens the configured store, restores the storefront from it and
// builds the HTTP router
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	s := &Server{config: cfg, logger: logger}
	backend, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	s.store = backend

	kv := store.WithPrefix(store.NewRetrying(backend, store.RetryConfig{
		MaxRetries: uint64(max(cfg.Store.MaxRetries, 0)),
		BaseDelay:  store.DefaultRetryConfig.BaseDelay,
		MaxDelay:   store.DefaultRetryConfig.MaxDelay,
	}, logger), cfg.Store.KeyPrefix)

	// Initialize repositories
	repos := service.Repositories{
		Products: repository.NewProductRepository(kv),
		Orders:   repository.NewOrderRepository(kv),
		Accounts: repository.NewAccountRepository(kv),
		Reviews:  repository.NewReviewRepository(kv),
		Sessions: repository.NewSessionRepository(kv),
	}
	refreshTokenRepo := repository.NewRefreshTokenRepository(kv)

	// Initialize services
	storefront := service.NewStorefront(repos, service.Options{
		Pricing: service.Pricing{
			VATRate:               cfg.Shop.VATRate,
			FreeShippingThreshold: cfg.Shop.FreeShippingThreshold,
			FlatShippingFee:       cfg.Shop.FlatShippingFee,
		},
		RecentlyViewedLimit: cfg.Shop.RecentlyViewedLimit,
		LowStockThreshold:   cfg.Shop.LowStockThreshold,
	}, logger)
	if err := storefront.Load(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load storefront: %w", err)
	}
	if err := s.seed(ctx, storefront); err != nil {
		s.Close()
		return nil, err
	}

	userService := service.NewUserService(storefront, refreshTokenRepo, cfg.JWT.Secret)
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if _, err := userService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to provision admin account: %w", err)
		}
		logger.Info("Admin account ready", zap.String("email", cfg.Admin.Email))
	}

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      s.routes(storefront, userService),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
	}
	return s, nil
}

// openStore connects the backend named by STORE_BACKEND
func (s *Server) openStore(ctx context.Context) (store.Store, error) {
	switch s.config.Store.Backend {
	case config.StoreMemory:
		s.logger.Warn("Using in-memory store, state is lost on restart")
		return store.NewMemoryStore(), nil

	case config.StoreRedis:
		s.redis = redis.NewClient(&redis.Options{
			Addr:     s.config.Redis.Addr(),
			Password: s.config.Redis.Password,
			DB:       s.config.Redis.DB,
		})
		kv, err := store.NewRedisStore(ctx, s.redis)
		if err != nil {
			s.redis.Close()
			return nil, err
		}
		s.logger.Info("Connected to Redis", zap.String("addr", s.config.Redis.Addr()))
		return kv, nil

	case config.StorePostgres:
		db, err := database.New(ctx, s.config.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db.DB(), s.logger); err != nil {
			db.DB().Close()
			return nil, err
		}
		s.db = db
		s.logger.Info("Database health check", zap.Any("health", db.Health(ctx)))
		return store.NewPostgresStore(db.DB()), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", s.config.Store.Backend)
	}
}

func (s *Server) seed(ctx context.Context, storefront *service.Storefront) error {
	if !s.config.Shop.SeedCatalog {
		return nil
	}
	products, err := seed.Catalog(time.Now())
	if err != nil {
		return fmt.Errorf("failed to parse seed catalog: %w", err)
	}
	seeded, err := storefront.Seed(ctx, products)
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	if seeded {
		s.logger.Info("Seeded launch catalog", zap.Int("products", len(products)))
	}
	return nil
}

func (s *Server) routes(storefront *service.Storefront, userService service.UserService) http.Handler {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack(requestTimeout)...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(s.logger))
	router.Use(custommiddleware.LoggingMiddleware(s.logger))
	router.Use(custommiddleware.CORSMiddleware(s.config.CORS.AllowedOrigins, s.config.Server.IsDevelopment()))
	if s.redis != nil {
		router.Use(custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: s.config.RateLimit.Requests,
			Window:            s.config.RateLimit.Window,
			KeyPrefix:         s.config.Store.KeyPrefix + "ratelimit",
		}, s.logger))
	}

	router.Get("/health", s.health)

	authMiddleware := custommiddleware.AuthMiddleware(s.config.JWT.Secret, s.logger)
	transport.NewAPI(userService, storefront, s.logger).Mount(router, authMiddleware, s.logger)

	return router
}

// health reports the store backend and, for Postgres, pool statistics
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status": "ok",
		"store":  s.config.Store.Backend,
	}
	code := http.StatusOK

	switch {
	case s.db != nil:
		dbHealth := s.db.Health(r.Context())
		status["database"] = dbHealth
		if dbHealth["status"] != "up" {
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	case s.redis != nil:
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			status["status"] = "degraded"
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	custommiddleware.RespondWithJSON(w, code, status)
}

// Close releases the store. The Redis client and the database pool are owned
// by their stores and close with them.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	var err error
	if s.store != nil {
		if err = s.store.Close(); err != nil {
			s.logger.Error("Failed to close store", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return err
}
