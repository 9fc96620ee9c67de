package transport

import (
	"errors"
	"net/http"
	"time"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/middleware"
	"mzansi-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=100"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the token refresh and logout payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateProfileRequest carries the editable profile fields; omitted fields are kept
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitnil,min=1,max=100"`
	Address *string `json:"address" validate:"omitnil,max=300"`
	Phone   *string `json:"phone" validate:"omitnil,max=20"`
}

// AddPaymentMethodRequest saves a card or an EFT account
type AddPaymentMethodRequest struct {
	Kind          string `json:"kind" validate:"required,oneof=card eft"`
	Holder        string `json:"holder" validate:"required"`
	CardNumber    string `json:"card_number" validate:"required_if=Kind card"`
	Expiry        string `json:"expiry" validate:"required_if=Kind card"`
	Bank          string `json:"bank" validate:"required_if=Kind eft"`
	AccountNumber string `json:"account_number" validate:"required_if=Kind eft"`
	MakeDefault   bool   `json:"make_default"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         AccountProfile `json:"user"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// AccountProfile is the public view of an account
type AccountProfile struct {
	ID             string                 `json:"id"`
	Email          string                 `json:"email"`
	Name           string                 `json:"name"`
	Address        string                 `json:"address,omitempty"`
	Phone          string                 `json:"phone,omitempty"`
	Role           domain.Role            `json:"role"`
	PaymentMethods []domain.PaymentMethod `json:"payment_methods"`
	OrderCount     int                    `json:"order_count"`
	CreatedAt      time.Time              `json:"created_at"`
}

func newAccountProfile(a *domain.Account) AccountProfile {
	methods := a.PaymentMethods
	if methods == nil {
		methods = []domain.PaymentMethod{}
	}
	return AccountProfile{
		ID:             a.ID.String(),
		Email:          a.Email,
		Name:           a.Name,
		Address:        a.Address,
		Phone:          a.Phone,
		Role:           a.Role,
		PaymentMethods: methods,
		OrderCount:     len(a.OrderIDs),
		CreatedAt:      a.CreatedAt,
	}
}

// UserHandler handles registration, authentication and account self-service
type UserHandler struct {
	userService service.UserService
	storefront  Storefront
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, storefront Storefront, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		storefront:  storefront,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)

			r.Route("/payment-methods", func(r chi.Router) {
				r.Get("/", h.ListPaymentMethods)
				r.Post("/", h.AddPaymentMethod)
				r.Put("/{methodID}/default", h.SetDefaultPaymentMethod)
				r.Delete("/{methodID}", h.RemovePaymentMethod)
			})
		})
	})
}

// Register handles account registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	account, err := h.userService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			middleware.RespondWithError(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		respondError(w, h.logger, err, "register account")
		return
	}

	h.logger.Info("Account registered successfully", zap.String("user_id", account.ID.String()))
	middleware.RespondWithData(w, http.StatusCreated, newAccountProfile(account), "account created")
}

// Login handles authentication
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	accessToken, refreshToken, account, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		respondError(w, h.logger, err, "login")
		return
	}

	h.logger.Info("User logged in successfully", zap.String("user_id", account.ID.String()))
	middleware.RespondWithData(w, http.StatusOK, LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         newAccountProfile(account),
	}, "")
}

// Logout revokes the refresh token
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	if err := h.userService.Logout(r.Context(), req.RefreshToken); err != nil {
		respondError(w, h.logger, err, "logout")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, nil, "logged out successfully")
}

// RefreshToken exchanges a refresh token for a new access token
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	newAccessToken, err := h.userService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		h.logger.Debug("Token refresh failed", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, service.ErrTokenExpired):
			middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
		default:
			respondError(w, h.logger, err, "refresh token")
		}
		return
	}

	middleware.RespondWithData(w, http.StatusOK, RefreshResponse{AccessToken: newAccessToken}, "")
}

// GetProfile returns the caller's account
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(w, r, h.logger)
	if !ok {
		return
	}

	account, err := h.userService.GetAccountByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "get user profile")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, newAccountProfile(account), "")
}

// UpdateProfile edits name, address and phone
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	account, err := h.storefront.UpdateProfile(r.Context(), email, service.ProfileUpdate{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		respondError(w, h.logger, err, "update profile")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, newAccountProfile(account), "profile updated")
}

// ListPaymentMethods returns the caller's saved payment methods
func (h *UserHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	account, err := h.storefront.Account(r.Context(), email)
	if err != nil {
		respondError(w, h.logger, err, "list payment methods")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, newAccountProfile(account).PaymentMethods, "")
}

// AddPaymentMethod saves a card or EFT account. Only brand or bank and the last four digits are kept.
func (h *UserHandler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}
	var req AddPaymentMethodRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	var (
		method domain.PaymentMethod
		err    error
	)
	if domain.PaymentKind(req.Kind) == domain.PaymentEFT {
		method, err = domain.NewEFTPaymentMethod(req.Holder, req.Bank, req.AccountNumber)
	} else {
		method, err = domain.NewCardPaymentMethod(req.Holder, req.CardNumber, req.Expiry)
	}
	if err != nil {
		respondError(w, h.logger, err, "add payment method")
		return
	}
	method.IsDefault = req.MakeDefault

	account, err := h.storefront.AddPaymentMethod(r.Context(), email, method)
	if err != nil {
		respondError(w, h.logger, err, "add payment method")
		return
	}

	middleware.RespondWithData(w, http.StatusCreated, account.PaymentMethods, "payment method saved")
}

// SetDefaultPaymentMethod makes the method the one used at checkout when none is chosen
func (h *UserHandler) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	account, err := h.storefront.SetDefaultPaymentMethod(r.Context(), email, chi.URLParam(r, "methodID"))
	if err != nil {
		respondError(w, h.logger, err, "set default payment method")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, account.PaymentMethods, "default payment method updated")
}

// RemovePaymentMethod deletes a saved method
func (h *UserHandler) RemovePaymentMethod(w http.ResponseWriter, r *http.Request) {
	email, ok := callerEmail(w, r, h.logger)
	if !ok {
		return
	}

	account, err := h.storefront.RemovePaymentMethod(r.Context(), email, chi.URLParam(r, "methodID"))
	if err != nil {
		respondError(w, h.logger, err, "remove payment method")
		return
	}

	middleware.RespondWithData(w, http.StatusOK, newAccountProfile(account).PaymentMethods, "payment method removed")
}
