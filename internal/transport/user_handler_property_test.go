package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mzansi-store/internal/middleware"
	"mzansi-store/internal/repository"
	"mzansi-store/internal/seed"
	"mzansi-store/internal/service"
	"mzansi-store/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test-secret"

// envelope mirrors middleware.Response with a typed payload
type envelope[T any] struct {
	Success bool                         `json:"success"`
	Data    T                            `json:"data"`
	Message string                       `json:"message"`
	Errors  []middleware.ValidationError `json:"errors"`
	Error   *middleware.ErrorDetail      `json:"error"`
}

type apiFixture struct {
	router     chi.Router
	storefront *service.Storefront
	users      service.UserService
}

// newAPIFixture serves the full route table over a seeded in-memory storefront
func newAPIFixture(t testing.TB) *apiFixture {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	mem := store.NewMemoryStore()

	sf := service.NewStorefront(service.Repositories{
		Products: repository.NewProductRepository(mem),
		Orders:   repository.NewOrderRepository(mem),
		Accounts: repository.NewAccountRepository(mem),
		Reviews:  repository.NewReviewRepository(mem),
		Sessions: repository.NewSessionRepository(mem),
	}, service.Options{
		Pricing:           service.DefaultPricing,
		LowStockThreshold: 5,
	}, logger)
	require.NoError(t, sf.Load(ctx))

	products, err := seed.Catalog(time.Now())
	require.NoError(t, err)
	_, err = sf.Seed(ctx, products)
	require.NoError(t, err)

	users := service.NewUserService(sf, repository.NewRefreshTokenRepository(mem), testJWTSecret)

	router := chi.NewRouter()
	NewAPI(users, sf, logger).Mount(router, middleware.AuthMiddleware(testJWTSecret, logger), logger)

	return &apiFixture{router: router, storefront: sf, users: users}
}

// do sends a JSON request through the router. body may be nil.
func (f *apiFixture) do(t testing.TB, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

// login registers a customer and returns an access token
func (f *apiFixture) login(t testing.TB, email string) string {
	t.Helper()
	ctx := context.Background()
	_, err := f.users.Register(ctx, email, "Password123", "Thandi Nkosi")
	require.NoError(t, err)
	token, _, _, err := f.users.Login(ctx, email, "Password123")
	require.NoError(t, err)
	return token
}

// loginAdmin provisions the administrator and returns an access token
func (f *apiFixture) loginAdmin(t testing.TB) string {
	t.Helper()
	ctx := context.Background()
	_, err := f.users.EnsureAdmin(ctx, "admin@mzansi.co.za", "AdminPass123")
	require.NoError(t, err)
	token, _, _, err := f.users.Login(ctx, "admin@mzansi.co.za", "AdminPass123")
	require.NoError(t, err)
	return token
}

func decodeEnvelope[T any](t testing.TB, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env), w.Body.String())
	return env
}

// Property: invalid registration data is rejected with a structured error
func TestProperty_InvalidRegistrationDataIsRejected(t *testing.T) {
	f := newAPIFixture(t)
	properties := gopter.NewProperties(nil)

	properties.Property("registration with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			var reqBody RegisterRequest
			switch invalidCase % 4 {
			case 0:
				reqBody = RegisterRequest{Email: "", Password: "ValidPass123", Name: "Sipho Dlamini"}
			case 1:
				reqBody = RegisterRequest{Email: "not-an-email", Password: "ValidPass123", Name: "Sipho Dlamini"}
			case 2:
				reqBody = RegisterRequest{Email: "sipho@example.co.za", Password: "short", Name: "Sipho Dlamini"}
			case 3:
				reqBody = RegisterRequest{Email: "sipho@example.co.za", Password: "ValidPass123"}
			}

			w := f.do(t, http.MethodPost, "/api/users/register", "", reqBody)
			if w.Code != http.StatusBadRequest {
				t.Logf("FAIL: Expected 400 status code, got %d", w.Code)
				return false
			}

			var response map[string]any
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Logf("FAIL: Could not decode error response: %v", err)
				return false
			}
			if _, exists := response["error"]; !exists {
				t.Logf("FAIL: Response missing 'error' field")
				return false
			}
			if _, exists := response["errors"]; !exists {
				t.Logf("FAIL: Response missing field errors")
				return false
			}
			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: successful registration returns the account profile
func TestProperty_SuccessfulRegistrationReturnsProfileData(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("successful registration returns profile with all fields", prop.ForAll(
		func(email string, password string, name string) bool {
			f := newAPIFixture(t)

			w := f.do(t, http.MethodPost, "/api/users/register", "", RegisterRequest{
				Email:    email,
				Password: password,
				Name:     name,
			})
			if w.Code != http.StatusCreated {
				t.Logf("FAIL: Expected 201 status code, got %d: %s", w.Code, w.Body.String())
				return false
			}

			env := decodeEnvelope[AccountProfile](t, w)
			profile := env.Data
			if _, err := uuid.Parse(profile.ID); err != nil {
				t.Logf("FAIL: Profile ID is not a valid UUID: %v", err)
				return false
			}
			if profile.Email != email || profile.Name != name {
				t.Logf("FAIL: Profile mismatch: %+v", profile)
				return false
			}
			if profile.Role != "customer" {
				t.Logf("FAIL: Expected customer role, got %q", profile.Role)
				return false
			}

			// a second registration with the same email conflicts
			again := f.do(t, http.MethodPost, "/api/users/register", "", RegisterRequest{
				Email:    email,
				Password: password,
				Name:     name,
			})
			return again.Code == http.StatusConflict
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|co\.za)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: a valid login returns both tokens and the access token opens the profile
func TestProperty_ValidLoginReturnsBothTokens(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("valid login returns access token and refresh token", prop.ForAll(
		func(email string, password string) bool {
			f := newAPIFixture(t)
			if _, err := f.users.Register(context.Background(), email, password, "Lerato Mokoena"); err != nil {
				t.Logf("FAIL: register: %v", err)
				return false
			}

			w := f.do(t, http.MethodPost, "/api/users/login", "", LoginRequest{Email: email, Password: password})
			if w.Code != http.StatusOK {
				t.Logf("FAIL: Expected 200 status code, got %d", w.Code)
				return false
			}
			login := decodeEnvelope[LoginResponse](t, w).Data
			if login.AccessToken == "" || login.RefreshToken == "" {
				t.Logf("FAIL: Missing tokens")
				return false
			}
			if login.User.Email != email {
				t.Logf("FAIL: User email mismatch")
				return false
			}

			profile := f.do(t, http.MethodGet, "/api/users/profile", login.AccessToken, nil)
			if profile.Code != http.StatusOK {
				t.Logf("FAIL: Profile returned %d", profile.Code)
				return false
			}
			if decodeEnvelope[AccountProfile](t, profile).Data.ID != login.User.ID {
				t.Logf("FAIL: Profile id does not match login")
				return false
			}

			refreshed := f.do(t, http.MethodPost, "/api/users/refresh", "", RefreshRequest{RefreshToken: login.RefreshToken})
			if refreshed.Code != http.StatusOK {
				t.Logf("FAIL: Refresh returned %d", refreshed.Code)
				return false
			}
			return decodeEnvelope[RefreshResponse](t, refreshed).Data.AccessToken != ""
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|co\.za)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
