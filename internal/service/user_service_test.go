package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mzansi-store/internal/domain"
	"mzansi-store/internal/repository"
	"mzansi-store/internal/store"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type userServiceFixture struct {
	storefront *Storefront
	tokens     repository.RefreshTokenRepository
	service    UserService
}

func newUserServiceFixture(t testing.TB, secret string) *userServiceFixture {
	t.Helper()
	backing := store.NewMemoryStore()
	sf := newTestStorefront(t, backing)
	tokens := repository.NewRefreshTokenRepository(backing)
	return &userServiceFixture{
		storefront: sf,
		tokens:     tokens,
		service:    NewUserService(sf, tokens, secret),
	}
}

var (
	genEmail    = gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|co\.za)`)
	genPassword = gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`)
	genName     = gen.RegexMatch(`[A-Z][a-z]{2,15}`)
)

// Property: registration stores a bcrypt hash, never the plaintext password
func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(email, password, name string) bool {
			f := newUserServiceFixture(t, "test-secret")
			ctx := context.Background()

			account, err := f.service.Register(ctx, email, password, name)
			if err != nil {
				t.Logf("FAIL: registration failed: %v", err)
				return false
			}

			if account.PasswordHash == password {
				t.Logf("FAIL: Password stored as plaintext for email %s", email)
				return false
			}
			if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
				t.Logf("FAIL: Password hash does not match: %v", err)
				return false
			}

			stored, err := f.storefront.Account(ctx, email)
			if err != nil {
				t.Logf("FAIL: Could not find stored account: %v", err)
				return false
			}
			return stored.PasswordHash == account.PasswordHash && stored.Role == domain.RoleCustomer
		},
		genEmail,
		genPassword,
		genName,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: access tokens carry the account id, email and role
func TestProperty_JWTTokensContainRequiredClaims(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("access tokens contain account claims", prop.ForAll(
		func(email, password, name string, admin bool) bool {
			f := newUserServiceFixture(t, "test-secret-key")
			ctx := context.Background()

			var (
				account *domain.Account
				err     error
			)
			if admin {
				account, err = f.service.EnsureAdmin(ctx, email, password)
			} else {
				account, err = f.service.Register(ctx, email, password, name)
			}
			if err != nil {
				t.Logf("FAIL: account setup failed: %v", err)
				return false
			}

			accessToken, _, _, err := f.service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			claims, err := f.service.ValidateToken(accessToken)
			if err != nil {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}

			if claims.UserID != account.ID || claims.Email != account.Email {
				t.Logf("FAIL: identity claims mismatch")
				return false
			}
			if claims.Role != account.Role || account.IsAdmin() != admin {
				t.Logf("FAIL: Role claim mismatch. Expected %s, got %s", account.Role, claims.Role)
				return false
			}
			return claims.ExpiresAt != nil && claims.IssuedAt != nil
		},
		genEmail,
		genPassword,
		genName,
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: a fresh refresh token yields a valid access token for the same account
func TestProperty_TokenRefreshRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid refresh token returns new valid access token", prop.ForAll(
		func(email, password, name string) bool {
			f := newUserServiceFixture(t, "test-secret-key")
			ctx := context.Background()

			if _, err := f.service.Register(ctx, email, password, name); err != nil {
				return false
			}
			_, refreshToken, account, err := f.service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			newAccessToken, err := f.service.RefreshToken(ctx, refreshToken)
			if err != nil {
				t.Logf("FAIL: Token refresh failed: %v", err)
				return false
			}

			claims, err := f.service.ValidateToken(newAccessToken)
			if err != nil {
				t.Logf("FAIL: New access token validation failed: %v", err)
				return false
			}

			if claims.UserID != account.ID || claims.Role != account.Role {
				t.Logf("FAIL: claims mismatch in refreshed token")
				return false
			}
			return claims.ExpiresAt == nil || time.Now().Before(claims.ExpiresAt.Time)
		},
		genEmail,
		genPassword,
		genName,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: logout revokes the refresh token
func TestProperty_LogoutInvalidatesRefreshToken(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("logout marks refresh token as revoked", prop.ForAll(
		func(email, password, name string) bool {
			f := newUserServiceFixture(t, "test-secret-key")
			ctx := context.Background()

			if _, err := f.service.Register(ctx, email, password, name); err != nil {
				return false
			}
			_, refreshToken, _, err := f.service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			if _, err := f.service.RefreshToken(ctx, refreshToken); err != nil {
				t.Logf("FAIL: Refresh token should work before logout: %v", err)
				return false
			}
			if err := f.service.Logout(ctx, refreshToken); err != nil {
				t.Logf("FAIL: Logout failed: %v", err)
				return false
			}

			if _, err := f.service.RefreshToken(ctx, refreshToken); !errors.Is(err, ErrInvalidToken) {
				t.Logf("FAIL: Expected ErrInvalidToken, got: %v", err)
				return false
			}

			stored, err := f.tokens.FindByToken(ctx, refreshToken)
			return errors.Is(err, repository.ErrRefreshTokenRevoked) && stored == nil
		},
		genEmail,
		genPassword,
		genName,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUserService_RejectsBadCredentials(t *testing.T) {
	f := newUserServiceFixture(t, "secret")
	ctx := context.Background()

	_, err := f.service.Register(ctx, "lerato@example.co.za", "correct-horse", "Lerato")
	require.NoError(t, err)

	_, err = f.service.Register(ctx, "LERATO@example.co.za", "another-pass", "Lerato")
	assert.ErrorIs(t, err, domain.ErrAccountExists)

	_, _, _, err = f.service.Login(ctx, "lerato@example.co.za", "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = f.service.Login(ctx, "nobody@example.co.za", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.RefreshToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.NoError(t, f.service.Logout(ctx, "not-a-token"))

	other := NewUserService(f.storefront, f.tokens, "different-secret")
	access, _, _, err := f.service.Login(ctx, "lerato@example.co.za", "correct-horse")
	require.NoError(t, err)
	_, err = other.ValidateToken(access)
	assert.Error(t, err)
}

func TestUserService_EnsureAdminIsIdempotent(t *testing.T) {
	f := newUserServiceFixture(t, "secret")
	ctx := context.Background()

	first, err := f.service.EnsureAdmin(ctx, "admin@mzansi.store", "admin-pass")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin())

	second, err := f.service.EnsureAdmin(ctx, "admin@mzansi.store", "other-pass")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, _, _, err = f.service.Login(ctx, "admin@mzansi.store", "admin-pass")
	assert.NoError(t, err)
}

func TestUserService_ExpiredRefreshToken(t *testing.T) {
	f := newUserServiceFixture(t, "secret")
	ctx := context.Background()

	account, err := f.service.Register(ctx, "zanele@example.co.za", "password123", "Zanele")
	require.NoError(t, err)

	require.NoError(t, f.tokens.Create(ctx, &domain.RefreshToken{
		AccountID: account.ID,
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-RefreshTokenExpiration),
	}))

	_, err = f.service.RefreshToken(ctx, "stale")
	assert.ErrorIs(t, err, ErrTokenExpired)
}
