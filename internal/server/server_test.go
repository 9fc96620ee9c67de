package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mzansi-store/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		JWT:    config.JWTConfig{Secret: "server-test-secret"},
		Store:  config.StoreConfig{Backend: backend, KeyPrefix: "test:", MaxRetries: 1},
		Shop: config.ShopConfig{
			VATRate:               decimal.RequireFromString("0.15"),
			FreeShippingThreshold: decimal.RequireFromString("500"),
			FlatShippingFee:       decimal.RequireFromString("99.99"),
			RecentlyViewedLimit:   10,
			LowStockThreshold:     5,
			SeedCatalog:           true,
		},
		Admin:     config.AdminConfig{Email: "admin@mzansi.co.za", Password: "AdminPass123"},
		RateLimit: config.RateLimitConfig{Requests: 3, Window: time.Minute},
	}
}

func TestNewServer_MemoryBackendServesSeededCatalog(t *testing.T) {
	srv, err := NewServer(context.Background(), testConfig(config.StoreMemory), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, config.StoreMemory, health["store"])

	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var page struct {
		Data struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
	assert.Equal(t, 10, page.Data.Total)
}

func TestNewServer_AdminCanLogIn(t *testing.T) {
	srv, err := NewServer(context.Background(), testConfig(config.StoreMemory), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	req := httptest.NewRequest(http.MethodPost, "/api/users/login",
		jsonBody(t, map[string]string{"email": "admin@mzansi.co.za", "password": "AdminPass123"}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestNewServer_RejectsBadConfig(t *testing.T) {
	cfg := testConfig(config.StoreMemory)
	cfg.JWT.Secret = ""
	_, err := NewServer(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)

	_, err = NewServer(context.Background(), testConfig("cassandra"), zap.NewNop())
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestNewServer_RedisBackendPersistsAndRateLimits(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := testConfig(config.StoreRedis)
	cfg.Redis = config.RedisConfig{Host: host, Port: port}

	srv, err := NewServer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	assert.True(t, mr.Exists("test:products"), "seeded catalog is written through the prefix")
	assert.True(t, mr.Exists("test:accounts"), "admin account is persisted")

	codes := make([]int, 0, 4)
	for range 4 {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.1.1.1:5000"
		srv.Handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 200, 429}, codes)

	// a second server over the same Redis restores the state instead of reseeding
	stored, err := mr.Get("test:products")
	require.NoError(t, err)
	again, err := NewServer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = again.Close() })
	restored, err := mr.Get("test:products")
	require.NoError(t, err)
	assert.Equal(t, stored, restored)
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}
