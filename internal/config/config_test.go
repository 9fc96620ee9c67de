package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, StoreMemory, cfg.Store.Backend)
	assert.Equal(t, "0.15", cfg.Shop.VATRate.String())
	assert.Equal(t, "500", cfg.Shop.FreeShippingThreshold.String())
	assert.Equal(t, "99.99", cfg.Shop.FlatShippingFee.String())
	assert.Equal(t, 10, cfg.Shop.RecentlyViewedLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("SHOP_FLAT_SHIPPING_FEE", "120.50")
	t.Setenv("SHOP_VAT_RATE", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.co.za, https://admin.shop.co.za")

	cfg := Load()

	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, StoreRedis, cfg.Store.Backend)
	assert.Equal(t, "120.5", cfg.Shop.FlatShippingFee.String())
	assert.Equal(t, "0.15", cfg.Shop.VATRate.String())
	assert.Equal(t, []string{"https://shop.co.za", "https://admin.shop.co.za"}, cfg.CORS.AllowedOrigins)
}
