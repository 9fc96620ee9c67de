package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Store     StoreConfig
	Shop      ShopConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// IsDevelopment reports whether the server runs outside production
func (s ServerConfig) IsDevelopment() bool {
	return s.Env != "production"
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr is the host:port pair for the redis client
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

type StoreConfig struct {
	Backend    string
	KeyPrefix  string
	MaxRetries int
}

// ShopConfig holds the pricing rules and storefront limits
type ShopConfig struct {
	VATRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	RecentlyViewedLimit   int
	LowStockThreshold     int
	SeedCatalog           bool
}

type AdminConfig struct {
	Email    string
	Password string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() *Config {
	// Populate the process environment from .env so AutomaticEnv sees it too
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env into environment: %v", err)
	}

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("JWT_REFRESH_EXPIRY", 7)
	viper.SetDefault("STORE_BACKEND", StoreMemory)
	viper.SetDefault("STORE_KEY_PREFIX", "mzansi:")
	viper.SetDefault("STORE_MAX_RETRIES", 3)
	viper.SetDefault("SHOP_VAT_RATE", "0.15")
	viper.SetDefault("SHOP_FREE_SHIPPING_THRESHOLD", "500")
	viper.SetDefault("SHOP_FLAT_SHIPPING_FEE", "99.99")
	viper.SetDefault("SHOP_RECENTLY_VIEWED_LIMIT", 10)
	viper.SetDefault("SHOP_LOW_STOCK_THRESHOLD", 5)
	viper.SetDefault("SHOP_SEED_CATALOG", true)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  viper.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: viper.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(viper.GetString("STORE_BACKEND")),
			KeyPrefix:  viper.GetString("STORE_KEY_PREFIX"),
			MaxRetries: viper.GetInt("STORE_MAX_RETRIES"),
		},
		Shop: ShopConfig{
			VATRate:               decimalSetting("SHOP_VAT_RATE"),
			FreeShippingThreshold: decimalSetting("SHOP_FREE_SHIPPING_THRESHOLD"),
			FlatShippingFee:       decimalSetting("SHOP_FLAT_SHIPPING_FEE"),
			RecentlyViewedLimit:   viper.GetInt("SHOP_RECENTLY_VIEWED_LIMIT"),
			LowStockThreshold:     viper.GetInt("SHOP_LOW_STOCK_THRESHOLD"),
			SeedCatalog:           viper.GetBool("SHOP_SEED_CATALOG"),
		},
		Admin: AdminConfig{
			Email:    viper.GetString("ADMIN_EMAIL"),
			Password: viper.GetString("ADMIN_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}
}

// decimalSetting parses a money or rate setting, falling back to the default on bad input
func decimalSetting(key string) decimal.Decimal {
	d, err := decimal.NewFromString(viper.GetString(key))
	if err != nil {
		log.Printf("Warning: invalid decimal for %s, using default: %v", key, err)
		return defaultDecimals[key]
	}
	return d
}

var defaultDecimals = map[string]decimal.Decimal{
	"SHOP_VAT_RATE":                decimal.RequireFromString("0.15"),
	"SHOP_FREE_SHIPPING_THRESHOLD": decimal.RequireFromString("500"),
	"SHOP_FLAT_SHIPPING_FEE":       decimal.RequireFromString("99.99"),
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
