package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/commercekit/epay-gateway/internal/domain/ports"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gateway  GatewayConfig
	Checkout CheckoutConfig
	Store    StoreConfig
	Logger   LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// GatewayConfig holds ePay gateway configuration
type GatewayConfig struct {
	BaseURL        string // base URL for the ePay API
	MerchantNumber string
	Password       string // remote API password
	MD5Key         string // shared secret for window and callback hashes
	Timeout        int    // request timeout in seconds (default: 30)
}

// CheckoutConfig holds the public URLs handed to the payment window.
type CheckoutConfig struct {
	PublicBaseURL string // e.g. https://shop.example
}

// StoreConfig holds the per-store feature toggles. This deployment serves a
// single store, so lookups ignore the store id.
type StoreConfig struct {
	WindowID        string
	WindowState     string
	Locale          string
	InstantCapture  bool
	MobileWindow    bool
	InvoiceData     bool
	RemoteInterface bool
	OwnReceipt      bool
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort: getEnvAsInt("METRICS_PORT", 9090),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Gateway: GatewayConfig{
			BaseURL:        getEnv("EPAY_BASE_URL", "https://api.epay-sandbox.example"),
			MerchantNumber: getEnv("EPAY_MERCHANT_NUMBER", ""),
			Password:       getEnv("EPAY_REMOTE_PASSWORD", ""),
			MD5Key:         getEnv("EPAY_MD5_KEY", ""),
			Timeout:        getEnvAsInt("EPAY_TIMEOUT", 30),
		},
		Checkout: CheckoutConfig{
			PublicBaseURL: getEnv("CHECKOUT_PUBLIC_BASE_URL", ""),
		},
		Store: StoreConfig{
			WindowID:        getEnv("EPAY_WINDOW_ID", "1"),
			WindowState:     getEnv("EPAY_WINDOW_STATE", "3"),
			Locale:          getEnv("STORE_LOCALE", "en_US"),
			InstantCapture:  getEnvAsBool("EPAY_INSTANT_CAPTURE", false),
			MobileWindow:    getEnvAsBool("EPAY_MOBILE_WINDOW", true),
			InvoiceData:     getEnvAsBool("EPAY_INVOICE_DATA", false),
			RemoteInterface: getEnvAsBool("EPAY_REMOTE_INTERFACE", true),
			OwnReceipt:      getEnvAsBool("EPAY_OWN_RECEIPT", false),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Gateway.MerchantNumber == "" {
		return nil, fmt.Errorf("EPAY_MERCHANT_NUMBER is required")
	}
	if cfg.Gateway.MD5Key == "" {
		return nil, fmt.Errorf("EPAY_MD5_KEY is required")
	}
	if cfg.Checkout.PublicBaseURL == "" {
		return nil, fmt.Errorf("CHECKOUT_PUBLIC_BASE_URL is required")
	}

	return cfg, nil
}

// Store-scoped lookups below implement ports.ConfigStore. The env-backed
// deployment has one store; the store id is accepted for interface
// compatibility and ignored.

// Auth implements ports.ConfigStore
func (c *Config) Auth(storeID string) ports.Auth {
	return ports.Auth{
		MerchantNumber: c.Gateway.MerchantNumber,
		Password:       c.Gateway.Password,
		MD5Key:         c.Gateway.MD5Key,
	}
}

// WindowID implements ports.ConfigStore
func (c *Config) WindowID(storeID string) string { return c.Store.WindowID }

// WindowState implements ports.ConfigStore
func (c *Config) WindowState(storeID string) string { return c.Store.WindowState }

// Locale implements ports.ConfigStore
func (c *Config) Locale(storeID string) string { return c.Store.Locale }

// InstantCapture implements ports.ConfigStore
func (c *Config) InstantCapture(storeID string) bool { return c.Store.InstantCapture }

// MobileWindow implements ports.ConfigStore
func (c *Config) MobileWindow(storeID string) bool { return c.Store.MobileWindow }

// InvoiceData implements ports.ConfigStore
func (c *Config) InvoiceData(storeID string) bool { return c.Store.InvoiceData }

// RemoteInterface implements ports.ConfigStore
func (c *Config) RemoteInterface(storeID string) bool { return c.Store.RemoteInterface }

// OwnReceipt implements ports.ConfigStore
func (c *Config) OwnReceipt(storeID string) bool { return c.Store.OwnReceipt }

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
