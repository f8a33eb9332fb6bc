// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the storefront
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Redis    RedisConfig
	API      APIConfig
	Identity IdentityConfig
	JWT      JWTConfig
	Razorpay RazorpayConfig
	ImageKit ImageKitConfig
	Checkout CheckoutConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
	PublicURL   string

	// Printed on order receipts
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// APIConfig points at the remote REST API that owns products and orders
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// IdentityConfig contains identity provider configuration
type IdentityConfig struct {
	APIKey           string
	AuthBaseURL      string
	TokenBaseURL     string
	RememberTTL      time.Duration
	SessionTTL       time.Duration
	IdleTimeout      time.Duration
	ContinueURL      string
	GoogleRequestURI string
}

// JWTConfig contains session cookie signing configuration
type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// RazorpayConfig contains the public side of the payment gateway
type RazorpayConfig struct {
	KeyID        string
	ScriptURL    string
	MerchantName string
	Description  string
	ThemeColor   string
}

// ImageKitConfig contains media CDN configuration
type ImageKitConfig struct {
	PublicKey   string
	URLEndpoint string
	UploadURL   string
}

// CheckoutConfig contains checkout flow configuration
type CheckoutConfig struct {
	RedirectDelay  time.Duration
	RedirectTarget string
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
	CookieSecure       bool
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Artiflora"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			Environment:    getEnv("APP_ENV", "development"),
			Debug:          getEnvAsBool("APP_DEBUG", true),
			PublicURL:      getEnv("APP_PUBLIC_URL", "http://localhost:8080"),
			CompanyName:    getEnv("COMPANY_NAME", "Artiflora"),
			CompanyAddress: getEnv("COMPANY_ADDRESS", ""),
			CompanyEmail:   getEnv("COMPANY_EMAIL", ""),
		},
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
			Timeout: getEnvAsDuration("API_TIMEOUT", 15*time.Second),
		},
		Identity: IdentityConfig{
			APIKey:           getEnv("FIREBASE_API_KEY", ""),
			AuthBaseURL:      getEnv("FIREBASE_AUTH_URL", "https://identitytoolkit.googleapis.com/v1"),
			TokenBaseURL:     getEnv("FIREBASE_TOKEN_URL", "https://securetoken.googleapis.com/v1"),
			RememberTTL:      getEnvAsDuration("SESSION_REMEMBER_TTL", 30*24*time.Hour),
			SessionTTL:       getEnvAsDuration("SESSION_TTL", 12*time.Hour),
			IdleTimeout:      getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			ContinueURL:      getEnv("FIREBASE_CONTINUE_URL", ""),
			GoogleRequestURI: getEnv("FIREBASE_GOOGLE_REQUEST_URI", "http://localhost:8080/login"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("SESSION_SECRET", "change-me-session-secret-at-least-32-chars"),
			TokenExpiry: getEnvAsDuration("SESSION_TOKEN_EXPIRE", 30*24*time.Hour),
		},
		Razorpay: RazorpayConfig{
			KeyID:        getEnv("RAZORPAY_KEY_ID", ""),
			ScriptURL:    getEnv("RAZORPAY_SCRIPT_URL", "https://checkout.razorpay.com/v1/checkout.js"),
			MerchantName: getEnv("RAZORPAY_MERCHANT_NAME", "Artiflora"),
			Description:  getEnv("RAZORPAY_DESCRIPTION", "Complete your payment"),
			ThemeColor:   getEnv("RAZORPAY_THEME_COLOR", "#E11D48"),
		},
		ImageKit: ImageKitConfig{
			PublicKey:   getEnv("IMAGEKIT_PUBLIC_KEY", ""),
			URLEndpoint: getEnv("IMAGEKIT_URL_ENDPOINT", ""),
			UploadURL:   getEnv("IMAGEKIT_UPLOAD_URL", "https://upload.imagekit.io/api/v1/files/upload"),
		},
		Checkout: CheckoutConfig{
			RedirectDelay:  getEnvAsDuration("CHECKOUT_REDIRECT_DELAY", 3*time.Second),
			RedirectTarget: getEnv("CHECKOUT_REDIRECT_TARGET", "/disp"),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 300),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
			CookieSecure:       getEnvAsBool("COOKIE_SECURE", false),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
