package app

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/service"
	"github.com/aussiebroadwan/qrpay/pkg/httpx"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrMissingEncryptionKey = errors.New("QR_ENCRYPTION_KEY is required")

type Config struct {
	EncryptionKey        string        // Required: passphrase that seals every QR payload
	TokenTTL             time.Duration // Optional: QR code lifetime (default: 15m)
	BurnOnInvalidPayload bool          // Optional: mark tokens used when their payload is rejected (default: false)
	BroadcastTopic       string        // Optional: topic for payment progress events (default: payment-updates)

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./qrpay.db)
	DatabaseURL    string // Required for postgres

	AMQPURL      string // Optional: enables the RabbitMQ publisher when set
	AMQPExchange string // Optional: topic exchange name (default: qrpay.events)

	CORSAllowedOrigins []string // Optional: comma separated (default: *)

	GenerateLimit  httpx.RateLimitConfig
	VerifyLimit    httpx.RateLimitConfig
	TrustedProxies []netip.Prefix // Optional: proxies whose X-Forwarded-For is honoured (default: none)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	StaleTokenRetention  time.Duration // How long expired unused tokens are kept, 0 disables cleanup (default: 720h)
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		EncryptionKey:        os.Getenv("QR_ENCRYPTION_KEY"),
		TokenTTL:             getEnvDurationOrDefault("QR_TOKEN_TTL", service.DefaultTokenTTL),
		BurnOnInvalidPayload: getEnvBoolOrDefault("QR_BURN_ON_INVALID_PAYLOAD", false),
		BroadcastTopic:       getEnvOrDefault("BROADCAST_TOPIC", service.DefaultTopic),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "qrpay.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnvOrDefault("AMQP_EXCHANGE", "qrpay.events"),

		CORSAllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		GenerateLimit: httpx.ParseRateLimitFromEnv("GENERATE", httpx.GenerateLimit),
		VerifyLimit:   httpx.ParseRateLimitFromEnv("VERIFY", httpx.VerifyLimit),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		StaleTokenRetention:  getEnvDurationOrDefault("STALE_TOKEN_RETENTION", service.DefaultStaleTokenRetention),
	}

	proxies, err := httpx.ParseTrustedProxies(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return Config{}, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	cfg.TrustedProxies = proxies

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.EncryptionKey == "" {
		return ErrMissingEncryptionKey
	}
	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if len(c.CORSAllowedOrigins) == 0 {
		return errors.New("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
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
