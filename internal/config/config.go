package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/cache"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/database"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/external"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/messaging"
)

// Config holds the full application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// PublicBaseURL is the externally reachable base URL, used to build the
	// Webpay return URL handed to the gateway.
	PublicBaseURL string

	// JWT admin sessions
	JWTSecret   string
	SessionTTL  time.Duration

	Database database.Config
	Redis    cache.Config
	NATS     messaging.Config
	Webpay   external.WebpayConfig
}

// Load reads configuration from the environment. A local .env file is
// loaded first when present, matching how deployments ship credentials.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		JWTSecret:  getEnv("JWT_SECRET", "dev"),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MIN", 720)) * time.Minute,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "ajedrez"),
			Password:           getEnv("DB_PASSWORD", "ajedrez"),
			DBName:             getEnv("DB_NAME", "ajedrezrecreativo"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Redis: cache.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("REDIS_EVENTS_TTL_SEC", 60)) * time.Second,
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "ajedrez"),
			ClientID:  getEnv("NATS_CLIENT_ID", "ajedrez-api"),
		},

		Webpay: external.WebpayConfig{
			BaseURL:      getEnv("WEBPAY_BASE_URL", "https://webpay3gint.transbank.cl"),
			CommerceCode: getEnv("WEBPAY_COMMERCE_CODE", ""),
			APIKey:       getEnv("WEBPAY_API_KEY", ""),
			Timeout:      time.Duration(getEnvInt("WEBPAY_TIMEOUT_SEC", 30)) * time.Second,
		},
	}
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
