package config

import (
	"os"
	"strconv"
	"time"

	"hebeos_todo/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	RedisURL string

	// Shared access code. Empty means authentication is disabled and the
	// auth endpoint accepts everything.
	AccessCode string

	// Connection strategy: true reuses one lazily-connected client,
	// false dials per operation.
	SharedConn bool

	// Transport rate limiting; 0 disables the limiter.
	APIRateLimit  int
	APIRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (.env honored when present).
func Load() *Config {
	_ = godotenv.Load()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		logger.Fatal("REDIS_URL is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	sharedConn := true
	if v := os.Getenv("REDIS_SHARED_CONN"); v != "" {
		sharedConn = v != "false"
	}

	apiRateLimit := 0
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateLimit = n
		}
	}

	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		AppPort:       port,
		RedisURL:      redisURL,
		AccessCode:    os.Getenv("CODE"),
		SharedConn:    sharedConn,
		APIRateLimit:  apiRateLimit,
		APIRateWindow: apiRateWindow,
		LogLevel:      logLevel,
		LogJSON:       os.Getenv("LOG_JSON") == "true",
	}
}
