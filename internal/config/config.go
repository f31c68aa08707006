package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	GinMode string

	BackendURL     string
	BackendTimeout time.Duration

	FrontendURL string

	SessionTTL   time.Duration
	SessionStore string // "memory" or "redis"

	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from the environment. A .env file in the
// working directory is read first when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppPort: getEnv("APP_PORT", "3001"),
		GinMode: getEnv("GIN_MODE", "debug"),

		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8080"),
		BackendTimeout: time.Duration(getEnvAsInt("BACKEND_TIMEOUT_SECONDS", 10)) * time.Second,

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		SessionTTL:   time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SessionStore: getEnv("SESSION_STORE", "memory"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}

	return cfg
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_STORE must be \"memory\" or \"redis\", got %q", c.SessionStore)
	}

	if c.SessionStore == "redis" && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE is redis")
	}

	if c.GinMode == "release" {
		if c.BackendURL == "" {
			return fmt.Errorf("BACKEND_URL is required in release mode")
		}
	}

	return nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
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
