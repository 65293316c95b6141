package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string

	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	MaxTokens     int

	ModelDeadline  time.Duration
	RequestBudget  time.Duration
	Region         string
	FreeTierLimit  int
	IdempotencyTTL time.Duration

	StrictPersistence bool
	AllowedOrigins    []string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getenv("PORT", "8080"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "json"),

		DatabaseURL: strings.TrimSpace(getenv("DATABASE_URL", "")),
		RedisURL:    strings.TrimSpace(getenv("REDIS_URL", "")),
		JWTSecret:   strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),

		OpenAIAPIKey:  strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
		OpenAIBaseURL: strings.TrimSpace(getenv("OPENAI_BASE_URL", "")),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-4o"),
		MaxTokens:     getenvInt("OPENAI_MAX_TOKENS", 2000),

		ModelDeadline:  getenvDuration("AI_DEADLINE", 25*time.Second),
		RequestBudget:  getenvDuration("HTTP_REQUEST_BUDGET", 30*time.Second),
		Region:         getenv("AI_REGION", "Nigeria"),
		FreeTierLimit:  getenvInt("FREE_TIER_LIMIT", 3),
		IdempotencyTTL: getenvDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		StrictPersistence: getenvBool("RECORD_STRICT", false),
		AllowedOrigins:    splitList(getenv("CORS_ORIGINS", "*")),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// getenvDuration accepts Go duration strings ("25s") or bare seconds ("25").
func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
