package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	FrontendURL string

	// Upstream profile API (the durable store this service fronts)
	UpstreamAPIURL   string
	UpstreamAPIToken string
	UpstreamTimeout  time.Duration

	// Session
	SessionJWTSecret string
	SessionTTL       time.Duration

	// Wizard behavior
	SavePolicy string // "optimistic" (source behavior) or "strict"

	// Address search
	AddressMatchMode     string // "or" (source behavior) or "and"
	AddressMinQueryLen   int
	AddressSearchTimeout time.Duration
	AddressSearchLimit   int

	// Postgres address pool (falls back to the static pool when empty)
	DBUrl string

	// Redis (wizard state + session stores; rate limiting)
	RedisURL      string
	RedisPassword string

	// Rate Limiting
	RateLimitWindowSeconds    int
	RateLimitSearchThreshold  int
	RateLimitUploadThreshold  int
	RateLimitLoginThreshold   int
	RateLimitGlobalThreshold  int
	ResumeUploadMaxSizeBytes  int64
	ResumeImageMaxDimensionPx int
}

func LoadConfig() (*Config, error) {
	// .env is only effective locally; ignored in production when absent
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		UpstreamAPIURL:   strings.TrimRight(getEnv("UPSTREAM_API_URL", ""), "/"),
		UpstreamAPIToken: getEnv("UPSTREAM_API_TOKEN", ""),
		UpstreamTimeout:  getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second),

		SessionJWTSecret: getEnv("SESSION_JWT_SECRET", ""),
		SessionTTL:       getEnvDuration("SESSION_TTL", 24*time.Hour),

		SavePolicy: getEnv("SAVE_POLICY", "optimistic"),

		AddressMatchMode:     getEnv("ADDRESS_MATCH_MODE", "or"),
		AddressMinQueryLen:   getEnvInt("ADDRESS_MIN_QUERY_LEN", 3),
		AddressSearchTimeout: getEnvDuration("ADDRESS_SEARCH_TIMEOUT", 3*time.Second),
		AddressSearchLimit:   getEnvInt("ADDRESS_SEARCH_LIMIT", 10),

		DBUrl: getEnv("DATABASE_URL", ""),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		RateLimitWindowSeconds:    getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitSearchThreshold:  getEnvInt("RATE_LIMIT_SEARCH_THRESHOLD", 30),
		RateLimitUploadThreshold:  getEnvInt("RATE_LIMIT_UPLOAD_THRESHOLD", 10),
		RateLimitLoginThreshold:   getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 5),
		RateLimitGlobalThreshold:  getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		ResumeUploadMaxSizeBytes:  getEnvInt64("RESUME_UPLOAD_MAX_SIZE_BYTES", 10<<20),
		ResumeImageMaxDimensionPx: getEnvInt("RESUME_IMAGE_MAX_DIMENSION_PX", 2000),
	}

	if cfg.UpstreamAPIURL == "" {
		log.Println("WARNING: UPSTREAM_API_URL is missing. Profile loads and saves will fail.")
	}
	if cfg.SessionJWTSecret == "" {
		log.Println("WARNING: SESSION_JWT_SECRET is missing. Session tokens cannot be verified.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Wizard state and rate limiting will use in-memory fallback.")
	}
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL not configured. Address search will use the built-in development pool.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration returns a duration environment variable ("10s", "24h") or
// fallback if not set/invalid
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
