package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RefreshStoreKind string

const (
	RefreshStorePostgres RefreshStoreKind = "postgres"
	RefreshStoreRedis    RefreshStoreKind = "redis"
	RefreshStoreMemory   RefreshStoreKind = "memory"
)

const minJWTSecretLength = 32

type Config struct {
	DatabaseURL      string
	JWTSecret        string
	JWTIssuer        string
	RefreshTokenSalt string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	RefreshStore     RefreshStoreKind
	RedisURL         string
	BcryptCost       int

	ServerPort  string
	ServerHost  string
	Environment string

	RateLimitEnabled       bool
	RateLimitLoginAttempts int
	RateLimitLoginWindow   time.Duration
	RateLimitBlockDuration time.Duration

	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string

	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrMissingDatabaseURL   = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret     = errors.New("JWT_SECRET is required")
	ErrWeakJWTSecret        = fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLength)
	ErrMissingRefreshSalt   = errors.New("REFRESH_TOKEN_SALT is required")
	ErrInvalidTokenTTL      = errors.New("invalid token TTL format")
	ErrTokenTTLOrder        = errors.New("JWT_ACCESS_TOKEN_TTL must be shorter than JWT_REFRESH_TOKEN_TTL")
	ErrInvalidRefreshStore  = errors.New("REFRESH_STORE must be postgres, redis or memory")
	ErrMissingRedisURL      = errors.New("REDIS_URL is required for the redis refresh store or rate limiting")
	ErrInvalidRateLimitConf = errors.New("invalid rate limit configuration")
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds and validates a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		JWTIssuer:              getEnvOrDefault("JWT_ISSUER", "missionboard"),
		RefreshTokenSalt:       os.Getenv("REFRESH_TOKEN_SALT"),
		RefreshStore:           RefreshStoreKind(strings.ToLower(getEnvOrDefault("REFRESH_STORE", string(RefreshStorePostgres)))),
		RedisURL:               os.Getenv("REDIS_URL"),
		BcryptCost:             getEnvOrDefaultInt("BCRYPT_COST", 0),
		ServerPort:             getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:             getEnvOrDefault("SERVER_HOST", "localhost"),
		Environment:            getEnvOrDefault("ENV", "development"),
		RateLimitEnabled:       getEnvOrDefaultBool("RATE_LIMIT_ENABLED", false),
		RateLimitLoginAttempts: getEnvOrDefaultInt("RATE_LIMIT_LOGIN_ATTEMPTS", 5),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
		CORSEnabled:            getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials:   getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:     parseAllowedOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),
	}

	var err error
	if cfg.AccessTokenTTL, err = parseTokenTTL(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "1800")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.RefreshTokenTTL, err = parseTokenTTL(getEnvOrDefault("JWT_REFRESH_TOKEN_TTL", "1209600")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.RateLimitLoginWindow, err = parseTokenTTL(getEnvOrDefault("RATE_LIMIT_LOGIN_WINDOW", "900")); err != nil {
		return nil, ErrInvalidTokenTTL
	}
	if cfg.RateLimitBlockDuration, err = parseTokenTTL(getEnvOrDefault("RATE_LIMIT_BLOCK_DURATION", "1800")); err != nil {
		return nil, ErrInvalidTokenTTL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.RefreshStore {
	case RefreshStorePostgres, RefreshStoreRedis, RefreshStoreMemory:
	default:
		return ErrInvalidRefreshStore
	}

	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return ErrWeakJWTSecret
	}
	if c.RefreshTokenSalt == "" && c.RefreshStore != RefreshStoreMemory {
		return ErrMissingRefreshSalt
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}
	if c.AccessTokenTTL >= c.RefreshTokenTTL {
		return ErrTokenTTLOrder
	}
	if (c.RefreshStore == RefreshStoreRedis || c.RateLimitEnabled) && c.RedisURL == "" {
		return ErrMissingRedisURL
	}
	if c.RateLimitEnabled && (c.RateLimitLoginAttempts <= 0 || c.RateLimitLoginWindow <= 0 || c.RateLimitBlockDuration <= 0) {
		return ErrInvalidRateLimitConf
	}
	return nil
}

func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// parseTokenTTL accepts whole seconds or a Go duration string.
func parseTokenTTL(value string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
