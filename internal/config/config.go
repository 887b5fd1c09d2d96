package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// RedisConfig holds the connection settings for the rate-limit counter store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig controls the admission gate in front of the notes API.
// Scope selects the key derivation strategy: "global" shares one counter
// across all callers (the historical behavior), "client" keys by caller IP.
type RateLimitConfig struct {
	Max       int
	WindowSec int
	Scope     string
}

// MinIOConfig holds object storage settings for note attachments.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env              string
	Port             string
	StaticDir        string
	CORSAllowOrigins string
	// LegacyValidation500 reproduces the original API behavior where
	// validation failures surfaced as 500 instead of 422. Off by default.
	LegacyValidation500 bool
	Database            DatabaseConfig
	Redis               RedisConfig
	RateLimit           RateLimitConfig
	MinIO               MinIOConfig
}

// IsProduction reports whether the app runs in production mode, which
// enables static asset serving and restricted CORS.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Env:                 getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"), // default only for non-sensitive value
		StaticDir:           getEnv("STATIC_DIR", "./client/dist"),
		CORSAllowOrigins:    getEnv("CORS_ALLOW_ORIGINS", ""),
		LegacyValidation500: getEnvBool("LEGACY_VALIDATION_500", false),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Max:       getEnvInt("RATE_LIMIT_MAX", 100),
			WindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
			Scope:     getEnv("RATE_LIMIT_SCOPE", "global"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
