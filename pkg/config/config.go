package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// DATABASE_URL takes precedence over the discrete DB_* settings when set
	// (hosted Postgres providers usually hand out a single URL).
	DatabaseURL string

	DB DBConfig

	// JWTSecret signs and verifies API bearer tokens (HS256).
	JWTSecret string

	// TokenTTL bounds the lifetime of tokens issued by the token helper.
	TokenTTL time.Duration

	// WebAllowedOrigins is the CORS allowlist for the browser client. Example:
	//   https://lab.example.edu,http://localhost:5173
	WebAllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Prefer PORT (set by most container platforms) when HTTP_ADDR is absent.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8080"
		}
	}

	ttl := 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "labkit"),
			User:     env("DB_USER", "labkit"),
			Password: env("DB_PASSWORD", "labkit"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		JWTSecret:         env("JWT_SECRET", "dev-only-secret"),
		TokenTTL:          ttl,
		WebAllowedOrigins: envList("WEB_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
