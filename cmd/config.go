package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL            string
	HTTPPort               string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	LogLevel               string
	LogFormat              string
	IntegrityCheckSchedule string
}

// LoadConfig reads the configuration from the environment. Values from .env
// and .env.local are used only for variables the environment does not set.
func LoadConfig() Config {
	loadEnvFiles()

	return Config{
		DatabaseURL:            os.Getenv("BOOKYPEDIA_DB_URL"),
		HTTPPort:               envOr("HTTP_PORT", "8080"),
		DBHost:                 envOr("DB_HOST", "localhost"),
		DBPort:                 envOr("DB_PORT", "5432"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBSslMode:              envOr("DB_SSLMODE", "disable"),
		LogLevel:               envOr("LOG_LEVEL", "info"),
		LogFormat:              envOr("LOG_FORMAT", "text"),
		IntegrityCheckSchedule: os.Getenv("INTEGRITY_CHECK_SCHEDULE"),
	}
}

// DSN returns BOOKYPEDIA_DB_URL when set, otherwise a URL built from the DB_* parts.
func (c Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.DBUser == "" || c.DBName == "" {
		return "", fmt.Errorf("database is not configured: set BOOKYPEDIA_DB_URL or DB_USER and DB_NAME")
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSslMode}}.Encode(),
	}
	return dsn.String(), nil
}

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
