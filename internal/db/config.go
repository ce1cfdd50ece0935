package db

import (
	"fmt"
	"os"
)

// Config carries the Postgres connection settings. It is built once at
// startup and handed to NewLedgerStore; nothing in this package reads the
// environment after boot.
type Config struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrationsURL string
}

// ConfigFromEnv reads connection settings from the environment, falling
// back to local development defaults.
func ConfigFromEnv() Config {
	return Config{
		Host:          envOr("DB_HOST", "localhost"),
		Port:          envOr("DB_PORT", "5432"),
		User:          envOr("DB_USER", "postgres"),
		Password:      envOr("DB_PASSWORD", ""),
		Name:          envOr("DB_NAME", "rewards"),
		SSLMode:       envOr("DB_SSLMODE", "disable"),
		MigrationsURL: envOr("DB_MIGRATIONS_URL", "file://migrations"),
	}
}

// DSN renders the lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
