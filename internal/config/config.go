package config

import (
	"os"
	"strings"
)

const (
	defaultPort        = "5000"
	defaultDatabaseURL = "mongodb://localhost:27017/registration"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	DatabaseURL string
	// SQLDriver selects the database/sql driver for postgres urls.
	SQLDriver  string
	CORSOrigin string
}

// Load reads configuration from environment variables.
func Load() Config {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		dbURL = defaultDatabaseURL
	}

	sqlDriver := strings.TrimSpace(os.Getenv("DATABASE_SQL_DRIVER"))
	if sqlDriver == "" {
		sqlDriver = "pgx"
	}

	origin := strings.TrimSpace(os.Getenv("CORS_ORIGIN"))
	if origin == "" {
		origin = "*"
	}

	return Config{
		Addr:        ":" + port,
		DatabaseURL: dbURL,
		SQLDriver:   sqlDriver,
		CORSOrigin:  origin,
	}
}
