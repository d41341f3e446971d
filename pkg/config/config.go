package config

import (
	"os"
	"time"
)

type AppConfig struct {
	Environment string
	Port        string

	DatabaseDriver string // "sqlite3" or "pgx"
	DatabaseDSN    string
	MigrationsPath string

	RedisAddr string

	OTLPEndpoint string
	MetricsPort  string

	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig

	EnforceHTTPS bool
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		Environment:    "development",
		Port:           "8080",
		DatabaseDriver: "sqlite3",
		DatabaseDSN:    "noteflow.db",
		MigrationsPath: "db/migrations/sqlite",
		OTLPEndpoint:   "localhost:4317",
		MetricsPort:    "9091",

		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"/signup": {
				Requests: 5,
				Window:   time.Minute,
			},
			"/auth": {
				Requests: 10,
				Window:   time.Minute,
			},
			"/tasks": {
				Requests: 100,
				Window:   time.Minute,
			},
			"/notes": {
				Requests: 100,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS: false,
	}
}

// FromEnv layers environment overrides on the defaults. DATABASE_URL
// switches the store to postgres over pgx.
func FromEnv() *AppConfig {
	cfg := GetDefaultConfig()

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseDriver = "pgx"
		cfg.DatabaseDSN = url
		cfg.MigrationsPath = "db/migrations/postgres"
	} else if path := os.Getenv("DATABASE_PATH"); path != "" {
		cfg.DatabaseDSN = path
	}

	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		cfg.MigrationsPath = path
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}

	if endpoint := os.Getenv("OTLP_ENDPOINT"); endpoint != "" {
		cfg.OTLPEndpoint = endpoint
	}

	if os.Getenv("GIN_MODE") == "release" {
		cfg.Environment = "production"
		cfg.EnforceHTTPS = true
	}

	return cfg
}
