package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables recognized by the client.
const (
	EnvAPIBaseURL   = "ORCHA_API_URL"
	EnvDatabasePath = "ORCHA_DB_PATH"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first, without overriding
// variables that are already set; a missing .env is not an error.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
}
