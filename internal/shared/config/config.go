package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process configuration, sourced from the environment with
// an optional .env file for local runs.
type Config struct {
	Port           string
	SweepInterval  time.Duration
	PersistEnabled bool
}

// Load reads the environment (after merging .env if present) into a
// Config. Missing values fall back to defaults suitable for local use.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "3001"),
		SweepInterval:  time.Duration(getEnvAsInt("SWEEP_INTERVAL_MS", 1000)) * time.Millisecond,
		PersistEnabled: getEnv("PERSIST_ENABLED", "true") == "true",
	}
}

// BuildPostgresDSN assembles the snapshot-store connection string from
// the DB_* environment variables.
func BuildPostgresDSN() string {
	_ = godotenv.Load()
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
