// Package config reads server settings from the environment.
// main loads .env (if present) with godotenv before calling Load.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port         string
	LogLevel     string
	DatabasePath string
	WordsDir     string // empty: use the embedded packs
	ClientOrigin string
	// SessionSecret signs the session cookie.
	SessionSecret string
	SessionTTL    time.Duration
	// ResetPINHash is a bcrypt hash guarding DELETE /progress. Empty disables the check.
	ResetPINHash string
	Production   bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:          getEnv("PORT", "5175"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabasePath:  getEnv("DB_PATH", "./data/wordzapp.db"),
		WordsDir:      os.Getenv("WORDS_DIR"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		SessionSecret: getEnv("SESSION_SECRET", "dev_secret_change_me"),
		SessionTTL:    time.Duration(getInt("SESSION_TTL_HOURS", 12)) * time.Hour,
		ResetPINHash:  os.Getenv("RESET_PIN_HASH"),
		Production:    os.Getenv("APP_ENV") == "production",
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getInt parses k as a positive integer, falling back to def.
func getInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
