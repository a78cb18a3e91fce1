// Package config loads environment configuration and the static user
// allow-list once at startup. The resulting Config is passed down explicitly;
// nothing here is consulted through globals after Load returns.
package config

import (
	"crypto/subtle"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Config holds everything the server and the CLI importer need.
type Config struct {
	DatabaseURL string
	Port        string
	// Users maps lowercased e-mail to its password entry. The entry is either
	// a plaintext password or a bcrypt hash ($2a$/$2b$/$2y$ prefix).
	Users map[string]string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Port:        getEnv("PORT", "8000"),
		Users:       ParseAllowedUsers(os.Getenv("ALLOWED_USERS")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	return cfg, nil
}

// ParseAllowedUsers parses the ALLOWED_USERS variable.
// Format: email1:senha1,email2:senha2 — entries without a colon are skipped.
func ParseAllowedUsers(raw string) map[string]string {
	users := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		email, senha, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		users[email] = strings.TrimSpace(senha)
	}
	return users
}

// HasUsers reports whether any login is configured at all.
func (c *Config) HasUsers() bool {
	return len(c.Users) > 0
}

// Authenticate checks an e-mail/password pair against the allow-list.
// It is a pure function of the loaded configuration.
func (c *Config) Authenticate(email, senha string) bool {
	stored, ok := c.Users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return false
	}
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(senha)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(senha)) == 1
}

// NewLogger builds the application logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger() *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
