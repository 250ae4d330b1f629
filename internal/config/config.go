// Package config loads server settings from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted in STORE.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port         int
	ClientOrigin string

	Store         string
	DBPath        string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	TokenTTL  time.Duration

	StripeSecretKey string
	Currency        string

	// GeneratedSecret is true when JWT_SECRET was unset and a random secret
	// was created for this process.
	GeneratedSecret bool
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a lookup function, applying defaults.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	cfg := &Config{
		ClientOrigin:    strings.TrimRight(get("CLIENT_ORIGIN", "http://localhost:3000"), "/"),
		Store:           strings.ToLower(get("STORE", StoreSQLite)),
		DBPath:          get("DB_PATH", "./data/shopboard.db"),
		MongoURI:        get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   get("MONGO_DATABASE", "shopboard"),
		JWTSecret:       get("JWT_SECRET", ""),
		StripeSecretKey: get("STRIPE_SECRET_KEY", ""),
		Currency:        strings.ToLower(get("CURRENCY", "usd")),
	}

	port, err := strconv.Atoi(get("PORT", "5000"))
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", get("PORT", ""))
	}
	cfg.Port = port

	if cfg.Store != StoreSQLite && cfg.Store != StoreMongo {
		return nil, fmt.Errorf("invalid STORE %q: must be %q or %q", cfg.Store, StoreSQLite, StoreMongo)
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", get("TOKEN_TTL", ""))
	}
	cfg.TokenTTL = ttl

	if cfg.JWTSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
		cfg.GeneratedSecret = true
	}

	return cfg, nil
}

// LogValue hides secrets when the config is logged.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("port", c.Port),
		slog.String("client_origin", c.ClientOrigin),
		slog.String("store", c.Store),
		slog.String("db_path", c.DBPath),
		slog.String("mongo_database", c.MongoDatabase),
		slog.Duration("token_ttl", c.TokenTTL),
		slog.Bool("stripe", c.StripeSecretKey != ""),
		slog.String("currency", c.Currency),
	)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate JWT secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
